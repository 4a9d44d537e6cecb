// storage package contains all the artifacts that are stored in the database,
// but also is an abstraction of a queue for the processing of them by the
// sequencer. The storage package includes a prefixed key-value store that
// allows to store the different types of artifacts in the database. The
// following prefixes are used:
//   - 'e/' for elections
//   - 'b/' for pending ballots (queued)
//   - 'br/' for pending ballot reservations
//   - 'bs/' for the ids of ballots already seen
//   - 't/' for encrypted tallies
//   - 's/' for decrypt shares
//   - 'r/' for decrypted results
//
// Only the ballot prefix supports queue operations.
package storage

import (
	"errors"
	"sync"

	"github.com/vocdoni/private-voting/log"
	"go.vocdoni.io/dvote/db"
)

var (
	electionPrefix          = []byte("e/")
	ballotPrefix            = []byte("b/")
	ballotReservationPrefix = []byte("br/")
	ballotSeenPrefix        = []byte("bs/")
	tallyPrefix             = []byte("t/")
	sharePrefix             = []byte("s/")
	resultPrefix            = []byte("r/")
)

var (
	// ErrNotFound is returned when an artifact is not in the database.
	ErrNotFound = errors.New("not found")
	// ErrNoMoreElements is returned when a queue has no unreserved element.
	ErrNoMoreElements = errors.New("no more elements")
	// ErrAlreadyExists is returned when pushing an artifact twice.
	ErrAlreadyExists = errors.New("already exists")
	// ErrElectionNotOpen is returned when a ballot reaches a closed election.
	ErrElectionNotOpen = errors.New("election is not open")
	// ErrPendingBallots is returned when closing an election with queued ballots.
	ErrPendingBallots = errors.New("pending ballots")
)

const (
	// maxKeySize is the maximum size of the key in bytes. It is used to
	// generate the key of the artifacts stored in the database by truncating
	// the hash of the artifact itself.
	maxKeySize = 12
)

// Storage wraps the node database. Queue reservations and tally updates are
// serialized with a global lock.
type Storage struct {
	db         db.Database
	globalLock sync.Mutex
}

// New creates a new Storage instance. Ballot reservations left by a previous
// run are released.
func New(database db.Database) (*Storage, error) {
	s := &Storage{db: database}
	if err := s.clearReservations(ballotReservationPrefix); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the storage.
func (s *Storage) Close() {
	if err := s.db.Close(); err != nil {
		log.Warnw("failed to close database", "error", err.Error())
	}
}
