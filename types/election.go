package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ElectionID identifies an election inside a node.
type ElectionID uuid.UUID

// NewElectionID returns a random election id.
func NewElectionID() ElectionID {
	return ElectionID(uuid.New())
}

// ParseElectionID parses the canonical string form of an election id.
func ParseElectionID(s string) (ElectionID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ElectionID{}, fmt.Errorf("invalid election id %q: %w", s, err)
	}
	return ElectionID(id), nil
}

func (id ElectionID) String() string {
	return uuid.UUID(id).String()
}

// Bytes returns the 16 bytes of the id, used as storage key.
func (id ElectionID) Bytes() []byte {
	return id[:]
}

// MarshalText implements encoding.TextMarshaler.
func (id ElectionID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ElectionID) UnmarshalText(data []byte) error {
	parsed, err := ParseElectionID(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ElectionStatus is the lifecycle state of an election.
type ElectionStatus uint8

const (
	// ElectionStatusOpen accepts ballots.
	ElectionStatusOpen ElectionStatus = iota
	// ElectionStatusClosed no longer accepts ballots; the tally is frozen and
	// waits for decrypt shares.
	ElectionStatusClosed
	// ElectionStatusResults has a decrypted result.
	ElectionStatusResults
)

func (s ElectionStatus) String() string {
	switch s {
	case ElectionStatusOpen:
		return "open"
	case ElectionStatusClosed:
		return "closed"
	case ElectionStatusResults:
		return "results"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

type MultilingualString map[string]string

// Metadata is the human readable description of an election. Choices are
// listed in option order.
type Metadata struct {
	Title       MultilingualString   `json:"title,omitempty"       cbor:"0,keyasint,omitempty"`
	Description MultilingualString   `json:"description,omitempty" cbor:"1,keyasint,omitempty"`
	Choices     []MultilingualString `json:"choices,omitempty"     cbor:"2,keyasint,omitempty"`
}

// Election is the setup of an election as stored by a node.
type Election struct {
	ID           ElectionID       `json:"electionId"             cbor:"0,keyasint"`
	Status       ElectionStatus   `json:"status"                 cbor:"1,keyasint,omitempty"`
	Curve        string           `json:"curve"                  cbor:"2,keyasint"`
	Options      int              `json:"options"                cbor:"3,keyasint"`
	Threshold    int              `json:"threshold"              cbor:"4,keyasint"`
	MaxVotes     uint64           `json:"maxVotes"               cbor:"5,keyasint"`
	PublicKey    HexBytes         `json:"publicKey"              cbor:"6,keyasint"`
	CRS          HexBytes         `json:"crs"                    cbor:"7,keyasint"`
	PublicShares map[int]HexBytes `json:"publicShares"           cbor:"8,keyasint"`
	Fingerprint  HexBytes         `json:"fingerprint"            cbor:"9,keyasint"`
	CreatedAt    time.Time        `json:"createdAt"              cbor:"10,keyasint"`
	Metadata     *Metadata        `json:"metadata,omitempty"     cbor:"11,keyasint,omitempty"`
	Ballots      uint64           `json:"ballots"                cbor:"12,keyasint,omitempty"`
	Result       []*BigInt        `json:"result,omitempty"       cbor:"13,keyasint,omitempty"`
}

func (e *Election) String() string {
	data, err := json.Marshal(e)
	if err != nil {
		return ""
	}
	return string(data)
}
