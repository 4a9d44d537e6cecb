package storage

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/private-voting/crypto/ecc"
	"github.com/vocdoni/private-voting/crypto/ecc/curves"
	"github.com/vocdoni/private-voting/tally"
	"github.com/vocdoni/private-voting/types"
	"github.com/vocdoni/private-voting/util"
	"github.com/vocdoni/private-voting/vote"
	"go.vocdoni.io/dvote/db/metadb"
)

func newTestElection(c *qt.C, stg *Storage) *types.Election {
	e := &types.Election{
		ID:           types.NewElectionID(),
		Curve:        curves.CurveTypeBN254,
		Options:      3,
		Threshold:    1,
		MaxVotes:     100,
		PublicKey:    types.HexBytes{1},
		CRS:          types.HexBytes("crs"),
		PublicShares: map[int]types.HexBytes{1: {2}},
		Fingerprint:  types.HexBytes{3},
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	c.Assert(stg.SetElection(e), qt.IsNil)
	return e
}

func TestElections(t *testing.T) {
	c := qt.New(t)
	stg, err := New(metadb.NewTest(t))
	c.Assert(err, qt.IsNil)

	e := newTestElection(c, stg)
	c.Assert(stg.SetElection(e), qt.ErrorIs, ErrAlreadyExists)

	got, err := stg.Election(e.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.ID, qt.Equals, e.ID)
	c.Assert(got.Options, qt.Equals, 3)
	c.Assert(got.PublicShares, qt.DeepEquals, e.PublicShares)
	c.Assert(got.Status, qt.Equals, types.ElectionStatusOpen)

	_, err = stg.Election(types.NewElectionID())
	c.Assert(err, qt.ErrorIs, ErrNotFound)

	other := newTestElection(c, stg)
	ids, err := stg.ListElections()
	c.Assert(err, qt.IsNil)
	c.Assert(ids, qt.HasLen, 2)
	c.Assert(ids, qt.Contains, other.ID)

	c.Assert(stg.SetElectionStatus(e.ID, types.ElectionStatusClosed), qt.IsNil)
	c.Assert(stg.SetElectionStatus(e.ID, types.ElectionStatusOpen), qt.IsNotNil)
	got, err = stg.Election(e.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Status, qt.Equals, types.ElectionStatusClosed)
}

func TestBallotQueue(t *testing.T) {
	c := qt.New(t)
	database := metadb.NewTest(t)
	stg, err := New(database)
	c.Assert(err, qt.IsNil)

	id1, id2 := types.NewElectionID(), types.NewElectionID()
	pushed := map[string]bool{}
	for i, b := range []*Ballot{
		{ElectionID: id1, Weight: 1, Data: []byte("ballot 1")},
		{ElectionID: id1, Weight: 2, Data: []byte("ballot 2")},
		{ElectionID: id2, Weight: 1, Data: []byte("ballot 3")},
	} {
		b.ReceivedAt = time.Now().UTC()
		key, err := stg.PushBallot(b)
		c.Assert(err, qt.IsNil, qt.Commentf("ballot %d", i))
		c.Assert(key, qt.DeepEquals, BallotKey(b))
		pushed[BallotID(key)] = true
	}
	_, err = stg.PushBallot(&Ballot{ElectionID: id1, Weight: 5, Data: []byte("ballot 1")})
	c.Assert(err, qt.ErrorIs, ErrAlreadyExists)
	c.Assert(stg.CountPendingBallots(id1), qt.Equals, 2)
	c.Assert(stg.CountPendingBallots(id2), qt.Equals, 1)

	var keys [][]byte
	for range 3 {
		b, key, err := stg.NextBallot()
		c.Assert(err, qt.IsNil)
		c.Assert(pushed[BallotID(key)], qt.IsTrue)
		c.Assert(key, qt.DeepEquals, BallotKey(b))
		delete(pushed, BallotID(key))
		keys = append(keys, key)
	}
	_, _, err = stg.NextBallot()
	c.Assert(err, qt.ErrorIs, ErrNoMoreElements)

	// a released ballot is handed out again
	c.Assert(stg.ReleaseBallot(keys[0]), qt.IsNil)
	_, key, err := stg.NextBallot()
	c.Assert(err, qt.IsNil)
	c.Assert(key, qt.DeepEquals, keys[0])

	c.Assert(stg.MarkBallotDone(keys[0]), qt.IsNil)
	c.Assert(stg.CountPendingBallots(id1)+stg.CountPendingBallots(id2), qt.Equals, 2)

	// reservations do not survive a restart
	stg, err = New(database)
	c.Assert(err, qt.IsNil)
	_, _, err = stg.NextBallot()
	c.Assert(err, qt.IsNil)

	// a processed ballot cannot be queued again
	_, err = stg.PushBallot(&Ballot{ElectionID: id1, Data: []byte("ballot 1")})
	c.Assert(err, qt.ErrorIs, ErrAlreadyExists)
}

func TestTallyPersistence(t *testing.T) {
	c := qt.New(t)
	stg, err := New(metadb.NewTest(t))
	c.Assert(err, qt.IsNil)
	curve := curves.New(curves.CurveTypeBN254)
	e := newTestElection(c, stg)

	encrypted, err := tally.New(curve, e.Options, vote.Fingerprint{3})
	c.Assert(err, qt.IsNil)
	c.Assert(stg.SetTally(e.ID, encrypted, 0), qt.IsNil)

	got, ballots, err := stg.Tally(e.ID, curve)
	c.Assert(err, qt.IsNil)
	c.Assert(ballots, qt.Equals, uint64(0))
	c.Assert(got.SnapshotHash(), qt.Equals, encrypted.SnapshotHash())

	_, _, err = stg.Tally(types.NewElectionID(), curve)
	c.Assert(err, qt.ErrorIs, ErrNotFound)

	key, err := stg.PushBallot(&Ballot{ElectionID: e.ID, Weight: 1, Data: []byte("b")})
	c.Assert(err, qt.IsNil)
	_, key2, err := stg.NextBallot()
	c.Assert(err, qt.IsNil)
	c.Assert(key2, qt.DeepEquals, key)
	c.Assert(stg.CommitBallot(key, e.ID, encrypted, 1), qt.IsNil)
	c.Assert(stg.CountPendingBallots(e.ID), qt.Equals, 0)
	stored, err := stg.Election(e.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.Ballots, qt.Equals, uint64(1))

	c.Assert(stg.SetElectionStatus(e.ID, types.ElectionStatusClosed), qt.IsNil)
	c.Assert(stg.CommitBallot(key, e.ID, encrypted, 2), qt.ErrorIs, ErrElectionNotOpen)

	// decrypt shares, one per member
	rng := util.NewSeededReader([]byte("storage shares"))
	for _, member := range []int{2, 1, 2} {
		secret, err := ecc.RandomScalar(rng, curve)
		c.Assert(err, qt.IsNil)
		ds, err := tally.NewDecryptShare(rng, encrypted, member, secret)
		c.Assert(err, qt.IsNil)
		c.Assert(stg.SetDecryptShare(e.ID, ds), qt.IsNil)
	}
	shares, err := stg.DecryptShares(e.ID, curve)
	c.Assert(err, qt.IsNil)
	c.Assert(shares, qt.HasLen, 2)
	c.Assert(shares[0].MemberIndex, qt.Equals, 1)
	c.Assert(shares[1].MemberIndex, qt.Equals, 2)
	c.Assert(shares[0].Snapshot, qt.Equals, encrypted.SnapshotHash())

	_, err = stg.Result(e.ID)
	c.Assert(err, qt.ErrorIs, ErrNotFound)
	c.Assert(stg.SetResult(e.ID, &tally.DecryptedTally{Votes: []uint64{3, 0, 1}}), qt.IsNil)
	result, err := stg.Result(e.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(result.Votes, qt.DeepEquals, []uint64{3, 0, 1})
	stored, err = stg.Election(e.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.Status, qt.Equals, types.ElectionStatusResults)
	c.Assert(stored.Result, qt.HasLen, 3)
	c.Assert(stored.Result[0].String(), qt.Equals, "3")
}

func TestCloseElection(t *testing.T) {
	c := qt.New(t)
	stg, err := New(metadb.NewTest(t))
	c.Assert(err, qt.IsNil)
	e := newTestElection(c, stg)

	key, err := stg.PushBallot(&Ballot{ElectionID: e.ID, Weight: 1, Data: []byte("queued")})
	c.Assert(err, qt.IsNil)
	c.Assert(stg.CloseElection(e.ID), qt.ErrorIs, ErrPendingBallots)

	c.Assert(stg.MarkBallotDone(key), qt.IsNil)
	c.Assert(stg.CloseElection(e.ID), qt.IsNil)
	c.Assert(stg.CloseElection(e.ID), qt.ErrorIs, ErrElectionNotOpen)
	c.Assert(stg.CloseElection(types.NewElectionID()), qt.ErrorIs, ErrNotFound)

	_, err = stg.PushBallot(&Ballot{ElectionID: e.ID, Weight: 1, Data: []byte("late")})
	c.Assert(err, qt.ErrorIs, ErrElectionNotOpen)
}
