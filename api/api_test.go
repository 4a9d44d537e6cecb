package api_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/private-voting/api"
	"github.com/vocdoni/private-voting/api/client"
	"github.com/vocdoni/private-voting/committee"
	"github.com/vocdoni/private-voting/config"
	"github.com/vocdoni/private-voting/crypto/ecc/curves"
	"github.com/vocdoni/private-voting/sequencer"
	"github.com/vocdoni/private-voting/storage"
	"github.com/vocdoni/private-voting/tally"
	"github.com/vocdoni/private-voting/types"
	"github.com/vocdoni/private-voting/util"
	"github.com/vocdoni/private-voting/vote"
	"go.vocdoni.io/dvote/db/metadb"
)

func apiCode(err error) int {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

func newTestNode(t *testing.T) (*storage.Storage, *client.HTTPclient) {
	c := qt.New(t)
	stg, err := storage.New(metadb.NewTest(t))
	c.Assert(err, qt.IsNil)
	a, err := api.New(&api.APIConfig{Host: "127.0.0.1", Port: 0, Storage: stg})
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.Stop(ctx)
	})
	cli, err := client.New("http://" + a.Addr().String())
	c.Assert(err, qt.IsNil)
	cli.SetRetries(1)
	return stg, cli
}

func electionRequest(c *qt.C, m *committee.CommitteeMembersManager, options int) *api.NewElection {
	pk, err := m.ElectionPublicKey().Bech32(config.ElectionPublicKeyHRP)
	c.Assert(err, qt.IsNil)
	shares := map[int]types.HexBytes{}
	for idx, p := range m.PublicShares() {
		shares[idx] = p.Marshal()
	}
	return &api.NewElection{
		Curve:        curves.CurveTypeBN254,
		Options:      options,
		Threshold:    m.Threshold(),
		MaxVotes:     1000,
		PublicKey:    pk,
		CRS:          m.CRS(),
		PublicShares: shares,
	}
}

func encodeBallot(c *qt.C, m *committee.CommitteeMembersManager, fp vote.Fingerprint, options, choice int, seed string) []byte {
	rng := util.NewSeededReader([]byte(seed))
	u, err := vote.NewUnitVector(options, choice)
	c.Assert(err, qt.IsNil)
	ev, err := vote.Prepare(rng, m.ElectionPublicKey().PublicKey(), u)
	c.Assert(err, qt.IsNil)
	b, err := ev.Ballot(rng, m.CommitmentKey(), fp)
	c.Assert(err, qt.IsNil)
	return b.Marshal()
}

func TestElectionLifecycle(t *testing.T) {
	c := qt.New(t)
	stg, cli := newTestNode(t)
	curve := curves.New(curves.CurveTypeBN254)
	rng := util.NewSeededReader([]byte("api lifecycle"))
	m, err := committee.NewCommitteeMembersManager(rng, curve, []byte("api crs"), 2, 3)
	c.Assert(err, qt.IsNil)

	resp, err := cli.NewElection(electionRequest(c, m, 3))
	c.Assert(err, qt.IsNil)
	fp := m.Fingerprint()
	c.Assert([]byte(resp.Fingerprint), qt.DeepEquals, fp[:])
	id := resp.ElectionID

	e, err := cli.Election(id)
	c.Assert(err, qt.IsNil)
	c.Assert(e.Status, qt.Equals, types.ElectionStatusOpen)
	c.Assert(e.PublicShares, qt.HasLen, 3)

	// ballots: [0, 0, 1, 2] with weights [1, 1, 3, 1]
	for i, choice := range []int{0, 0, 1, 2} {
		weight := uint64(1)
		if choice == 1 {
			weight = 3
		}
		_, err := cli.SubmitBallot(id, encodeBallot(c, m, fp, 3, choice, fmt.Sprintf("voter %d", i)), weight)
		c.Assert(err, qt.IsNil)
	}
	dup := encodeBallot(c, m, fp, 3, 0, "voter 0")
	_, err = cli.SubmitBallot(id, dup, 1)
	c.Assert(apiCode(err), qt.Equals, api.ErrBallotAlreadyExists.Code)
	_, err = cli.SubmitBallot(id, []byte("garbage"), 1)
	c.Assert(apiCode(err), qt.Equals, api.ErrInvalidBallot.Code)
	_, err = cli.SubmitBallot(id, encodeBallot(c, m, vote.Fingerprint{7}, 3, 0, "other election"), 1)
	c.Assert(apiCode(err), qt.Equals, api.ErrWrongElection.Code)
	_, err = cli.SubmitBallot(id, encodeBallot(c, m, fp, 3, 0, "no weight"), 0)
	c.Assert(apiCode(err), qt.Equals, api.ErrInvalidWeight.Code)

	_, err = cli.Result(id)
	c.Assert(apiCode(err), qt.Equals, api.ErrElectionNotClosed.Code)

	seq, err := sequencer.New(stg, 10*time.Millisecond)
	c.Assert(err, qt.IsNil)
	c.Assert(seq.Start(context.Background()), qt.IsNil)
	defer func() { c.Assert(seq.Stop(), qt.IsNil) }()

	var closed *api.Tally
	deadline := time.Now().Add(30 * time.Second)
	for {
		closed, err = cli.CloseElection(id)
		if apiCode(err) != api.ErrPendingBallots.Code || time.Now().After(deadline) {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	c.Assert(err, qt.IsNil)
	c.Assert(closed.Status, qt.Equals, "closed")
	c.Assert(closed.Ballots, qt.Equals, uint64(4))
	c.Assert(closed.Pending, qt.Equals, 0)

	_, err = cli.SubmitBallot(id, encodeBallot(c, m, fp, 3, 2, "late voter"), 1)
	c.Assert(apiCode(err), qt.Equals, api.ErrElectionNotOpen.Code)
	_, err = cli.CloseElection(id)
	c.Assert(apiCode(err), qt.Equals, api.ErrElectionNotOpen.Code)

	encrypted, err := tally.Unmarshal(curve, closed.Tally)
	c.Assert(err, qt.IsNil)
	snapshot := encrypted.SnapshotHash()
	c.Assert([]byte(closed.SnapshotHash), qt.DeepEquals, snapshot[:])

	// a share on another snapshot is refused
	empty, err := tally.New(curve, 3, fp)
	c.Assert(err, qt.IsNil)
	stale, err := m.Member(1).ProduceDecryptShares(rng, empty)
	c.Assert(err, qt.IsNil)
	_, err = cli.SubmitDecryptShare(id, stale.Marshal())
	c.Assert(apiCode(err), qt.Equals, api.ErrStaleTallySnapshot.Code)
	_, err = cli.SubmitDecryptShare(id, []byte{1, 2, 3})
	c.Assert(apiCode(err), qt.Equals, api.ErrInvalidDecryptShare.Code)

	share1, err := m.Member(1).ProduceDecryptShares(rng, encrypted)
	c.Assert(err, qt.IsNil)
	sr, err := cli.SubmitDecryptShare(id, share1.Marshal())
	c.Assert(err, qt.IsNil)
	c.Assert(sr.Shares, qt.Equals, 1)
	c.Assert(sr.Threshold, qt.Equals, 2)

	_, err = cli.Result(id)
	c.Assert(apiCode(err), qt.Equals, api.ErrInsufficientShares.Code)

	share3, err := m.Member(3).ProduceDecryptShares(rng, encrypted)
	c.Assert(err, qt.IsNil)
	sr, err = cli.SubmitDecryptShare(id, share3.Marshal())
	c.Assert(err, qt.IsNil)
	c.Assert(sr.Shares, qt.Equals, 2)

	votes, err := cli.Result(id)
	c.Assert(err, qt.IsNil)
	c.Assert(votes, qt.DeepEquals, []uint64{2, 3, 1})

	// the stored result is served afterwards
	votes, err = cli.Result(id)
	c.Assert(err, qt.IsNil)
	c.Assert(votes, qt.DeepEquals, []uint64{2, 3, 1})
	e, err = cli.Election(id)
	c.Assert(err, qt.IsNil)
	c.Assert(e.Status, qt.Equals, types.ElectionStatusResults)
	c.Assert(e.Ballots, qt.Equals, uint64(4))
}

func TestNewElectionValidation(t *testing.T) {
	c := qt.New(t)
	_, cli := newTestNode(t)
	curve := curves.New(curves.CurveTypeBN254)
	m, err := committee.NewCommitteeMembersManager(util.NewSeededReader([]byte("validation")), curve, []byte("crs"), 2, 3)
	c.Assert(err, qt.IsNil)
	other, err := committee.NewCommitteeMembersManager(util.NewSeededReader([]byte("other")), curve, []byte("crs"), 2, 3)
	c.Assert(err, qt.IsNil)

	c.Run("threshold above committee size", func(c *qt.C) {
		req := electionRequest(c, m, 3)
		req.Threshold = 4
		_, err := cli.NewElection(req)
		c.Assert(apiCode(err), qt.Equals, api.ErrInvalidElectionSetup.Code)
	})
	c.Run("shares of another committee", func(c *qt.C) {
		req := electionRequest(c, m, 3)
		req.PublicShares = electionRequest(c, other, 3).PublicShares
		_, err := cli.NewElection(req)
		c.Assert(apiCode(err), qt.Equals, api.ErrInvalidElectionSetup.Code)
	})
	c.Run("no options", func(c *qt.C) {
		_, err := cli.NewElection(electionRequest(c, m, 0))
		c.Assert(apiCode(err), qt.Equals, api.ErrInvalidElectionSetup.Code)
	})
	c.Run("max votes above limit", func(c *qt.C) {
		req := electionRequest(c, m, 3)
		req.MaxVotes = config.MaxVotesLimit + 1
		_, err := cli.NewElection(req)
		c.Assert(apiCode(err), qt.Equals, api.ErrInvalidElectionSetup.Code)
	})
	c.Run("unknown curve", func(c *qt.C) {
		req := electionRequest(c, m, 3)
		req.Curve = "secp256k1"
		_, err := cli.NewElection(req)
		c.Assert(apiCode(err), qt.Equals, api.ErrInvalidElectionSetup.Code)
	})
	c.Run("hex public key", func(c *qt.C) {
		req := electionRequest(c, m, 3)
		req.PublicKey = types.HexBytes(m.ElectionPublicKey().Bytes()).String()
		resp, err := cli.NewElection(req)
		c.Assert(err, qt.IsNil)
		fp := m.Fingerprint()
		c.Assert([]byte(resp.Fingerprint), qt.DeepEquals, fp[:])
	})
	c.Run("unknown election", func(c *qt.C) {
		_, err := cli.Election(types.NewElectionID())
		c.Assert(apiCode(err), qt.Equals, api.ErrElectionNotFound.Code)
		_, status, err := cli.Request(client.HTTPGET, nil, nil, api.ElectionPath(api.TallyEndpoint, "not-an-id"))
		c.Assert(err, qt.IsNil)
		c.Assert(status, qt.Equals, api.ErrMalformedElectionID.HTTPstatus)
	})
}
