package main

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/urfave/cli/v2"
	"github.com/vocdoni/private-voting/api"
	"github.com/vocdoni/private-voting/api/client"
	"github.com/vocdoni/private-voting/log"
	"github.com/vocdoni/private-voting/tally"
	"github.com/vocdoni/private-voting/types"
)

// registerCmd posts the election file written by setup to a node.
func registerCmd(c *cli.Context) error {
	data, err := os.ReadFile(c.String("election"))
	if err != nil {
		return err
	}
	e := &api.NewElection{}
	if err := json.Unmarshal(data, e); err != nil {
		return fmt.Errorf("election file: %w", err)
	}
	if c.IsSet("max-votes") || e.MaxVotes == 0 {
		e.MaxVotes = c.Uint64("max-votes")
	}
	node, err := client.New(c.String("node"))
	if err != nil {
		return err
	}
	resp, err := node.NewElection(e)
	if err != nil {
		return err
	}
	color.Printf("Election: <suc>%s</>\n", resp.ElectionID)
	color.Printf("Fingerprint: <suc>%s</>\n", resp.Fingerprint)
	return nil
}

// shareCmd downloads the closed tally of an election, computes the decrypt
// share of the member and posts it back.
func shareCmd(c *cli.Context) error {
	m, err := loadMember(c.String("member"))
	if err != nil {
		return err
	}
	id, err := types.ParseElectionID(c.String("election"))
	if err != nil {
		return err
	}
	node, err := client.New(c.String("node"))
	if err != nil {
		return err
	}
	closed, err := node.Tally(id)
	if err != nil {
		return err
	}
	if closed.Status != types.ElectionStatusClosed.String() {
		return fmt.Errorf("election %s is %s, shares are only accepted once it is closed", id, closed.Status)
	}
	t, err := tally.Unmarshal(m.ElectionPublicKey().PublicKey().Curve(), closed.Tally)
	if err != nil {
		return fmt.Errorf("tally: %w", err)
	}
	ds, err := m.ProduceDecryptShares(rand.Reader, t)
	if err != nil {
		return err
	}
	resp, err := node.SubmitDecryptShare(id, ds.Marshal())
	if err != nil {
		return err
	}
	log.Infow("decrypt share sent", "member", m.Index(), "electionId", id.String(), "snapshot", ds.Snapshot.String())
	color.Printf("Shares: <suc>%d</> of %d\n", resp.Shares, resp.Threshold)
	if resp.Shares >= resp.Threshold {
		votes, err := node.Result(id)
		if err != nil {
			return err
		}
		color.Printf("Result: <suc>%v</>\n", votes)
	}
	return nil
}
