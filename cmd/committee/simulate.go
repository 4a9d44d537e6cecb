package main

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/gookit/color"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"github.com/vocdoni/private-voting/committee"
	"github.com/vocdoni/private-voting/crypto/ecc/curves"
	"github.com/vocdoni/private-voting/tally"
	"github.com/vocdoni/private-voting/util"
	"github.com/vocdoni/private-voting/vote"
)

// simulateCmd casts random ballots, checks their proofs, accumulates them and
// decrypts the tally with the first threshold members.
func simulateCmd(c *cli.Context) error {
	curveType := c.String("curve")
	if !curves.IsValid(curveType) {
		return fmt.Errorf("unsupported curve %q", curveType)
	}
	options, voters, threshold := c.Int("options"), c.Int("voters"), c.Int("threshold")
	if options < 1 || voters < 0 {
		return fmt.Errorf("invalid options or voters")
	}
	start := time.Now()
	m, err := committee.NewCommitteeMembersManager(rand.Reader, curves.New(curveType), util.RandomBytes(32), threshold, c.Int("members"))
	if err != nil {
		return err
	}
	color.Printf("Committee: <suc>%d-of-%d</> on %s (%s)\n", threshold, len(m.Members()), curveType, time.Since(start))
	pk := m.ElectionPublicKey().PublicKey()
	fp := m.Fingerprint()
	t, err := tally.New(pk.Curve(), options, fp)
	if err != nil {
		return err
	}

	expected := make([]uint64, options)
	bar := progressbar.Default(int64(voters), "ballots")
	for i := 0; i < voters; i++ {
		choice := util.RandomInt(0, options)
		u, err := vote.NewUnitVector(options, choice)
		if err != nil {
			return err
		}
		ev, err := vote.Prepare(rand.Reader, pk, u)
		if err != nil {
			return err
		}
		b, err := ev.Ballot(rand.Reader, m.CommitmentKey(), fp)
		if err != nil {
			return err
		}
		if err := b.Verify(pk, m.CommitmentKey(), fp, options); err != nil {
			return fmt.Errorf("ballot %d: %w", i, err)
		}
		if err := t.AddVote(b, 1); err != nil {
			return err
		}
		expected[choice]++
		if err := bar.Add(1); err != nil {
			return err
		}
	}

	members := make([]int, threshold)
	for i := range members {
		members[i] = i + 1
	}
	start = time.Now()
	result, err := m.Decrypt(rand.Reader, t, uint64(voters), members...)
	if err != nil {
		return err
	}
	fmt.Printf("\nDecrypted with members %v in %s\n", members, time.Since(start))
	ok := true
	for i, v := range result.Votes {
		if v != expected[i] {
			ok = false
			color.Printf("option %d: <error>%d</> (expected %d)\n", i, v, expected[i])
			continue
		}
		color.Printf("option %d: <suc>%d</>\n", i, v)
	}
	if !ok {
		return fmt.Errorf("decrypted tally does not match the cast ballots")
	}
	color.Printf("<suc>OK</>\n")
	return nil
}
