package main

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"github.com/gookit/color"
	"github.com/urfave/cli/v2"
	"github.com/vocdoni/private-voting/api"
	"github.com/vocdoni/private-voting/committee"
	"github.com/vocdoni/private-voting/config"
	"github.com/vocdoni/private-voting/crypto/ecc/curves"
	"github.com/vocdoni/private-voting/log"
	"github.com/vocdoni/private-voting/tally"
	"github.com/vocdoni/private-voting/types"
)

const electionFile = "election.json"

func memberFile(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("member-%d.cbor", index))
}

func setupCmd(c *cli.Context) error {
	curveType := c.String("curve")
	if !curves.IsValid(curveType) {
		return fmt.Errorf("unsupported curve %q", curveType)
	}
	crs, err := types.HexStringToHexBytes(c.String("crs"))
	if err != nil {
		return fmt.Errorf("crs: %w", err)
	}
	m, err := committee.NewCommitteeMembersManager(rand.Reader, curves.New(curveType), crs, c.Int("threshold"), c.Int("members"))
	if err != nil {
		return err
	}
	out := c.String("out")
	if err := os.MkdirAll(out, 0o700); err != nil {
		return err
	}
	for _, member := range m.Members() {
		data, err := cbor.Marshal(member)
		if err != nil {
			return fmt.Errorf("encode member %d: %w", member.Index(), err)
		}
		if err := os.WriteFile(memberFile(out, member.Index()), data, 0o600); err != nil {
			return err
		}
	}

	pk, err := m.ElectionPublicKey().Bech32(committee.ElectionPublicKeyHRP)
	if err != nil {
		return err
	}
	e := &api.NewElection{
		Curve:        curveType,
		Options:      c.Int("options"),
		Threshold:    m.Threshold(),
		PublicKey:    pk,
		CRS:          crs,
		PublicShares: make(map[int]types.HexBytes),
	}
	for idx, p := range m.PublicShares() {
		e.PublicShares[idx] = p.Marshal()
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(out, electionFile), data, 0o644); err != nil {
		return err
	}
	log.Infow("committee setup done", "members", len(m.Members()), "threshold", m.Threshold(), "out", out)
	color.Printf("Election key: <suc>%s</>\n", pk)
	color.Printf("Fingerprint:  <suc>%s</>\n", m.Fingerprint())
	return nil
}

func loadMember(path string) (*committee.MemberState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := &committee.MemberState{}
	if err := cbor.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("member file %s: %w", path, err)
	}
	return m, nil
}

func decryptCmd(c *cli.Context) error {
	m, err := loadMember(c.String("member"))
	if err != nil {
		return err
	}
	raw, err := types.HexStringToHexBytes(c.String("tally"))
	if err != nil {
		return fmt.Errorf("tally: %w", err)
	}
	t, err := tally.Unmarshal(m.ElectionPublicKey().PublicKey().Curve(), raw)
	if err != nil {
		return fmt.Errorf("tally: %w", err)
	}
	ds, err := m.ProduceDecryptShares(rand.Reader, t)
	if err != nil {
		return err
	}
	log.Infow("decrypt share computed", "member", m.Index(), "snapshot", ds.Snapshot.String())
	fmt.Println(types.HexBytes(ds.Marshal()).String())
	return nil
}

func pubkeyCmd(c *cli.Context) error {
	data, err := os.ReadFile(c.String("election"))
	if err != nil {
		return err
	}
	e := &api.NewElection{}
	if err := json.Unmarshal(data, e); err != nil {
		return fmt.Errorf("election file: %w", err)
	}
	if e.Curve == "" {
		e.Curve = config.DefaultCurve
	}
	if !curves.IsValid(e.Curve) {
		return fmt.Errorf("unsupported curve %q", e.Curve)
	}
	key, err := committee.ParseElectionPublicKey(curves.New(e.Curve), e.PublicKey)
	if err != nil {
		return err
	}
	fmt.Println(key.String())
	return nil
}
