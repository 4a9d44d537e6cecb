package api

import (
	"github.com/vocdoni/private-voting/types"
)

// NewElection is the request to register an election whose key was generated
// by a committee. PublicKey accepts the bech32 or the hex encoding.
type NewElection struct {
	Curve        string                 `json:"curve,omitempty"`
	Options      int                    `json:"options"`
	Threshold    int                    `json:"threshold"`
	MaxVotes     uint64                 `json:"maxVotes,omitempty"`
	PublicKey    string                 `json:"publicKey"`
	CRS          types.HexBytes         `json:"crs"`
	PublicShares map[int]types.HexBytes `json:"publicShares"`
	Metadata     *types.Metadata        `json:"metadata,omitempty"`
}

// NewElectionResponse is the response to a new election request.
type NewElectionResponse struct {
	ElectionID  types.ElectionID `json:"electionId"`
	Fingerprint types.HexBytes   `json:"fingerprint"`
}

// ElectionList is the list of elections known by the node.
type ElectionList struct {
	Elections []types.ElectionID `json:"elections"`
}

// Ballot is an encrypted ballot cast by a voter. The weight defaults to one.
type Ballot struct {
	Ballot types.HexBytes `json:"ballot"`
	Weight *types.BigInt  `json:"weight,omitempty"`
}

// BallotResponse identifies a queued ballot.
type BallotResponse struct {
	BallotID string `json:"ballotId"`
}

// Tally is the encrypted tally of an election.
type Tally struct {
	Status       string         `json:"status"`
	Tally        types.HexBytes `json:"tally"`
	SnapshotHash types.HexBytes `json:"snapshotHash"`
	Ballots      uint64         `json:"ballots"`
	Pending      int            `json:"pending"`
}

// DecryptShare is the decrypt share of a committee member on the closed tally.
type DecryptShare struct {
	Share types.HexBytes `json:"share"`
}

// DecryptShareResponse reports the shares collected so far.
type DecryptShareResponse struct {
	Member    int `json:"member"`
	Shares    int `json:"shares"`
	Threshold int `json:"threshold"`
}

// Result is the decrypted tally, one count per option.
type Result struct {
	Votes []uint64 `json:"votes"`
}
