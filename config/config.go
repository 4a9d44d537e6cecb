package config

import "time"

const (
	// DefaultCurve is the curve used for new elections when none is given.
	DefaultCurve = "bn254"
	// DefaultMaxVotes bounds the baby-step giant-step search of each option
	// count when an election does not set its own limit.
	DefaultMaxVotes = 1 << 20
	// DefaultSequencerInterval is the tick of the ballot processing loop.
	DefaultSequencerInterval = 2 * time.Second
	// DefaultAPIHost and DefaultAPIPort are the HTTP listen address.
	DefaultAPIHost = "0.0.0.0"
	DefaultAPIPort = 9090
	// DefaultDBType is the key-value backend of the node storage.
	DefaultDBType = "pebble"
	// DefaultDatadir is the node data directory, relative to the user home.
	DefaultDatadir = ".private-voting"
	// ElectionPublicKeyHRP is the bech32 prefix of election public keys.
	ElectionPublicKeyHRP = "p256k1_votepk"
	// MaxOptions is the largest option count accepted for an election.
	MaxOptions = 1 << 16
	// MaxVotesLimit is the largest maximum vote count an election may set.
	// The tally decryption keeps about sqrt(MaxVotes) points in memory per
	// option.
	MaxVotesLimit = 1 << 32
)
