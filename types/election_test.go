package types

import (
	"encoding/json"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/fxamacker/cbor/v2"
)

func TestHexBytesJSON(t *testing.T) {
	c := qt.New(t)
	b := HexBytes{0x01, 0xab, 0xff}
	data, err := json.Marshal(b)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, `"01abff"`)

	var decoded HexBytes
	c.Assert(json.Unmarshal(data, &decoded), qt.IsNil)
	c.Assert(decoded, qt.DeepEquals, b)
	c.Assert(json.Unmarshal([]byte(`"0x01abff"`), &decoded), qt.IsNil)
	c.Assert(decoded, qt.DeepEquals, b)
	c.Assert(json.Unmarshal([]byte(`"zz"`), &decoded), qt.IsNotNil)
}

func TestElectionID(t *testing.T) {
	c := qt.New(t)
	id := NewElectionID()
	parsed, err := ParseElectionID(id.String())
	c.Assert(err, qt.IsNil)
	c.Assert(parsed, qt.Equals, id)
	c.Assert(id.Bytes(), qt.HasLen, 16)

	_, err = ParseElectionID("not-an-id")
	c.Assert(err, qt.IsNotNil)
}

func TestElectionEncoding(t *testing.T) {
	c := qt.New(t)
	e := &Election{
		ID:           NewElectionID(),
		Status:       ElectionStatusClosed,
		Curve:        "bn254",
		Options:      3,
		Threshold:    2,
		MaxVotes:     1000,
		PublicKey:    HexBytes{1, 2, 3},
		CRS:          HexBytes("crs"),
		PublicShares: map[int]HexBytes{1: {4}, 2: {5}},
		Fingerprint:  HexBytes{6},
		CreatedAt:    time.Unix(1700000000, 0).UTC(),
		Metadata: &Metadata{
			Title:   MultilingualString{"default": "Budget"},
			Choices: []MultilingualString{{"default": "a"}, {"default": "b"}, {"default": "c"}},
		},
		Result: []*BigInt{NewInt(1), NewInt(0), NewInt(7)},
	}

	data, err := json.Marshal(e)
	c.Assert(err, qt.IsNil)
	var fromJSON Election
	c.Assert(json.Unmarshal(data, &fromJSON), qt.IsNil)
	c.Assert(fromJSON.ID, qt.Equals, e.ID)
	c.Assert(fromJSON.PublicShares, qt.DeepEquals, e.PublicShares)
	c.Assert(fromJSON.Result[2].String(), qt.Equals, "7")

	data, err = cbor.Marshal(e)
	c.Assert(err, qt.IsNil)
	var fromCBOR Election
	c.Assert(cbor.Unmarshal(data, &fromCBOR), qt.IsNil)
	c.Assert(fromCBOR.ID, qt.Equals, e.ID)
	c.Assert(fromCBOR.Status, qt.Equals, ElectionStatusClosed)
	c.Assert(fromCBOR.CreatedAt.Equal(e.CreatedAt), qt.IsTrue)
	c.Assert(fromCBOR.Metadata, qt.DeepEquals, e.Metadata)
	c.Assert(ElectionStatusResults.String(), qt.Equals, "results")
}
