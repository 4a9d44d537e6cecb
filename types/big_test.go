package types

import (
	"encoding/json"
	"math"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/fxamacker/cbor/v2"
)

func TestResultEncoding(t *testing.T) {
	c := qt.New(t)
	result := []*BigInt{NewInt(0), NewInt(42), NewInt(math.MaxUint64)}

	data, err := json.Marshal(result)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, `["0","42","18446744073709551615"]`)
	var fromJSON []*BigInt
	c.Assert(json.Unmarshal(data, &fromJSON), qt.IsNil)
	c.Assert(fromJSON, qt.DeepEquals, result)

	data, err = cbor.Marshal(result)
	c.Assert(err, qt.IsNil)
	var fromCBOR []*BigInt
	c.Assert(cbor.Unmarshal(data, &fromCBOR), qt.IsNil)
	c.Assert(fromCBOR, qt.DeepEquals, result)

	v, ok := fromCBOR[2].Uint64()
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, uint64(math.MaxUint64))

	var bad []*BigInt
	c.Assert(json.Unmarshal([]byte(`["seven"]`), &bad), qt.IsNotNil)
}

func TestBigIntEqual(t *testing.T) {
	c := qt.New(t)
	c.Assert(NewInt(7).Equal(NewInt(7)), qt.IsTrue)
	c.Assert(NewInt(7).Equal(NewInt(8)), qt.IsFalse)
	c.Assert(NewInt(0).Equal(nil), qt.IsFalse)
	var none *BigInt
	c.Assert(none.Equal(nil), qt.IsTrue)

	// hex input is accepted, output is always decimal
	var parsed BigInt
	c.Assert(parsed.UnmarshalText([]byte("0x2a")), qt.IsNil)
	c.Assert(parsed.String(), qt.Equals, "42")
	c.Assert(parsed.Equal(NewInt(42)), qt.IsTrue)
}
