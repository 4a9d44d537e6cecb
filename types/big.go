package types

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// BigInt is a big.Int wrapper which marshals JSON to a decimal string, so no
// precision is lost in javascript clients.
type BigInt big.Int

// NewInt returns a BigInt holding x.
func NewInt(x uint64) *BigInt {
	return (*BigInt)(new(big.Int).SetUint64(x))
}

// MarshalText implements encoding.TextMarshaler.
func (i *BigInt) MarshalText() ([]byte, error) {
	return (*big.Int)(i).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *BigInt) UnmarshalText(data []byte) error {
	if _, ok := (*big.Int)(i).SetString(string(data), 0); !ok {
		return fmt.Errorf("invalid integer %q", data)
	}
	return nil
}

// MarshalCBOR implements cbor.Marshaler.
func (i *BigInt) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal((*big.Int)(i))
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (i *BigInt) UnmarshalCBOR(data []byte) error {
	v := new(big.Int)
	if err := cbor.Unmarshal(data, v); err != nil {
		return err
	}
	(*big.Int)(i).Set(v)
	return nil
}

// Equal reports whether both integers hold the same value. Two nil values
// are equal.
func (i *BigInt) Equal(j *BigInt) bool {
	if i == nil || j == nil {
		return i == j
	}
	return i.MathBigInt().Cmp(j.MathBigInt()) == 0
}

// MathBigInt returns the underlying big.Int.
func (i *BigInt) MathBigInt() *big.Int {
	return (*big.Int)(i)
}

// Uint64 returns the value as uint64 and whether it fits.
func (i *BigInt) Uint64() (uint64, bool) {
	b := i.MathBigInt()
	return b.Uint64(), b.IsUint64()
}

func (i *BigInt) String() string {
	return i.MathBigInt().String()
}
