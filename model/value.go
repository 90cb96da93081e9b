package model

import (
	"encoding/binary"
	"math/big"
	"math/bits"
	"strings"

	"github.com/pkg/errors"
)

var maxValue = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// Value is an unsigned 128-bit amount.
type Value struct {
	hi, lo uint64
}

func NewValue(v uint64) Value {
	return Value{lo: v}
}

// ValueFromBig converts b, failing with ErrValueOverflow when b is negative or does not fit 128 bits.
func ValueFromBig(b *big.Int) (Value, error) {
	if b == nil {
		return Value{}, errors.Wrap(ErrValueOverflow, "value is missing")
	}
	if b.Sign() < 0 || b.Cmp(maxValue) > 0 {
		return Value{}, errors.Wrapf(ErrValueOverflow, "value %s is outside [0, 2^128)", b.String())
	}
	var buf [ValueSize]byte
	b.FillBytes(buf[:])
	return Value{
		hi: binary.BigEndian.Uint64(buf[:8]),
		lo: binary.BigEndian.Uint64(buf[8:]),
	}, nil
}

// ParseValue parses a base 10 amount. Underscores may be used as digit separators.
func ParseValue(s string) (Value, error) {
	b, ok := new(big.Int).SetString(strings.ReplaceAll(strings.TrimSpace(s), "_", ""), 10)
	if !ok {
		return Value{}, errors.Errorf("invalid value %q", s)
	}
	return ValueFromBig(b)
}

// ValueFromLittleEndian reads the 16-byte little-endian wire form.
func ValueFromLittleEndian(b []byte) (Value, error) {
	if len(b) != ValueSize {
		return Value{}, malformed("value", ValueSize, len(b))
	}
	return Value{
		lo: binary.LittleEndian.Uint64(b[:8]),
		hi: binary.LittleEndian.Uint64(b[8:]),
	}, nil
}

// AppendLittleEndian appends the 16-byte little-endian wire form to data.
func (v Value) AppendLittleEndian(data []byte) []byte {
	data = binary.LittleEndian.AppendUint64(data, v.lo)
	return binary.LittleEndian.AppendUint64(data, v.hi)
}

// Add returns v+o, failing with ErrValueOverflow on wrap around.
func (v Value) Add(o Value) (Value, error) {
	lo, carry := bits.Add64(v.lo, o.lo, 0)
	hi, carry := bits.Add64(v.hi, o.hi, carry)
	if carry != 0 {
		return Value{}, errors.Wrapf(ErrValueOverflow, "%s + %s", v, o)
	}
	return Value{hi: hi, lo: lo}, nil
}

func (v Value) IsZero() bool {
	return v.hi == 0 && v.lo == 0
}

func (v Value) Big() *big.Int {
	b := new(big.Int).SetUint64(v.hi)
	b.Lsh(b, 64)
	return b.Or(b, new(big.Int).SetUint64(v.lo))
}

func (v Value) String() string {
	return v.Big().String()
}
