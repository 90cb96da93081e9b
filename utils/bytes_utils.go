package utils

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// BytesToHex renders bytes as 0x-prefixed lowercase hex.
func BytesToHex(bytes []byte) string {
	return "0x" + hex.EncodeToString(bytes)
}

// HexToBytes accepts hex with or without the 0x prefix.
func HexToBytes(str string) ([]byte, error) {
	str = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(str), "0x"), "0X")
	bytes, err := hex.DecodeString(str)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hex %q", str)
	}
	return bytes, nil
}

func Uint32ToBytes(i uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, i)
	return b
}

func Uint64ToBytes(i uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, i)
	return b
}

// compactLength is the SCALE compact form of a length, used to frame derivation inputs.
func compactLength(n int) []byte {
	switch {
	case n < 1<<6:
		return []byte{byte(n << 2)}
	case n < 1<<14:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(n<<2|0b01))
		return b
	default:
		return Uint32ToBytes(uint32(n<<2 | 0b10))
	}
}
