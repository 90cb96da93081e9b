package utils

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/Luismorlan/utxo_signer/model"
)

const (
	// Every sequence is prefixed by its length as a little-endian uint32.
	countPrefixSize = 4
	inputSize       = model.OutpointSize + model.SigScriptSize
	outputSize      = model.ValueSize + model.PublicKeySize
)

// EncodedSize returns the length of the canonical encoding of a transaction
// with the given number of inputs and outputs.
func EncodedSize(inputs, outputs int) int {
	return countPrefixSize + inputs*inputSize + countPrefixSize + outputs*outputSize
}

func GetInputBytes(input *model.Input, data []byte) []byte {
	data = append(data, input.Outpoint[:]...)
	return append(data, input.SigScript[:]...)
}

func GetOutputBytes(output *model.Output, data []byte) []byte {
	data = output.Value.AppendLittleEndian(data)
	return append(data, output.PublicKey[:]...)
}

// EncodeTransaction is the canonical encoding of t. It is the message signed
// by the key owner, so the layout must never change:
//
//	u32 LE  number of inputs
//	        per input: outpoint (32) | sigscript (64)
//	u32 LE  number of outputs
//	        per output: value u128 LE (16) | pubkey (32)
func EncodeTransaction(t *model.Transaction) []byte {
	data := make([]byte, 0, EncodedSize(len(t.Inputs), len(t.Outputs)))

	data = binary.LittleEndian.AppendUint32(data, uint32(len(t.Inputs)))
	for i := range t.Inputs {
		data = GetInputBytes(&t.Inputs[i], data)
	}

	data = binary.LittleEndian.AppendUint32(data, uint32(len(t.Outputs)))
	for i := range t.Outputs {
		data = GetOutputBytes(&t.Outputs[i], data)
	}
	return data
}

// DecodeTransaction is the inverse of EncodeTransaction.
func DecodeTransaction(data []byte) (*model.Transaction, error) {
	t := &model.Transaction{}

	numInputs, rest, err := readCount(data, inputSize, "inputs")
	if err != nil {
		return nil, err
	}
	if numInputs > 0 {
		t.Inputs = make([]model.Input, numInputs)
	}
	for i := range t.Inputs {
		copy(t.Inputs[i].Outpoint[:], rest[:model.OutpointSize])
		copy(t.Inputs[i].SigScript[:], rest[model.OutpointSize:inputSize])
		rest = rest[inputSize:]
	}

	numOutputs, rest, err := readCount(rest, outputSize, "outputs")
	if err != nil {
		return nil, err
	}
	if numOutputs > 0 {
		t.Outputs = make([]model.Output, numOutputs)
	}
	for i := range t.Outputs {
		value, err := model.ValueFromLittleEndian(rest[:model.ValueSize])
		if err != nil {
			return nil, err
		}
		t.Outputs[i].Value = value
		copy(t.Outputs[i].PublicKey[:], rest[model.ValueSize:outputSize])
		rest = rest[outputSize:]
	}

	if len(rest) != 0 {
		return nil, errors.Wrapf(model.ErrMalformedField, "%d trailing bytes after transaction", len(rest))
	}
	return t, nil
}

// readCount reads a sequence length and makes sure that many items of
// itemSize bytes are actually present.
func readCount(data []byte, itemSize int, name string) (int, []byte, error) {
	if len(data) < countPrefixSize {
		return 0, nil, errors.Wrapf(model.ErrMalformedField, "missing %s count", name)
	}
	count := uint64(binary.LittleEndian.Uint32(data))
	data = data[countPrefixSize:]
	if count*uint64(itemSize) > uint64(len(data)) {
		return 0, nil, errors.Wrapf(model.ErrMalformedField, "%d %s do not fit in %d bytes", count, name, len(data))
	}
	return int(count), data, nil
}

// SigningPayload is the message every input signs: the encoding of the
// transaction with all sigscripts zeroed, so signatures never cover themselves.
func SigningPayload(t *model.Transaction) []byte {
	data := EncodeTransaction(t)
	for i := range t.Inputs {
		start := countPrefixSize + i*inputSize + model.OutpointSize
		clear(data[start : start+model.SigScriptSize])
	}
	return data
}

// TransactionHash is BLAKE2b-256 of the canonical encoding.
func TransactionHash(t *model.Transaction) [32]byte {
	return blake2b.Sum256(EncodeTransaction(t))
}

// OutputOutpoint is the outpoint the output at index is stored under once t is applied:
// BLAKE2b-256 of the pair (encoding, index) framed as the ledger frames it, the
// encoding as compact-length-prefixed bytes followed by the index as a little-endian uint64.
func OutputOutpoint(t *model.Transaction, index int) (model.Outpoint, error) {
	if index < 0 || index >= len(t.Outputs) {
		return model.Outpoint{}, errors.Errorf("output index %d is out of range [0, %d)", index, len(t.Outputs))
	}
	return outputOutpoint(EncodeTransaction(t), index), nil
}

func outputOutpoint(encoded []byte, index int) model.Outpoint {
	prefix := compactLength(len(encoded))
	data := make([]byte, 0, len(prefix)+len(encoded)+8)
	data = append(data, prefix...)
	data = append(data, encoded...)
	data = binary.LittleEndian.AppendUint64(data, uint64(index))
	return blake2b.Sum256(data)
}
