package wallet

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/Luismorlan/utxo_signer/config"
	"github.com/Luismorlan/utxo_signer/model"
	"github.com/Luismorlan/utxo_signer/utils"
)

// RawInput is an input as handed over by a caller or an RPC collaborator,
// before any width check.
type RawInput struct {
	Outpoint []byte
	// Nil stands for the unsigned template, 64 zero bytes.
	SigScript []byte
}

// RawOutput is an output before any width or range check.
type RawOutput struct {
	Value     *big.Int
	PublicKey []byte
}

// BuildTransaction validates every field and assembles the transaction.
// The first violation is reported as a *model.FieldError naming the index and field.
func BuildTransaction(inputs []RawInput, outputs []RawOutput) (*model.Transaction, error) {
	tx := &model.Transaction{}
	if len(inputs) > 0 {
		tx.Inputs = make([]model.Input, 0, len(inputs))
	}
	if len(outputs) > 0 {
		tx.Outputs = make([]model.Output, 0, len(outputs))
	}

	for i, in := range inputs {
		outpoint, err := model.OutpointFromBytes(in.Outpoint)
		if err != nil {
			return nil, model.InputError(i, "outpoint", err)
		}
		var sigScript model.SigScript
		if in.SigScript != nil {
			if sigScript, err = model.SigScriptFromBytes(in.SigScript); err != nil {
				return nil, model.InputError(i, "sigscript", err)
			}
		}
		tx.Inputs = append(tx.Inputs, model.Input{Outpoint: outpoint, SigScript: sigScript})
	}

	for i, out := range outputs {
		value, err := model.ValueFromBig(out.Value)
		if err != nil {
			return nil, model.OutputError(i, "value", err)
		}
		pub, err := model.PublicKeyFromBytes(out.PublicKey)
		if err != nil {
			return nil, model.OutputError(i, "pubkey", err)
		}
		tx.Outputs = append(tx.Outputs, model.Output{Value: value, PublicKey: pub})
	}
	return tx, nil
}

// ParseRawInput decodes hex fields. An empty sigscript stays nil.
func ParseRawInput(outpointHex, sigScriptHex string) (RawInput, error) {
	outpoint, err := utils.HexToBytes(outpointHex)
	if err != nil {
		return RawInput{}, errors.Wrap(err, "outpoint")
	}
	in := RawInput{Outpoint: outpoint}
	if sigScriptHex != "" {
		if in.SigScript, err = utils.HexToBytes(sigScriptHex); err != nil {
			return RawInput{}, errors.Wrap(err, "sigscript")
		}
	}
	return in, nil
}

// ParseRawOutput decodes a value as model.ParseValue does and a hex public key.
func ParseRawOutput(value, pubKeyHex string) (RawOutput, error) {
	v, err := model.ParseValue(value)
	if err != nil {
		return RawOutput{}, errors.Wrap(err, "value")
	}
	pub, err := utils.HexToBytes(pubKeyHex)
	if err != nil {
		return RawOutput{}, errors.Wrap(err, "pubkey")
	}
	return RawOutput{Value: v.Big(), PublicKey: pub}, nil
}

// BuildFromTemplate parses and builds a configured transaction.
func BuildFromTemplate(t config.TransactionTemplate) (*model.Transaction, error) {
	inputs := make([]RawInput, 0, len(t.Inputs))
	for i, in := range t.Inputs {
		raw, err := ParseRawInput(in.Outpoint, in.SigScript)
		if err != nil {
			return nil, model.InputError(i, "template", err)
		}
		inputs = append(inputs, raw)
	}
	outputs := make([]RawOutput, 0, len(t.Outputs))
	for i, out := range t.Outputs {
		raw, err := ParseRawOutput(out.Value, out.PublicKey)
		if err != nil {
			return nil, model.OutputError(i, "template", err)
		}
		outputs = append(outputs, raw)
	}
	return BuildTransaction(inputs, outputs)
}
