package model

const (
	// Width of an outpoint, i.e. the hash identifying a previously created output.
	OutpointSize = 32
	// Width of the signature script carried by every input.
	SigScriptSize = 64
	// Width of the public key identifying the receiver of an output.
	PublicKeySize = 32
	// Width of a signature produced by any supported scheme.
	SignatureSize = 64
	// Width of an encoded output value.
	ValueSize = 16
)

// Outpoint references an unspent output of a previous transaction.
type Outpoint [OutpointSize]byte

// SigScript is opaque at this layer. All zeros means an unsigned template.
type SigScript [SigScriptSize]byte

// PublicKey names the owner of an output.
type PublicKey [PublicKeySize]byte

// Signature over the canonical encoding of a transaction.
type Signature [SignatureSize]byte

type Input struct {
	// Reference to the UTXO to be spent.
	Outpoint Outpoint
	// Proof that the owner is authorized to spend the referred UTXO.
	SigScript SigScript
}

type Output struct {
	// How much value to transfer.
	Value Value
	// Public key of the receiver.
	PublicKey PublicKey
}

type Transaction struct {
	// All inputs of this transaction, order matters.
	Inputs []Input
	// All outputs of this transaction, order matters.
	Outputs []Output
}

// HasEconomicEffect reports whether the transaction creates any output.
// The encoder accepts transactions without outputs, rejecting them is up to the caller.
func (t *Transaction) HasEconomicEffect() bool {
	return len(t.Outputs) > 0
}

// TotalValue sums the output values, failing with ErrValueOverflow when
// the sum does not fit 128 bits.
func (t *Transaction) TotalValue() (Value, error) {
	var total Value
	for i := range t.Outputs {
		var err error
		if total, err = total.Add(t.Outputs[i].Value); err != nil {
			return Value{}, err
		}
	}
	return total, nil
}

// IsUnsigned reports whether every input still carries the zero sigscript.
func (t *Transaction) IsUnsigned() bool {
	for i := range t.Inputs {
		if !t.Inputs[i].SigScript.IsZero() {
			return false
		}
	}
	return true
}

func (s SigScript) IsZero() bool {
	return s == SigScript{}
}

// OutpointFromBytes checks the width of b and copies it into an Outpoint.
func OutpointFromBytes(b []byte) (Outpoint, error) {
	var o Outpoint
	if err := copyFixed(o[:], b, "outpoint"); err != nil {
		return Outpoint{}, err
	}
	return o, nil
}

// SigScriptFromBytes checks the width of b and copies it into a SigScript.
func SigScriptFromBytes(b []byte) (SigScript, error) {
	var s SigScript
	if err := copyFixed(s[:], b, "sigscript"); err != nil {
		return SigScript{}, err
	}
	return s, nil
}

// PublicKeyFromBytes checks the width of b and copies it into a PublicKey.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if err := copyFixed(pk[:], b, "pubkey"); err != nil {
		return PublicKey{}, err
	}
	return pk, nil
}

// SignatureFromBytes checks the width of b and copies it into a Signature.
func SignatureFromBytes(b []byte) (Signature, error) {
	var sig Signature
	if err := copyFixed(sig[:], b, "signature"); err != nil {
		return Signature{}, err
	}
	return sig, nil
}

// SigScript turns the signature into the script an input carries.
func (s Signature) SigScript() SigScript {
	return SigScript(s)
}

func copyFixed(dst, src []byte, field string) error {
	if len(src) != len(dst) {
		return malformed(field, len(dst), len(src))
	}
	copy(dst, src)
	return nil
}
