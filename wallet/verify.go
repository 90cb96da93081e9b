package wallet

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Luismorlan/utxo_signer/model"
	"github.com/Luismorlan/utxo_signer/utils"
)

// Result is the outcome of signing and verifying a transaction.
// A signature that does not verify is a normal result, not an error.
type Result struct {
	Signature []byte
	// 0x-prefixed hex of the signature.
	SignatureHex string
	// 0x-prefixed hex of the key the signature was checked against.
	PublicKeyHex string
	// The canonical encoding the signature covers.
	Encoded []byte
	IsValid bool
	// Why the signature was rejected, empty when valid.
	Diagnostic string
}

// Verifier signs the canonical encoding of a transaction and checks the signature.
type Verifier struct {
	log *zap.Logger
}

func NewVerifier(log *zap.Logger) *Verifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Verifier{log: log}
}

// Run encodes tx, signs the encoding with kp and verifies the signature
// against kp's public key. Only invalid key material fails the call.
func (v *Verifier) Run(tx *model.Transaction, kp *utils.KeyPair) (*Result, error) {
	encoded := utils.EncodeTransaction(tx)
	sig, err := kp.Sign(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}
	v.log.Debug("Transaction signed",
		zap.String("scheme", kp.Scheme().Name()),
		zap.Int("encodedSize", len(encoded)),
		zap.Int("inputs", len(tx.Inputs)),
		zap.Int("outputs", len(tx.Outputs)),
	)
	return v.check(kp.Scheme(), encoded, kp.Public(), sig[:]), nil
}

// Check verifies a signature produced elsewhere over the canonical encoding of tx.
func (v *Verifier) Check(scheme utils.Scheme, tx *model.Transaction, pub model.PublicKey, sig []byte) *Result {
	return v.check(scheme, utils.EncodeTransaction(tx), pub, sig)
}

func (v *Verifier) check(scheme utils.Scheme, encoded []byte, pub model.PublicKey, sig []byte) *Result {
	res := &Result{
		Signature:    sig,
		SignatureHex: utils.BytesToHex(sig),
		PublicKeyHex: utils.BytesToHex(pub[:]),
		Encoded:      encoded,
		IsValid:      utils.Verify(scheme, pub, encoded, sig),
	}
	if res.IsValid {
		v.log.Info("Signature verified", zap.String("signature", res.SignatureHex))
		return res
	}

	switch {
	case len(sig) != model.SignatureSize:
		res.Diagnostic = fmt.Sprintf("signature has %d bytes, expected %d", len(sig), model.SignatureSize)
	default:
		res.Diagnostic = "signature does not match the transaction encoding for public key " + res.PublicKeyHex
	}
	v.log.Warn("Signature rejected",
		zap.String("scheme", scheme.Name()),
		zap.String("publicKey", res.PublicKeyHex),
		zap.String("signature", res.SignatureHex),
		zap.String("diagnostic", res.Diagnostic),
	)
	return res
}

// SignTransaction returns a copy of tx whose every input carries the
// signature of kp over the signing payload. tx itself is left untouched.
func SignTransaction(tx *model.Transaction, kp *utils.KeyPair) (*model.Transaction, error) {
	sig, err := kp.Sign(utils.SigningPayload(tx))
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign inputs")
	}
	signed := &model.Transaction{
		Inputs:  append([]model.Input(nil), tx.Inputs...),
		Outputs: append([]model.Output(nil), tx.Outputs...),
	}
	for i := range signed.Inputs {
		signed.Inputs[i].SigScript = sig.SigScript()
	}
	return signed, nil
}

// InvalidInputs returns the indexes of inputs whose sigscript is not a valid
// signature of the signing payload by the matching owner.
func InvalidInputs(scheme utils.Scheme, tx *model.Transaction, owners []model.PublicKey) ([]int, error) {
	if len(owners) != len(tx.Inputs) {
		return nil, errors.Errorf("got %d owners for %d inputs", len(owners), len(tx.Inputs))
	}
	payload := utils.SigningPayload(tx)
	var invalid []int
	for i := range tx.Inputs {
		if !scheme.Verify(owners[i], payload, tx.Inputs[i].SigScript[:]) {
			invalid = append(invalid, i)
		}
	}
	return invalid, nil
}
