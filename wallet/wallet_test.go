package wallet

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Luismorlan/utxo_signer/config"
	"github.com/Luismorlan/utxo_signer/model"
	"github.com/Luismorlan/utxo_signer/network"
	"github.com/Luismorlan/utxo_signer/utils"
)

func GetTestKeys(t *testing.T, name string) *utils.KeyPair {
	kp, err := utils.DevKeyPair(utils.Ed25519, name)
	require.NoError(t, err)
	return kp
}

func exampleInputs() []RawInput {
	return []RawInput{{Outpoint: make([]byte, 32), SigScript: make([]byte, 64)}}
}

func exampleOutputs() []RawOutput {
	return []RawOutput{
		{Value: big.NewInt(50), PublicKey: bytes.Repeat([]byte{0xaa}, 32)},
		{Value: big.NewInt(50), PublicKey: bytes.Repeat([]byte{0xbb}, 32)},
	}
}

func TestBuildTransaction(t *testing.T) {
	tx, err := BuildTransaction(exampleInputs(), exampleOutputs())
	require.NoError(t, err)
	require.Len(t, tx.Inputs, 1)
	require.Len(t, tx.Outputs, 2)
	assert.Equal(t, model.NewValue(50), tx.Outputs[1].Value)
	assert.Equal(t, byte(0xbb), tx.Outputs[1].PublicKey[31])
	assert.Len(t, utils.EncodeTransaction(tx), 200)

	empty, err := BuildTransaction(nil, nil)
	require.NoError(t, err)
	assert.False(t, empty.HasEconomicEffect())
}

func TestBuildTransactionMissingSigScriptIsUnsigned(t *testing.T) {
	tx, err := BuildTransaction([]RawInput{{Outpoint: make([]byte, 32)}}, exampleOutputs())
	require.NoError(t, err)
	assert.True(t, tx.IsUnsigned())
}

func TestBuildTransactionWidthEnforcement(t *testing.T) {
	for _, n := range []int{31, 33} {
		inputs := append(exampleInputs(), RawInput{Outpoint: make([]byte, n)})
		_, err := BuildTransaction(inputs, exampleOutputs())
		assert.True(t, errors.Is(err, model.ErrMalformedField), n)
		assert.True(t, errors.Is(err, model.ErrInvalidInput), n)

		var fieldErr *model.FieldError
		require.True(t, errors.As(err, &fieldErr))
		assert.Equal(t, 1, fieldErr.Index)
		assert.Equal(t, "outpoint", fieldErr.Field)
	}

	_, err := BuildTransaction([]RawInput{{Outpoint: make([]byte, 32), SigScript: make([]byte, 32)}}, nil)
	assert.True(t, errors.Is(err, model.ErrMalformedField))
	var fieldErr *model.FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "sigscript", fieldErr.Field)

	outputs := exampleOutputs()
	outputs[1].PublicKey = outputs[1].PublicKey[:31]
	_, err = BuildTransaction(exampleInputs(), outputs)
	assert.True(t, errors.Is(err, model.ErrMalformedField))
	assert.True(t, errors.Is(err, model.ErrInvalidOutput))
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, 1, fieldErr.Index)
	assert.Equal(t, "pubkey", fieldErr.Field)
}

func TestBuildTransactionOverflowRejection(t *testing.T) {
	outputs := exampleOutputs()
	outputs[0].Value = new(big.Int).Lsh(big.NewInt(1), 128)
	_, err := BuildTransaction(exampleInputs(), outputs)
	assert.True(t, errors.Is(err, model.ErrValueOverflow))
	assert.True(t, errors.Is(err, model.ErrInvalidOutput))

	var fieldErr *model.FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, 0, fieldErr.Index)
	assert.Equal(t, "value", fieldErr.Field)

	outputs[0].Value = big.NewInt(-50)
	_, err = BuildTransaction(exampleInputs(), outputs)
	assert.True(t, errors.Is(err, model.ErrValueOverflow))
}

func TestBuildFromTemplate(t *testing.T) {
	tx, err := BuildFromTemplate(config.DefaultConfig().Transaction)
	require.NoError(t, err)
	require.Len(t, tx.Inputs, 1)
	require.Len(t, tx.Outputs, 2)
	assert.Equal(t, byte(0xc6), tx.Inputs[0].Outpoint[0])
	assert.Equal(t, byte(0x8e), tx.Outputs[0].PublicKey[0])
	assert.True(t, tx.IsUnsigned())

	// A pubkey literal with an extra byte is rejected rather than truncated.
	template := config.DefaultConfig().Transaction
	template.Outputs[0].PublicKey += "00"
	_, err = BuildFromTemplate(template)
	assert.True(t, errors.Is(err, model.ErrMalformedField))

	template = config.DefaultConfig().Transaction
	template.Outputs[0].Value = "1_000"
	template.Outputs[1].Value = " 50 "
	tx, err = BuildFromTemplate(template)
	require.NoError(t, err)
	assert.Equal(t, model.NewValue(1000), tx.Outputs[0].Value)
	assert.Equal(t, model.NewValue(50), tx.Outputs[1].Value)

	template.Outputs[0].Value = "340282366920938463463374607431768211456"
	_, err = BuildFromTemplate(template)
	assert.True(t, errors.Is(err, model.ErrValueOverflow))
	assert.True(t, errors.Is(err, model.ErrInvalidOutput))

	template.Outputs[0].Value = "fifty"
	_, err = BuildFromTemplate(template)
	assert.True(t, errors.Is(err, model.ErrInvalidOutput))

	template = config.DefaultConfig().Transaction
	template.Inputs[0].Outpoint = "0xzz"
	_, err = BuildFromTemplate(template)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestVerifierRun(t *testing.T) {
	alice := GetTestKeys(t, "Alice")
	tx, err := BuildTransaction(exampleInputs(), exampleOutputs())
	require.NoError(t, err)

	res, err := NewVerifier(nil).Run(tx, alice)
	require.NoError(t, err)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Diagnostic)
	assert.Equal(t, utils.EncodeTransaction(tx), res.Encoded)
	assert.Len(t, res.SignatureHex, 2+2*model.SignatureSize)
	assert.Equal(t, utils.BytesToHex(res.Signature), res.SignatureHex)

	again, err := NewVerifier(nil).Run(tx, alice)
	require.NoError(t, err)
	assert.Equal(t, res.SignatureHex, again.SignatureHex)
}

func TestVerifierCheckReportsMismatch(t *testing.T) {
	alice := GetTestKeys(t, "Alice")
	bob := GetTestKeys(t, "Bob")
	tx, err := BuildTransaction(exampleInputs(), exampleOutputs())
	require.NoError(t, err)

	v := NewVerifier(nil)
	res, err := v.Run(tx, alice)
	require.NoError(t, err)

	assert.True(t, v.Check(utils.Ed25519, tx, alice.Public(), res.Signature).IsValid)

	mismatch := v.Check(utils.Ed25519, tx, bob.Public(), res.Signature)
	assert.False(t, mismatch.IsValid)
	assert.Contains(t, mismatch.Diagnostic, mismatch.PublicKeyHex)

	altered, err := BuildTransaction(exampleInputs(), exampleOutputs()[:1])
	require.NoError(t, err)
	assert.False(t, v.Check(utils.Ed25519, altered, alice.Public(), res.Signature).IsValid)

	short := v.Check(utils.Ed25519, tx, alice.Public(), res.Signature[:10])
	assert.False(t, short.IsValid)
	assert.Contains(t, short.Diagnostic, "10 bytes")
}

func TestSignTransaction(t *testing.T) {
	alice := GetTestKeys(t, "Alice")
	bob := GetTestKeys(t, "Bob")
	inputs := append(exampleInputs(), RawInput{Outpoint: bytes.Repeat([]byte{1}, 32)})
	tx, err := BuildTransaction(inputs, exampleOutputs())
	require.NoError(t, err)
	original := utils.EncodeTransaction(tx)

	signed, err := SignTransaction(tx, alice)
	require.NoError(t, err)
	assert.Equal(t, original, utils.EncodeTransaction(tx))
	assert.True(t, tx.IsUnsigned())
	assert.False(t, signed.IsUnsigned())
	assert.Equal(t, utils.SigningPayload(tx), utils.SigningPayload(signed))

	invalid, err := InvalidInputs(utils.Ed25519, signed, []model.PublicKey{alice.Public(), alice.Public()})
	require.NoError(t, err)
	assert.Empty(t, invalid)

	invalid, err = InvalidInputs(utils.Ed25519, signed, []model.PublicKey{alice.Public(), bob.Public()})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, invalid)

	_, err = InvalidInputs(utils.Ed25519, signed, []model.PublicKey{alice.Public()})
	assert.Error(t, err)
}

func TestTransferMoney(t *testing.T) {
	ctx := context.Background()
	alice := GetTestKeys(t, "Alice")
	bob := GetTestKeys(t, "Bob")
	bobPub := bob.Public()

	net := network.NewDryRun(nil)
	var genesis model.Outpoint
	genesis[0] = 0xc6
	net.Seed(alice.Public(), genesis)

	w := NewWallet(alice, net, nil)
	alicePub := alice.Public()
	assert.Equal(t, utils.BytesToHex(alicePub[:]), w.GetPublicKey())

	res, err := w.TransferMoney(ctx, []RawOutput{
		{Value: big.NewInt(50), PublicKey: bobPub[:]},
		{Value: big.NewInt(50), PublicKey: alicePub[:]},
	})
	require.NoError(t, err)
	assert.True(t, res.IsValid)

	submissions := net.Submissions()
	require.Len(t, submissions, 1)
	s := submissions[0]
	assert.Equal(t, alice.Public(), s.PublicKey)
	assert.Equal(t, res.Encoded, s.EncodedTransaction)
	assert.True(t, alice.Verify(s.EncodedTransaction, s.Signature[:]))

	tx, err := utils.DecodeTransaction(s.EncodedTransaction)
	require.NoError(t, err)
	assert.Equal(t, genesis, tx.Inputs[0].Outpoint)
	assert.False(t, tx.IsUnsigned())

	// The change output becomes the next outpoint to spend.
	change, err := utils.OutputOutpoint(tx, 1)
	require.NoError(t, err)
	next, err := net.LatestOutpoint(ctx, alice.Public())
	require.NoError(t, err)
	assert.Equal(t, change, next)

	_, err = NewWallet(bob, net, nil).TransferMoney(ctx, []RawOutput{{Value: big.NewInt(1), PublicKey: alicePub[:]}})
	assert.True(t, errors.Is(err, network.ErrUnknownOwner))

	_, err = w.TransferMoney(ctx, nil)
	assert.Error(t, err)
	assert.Len(t, net.Submissions(), 1)

	// Each output fits 128 bits but their sum does not.
	largest := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	_, err = w.TransferMoney(ctx, []RawOutput{
		{Value: largest, PublicKey: bobPub[:]},
		{Value: big.NewInt(1), PublicKey: alicePub[:]},
	})
	assert.True(t, errors.Is(err, model.ErrValueOverflow))
	assert.Len(t, net.Submissions(), 1)
}
