package wallet

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Luismorlan/utxo_signer/model"
	"github.com/Luismorlan/utxo_signer/network"
	"github.com/Luismorlan/utxo_signer/utils"
)

// Wallet signs transactions with one key pair and sends them to network.
type Wallet struct {
	keys     *utils.KeyPair
	network  network.Network
	verifier *Verifier
	log      *zap.Logger
}

func NewWallet(keys *utils.KeyPair, net network.Network, log *zap.Logger) *Wallet {
	if log == nil {
		log = zap.NewNop()
	}
	return &Wallet{
		keys:     keys,
		network:  net,
		verifier: NewVerifier(log),
		log:      log,
	}
}

func (w *Wallet) PublicKey() model.PublicKey {
	return w.keys.Public()
}

// GetPublicKey returns the hex form of the wallet's public key.
func (w *Wallet) GetPublicKey() string {
	pub := w.keys.Public()
	return utils.BytesToHex(pub[:])
}

// TransferMoney spends the latest outpoint of the wallet into outputs.
func (w *Wallet) TransferMoney(ctx context.Context, outputs []RawOutput) (*Result, error) {
	outpoint, err := w.network.LatestOutpoint(ctx, w.keys.Public())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest outpoint from network")
	}
	tx, err := BuildTransaction([]RawInput{{Outpoint: outpoint[:]}}, outputs)
	if err != nil {
		return nil, err
	}
	if !tx.HasEconomicEffect() {
		return nil, errors.New("transfer has no outputs")
	}
	total, err := tx.TotalValue()
	if err != nil {
		return nil, errors.Wrap(err, "transfer total")
	}
	w.log.Info("Transferring", zap.Stringer("total", total), zap.Int("outputs", len(tx.Outputs)))
	return w.SendTransaction(ctx, tx)
}

// SendTransaction signs the inputs of tx, signs and verifies the whole
// transaction and submits it. A signature that does not verify is reported
// in the result and nothing is submitted.
func (w *Wallet) SendTransaction(ctx context.Context, tx *model.Transaction) (*Result, error) {
	signed, err := SignTransaction(tx, w.keys)
	if err != nil {
		return nil, err
	}
	res, err := w.verifier.Run(signed, w.keys)
	if err != nil {
		return nil, err
	}
	if !res.IsValid {
		return res, nil
	}

	sig, err := model.SignatureFromBytes(res.Signature)
	if err != nil {
		return nil, err
	}
	submission := network.NewSubmission(signed, sig, w.keys.Public())
	if err := w.network.Submit(ctx, submission); err != nil {
		return nil, errors.Wrap(err, "failed to send transaction to network")
	}
	w.log.Info("Transaction sent", zap.Stringer("id", submission.ID))
	return res, nil
}
