package network

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Luismorlan/utxo_signer/model"
	"github.com/Luismorlan/utxo_signer/utils"
)

// ErrUnknownOwner is returned when no outpoint was seeded for a key.
var ErrUnknownOwner = errors.New("no unspent output known for owner")

// DryRun is a Network that never leaves the process. Outpoints are seeded
// explicitly and submissions are logged and recorded.
type DryRun struct {
	log *zap.Logger

	// A single mutex for changing internal state.
	m           sync.RWMutex
	outpoints   map[model.PublicKey]model.Outpoint
	submissions []*Submission
}

func NewDryRun(log *zap.Logger) *DryRun {
	if log == nil {
		log = zap.NewNop()
	}
	return &DryRun{
		log:       log,
		outpoints: map[model.PublicKey]model.Outpoint{},
	}
}

// Seed makes outpoint the latest unspent output of owner.
func (d *DryRun) Seed(owner model.PublicKey, outpoint model.Outpoint) {
	d.m.Lock()
	defer d.m.Unlock()

	d.outpoints[owner] = outpoint
}

func (d *DryRun) LatestOutpoint(ctx context.Context, owner model.PublicKey) (model.Outpoint, error) {
	if err := ctx.Err(); err != nil {
		return model.Outpoint{}, errors.WithStack(err)
	}

	d.m.RLock()
	defer d.m.RUnlock()

	outpoint, ok := d.outpoints[owner]
	if !ok {
		return model.Outpoint{}, errors.Wrapf(ErrUnknownOwner, "owner %s", utils.BytesToHex(owner[:]))
	}
	return outpoint, nil
}

// Submit records s and moves the latest outpoint of the signer to the
// first output the transaction pays back to it, if any.
func (d *DryRun) Submit(ctx context.Context, s *Submission) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	tx, err := utils.DecodeTransaction(s.EncodedTransaction)
	if err != nil {
		return errors.Wrap(err, "submission carries an invalid transaction")
	}

	d.m.Lock()
	defer d.m.Unlock()

	d.submissions = append(d.submissions, s)
	for _, utxo := range utils.TransactionUTXOs(tx) {
		if utxo.Output.PublicKey == s.PublicKey {
			d.outpoints[s.PublicKey] = utxo.Outpoint
			break
		}
	}

	d.log.Info("Transaction submitted",
		zap.Stringer("id", s.ID),
		zap.String("publicKey", utils.BytesToHex(s.PublicKey[:])),
		zap.String("signature", utils.BytesToHex(s.Signature[:])),
		zap.String("transaction", utils.BytesToHex(s.EncodedTransaction)),
	)
	return nil
}

// Submissions returns everything submitted so far, oldest first.
func (d *DryRun) Submissions() []*Submission {
	d.m.RLock()
	defer d.m.RUnlock()

	return append([]*Submission(nil), d.submissions...)
}
