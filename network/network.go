package network

import (
	"context"

	uuid "github.com/satori/go.uuid"

	"github.com/Luismorlan/utxo_signer/model"
	"github.com/Luismorlan/utxo_signer/utils"
)

// Network is the boundary to the node. It provides only 2 functions:
// LatestOutpoint: the most recent unspent output owned by a key.
// Submit: hand a signed transaction over to the node.
// Implementations own retries and timeouts, callers never retry on their behalf.
type Network interface {
	LatestOutpoint(ctx context.Context, owner model.PublicKey) (model.Outpoint, error)
	Submit(ctx context.Context, s *Submission) error
}

// Submission is everything the node needs to accept a transaction.
type Submission struct {
	// Identifies the submission in logs, the same transaction always gets the same ID.
	ID uuid.UUID
	// Canonical encoding of the transaction.
	EncodedTransaction []byte
	// Signature over EncodedTransaction.
	Signature model.Signature
	// Key the signature verifies against.
	PublicKey model.PublicKey
}

// NewSubmission derives the submission ID from the transaction hash.
func NewSubmission(tx *model.Transaction, sig model.Signature, pub model.PublicKey) *Submission {
	hash := utils.TransactionHash(tx)
	return &Submission{
		ID:                 uuid.NewV5(uuid.NamespaceOID, utils.BytesToHex(hash[:])),
		EncodedTransaction: utils.EncodeTransaction(tx),
		Signature:          sig,
		PublicKey:          pub,
	}
}
