package model

// UTXO is an output together with the outpoint a ledger stores it under once
// the transaction creating it is applied.
type UTXO struct {
	// Hash of the creating transaction's encoding and the output index.
	Outpoint Outpoint
	// The output itself.
	Output Output
}
