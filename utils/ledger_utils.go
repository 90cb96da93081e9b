package utils

import "github.com/Luismorlan/utxo_signer/model"

// TransactionUTXOs lists the outputs of t keyed by the outpoints a ledger
// would store them under. A wallet uses them to chain the next spend.
func TransactionUTXOs(t *model.Transaction) []model.UTXO {
	if len(t.Outputs) == 0 {
		return nil
	}
	encoded := EncodeTransaction(t)
	utxos := make([]model.UTXO, 0, len(t.Outputs))
	for i := range t.Outputs {
		utxos = append(utxos, model.UTXO{
			Outpoint: outputOutpoint(encoded, i),
			Output:   t.Outputs[i],
		})
	}
	return utxos
}
