package state

import (
	"github.com/ilmoi/minichain/foundation/blockchain/transaction"
)

// SubmitWalletTransaction accepts a transaction from a wallet for inclusion
// into the mempool. A transaction that fails validation is rejected and
// never enters the pool.
func (s *State) SubmitWalletTransaction(signedTx transaction.SignedTx) error {
	s.evHandler("state: SubmitWalletTransaction: started: tx[%s]", signedTx)

	if err := signedTx.Validate(); err != nil {
		return err
	}

	if _, err := s.mempool.Upsert(signedTx); err != nil {
		return err
	}

	if s.Worker != nil {
		s.Worker.SignalShareTx(signedTx)
		s.Worker.SignalStartMining()
	}

	return nil
}

// SubmitNodeTransaction accepts a transaction shared by a peer node for
// inclusion into the mempool.
func (s *State) SubmitNodeTransaction(signedTx transaction.SignedTx) error {
	s.evHandler("state: SubmitNodeTransaction: started: tx[%s]", signedTx)

	if err := signedTx.Validate(); err != nil {
		return err
	}

	if _, err := s.mempool.Upsert(signedTx); err != nil {
		return err
	}

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}
