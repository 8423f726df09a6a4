// Package mempool maintains the pool of uncommitted transactions. The pool
// holds at most one pending transaction per sender account, a later
// transaction from the same sender supersedes the earlier one.
package mempool

import (
	"errors"
	"sort"
	"sync"

	"github.com/ilmoi/minichain/foundation/blockchain/transaction"
)

// Mempool represents a cache of transactions keyed by the sender account.
type Mempool struct {
	pool map[transaction.AccountID]transaction.SignedTx
	mu   sync.RWMutex
}

// New constructs a new mempool.
func New() *Mempool {
	mp := Mempool{
		pool: make(map[transaction.AccountID]transaction.SignedTx),
	}

	return &mp
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Upsert adds or replaces a transaction in the mempool. An existing entry
// for the same sender is overwritten, only the latest transaction per
// account is retained.
func (mp *Mempool) Upsert(tx transaction.SignedTx) (int, error) {
	if tx.FromID == "" {
		return 0, errors.New("transaction has no sender account")
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool[tx.FromID] = tx

	return len(mp.pool), nil
}

// Existing returns the pending transaction for the specified sender account
// if one exists.
func (mp *Mempool) Existing(accountID transaction.AccountID) (transaction.SignedTx, bool) {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	tx, exists := mp.pool[accountID]
	return tx, exists
}

// ValidTransactions returns the pooled transactions that pass signature
// verification, ordered by sender for a deterministic sequence. Invalid
// entries are excluded but left in the pool until cleared.
func (mp *Mempool) ValidTransactions() []transaction.SignedTx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	txs := make([]transaction.SignedTx, 0, len(mp.pool))
	for _, tx := range mp.pool {
		if err := tx.Validate(); err != nil {
			continue
		}
		txs = append(txs, tx)
	}

	sort.Slice(txs, func(i, j int) bool {
		return txs[i].FromID < txs[j].FromID
	})

	return txs
}

// Clear removes the pool entries whose sender matches any transaction in
// the included set. Called after mining with the exact set of transactions
// that made it into the new block, never with a later pool snapshot.
func (mp *Mempool) Clear(included []transaction.SignedTx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for _, tx := range included {
		if tx.IsReward() {
			continue
		}
		delete(mp.pool, tx.FromID)
	}
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[transaction.AccountID]transaction.SignedTx)
}
