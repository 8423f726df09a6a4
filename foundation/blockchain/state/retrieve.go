package state

import (
	"sort"

	"github.com/ilmoi/minichain/foundation/blockchain/block"
	"github.com/ilmoi/minichain/foundation/blockchain/genesis"
	"github.com/ilmoi/minichain/foundation/blockchain/peer"
	"github.com/ilmoi/minichain/foundation/blockchain/transaction"
	"github.com/ilmoi/minichain/foundation/blockchain/wallet"
)

// RetrieveHost returns the host information for this node.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveMinerAccountID returns the account being credited with mining
// rewards on this node.
func (s *State) RetrieveMinerAccountID() transaction.AccountID {
	return s.minerAccountID
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy of the current latest block.
func (s *State) RetrieveLatestBlock() block.Block {
	return s.chain.LatestBlock()
}

// RetrieveChain returns a read-only copy of the full chain.
func (s *State) RetrieveChain() []block.Block {
	return s.chain.Blocks()
}

// RetrieveChainHeight returns the current number of blocks in the chain.
func (s *State) RetrieveChainHeight() int {
	return s.chain.Height()
}

// RetrieveMempool returns the valid uncommitted transactions.
func (s *State) RetrieveMempool() []transaction.SignedTx {
	return s.mempool.ValidTransactions()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// =============================================================================

// QueryBalances returns the balances for the specified account, or for
// every account seen on the chain when the account is empty. Balances are
// recomputed from the full confirmed history on every call.
func (s *State) QueryBalances(accountID transaction.AccountID) map[transaction.AccountID]uint64 {
	blocks := s.chain.Blocks()

	accounts := make(map[transaction.AccountID]struct{})
	switch {
	case accountID != "":
		accounts[accountID] = struct{}{}
	default:
		for _, blk := range blocks {
			for _, tx := range blk.Data {
				if tx.FromID != "" {
					accounts[tx.FromID] = struct{}{}
				}
				accounts[tx.ToID] = struct{}{}
			}
		}
	}

	balances := make(map[transaction.AccountID]uint64, len(accounts))
	for account := range accounts {
		balances[account] = wallet.Balance(account, s.genesis, blocks)
	}

	return balances
}

// AccountsOnChain returns the sorted list of accounts that appear in any
// confirmed transaction.
func (s *State) AccountsOnChain() []transaction.AccountID {
	seen := make(map[transaction.AccountID]struct{})
	for _, blk := range s.chain.Blocks() {
		for _, tx := range blk.Data {
			if tx.FromID != "" {
				seen[tx.FromID] = struct{}{}
			}
			seen[tx.ToID] = struct{}{}
		}
	}

	accounts := make([]transaction.AccountID, 0, len(seen))
	for account := range seen {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })

	return accounts
}
