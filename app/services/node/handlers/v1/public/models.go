package public

import (
	"github.com/ilmoi/minichain/foundation/blockchain/block"
	"github.com/ilmoi/minichain/foundation/blockchain/transaction"
	"github.com/ilmoi/minichain/foundation/nameservice"
)

// txInfo is the view model for a transaction with names resolved.
type txInfo struct {
	ID       string                `json:"id"`
	From     transaction.AccountID `json:"from"`
	FromName string                `json:"from_name"`
	To       transaction.AccountID `json:"to"`
	ToName   string                `json:"to_name"`
	Value    uint64                `json:"value"`
	Reward   bool                  `json:"reward"`
	Sig      string                `json:"sig"`
}

func toTxInfo(tx transaction.SignedTx, ns *nameservice.NameService) txInfo {
	return txInfo{
		ID:       tx.ID,
		From:     tx.FromID,
		FromName: ns.Lookup(tx.FromID),
		To:       tx.ToID,
		ToName:   ns.Lookup(tx.ToID),
		Value:    tx.Value,
		Reward:   tx.IsReward(),
		Sig:      tx.SignatureString(),
	}
}

// blockInfo is the view model for a block.
type blockInfo struct {
	Timestamp    uint64   `json:"timestamp"`
	LastHash     string   `json:"last_hash"`
	Hash         string   `json:"hash"`
	Nonce        uint64   `json:"nonce"`
	Difficulty   int      `json:"difficulty"`
	Transactions []txInfo `json:"transactions"`
}

func toBlockInfo(blk block.Block, ns *nameservice.NameService) blockInfo {
	trans := make([]txInfo, len(blk.Data))
	for i, tx := range blk.Data {
		trans[i] = toTxInfo(tx, ns)
	}

	return blockInfo{
		Timestamp:    blk.Timestamp,
		LastHash:     blk.LastHash,
		Hash:         blk.Hash,
		Nonce:        blk.Nonce,
		Difficulty:   blk.Difficulty,
		Transactions: trans,
	}
}

// actInfo is the view model for a single account balance.
type actInfo struct {
	Account transaction.AccountID `json:"account"`
	Name    string                `json:"name"`
	Balance uint64                `json:"balance"`
}

// balanceInfo wraps the balance listing with chain context.
type balanceInfo struct {
	LatestBlock string    `json:"latest_block"`
	Uncommitted int       `json:"uncommitted"`
	Balances    []actInfo `json:"balances"`
}
