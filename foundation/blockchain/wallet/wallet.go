// Package wallet manages the private key for an account and creates signed
// transactions against a balance computed from the chain.
package wallet

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ilmoi/minichain/foundation/blockchain/block"
	"github.com/ilmoi/minichain/foundation/blockchain/genesis"
	"github.com/ilmoi/minichain/foundation/blockchain/transaction"
)

// Wallet holds the key pair for an account.
type Wallet struct {
	privateKey *ecdsa.PrivateKey
}

// New generates a wallet with a fresh key pair.
func New() (*Wallet, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}

	return &Wallet{privateKey: privateKey}, nil
}

// Load reads the private key from the specified file.
func Load(path string) (*Wallet, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return nil, fmt.Errorf("loading private key: %w", err)
	}

	return &Wallet{privateKey: privateKey}, nil
}

// Save writes the private key to the specified file.
func (w *Wallet) Save(path string) error {
	return crypto.SaveECDSA(path, w.privateKey)
}

// Account returns the account id derived from the wallet's public key.
func (w *Wallet) Account() transaction.AccountID {
	return transaction.PublicKeyToAccountID(w.privateKey.PublicKey)
}

// SignTx signs the specified transaction with the wallet's private key.
func (w *Wallet) SignTx(tx transaction.Tx) (transaction.SignedTx, error) {
	return tx.Sign(w.privateKey)
}

// CreateTx constructs and signs a transfer from this wallet. It fails when
// the amount exceeds the balance computable from the specified chain, so an
// account can never promise more than it owns in confirmed history.
func (w *Wallet) CreateTx(gen genesis.Genesis, toID transaction.AccountID, value uint64, blocks []block.Block) (transaction.SignedTx, error) {
	balance := Balance(w.Account(), gen, blocks)
	if value > balance {
		return transaction.SignedTx{}, fmt.Errorf("amount %d exceeds balance %d", value, balance)
	}

	tx, err := transaction.New(w.Account(), toID, value)
	if err != nil {
		return transaction.SignedTx{}, err
	}

	return w.SignTx(tx)
}

// =============================================================================

// Balance computes the balance for an account by scanning every confirmed
// transaction in the chain: the genesis allocation plus the net of all
// transfers and mining rewards involving the account. This recompute from
// full history is O(chain length) per call and is what gives balance
// integrity without a separate state database.
func Balance(account transaction.AccountID, gen genesis.Genesis, blocks []block.Block) uint64 {
	balance := gen.StartingBalance

	for _, blk := range blocks {
		for _, tx := range blk.Data {
			if tx.FromID == account {

				// Consensus never re-checks balances, so an overdraft can
				// arrive through a peer chain. Clamp at zero instead of
				// wrapping the unsigned math.
				if tx.Value > balance {
					balance = 0
				} else {
					balance -= tx.Value
				}
			}
			if tx.ToID == account {
				balance += tx.Value
			}
		}
	}

	return balance
}
