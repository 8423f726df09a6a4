// Package transaction defines the signed transfer record that moves value
// between two accounts. A transaction is immutable once created and is
// identified by the signature over the exact tuple of its fields.
package transaction

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"github.com/ilmoi/minichain/foundation/blockchain/signature"
)

// AccountID represents an account id that is used to sign transactions and
// is associated with transactions on the blockchain.
type AccountID string

// ToAccountID converts a hex-encoded string to an account and validates the
// hex-encoded string is formatted correctly.
func ToAccountID(hex string) (AccountID, error) {
	a := AccountID(hex)
	if !a.IsAccountID() {
		return "", fmt.Errorf("invalid account format %q", hex)
	}

	return a, nil
}

// PublicKeyToAccountID converts the public key to an account value.
func PublicKeyToAccountID(pk ecdsa.PublicKey) AccountID {
	return AccountID(crypto.PubkeyToAddress(pk).String())
}

// IsAccountID verifies whether the underlying data represents a valid
// hex-encoded account.
func (a AccountID) IsAccountID() bool {
	const addressLength = 20
	return common.IsHexAddress(string(a)) && len(common.FromHex(string(a))) == addressLength
}

// =============================================================================

// Tx is the transactional information between two parties.
type Tx struct {
	ID     string    `json:"id"`    // Unique id generated when the transaction is created.
	FromID AccountID `json:"from"`  // Account sending the value.
	ToID   AccountID `json:"to"`    // Account receiving the value.
	Value  uint64    `json:"value"` // Monetary value received from this transaction.
}

// New constructs a new unsigned transaction with a fresh unique id.
func New(fromID AccountID, toID AccountID, value uint64) (Tx, error) {
	if !fromID.IsAccountID() {
		return Tx{}, fmt.Errorf("from account is not properly formatted")
	}
	if !toID.IsAccountID() {
		return Tx{}, fmt.Errorf("to account is not properly formatted")
	}

	tx := Tx{
		ID:     uuid.NewString(),
		FromID: fromID,
		ToID:   toID,
		Value:  value,
	}

	return tx, nil
}

// Sign uses the specified private key to sign the transaction.
func (tx Tx) Sign(privateKey *ecdsa.PrivateKey) (SignedTx, error) {

	// Sign the transaction with the private key to produce a signature.
	v, r, s, err := signature.Sign(tx, privateKey)
	if err != nil {
		return SignedTx{}, err
	}

	signedTx := SignedTx{
		Tx: tx,
		V:  v,
		R:  r,
		S:  s,
	}

	return signedTx, nil
}

// =============================================================================

// SignedTx is a signed version of the transaction. This is how clients like
// a wallet provide transactions for inclusion into the blockchain.
type SignedTx struct {
	Tx
	V *big.Int `json:"v"` // Recovery identifier.
	R *big.Int `json:"r"` // First coordinate of the ECDSA signature.
	S *big.Int `json:"s"` // Second coordinate of the ECDSA signature.
}

// NewReward constructs the transaction that credits the miner of a block.
// Reward transactions have no sender and carry no signature.
func NewReward(toID AccountID, value uint64) SignedTx {
	return SignedTx{
		Tx: Tx{
			ID:    uuid.NewString(),
			ToID:  toID,
			Value: value,
		},
	}
}

// IsReward reports whether this is a mining reward transaction.
func (tx SignedTx) IsReward() bool {
	return tx.FromID == ""
}

// Validate verifies the transaction has a proper signature that conforms to
// our standards, that it was signed over the exact tuple of fields it
// carries, and that the claimed sender actually produced the signature.
// This is a pure function, it has no side effects.
func (tx SignedTx) Validate() error {
	if !tx.FromID.IsAccountID() {
		return errors.New("invalid account for from account")
	}
	if !tx.ToID.IsAccountID() {
		return errors.New("invalid account for to account")
	}

	if tx.V == nil || tx.R == nil || tx.S == nil {
		return errors.New("transaction is missing a signature")
	}

	if err := signature.VerifySignature(tx.V, tx.R, tx.S); err != nil {
		return err
	}

	// Any mutation of the signed fields changes the recovered address, so
	// comparing it against the claimed sender verifies both integrity and
	// authorship in one step.
	address, err := signature.FromAddress(tx.Tx, tx.V, tx.R, tx.S)
	if err != nil {
		return err
	}
	if address != string(tx.FromID) {
		return errors.New("signature does not match the from account")
	}

	return nil
}

// SignatureString returns the signature as a string.
func (tx SignedTx) SignatureString() string {
	if tx.IsReward() {
		return ""
	}
	return signature.SignatureString(tx.V, tx.R, tx.S)
}

// String implements the fmt.Stringer interface for logging.
func (tx SignedTx) String() string {
	if tx.IsReward() {
		return fmt.Sprintf("reward:%s:%d", tx.ToID, tx.Value)
	}
	return fmt.Sprintf("%s:%s:%d", tx.FromID, tx.ToID, tx.Value)
}
