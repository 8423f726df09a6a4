package mempool_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ilmoi/minichain/foundation/blockchain/mempool"
	"github.com/ilmoi/minichain/foundation/blockchain/transaction"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// Private keys for two independent sender accounts.
const (
	pkHexKey1 = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	pkHexKey2 = "9f332e3700d8fc2446eaf6d15034cf96e0c2745e40353deef032a5dbf1dfed93"
	to        = "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"
)

func sign(t *testing.T, pkHex string, value uint64) transaction.SignedTx {
	pk, err := crypto.HexToECDSA(pkHex)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to load the private key: %s", failed, err)
	}

	from := transaction.PublicKeyToAccountID(pk.PublicKey)
	tx, err := transaction.New(from, to, value)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to create a transaction: %s", failed, err)
	}

	signedTx, err := tx.Sign(pk)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to sign the transaction: %s", failed, err)
	}

	return signedTx
}

func Test_OnePerSender(t *testing.T) {
	t.Log("Given the need to keep one pending transaction per sender.")
	{
		mp := mempool.New()

		tx1 := sign(t, pkHexKey1, 100)
		if _, err := mp.Upsert(tx1); err != nil {
			t.Fatalf("\t%s\tShould be able to add a transaction: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to add a transaction.", success)

		tx2 := sign(t, pkHexKey1, 250)
		if _, err := mp.Upsert(tx2); err != nil {
			t.Fatalf("\t%s\tShould be able to resubmit for the same sender: %s", failed, err)
		}

		if mp.Count() != 1 {
			t.Logf("\t%s\tgot: %d", failed, mp.Count())
			t.Logf("\t%s\texp: %d", failed, 1)
			t.Fatalf("\t%s\tShould hold one entry per sender.", failed)
		}
		t.Logf("\t%s\tShould hold one entry per sender.", success)

		pending, exists := mp.Existing(tx2.FromID)
		if !exists || pending.Value != 250 {
			t.Fatalf("\t%s\tShould retain the latest transaction for the sender.", failed)
		}
		t.Logf("\t%s\tShould retain the latest transaction for the sender.", success)

		if _, err := mp.Upsert(transaction.NewReward(to, 50)); err == nil {
			t.Fatalf("\t%s\tShould reject a transaction with no sender.", failed)
		}
		t.Logf("\t%s\tShould reject a transaction with no sender.", success)
	}
}

func Test_ValidTransactions(t *testing.T) {
	t.Log("Given the need to select only verifiable transactions for mining.")
	{
		mp := mempool.New()

		good := sign(t, pkHexKey1, 100)
		mp.Upsert(good)

		bad := sign(t, pkHexKey2, 100)
		bad.Value = 999999
		mp.Upsert(bad)

		txs := mp.ValidTransactions()
		if len(txs) != 1 {
			t.Logf("\t%s\tgot: %d", failed, len(txs))
			t.Logf("\t%s\texp: %d", failed, 1)
			t.Fatalf("\t%s\tShould only return transactions that verify.", failed)
		}
		t.Logf("\t%s\tShould only return transactions that verify.", success)

		if txs[0].FromID != good.FromID {
			t.Fatalf("\t%s\tShould return the verifiable transaction.", failed)
		}
		t.Logf("\t%s\tShould return the verifiable transaction.", success)

		if mp.Count() != 2 {
			t.Fatalf("\t%s\tShould leave the invalid entry in the pool.", failed)
		}
		t.Logf("\t%s\tShould leave the invalid entry in the pool.", success)
	}
}

func Test_Clear(t *testing.T) {
	t.Log("Given the need to clear exactly the mined set from the pool.")
	{
		mp := mempool.New()

		tx1 := sign(t, pkHexKey1, 100)
		mp.Upsert(tx1)

		// This transaction arrives after the mining snapshot was taken.
		tx2 := sign(t, pkHexKey2, 200)
		mp.Upsert(tx2)

		included := []transaction.SignedTx{tx1, transaction.NewReward(to, 50)}
		mp.Clear(included)

		if mp.Count() != 1 {
			t.Logf("\t%s\tgot: %d", failed, mp.Count())
			t.Logf("\t%s\texp: %d", failed, 1)
			t.Fatalf("\t%s\tShould only clear the included senders.", failed)
		}
		t.Logf("\t%s\tShould only clear the included senders.", success)

		if _, exists := mp.Existing(tx2.FromID); !exists {
			t.Fatalf("\t%s\tShould keep the transaction that arrived after the snapshot.", failed)
		}
		t.Logf("\t%s\tShould keep the transaction that arrived after the snapshot.", success)

		mp.Truncate()
		if mp.Count() != 0 {
			t.Fatalf("\t%s\tShould be able to truncate the pool.", failed)
		}
		t.Logf("\t%s\tShould be able to truncate the pool.", success)
	}
}
