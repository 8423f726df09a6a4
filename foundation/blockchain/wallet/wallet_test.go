package wallet_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ilmoi/minichain/foundation/blockchain/block"
	"github.com/ilmoi/minichain/foundation/blockchain/genesis"
	"github.com/ilmoi/minichain/foundation/blockchain/transaction"
	"github.com/ilmoi/minichain/foundation/blockchain/wallet"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const to = "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"

func testGenesis() genesis.Genesis {
	return genesis.Genesis{
		Date:            time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainID:         1,
		Difficulty:      1,
		MineRate:        13 * time.Second,
		MiningReward:    50,
		StartingBalance: 1000,
	}
}

func Test_SaveLoad(t *testing.T) {
	t.Log("Given the need to persist and reload a wallet key pair.")
	{
		w, err := wallet.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a wallet: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to generate a wallet.", success)

		path := filepath.Join(t.TempDir(), "private.ecdsa")
		if err := w.Save(path); err != nil {
			t.Fatalf("\t%s\tShould be able to save the wallet: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to save the wallet.", success)

		w2, err := wallet.Load(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the wallet: %s", failed, err)
		}

		if w.Account() != w2.Account() {
			t.Fatalf("\t%s\tShould get back the same account after reload.", failed)
		}
		t.Logf("\t%s\tShould get back the same account after reload.", success)
	}
}

func Test_Balance(t *testing.T) {
	t.Log("Given the need to compute a balance from confirmed history.")
	{
		gen := testGenesis()

		w, err := wallet.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a wallet: %s", failed, err)
		}
		account := w.Account()

		if b := wallet.Balance(account, gen, nil); b != gen.StartingBalance {
			t.Logf("\t%s\tgot: %d", failed, b)
			t.Logf("\t%s\texp: %d", failed, gen.StartingBalance)
			t.Fatalf("\t%s\tShould start with the genesis allocation.", failed)
		}
		t.Logf("\t%s\tShould start with the genesis allocation.", success)

		// One confirmed transfer out and one mining reward in.
		blocks := []block.Block{
			{
				Data: []transaction.SignedTx{
					{Tx: transaction.Tx{ID: "1", FromID: account, ToID: to, Value: 300}},
					{Tx: transaction.Tx{ID: "2", ToID: account, Value: gen.MiningReward}},
				},
			},
		}

		exp := gen.StartingBalance - 300 + gen.MiningReward
		if b := wallet.Balance(account, gen, blocks); b != exp {
			t.Logf("\t%s\tgot: %d", failed, b)
			t.Logf("\t%s\texp: %d", failed, exp)
			t.Fatalf("\t%s\tShould net transfers and rewards against the allocation.", failed)
		}
		t.Logf("\t%s\tShould net transfers and rewards against the allocation.", success)
	}
}

func Test_BalanceOverdraft(t *testing.T) {
	t.Log("Given the need to survive an overdraft arriving through a peer chain.")
	{
		gen := testGenesis()

		w, err := wallet.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a wallet: %s", failed, err)
		}
		account := w.Account()

		// A confirmed debit beyond the allocation must clamp the balance at
		// zero rather than wrapping the unsigned math.
		blocks := []block.Block{
			{
				Data: []transaction.SignedTx{
					{Tx: transaction.Tx{ID: "1", FromID: account, ToID: to, Value: gen.StartingBalance + 500}},
				},
			},
		}

		if b := wallet.Balance(account, gen, blocks); b != 0 {
			t.Logf("\t%s\tgot: %d", failed, b)
			t.Logf("\t%s\texp: %d", failed, 0)
			t.Fatalf("\t%s\tShould clamp an overdrawn balance at zero.", failed)
		}
		t.Logf("\t%s\tShould clamp an overdrawn balance at zero.", success)

		// Credits after the overdraft still accrue from zero.
		blocks = append(blocks, block.Block{
			Data: []transaction.SignedTx{
				{Tx: transaction.Tx{ID: "2", ToID: account, Value: gen.MiningReward}},
			},
		})

		if b := wallet.Balance(account, gen, blocks); b != gen.MiningReward {
			t.Logf("\t%s\tgot: %d", failed, b)
			t.Logf("\t%s\texp: %d", failed, gen.MiningReward)
			t.Fatalf("\t%s\tShould accrue later credits from zero.", failed)
		}
		t.Logf("\t%s\tShould accrue later credits from zero.", success)
	}
}

func Test_CreateTx(t *testing.T) {
	t.Log("Given the need to refuse transfers beyond the confirmed balance.")
	{
		gen := testGenesis()

		w, err := wallet.New()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a wallet: %s", failed, err)
		}

		signedTx, err := w.CreateTx(gen, to, 500, nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create a transfer within the balance: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to create a transfer within the balance.", success)

		if err := signedTx.Validate(); err != nil {
			t.Fatalf("\t%s\tShould produce a transaction that validates: %s", failed, err)
		}
		t.Logf("\t%s\tShould produce a transaction that validates.", success)

		if _, err := w.CreateTx(gen, to, gen.StartingBalance+1, nil); err == nil {
			t.Fatalf("\t%s\tShould refuse a transfer beyond the balance.", failed)
		}
		t.Logf("\t%s\tShould refuse a transfer beyond the balance.", success)
	}
}
