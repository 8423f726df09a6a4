package storage_test

import (
	"testing"

	"github.com/ilmoi/minichain/foundation/blockchain/block"
	"github.com/ilmoi/minichain/foundation/blockchain/storage"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func testBlocks() []block.Block {
	return []block.Block{
		{Timestamp: 1, LastHash: "-", Hash: "0xaaa", Nonce: 7, Difficulty: 1},
		{Timestamp: 2, LastHash: "0xaaa", Hash: "0xbbb", Nonce: 9, Difficulty: 2},
	}
}

func backends(t *testing.T) map[string]storage.Serializer {
	disk, err := storage.NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("\t%s\tShould be able to open disk storage: %s", failed, err)
	}

	return map[string]storage.Serializer{
		"disk":   disk,
		"memory": storage.NewMemory(),
	}
}

func Test_WriteRead(t *testing.T) {
	t.Log("Given the need to persist blocks and read them back in order.")
	{
		for name, store := range backends(t) {
			t.Logf("\tWhen using the %s backend.", name)
			{
				blocks := testBlocks()
				for i, blk := range blocks {
					if err := store.Write(uint64(i+1), blk); err != nil {
						t.Fatalf("\t%s\tShould be able to write block %d: %s", failed, i+1, err)
					}
				}
				t.Logf("\t%s\tShould be able to write blocks.", success)

				blk, err := store.GetBlock(2)
				if err != nil {
					t.Fatalf("\t%s\tShould be able to read a block by number: %s", failed, err)
				}
				if blk.Hash != "0xbbb" {
					t.Fatalf("\t%s\tShould get back the right block.", failed)
				}
				t.Logf("\t%s\tShould be able to read a block by number.", success)

				got, err := storage.ReadAllBlocks(store)
				if err != nil {
					t.Fatalf("\t%s\tShould be able to read all blocks: %s", failed, err)
				}
				if len(got) != len(blocks) {
					t.Logf("\t%s\tgot: %d", failed, len(got))
					t.Logf("\t%s\texp: %d", failed, len(blocks))
					t.Fatalf("\t%s\tShould read back every stored block.", failed)
				}
				for i := range got {
					if got[i].Hash != blocks[i].Hash {
						t.Fatalf("\t%s\tShould read blocks back in order.", failed)
					}
				}
				t.Logf("\t%s\tShould read blocks back in order.", success)

				if err := store.Reset(); err != nil {
					t.Fatalf("\t%s\tShould be able to reset the storage: %s", failed, err)
				}
				got, err = storage.ReadAllBlocks(store)
				if err != nil {
					t.Fatalf("\t%s\tShould be able to read after reset: %s", failed, err)
				}
				if len(got) != 0 {
					t.Fatalf("\t%s\tShould be empty after reset.", failed)
				}
				t.Logf("\t%s\tShould be empty after reset.", success)

				store.Close()
			}
		}
	}
}
