package pebbledb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ilmoi/minichain/foundation/blockchain/block"
	"github.com/ilmoi/minichain/foundation/blockchain/storage"
	"github.com/ilmoi/minichain/foundation/blockchain/transaction"
)

func TestStore_WriteGetBlock(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	blk := block.Block{
		Timestamp:  1700000000000,
		LastHash:   "0xaaa",
		Hash:       "0xbbb",
		Nonce:      42,
		Difficulty: 3,
		Data: []transaction.SignedTx{
			{Tx: transaction.Tx{ID: "1", FromID: "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", ToID: "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", Value: 100}},
		},
	}

	require.NoError(t, store.Write(1, blk))

	got, err := store.GetBlock(1)
	require.NoError(t, err)
	require.Equal(t, blk.Hash, got.Hash)
	require.Equal(t, blk.Nonce, got.Nonce)
	require.Len(t, got.Data, 1)
	require.Equal(t, blk.Data[0].Value, got.Data[0].Value)
}

func TestStore_GetBlockMissing(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.GetBlock(99)
	require.Error(t, err)
}

func TestStore_ForEach(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	for i := uint64(1); i <= 3; i++ {
		require.NoError(t, store.Write(i, block.Block{Nonce: i, Hash: "0xabc"}))
	}

	blocks, err := storage.ReadAllBlocks(store)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	for i, blk := range blocks {
		require.Equal(t, uint64(i+1), blk.Nonce)
	}
}

func TestStore_Reset(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Write(1, block.Block{Nonce: 1}))
	require.NoError(t, store.Reset())

	blocks, err := storage.ReadAllBlocks(store)
	require.NoError(t, err)
	require.Empty(t, blocks)
}

func TestStore_ResetCoversWholeKeyRange(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Write(1, block.Block{Nonce: 1}))
	require.NoError(t, store.Write(^uint64(0), block.Block{Nonce: 2}))
	require.NoError(t, store.Reset())

	_, err = store.GetBlock(1)
	require.Error(t, err)
	_, err = store.GetBlock(^uint64(0))
	require.Error(t, err)
}
