package block

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flakedb/ledger/crypto/asymmetric"
	"github.com/flakedb/ledger/flake"
	"github.com/flakedb/ledger/schema"
)

func testCache() *schema.Cache {
	c := schema.NewCache()
	c.PutCollection(&schema.Collection{ID: flake.CollectionBlockID, Name: schema.CollectionBlockName})
	names := []string{
		schema.MetaBlockNumber, schema.MetaBlockInstant, schema.MetaBlockPrevHash,
		schema.MetaBlockHash, schema.MetaBlockLedgers, schema.MetaBlockTransactions,
	}
	for i, name := range names {
		c.PutPredicate(&schema.Predicate{ID: flake.NewID(flake.CollectionPredicateID, uint64(i+1)), Name: name})
	}
	return c
}

func TestSealProducesStableHashAcrossIdenticalInput(t *testing.T) {
	cache := testCache()
	subj := flake.NewID(flake.CollectionUserBase, 1)
	pred := flake.NewID(flake.CollectionPredicateID, 99)
	tx := Transaction{
		TxID:  "abc",
		T:     -1,
		Flakes: []flake.Flake{
			flake.New(subj, pred, flake.String("hello"), -1, true, nil),
		},
	}

	priv, _, err := asymmetric.GenSecp256k1Keypair()
	require.NoError(t, err)

	b1 := &Builder{Signer: priv}
	blk1, err := b1.Seal(0, 0, "", []Transaction{tx}, cache, 1000)
	require.NoError(t, err)

	b2 := &Builder{Signer: priv}
	blk2, err := b2.Seal(0, 0, "", []Transaction{tx}, cache, 1000)
	require.NoError(t, err)

	require.Equal(t, blk1.Header.Hash, blk2.Header.Hash, "same instant must yield the same hash regardless of wall-clock")
	require.NotEmpty(t, blk1.Header.Hash)
	require.Equal(t, int64(1), blk1.Header.Number)

	b3 := &Builder{Signer: priv}
	blk3, err := b3.Seal(0, 0, "", []Transaction{tx}, cache, 2000)
	require.NoError(t, err)
	require.NotEqual(t, blk1.Header.Hash, blk3.Header.Hash, "a different instant is part of the hashed header and must change the hash")
}

func TestSealRequiresPrevHashForLaterBlocks(t *testing.T) {
	cache := testCache()
	subj := flake.NewID(flake.CollectionUserBase, 1)
	pred := flake.NewID(flake.CollectionPredicateID, 99)
	tx := Transaction{
		TxID: "abc",
		T:    -1,
		Flakes: []flake.Flake{
			flake.New(subj, pred, flake.String("hello"), -1, true, nil),
		},
	}

	builder := &Builder{}
	_, err := builder.Seal(-5, 3, "", []Transaction{tx}, cache, 1000)
	require.Error(t, err)

	_, err = builder.Seal(-5, 3, "deadbeef", []Transaction{tx}, cache, 1000)
	require.NoError(t, err)
}

func TestHashExcludesHashAndLedgersFlakes(t *testing.T) {
	cache := testCache()
	subj := BlockSubject(1)
	hashPred, _ := cache.Predicate(schema.MetaBlockHash)
	ledgersPred, _ := cache.Predicate(schema.MetaBlockLedgers)
	numberPred, _ := cache.Predicate(schema.MetaBlockNumber)

	flakes := []flake.Flake{
		flake.New(subj, numberPred.ID, flake.Long(1), -2, true, nil),
		flake.New(subj, hashPred.ID, flake.String("whatever"), -2, true, nil),
		flake.New(subj, ledgersPred.ID, flake.String("sig"), -2, true, nil),
	}

	canonical := CanonicalFlakes(flakes, cache)
	require.Len(t, canonical, 1)
	require.Equal(t, numberPred.ID, canonical[0].P)
}
