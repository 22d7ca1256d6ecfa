package bootstrap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flakedb/ledger/crypto/asymmetric"
	"github.com/flakedb/ledger/crypto/hash"
	"github.com/flakedb/ledger/schema"
)

type newDBCmd struct {
	Type   string `json:"type"`
	DB     string `json:"db"`
	Nonce  int64  `json:"nonce"`
	Expire int64  `json:"expire"`
}

func signedGenesisInput(t *testing.T) (cmd, sig []byte) {
	priv, _, err := asymmetric.GenSecp256k1Keypair()
	require.NoError(t, err)

	cmd, err = json.Marshal(newDBCmd{Type: "new-db", DB: "net/db", Nonce: 1000, Expire: 1000300000})
	require.NoError(t, err)

	digest := hash.Sha3_256(cmd)
	sig, err = priv.SignCompact(digest[:])
	require.NoError(t, err)
	return cmd, sig
}

func TestGenesisIsDeterministic(t *testing.T) {
	cmd, sig := signedGenesisInput(t)

	r1, err := Genesis(cmd, sig, 1000)
	require.NoError(t, err)
	r2, err := Genesis(cmd, sig, 1000)
	require.NoError(t, err)

	require.Equal(t, r1.Block.Header.Hash, r2.Block.Header.Hash)
	require.Equal(t, int64(1), r1.Block.Header.Number)
	require.Empty(t, r1.Block.Header.PrevHash)
}

func TestGenesisPopulatesSchemaCache(t *testing.T) {
	cmd, sig := signedGenesisInput(t)
	r, err := Genesis(cmd, sig, 1000)
	require.NoError(t, err)

	p, ok := r.Cache.Predicate(schema.MetaPredicateName)
	require.True(t, ok)
	require.Equal(t, schema.TypeString, p.Type)
	require.True(t, p.Unique)

	col, ok := r.Cache.Collection(schema.CollectionPredicateName)
	require.True(t, ok)
	require.NotZero(t, col.ID)
}

func TestGenesisRejectsMissingSignature(t *testing.T) {
	cmd, _ := signedGenesisInput(t)
	_, err := Genesis(cmd, nil, 1000)
	require.Error(t, err)
}

func TestGenesisNoveltyContainsOnlyBootstrapFlakes(t *testing.T) {
	cmd, sig := signedGenesisInput(t)
	r, err := Genesis(cmd, sig, 1000)
	require.NoError(t, err)

	require.NotEmpty(t, r.Block.Flakes)
	for _, f := range r.Block.Flakes {
		require.True(t, f.Op, "genesis only ever asserts")
		require.True(t, f.T == -1 || f.T == -2)
	}
}
