package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flakedb/ledger/bootstrap"
	"github.com/flakedb/ledger/crypto/asymmetric"
	"github.com/flakedb/ledger/crypto/hash"
	"github.com/flakedb/ledger/flake"
	"github.com/flakedb/ledger/schema"
)

func newGenesisLedger(t *testing.T) *Ledger {
	priv, _, err := asymmetric.GenSecp256k1Keypair()
	require.NoError(t, err)

	cmd, err := json.Marshal(map[string]interface{}{"type": "new-db", "db": "net/db", "nonce": 1000})
	require.NoError(t, err)
	digest := hash.Sha3_256(cmd)
	sig, err := priv.SignCompact(digest[:])
	require.NoError(t, err)

	result, err := bootstrap.Genesis(cmd, sig, 1000)
	require.NoError(t, err)

	return NewFromGenesis("net", "db", result)
}

func TestNewFromGenesisAbsorbsBootstrapFlakes(t *testing.T) {
	l := newGenesisLedger(t)
	require.Equal(t, int64(1), l.Block())
	require.Equal(t, int64(-2), l.T())
	require.EqualValues(t, len(l.novelty.Range(flake.SPOT, flake.Flake{}, flake.Flake{})), l.Stats().Flakes)
}

func TestNextTDecrementsMonotonically(t *testing.T) {
	l := newGenesisLedger(t)
	first := l.NextT()
	second := l.NextT()
	require.Less(t, second, first)
	require.Equal(t, first-1, second)
}

func TestMintIDIncrementsPerCollection(t *testing.T) {
	l := newGenesisLedger(t)
	a := l.MintID(flake.CollectionUserBase)
	b := l.MintID(flake.CollectionUserBase)
	require.Equal(t, a.Local+1, b.Local)
}

func TestPublishSchemaReplacesCacheAtomically(t *testing.T) {
	l := newGenesisLedger(t)
	old := l.Schema()

	next := old.Clone()
	next.PutPredicate(&schema.Predicate{ID: flake.NewID(flake.CollectionPredicateID, 999), Name: "person/age", Type: schema.TypeInt})
	l.PublishSchema(next)

	require.True(t, old != l.Schema())
	_, ok := old.Predicate("person/age")
	require.False(t, ok)
	_, ok = l.Schema().Predicate("person/age")
	require.True(t, ok)
}
