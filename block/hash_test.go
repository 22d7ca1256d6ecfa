package block

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flakedb/ledger/flake"
)

func TestCanonicalJSONIsDeterministic(t *testing.T) {
	subj := flake.NewID(flake.CollectionUserBase, 1)
	pred := flake.NewID(flake.CollectionPredicateID, 1)
	flakes := []flake.Flake{
		flake.New(subj, pred, flake.Long(42), -1, true, nil),
		flake.New(subj, pred, flake.String("x"), -1, true, []byte("meta")),
	}

	a, err := CanonicalJSON(flakes)
	require.NoError(t, err)
	b, err := CanonicalJSON(flakes)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestCanonicalValueTagsEachKind(t *testing.T) {
	values := []flake.Value{
		flake.String("s"),
		flake.Boolean(true),
		flake.Long(123456789012),
		flake.BigInt("99999999999999999999"),
		flake.Float(1.5),
		flake.Double(2.25),
		flake.BigDec("3.14159265358979"),
		flake.Bytes([]byte{0x01, 0x02}),
		flake.Ref(flake.NewID(flake.CollectionUserBase, 9)),
	}
	for _, v := range values {
		out := canonicalValue(v)
		require.Len(t, out, 2)
		require.Equal(t, v.Kind().String(), out[0])
	}
}
