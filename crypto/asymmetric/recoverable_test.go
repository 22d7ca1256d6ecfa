package asymmetric

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flakedb/ledger/crypto/hash"
)

func TestSignCompactAndRecoverRoundTrip(t *testing.T) {
	priv, pub, err := GenSecp256k1Keypair()
	require.NoError(t, err)

	digest := hash.Sha3_256([]byte("new-db command bytes"))
	sig, err := priv.SignCompact(digest[:])
	require.NoError(t, err)

	recovered, err := RecoverCompact(sig, digest[:])
	require.NoError(t, err)
	require.Equal(t, pub.toec().SerializeCompressed(), recovered.toec().SerializeCompressed())
}
