package errkind

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestOfClassifiesWrappedError(t *testing.T) {
	base := errors.New("boom")
	wrapped := New(InvalidTx, base, "tx rejected")
	require.Equal(t, InvalidTx, Of(wrapped))
	require.Equal(t, 400, InvalidTx.HTTPStatus())
}

func TestOfDefaultsToUnexpected(t *testing.T) {
	require.Equal(t, Unexpected, Of(errors.New("plain")))
	require.Equal(t, 500, Unexpected.HTTPStatus())
}
