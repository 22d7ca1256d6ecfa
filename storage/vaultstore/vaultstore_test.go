package vaultstore

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flakedb/ledger/errkind"
)

func newTestServer() (*httptest.Server, *sync.Map) {
	store := &sync.Map{}
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path[1:]
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			v, ok := store.Load(key)
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"code":"not_found","message":"no such key"}`))
				return
			}
			if r.Method == http.MethodGet {
				w.Write(v.([]byte))
			}
		case http.MethodPut:
			body, _ := ioutil.ReadAll(r.Body)
			store.Store(key, body)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			store.Delete(key)
			w.WriteHeader(http.StatusNoContent)
		}
	})
	return httptest.NewServer(mux), store
}

func TestReadWriteExistsDelete(t *testing.T) {
	srv, _ := newTestServer()
	defer srv.Close()
	ctx := context.Background()
	b := New(srv.URL)

	ok, err := b.Exists(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, b.Write(ctx, "k", []byte("v")))

	ok, err = b.Exists(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	got, err := b.Read(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)

	require.NoError(t, b.Delete(ctx, "k"))
	ok, err = b.Exists(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRenameMovesKey(t *testing.T) {
	srv, _ := newTestServer()
	defer srv.Close()
	ctx := context.Background()
	b := New(srv.URL)

	require.NoError(t, b.Write(ctx, "old", []byte("payload")))
	require.NoError(t, b.Rename(ctx, "old", "new"))

	ok, err := b.Exists(ctx, "old")
	require.NoError(t, err)
	require.False(t, ok)

	got, err := b.Read(ctx, "new")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), got)
}

func TestReadMissingReturnsNotFound(t *testing.T) {
	srv, _ := newTestServer()
	defer srv.Close()
	ctx := context.Background()
	b := New(srv.URL)

	_, err := b.Read(ctx, "missing")
	require.Error(t, err)
	var storageErr interface{ Error() string }
	require.ErrorAs(t, err, &storageErr)
	require.Equal(t, errkind.StorageNotFound, errkind.Of(err))
}
