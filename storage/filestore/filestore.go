/*
 * Copyright 2018 The CovenantSQL Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package filestore implements the "file" fdb-storage-type backend: a
// base directory of one file per key, with an optional at-rest
// encryption key (§4.6's encryption contract).
package filestore

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/flakedb/ledger/crypto/symmetric"
	"github.com/flakedb/ledger/errkind"
	"github.com/flakedb/ledger/storage"
)

// salt is fixed rather than per-file: the key material itself
// (fdb-encryption-secret) is the real secret, and a fixed salt keeps
// encrypted blobs independently decryptable without a companion
// manifest.
var salt = []byte("flakedb-filestore-salt")

// Backend stores each key as a file under Dir, optionally AES-256-CBC
// encrypted with a password-derived key.
type Backend struct {
	Dir           string
	EncryptionKey []byte // nil disables at-rest encryption
}

// New returns a Backend rooted at dir. If key is non-nil, writes are
// encrypted and reads are decrypted transparently.
func New(dir string, key []byte) (*Backend, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, storage.NewError("open", dir, errkind.StorageIO, 500, nil, err)
	}
	return &Backend{Dir: dir, EncryptionKey: key}, nil
}

func (b *Backend) path(key string) string {
	return filepath.Join(b.Dir, filepath.FromSlash(key))
}

func (b *Backend) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := ioutil.ReadFile(b.path(key))
	if os.IsNotExist(err) {
		return nil, storage.NotFound("read", key)
	}
	if err != nil {
		return nil, storage.NewError("read", key, errkind.StorageIO, 500, nil, err)
	}
	if b.EncryptionKey == nil {
		return raw, nil
	}
	plain, err := symmetric.DecryptWithPassword(raw, b.EncryptionKey, salt)
	if err != nil {
		return nil, storage.NewError("read", key, errkind.StorageIO, 500, nil, err)
	}
	return plain, nil
}

func (b *Backend) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := b.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return storage.NewError("write", key, errkind.StorageIO, 500, nil, err)
	}
	out := data
	if b.EncryptionKey != nil {
		enc, err := symmetric.EncryptWithPassword(data, b.EncryptionKey, salt)
		if err != nil {
			return storage.NewError("write", key, errkind.StorageIO, 500, nil, err)
		}
		out = enc
	}
	if err := ioutil.WriteFile(p, out, 0o600); err != nil {
		return storage.NewError("write", key, errkind.StorageIO, 500, nil, err)
	}
	return nil
}

func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(b.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, storage.NewError("exists", key, errkind.StorageIO, 500, nil, err)
	}
	return true, nil
}

func (b *Backend) Rename(ctx context.Context, oldKey, newKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	np := b.path(newKey)
	if err := os.MkdirAll(filepath.Dir(np), 0o700); err != nil {
		return storage.NewError("rename", oldKey, errkind.StorageIO, 500, nil, err)
	}
	if err := os.Rename(b.path(oldKey), np); err != nil {
		if os.IsNotExist(err) {
			return storage.NotFound("rename", oldKey)
		}
		return storage.NewError("rename", oldKey, errkind.StorageIO, 500, nil, err)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(b.path(key)); err != nil && !os.IsNotExist(err) {
		return storage.NewError("delete", key, errkind.StorageIO, 500, nil, err)
	}
	return nil
}

// Close is idempotent; a filesystem backend holds no open handles between
// calls.
func (b *Backend) Close() error { return nil }
