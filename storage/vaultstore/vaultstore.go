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

// Package vaultstore implements the "stash" fdb-storage-type backend: a
// façade over an HTTP KV service. This is the backend §9's Open Question
// names directly: the source it was distilled from detected errors by
// prefix-matching a stringified response body against `{"code"`, and
// aliased storage-rename to storage-read in one call site. Both defects
// are fixed here: exists/delete are first-class calls, errors decode into
// a typed envelope, and Rename is a real method, never an alias.
package vaultstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/flakedb/ledger/errkind"
	"github.com/flakedb/ledger/storage"
)

// Backend talks to a vault-style HTTP KV service rooted at BaseURL.
type Backend struct {
	BaseURL string
	Client  *http.Client
}

// New returns a Backend pointed at baseURL (no trailing slash).
func New(baseURL string) *Backend {
	return &Backend{BaseURL: baseURL, Client: http.DefaultClient}
}

// apiError is the JSON envelope the remote service returns on failure.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (b *Backend) do(ctx context.Context, method, key string, body []byte) (*http.Response, error) {
	url := fmt.Sprintf("%s/%s", b.BaseURL, key)
	var rdr *bytes.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return nil, err
	}
	return b.Client.Do(req)
}

func classify(op, key string, resp *http.Response) error {
	body, _ := ioutil.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return storage.NotFound(op, key)
	}
	if resp.StatusCode >= 400 {
		var apiErr apiError
		_ = json.Unmarshal(body, &apiErr)
		kind := errkind.StorageIO
		if resp.StatusCode >= 500 {
			kind = errkind.Unexpected
		}
		return storage.NewError(op, key, kind, resp.StatusCode, body, fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message))
	}
	return nil
}

func (b *Backend) Read(ctx context.Context, key string) ([]byte, error) {
	resp, err := b.do(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, storage.NewError("read", key, errkind.StorageIO, 0, nil, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, classify("read", key, resp)
	}
	return ioutil.ReadAll(resp.Body)
}

func (b *Backend) Write(ctx context.Context, key string, data []byte) error {
	resp, err := b.do(ctx, http.MethodPut, key, data)
	if err != nil {
		return storage.NewError("write", key, errkind.StorageIO, 0, nil, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return classify("write", key, resp)
	}
	resp.Body.Close()
	return nil
}

// Exists is a first-class call (a HEAD request), not a Read whose error is
// inspected — the §9 defect being fixed.
func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	resp, err := b.do(ctx, http.MethodHead, key, nil)
	if err != nil {
		return false, storage.NewError("exists", key, errkind.StorageIO, 0, nil, err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, classify("exists", key, resp)
	}
	return true, nil
}

// Rename is a genuine rename primitive (not storage-read under another
// name), implemented as read-old + write-new + delete-old since the
// remote KV API exposes no atomic move.
func (b *Backend) Rename(ctx context.Context, oldKey, newKey string) error {
	data, err := b.Read(ctx, oldKey)
	if err != nil {
		return err
	}
	if err := b.Write(ctx, newKey, data); err != nil {
		return err
	}
	return b.Delete(ctx, oldKey)
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	resp, err := b.do(ctx, http.MethodDelete, key, nil)
	if err != nil {
		return storage.NewError("delete", key, errkind.StorageIO, 0, nil, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return classify("delete", key, resp)
	}
	resp.Body.Close()
	return nil
}

// Close is idempotent; the backend holds no state beyond the shared HTTP
// client's connection pool.
func (b *Backend) Close() error { return nil }
