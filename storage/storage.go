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

// Package storage implements a pluggable blob key/value façade (§4.6):
// read/write/exists/rename/delete over a backend-agnostic byte store, with
// keys namespaced by ledger identity. The backends the façade composes
// (memory/file/s3/vault) are out-of-scope collaborators the core never
// talks to directly.
package storage

import (
	"context"
	"fmt"

	"github.com/flakedb/ledger/errkind"
)

// Backend is the uniform blob store contract every storage implementation
// satisfies. Every method is context-first and cancellable; "not found" is
// a distinguished condition, not a generic error, so callers can branch on
// errkind.Of(err) == errkind.StorageNotFound.
type Backend interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Exists(ctx context.Context, key string) (bool, error)
	Rename(ctx context.Context, oldKey, newKey string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Error is the typed envelope every backend wraps its failures in,
// resolving §9's Open Question about a vault backend that used to detect
// errors by prefix-matching a stringified response body. Status mirrors
// the User-visible surface (§7) status codes (400/500) where applicable.
type Error struct {
	Kind   errkind.Kind
	Status int
	Body   []byte
	Op     string
	Key    string
	cause  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s %q: %s (status %d)", e.Op, e.Key, e.Kind, e.Status)
}

// Cause supports errkind.Of's unwrap walk.
func (e *Error) Cause() error { return e.cause }

// Unwrap supports errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

// ErrKind reports e's classification to errkind.Of.
func (e *Error) ErrKind() errkind.Kind { return e.Kind }

// NewError builds a *Error wrapping cause, classified as kind.
func NewError(op, key string, kind errkind.Kind, status int, body []byte, cause error) *Error {
	return &Error{Kind: kind, Status: status, Body: body, Op: op, Key: key, cause: cause}
}

// NotFound builds the distinguished not-found error Read and Rename return
// for a missing key instead of a generic I/O error; Exists reports a
// missing key as (false, nil).
func NotFound(op, key string) *Error {
	return NewError(op, key, errkind.StorageNotFound, 404, nil, nil)
}

// Key builds the unix-style path the spec's §6 "Block file format" names:
// ledger/{network}/{dbid}/{kind}/{name}.
func Key(network, dbid, kind, name string) string {
	return fmt.Sprintf("ledger/%s/%s/%s/%s", network, dbid, kind, name)
}
