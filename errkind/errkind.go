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

// Package errkind classifies ledger errors into the kinds named in §7 of
// the design, the way blockproducer/errors.go enumerates a flat list of
// sentinels instead of a typed exception hierarchy.
package errkind

import "github.com/pkg/errors"

// Kind is one of the error kinds the user-visible surface reports.
type Kind string

// Recognized kinds.
const (
	InvalidConfiguration Kind = "invalid-configuration"
	InvalidCollection    Kind = "invalid-collection"
	InvalidPredicate     Kind = "invalid-predicate"
	InvalidTx            Kind = "invalid-tx"
	StorageIO            Kind = "storage-io"
	StorageNotFound      Kind = "storage-not-found"
	ConsensusTimeout     Kind = "consensus-timeout"
	Unexpected           Kind = "unexpected-error"
)

// HTTPStatus maps a kind to the §7 user-visible status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case InvalidConfiguration, InvalidCollection, InvalidPredicate, InvalidTx:
		return 400
	default:
		return 500
	}
}

// kinded wraps an underlying error with its classification, without hiding
// the original error from errors.Cause/errors.Is chains.
type kinded struct {
	kind Kind
	err  error
}

func (k *kinded) Error() string { return k.err.Error() }
func (k *kinded) Cause() error  { return k.err }
func (k *kinded) Unwrap() error { return k.err }

// New wraps err with kind and a message, using pkg/errors so the original
// stack trace/cause chain is preserved.
func New(kind Kind, err error, message string) error {
	return &kinded{kind: kind, err: errors.Wrap(err, message)}
}

// Of classifies err; unclassified errors report Unexpected.
func Of(err error) Kind {
	var k *kinded
	for e := err; e != nil; {
		if kk, ok := e.(*kinded); ok {
			k = kk
			break
		}
		if ek, ok := e.(interface{ ErrKind() Kind }); ok {
			return ek.ErrKind()
		}
		cause, ok := e.(interface{ Cause() error })
		if !ok {
			break
		}
		e = cause.Cause()
	}
	if k == nil {
		return Unexpected
	}
	return k.kind
}
