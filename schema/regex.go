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

// Package schema defines the meta-entities (collection, predicate, tag)
// that make up the ledger's self-describing data model.
package schema

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var collectionNameRe = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9._-]{0,254}$`)

// ValidCollectionName reports whether name matches the collection name
// grammar.
func ValidCollectionName(name string) bool {
	return collectionNameRe.MatchString(name)
}

// ErrInvalidCollectionName is returned by ValidateCollectionName.
var ErrInvalidCollectionName = errors.New("invalid collection name")

// ValidateCollectionName returns ErrInvalidCollectionName wrapped with
// context when name does not match the grammar.
func ValidateCollectionName(name string) error {
	if !ValidCollectionName(name) {
		return errors.Wrapf(ErrInvalidCollectionName, "%q", name)
	}
	return nil
}

// ErrInvalidPredicateName is returned by ValidatePredicateName.
var ErrInvalidPredicateName = errors.New("invalid predicate name")

// forbidden substrings a predicate's full "ns/local" name may never contain,
// reserved for the ledger's own reverse-reference and virtual-predicate
// naming conventions.
var forbiddenPredicateSubstrings = []string{"__", "/_", "_Via_"}

// ValidPredicateName reports whether name matches `^ns/local$` where both
// sides match the collection name grammar and the full string avoids the
// reserved substrings.
func ValidPredicateName(name string) bool {
	parts := strings.SplitN(name, "/", 2)
	if len(parts) != 2 {
		return false
	}
	if !ValidCollectionName(parts[0]) || !ValidCollectionName(parts[1]) {
		return false
	}
	for _, bad := range forbiddenPredicateSubstrings {
		if strings.Contains(name, bad) {
			return false
		}
	}
	return true
}

// ValidatePredicateName returns ErrInvalidPredicateName wrapped with
// context when name does not match the grammar.
func ValidatePredicateName(name string) error {
	if !ValidPredicateName(name) {
		return errors.Wrapf(ErrInvalidPredicateName, "%q", name)
	}
	return nil
}
