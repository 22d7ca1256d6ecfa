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

// Package transactor executes one transaction end-to-end: parse, assign
// time, materialize flakes, validate, admit to novelty, and cooperate
// with the Block Builder (§4.4). Grounded on xenomint/state.go's single
// mutable pipeline object behind a sync.RWMutex and on kayak's two-phase
// shape (twopc/twopc.go's interface) for the Prepare/Commit/Rollback
// split between "absorbed into novelty" and "block sealed".
package transactor

import "github.com/flakedb/ledger/flake"

// Command is the parsed form of a client's signed write request: the
// statement graph the Transactor's materialize step (§4.4 step 3) walks.
// The wire/query-language parser itself is out of scope (§1); Command is
// the boundary this package accepts once that parsing has happened.
type Command struct {
	Type       string      `json:"type"`
	DB         string      `json:"db"`
	Nonce      int64       `json:"nonce"`
	Statements []Statement `json:"statements"`
}

// Statement asserts or retracts one (subject, predicate, object) edge.
// Subject is either a fresh entity (Tempid set, minted in Collection) or
// an existing one (Subject holding its `collection/local` string form).
// Value is either a literal (coerced to the predicate's declared type) or
// a reference to another entity named by Tempid or Subject string form,
// written as `{"ref": "..."}`.
type Statement struct {
	Tempid     string      `json:"tempid,omitempty"`
	Collection string      `json:"collection,omitempty"`
	Subject    string      `json:"subject,omitempty"`
	Predicate  string      `json:"predicate"`
	Value      interface{} `json:"value"`
	Retract    bool        `json:"retract,omitempty"`
}

// Ref names another statement's Tempid or an existing subject's string
// form, used as a Statement.Value for ref/tag-typed predicates.
type Ref struct {
	Ref string `json:"ref"`
}

// resolver mints or looks up subject ids for tempids within one
// transaction. Not safe for concurrent use; one resolver per transaction.
type resolver struct {
	mint    func(collection flake.CollectionID) flake.ID
	tempids map[string]flake.ID
}

func newResolver(mint func(flake.CollectionID) flake.ID) *resolver {
	return &resolver{mint: mint, tempids: map[string]flake.ID{}}
}

// mintOrGet returns the subject id already minted for tempid within this
// transaction, minting a fresh one in collection on first use.
func (r *resolver) mintOrGet(tempid string, collection flake.CollectionID) flake.ID {
	if id, ok := r.tempids[tempid]; ok {
		return id
	}
	id := r.mint(collection)
	r.tempids[tempid] = id
	return id
}

// resolveName resolves either a tempid minted earlier in this transaction
// or an existing subject's `collection/local` string form.
func (r *resolver) resolveName(name string) (flake.ID, bool) {
	if id, ok := r.tempids[name]; ok {
		return id, true
	}
	return ParseID(name)
}
