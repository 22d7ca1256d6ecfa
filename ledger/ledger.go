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

// Package ledger holds the per-database mutable state a node keeps
// between transactions (§3.5): the schema cache, the novelty set, the
// subject-id minting counters, and the logical-time/block-number
// watermarks. Concurrency follows xenomint/state.go's shape: a single
// sync.RWMutex guards the watermarks and ecount table, while the novelty
// set and schema cache manage their own internal synchronization
// (copy-on-write btrees, copy-on-write maps).
package ledger

import (
	"sync"

	"github.com/flakedb/ledger/bootstrap"
	"github.com/flakedb/ledger/flake"
	"github.com/flakedb/ledger/novelty"
	"github.com/flakedb/ledger/schema"
)

// Ledger is one database's live state.
type Ledger struct {
	Network string
	DBID    string

	mu       sync.RWMutex
	ecount   map[flake.CollectionID]uint64
	schema   *schema.Cache
	t        int64
	block    int64
	lastHash string

	novelty *novelty.Set
}

// NewFromGenesis builds a Ledger from a completed bootstrap: the genesis
// block's flakes are absorbed into novelty exactly as any other block's
// would be, so genesis is not a special case from the reader's point of
// view (§3.6 "A ledger is created by genesis bootstrap").
func NewFromGenesis(network, dbid string, genesis *bootstrap.Result) *Ledger {
	l := &Ledger{
		Network: network,
		DBID:    dbid,
		ecount:  genesis.Ecount,
		schema:  genesis.Cache,
		novelty: novelty.NewSet(),
	}
	l.novelty.Absorb(genesis.Block.Flakes, schemaLookup{cache: genesis.Cache})
	l.block = genesis.Block.Header.Number
	l.lastHash = genesis.Block.Header.Hash
	l.t = -2 // the genesis transaction used t=-1, the block header t=-2
	return l
}

// NextT assigns the next logical time for a new transaction (§4.4 step 2:
// "Use ledger.t - 1").
func (l *Ledger) NextT() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.t--
	return l.t
}

// T reports the current logical-time watermark without advancing it.
func (l *Ledger) T() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.t
}

// Block reports the current block-number watermark.
func (l *Ledger) Block() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.block
}

// AdvanceBlock records a newly sealed block's number and hash as the
// ledger's new watermark. The caller has already absorbed the block's
// flakes into novelty and published any schema-cache changes.
func (l *Ledger) AdvanceBlock(number int64, hash string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.block = number
	l.lastHash = hash
}

// LastHash reports the hash of the most recently sealed block, the
// prevHash the next Block Builder.Seal call chains onto.
func (l *Ledger) LastHash() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastHash
}

// MintID allocates the next subject-local id within collection, the
// concrete instance of §3.5's ecount mapping.
func (l *Ledger) MintID(collection flake.CollectionID) flake.ID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ecount[collection]++
	return flake.NewID(collection, l.ecount[collection])
}

// Schema returns the currently published schema cache. Callers hold onto
// the returned pointer for the lifetime of their transaction; a later
// PublishSchema never mutates it out from under them (§5 "Schema cache:
// copy-on-write").
func (l *Ledger) Schema() *schema.Cache {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.schema
}

// PublishSchema swaps in a new schema cache at block commit.
func (l *Ledger) PublishSchema(next *schema.Cache) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.schema = next
}

// Novelty returns the live novelty set. The Transactor is its single
// writer; all other callers should take a Snapshot (§5 "Novelty sets:
// single-writer / many-reader").
func (l *Ledger) Novelty() *novelty.Set {
	return l.novelty
}

// Lookup returns a novelty.PredicateLookup bound to the ledger's current
// schema cache, for absorbing a transaction's flakes.
func (l *Ledger) Lookup() novelty.PredicateLookup {
	return schemaLookup{cache: l.Schema()}
}

// Stats returns the ledger's running flake count/byte-size statistics.
func (l *Ledger) Stats() novelty.Stats {
	return l.novelty.Stats()
}
