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

package novelty

import (
	"sync"

	"github.com/google/btree"

	"github.com/flakedb/ledger/flake"
)

// PredicateLookup answers the three questions flake.Indexable needs to
// decide which of the five projections a flake belongs in. The schema
// cache is the production implementation; tests supply a stub.
type PredicateLookup interface {
	IsIndexed(p flake.ID) bool
	IsUnique(p flake.ID) bool
	IsRefOrTag(p flake.ID) bool
}

// Stats is the running byte-size/count pair carried on ledger.Ledger.
type Stats struct {
	Flakes int64
	Size   int64
}

// Set holds the five live projections plus size/count statistics for one
// ledger's not-yet-persisted flakes. The Transactor is the single writer;
// readers take a Snapshot instead of touching Set directly (§5).
type Set struct {
	mu sync.RWMutex

	trees map[flake.Order]*btree.BTree
	stats Stats
}

// NewSet returns an empty novelty set.
func NewSet() *Set {
	s := &Set{trees: make(map[flake.Order]*btree.BTree, 5)}
	for _, o := range []flake.Order{flake.SPOT, flake.PSOT, flake.POST, flake.OPST, flake.TSPO} {
		s.trees[o] = btree.New(degree)
	}
	return s
}

// Absorb inserts flakes into spot/psot/tspo unconditionally, and into
// post/opst when flake.Indexable allows it for the flake's predicate
// (§4.2 "absorb"). Retractions use the same path: a retraction flake is
// added, never used to delete an assertion.
func (s *Set) Absorb(flakes []flake.Flake, lookup PredicateLookup) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range flakes {
		indexed := lookup.IsIndexed(f.P)
		unique := lookup.IsUnique(f.P)
		isRefOrTag := lookup.IsRefOrTag(f.P)

		for _, o := range []flake.Order{flake.SPOT, flake.PSOT, flake.POST, flake.OPST, flake.TSPO} {
			if !flake.Indexable(o, indexed, unique, isRefOrTag) {
				continue
			}
			s.trees[o].ReplaceOrInsert(item{order: o, f: f})
		}
		s.stats.Flakes++
		s.stats.Size += int64(f.SizeBytes())
	}
}

// Range returns every flake in order whose key falls in [from, to), a
// restartable O(log n + k) scan per §4.2. from/to are themselves flakes
// used only as comparison anchors; a zero-value anchor for "from" means
// "from the start" and likewise "to" means "through the end" when its
// subject and predicate are both zero.
func (s *Set) Range(order flake.Order, from, to flake.Flake) []flake.Flake {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []flake.Flake
	iter := func(i btree.Item) bool {
		out = append(out, i.(item).f)
		return true
	}
	tree := s.trees[order]
	if to.S.IsZero() && to.P.IsZero() {
		tree.AscendGreaterOrEqual(item{order: order, f: from}, iter)
		return out
	}
	tree.AscendRange(item{order: order, f: from}, item{order: order, f: to}, iter)
	return out
}

// Stats returns a copy of the current size/count statistics.
func (s *Set) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// RemoveFromOrder strips every flake whose predicate is p out of the given
// order's projection, the mechanical half of §4.3's post-index hygiene:
// once a predicate's index/unique flag has gone false, its flakes no
// longer belong in the post (or opst) projection.
func (s *Set) RemoveFromOrder(order flake.Order, p flake.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree := s.trees[order]
	var stale []btree.Item
	tree.Ascend(func(i btree.Item) bool {
		if i.(item).f.P == p {
			stale = append(stale, i)
		}
		return true
	})
	for _, i := range stale {
		tree.Delete(i)
	}
}

// Len reports how many flakes spot (the universal projection) currently
// holds.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trees[flake.SPOT].Len()
}

// Snapshot captures a read-only view of the set as it stands when the
// snapshot is taken (§5 "Ordering guarantees"): a reader that takes it at
// start sees the entries absorbed up to that point and no later ones. The
// block and t it carries are recorded with it; they do not filter the
// entries. google/btree trees are copy-on-write under Clone, so a snapshot
// reader never blocks or is blocked by concurrent absorption.
type Snapshot struct {
	block int64
	t     int64
	trees map[flake.Order]*btree.BTree
}

// Snapshot freezes the current state of s for a reader, labelled with
// (block, t).
func (s *Set) Snapshot(block, t int64) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	frozen := make(map[flake.Order]*btree.BTree, len(s.trees))
	for o, tree := range s.trees {
		frozen[o] = tree.Clone()
		s.trees[o] = tree.Clone()
	}
	return &Snapshot{block: block, t: t, trees: frozen}
}

// Range scans the frozen snapshot the same way Set.Range does, but never
// observes flakes absorbed after the snapshot was taken.
func (snap *Snapshot) Range(order flake.Order, from, to flake.Flake) []flake.Flake {
	var out []flake.Flake
	iter := func(i btree.Item) bool {
		out = append(out, i.(item).f)
		return true
	}
	tree := snap.trees[order]
	if to.S.IsZero() && to.P.IsZero() {
		tree.AscendGreaterOrEqual(item{order: order, f: from}, iter)
		return out
	}
	tree.AscendRange(item{order: order, f: from}, item{order: order, f: to}, iter)
	return out
}

// Block and T report the bounds the snapshot was captured at.
func (snap *Snapshot) Block() int64 { return snap.block }
func (snap *Snapshot) T() int64     { return snap.t }
