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

// Package novelty maintains the five sort-order projections (§3.2, §4.2)
// of flakes not yet flushed to a persisted index segment, backed by
// github.com/google/btree for O(log n + k) range queries.
package novelty

import (
	"github.com/google/btree"

	"github.com/flakedb/ledger/flake"
)

// item adapts a flake.Flake to btree.Item for one sort order.
type item struct {
	order flake.Order
	f     flake.Flake
}

func (i item) Less(than btree.Item) bool {
	o := than.(item)
	return flake.Less(i.order, i.f, o.f)
}

// degree is the B-tree branching factor; 32 is google/btree's own README
// recommendation for byte-sized keys, balanced against pointer-chasing
// depth for the flake tuples stored here.
const degree = 32
