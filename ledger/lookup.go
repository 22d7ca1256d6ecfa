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

package ledger

import (
	"github.com/flakedb/ledger/flake"
	"github.com/flakedb/ledger/novelty"
	"github.com/flakedb/ledger/schema"
)

// schemaLookup adapts a schema.Cache to novelty.PredicateLookup, the
// three absorb-time questions §4.2 asks of a flake's predicate.
type schemaLookup struct {
	cache *schema.Cache
}

var _ novelty.PredicateLookup = schemaLookup{}

func (l schemaLookup) IsIndexed(p flake.ID) bool {
	pred, ok := l.cache.PredicateByID(p)
	return ok && pred.Indexed()
}

func (l schemaLookup) IsUnique(p flake.ID) bool {
	pred, ok := l.cache.PredicateByID(p)
	return ok && pred.Unique
}

func (l schemaLookup) IsRefOrTag(p flake.ID) bool {
	pred, ok := l.cache.PredicateByID(p)
	return ok && pred.ReverseIndexed()
}
