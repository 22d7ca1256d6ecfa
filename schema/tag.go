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

package schema

import "github.com/flakedb/ledger/flake"

// Tag is an enumerated value reference used as the object of predicates
// whose type is tag. Tags are minted once, at bootstrap or at the first
// transaction that introduces a new enum value, and never retracted.
type Tag struct {
	ID        flake.ID
	Predicate flake.ID // the tag-typed predicate this tag value belongs to
	Value     string
}

// Key is the (predicate-name, tag-value) pair used to look up a tag's
// minted subject id, matching §4.1 step 2's precomputed lookup table.
type Key struct {
	Predicate string
	Value     string
}
