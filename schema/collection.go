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

// Collection is a namespace of subject identifiers sharing a numeric
// collection id.
type Collection struct {
	ID      flake.CollectionID
	Name    string
	Doc     string
	Version int
	Spec    *FnRef // optional _collection/spec
	Shard   *flake.ID
}

// FnRef names a delegated spec/txSpec function by subject id. The function
// body itself is evaluated by the (out-of-scope) rule engine; the core only
// ever checks that the reference exists and is ref-typed.
type FnRef struct {
	ID flake.ID
}
