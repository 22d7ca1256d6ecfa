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

package transactor

import (
	"strconv"
	"strings"

	"github.com/flakedb/ledger/flake"
)

// ParseID parses the `collection/local` string form an existing subject's
// id prints as (flake.ID.String()), the form a command uses to reference
// an entity that was not minted within the same transaction.
func ParseID(s string) (flake.ID, bool) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return flake.ID{}, false
	}
	collection, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return flake.ID{}, false
	}
	local, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return flake.ID{}, false
	}
	return flake.NewID(flake.CollectionID(collection), local), true
}
