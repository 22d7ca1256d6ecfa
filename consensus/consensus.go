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

// Package consensus names, by interface only, the replication collaborator
// a multi-node deployment would plug in to agree on block order before a
// block is sealed (§1 "consensus/replication... out of scope"). Group
// mirrors twopc.Worker's three-method shape so a concrete raft/kayak-backed
// implementation can be dropped in later without reshaping the Transactor.
package consensus

import "context"

// Group agrees on a sealed block across the replicas of one database. A
// single-node deployment needs no implementation at all; the Transactor's
// SealBlock path runs unconditionally and does not consult a Group.
type Group interface {
	// Prepare proposes a sealed block's canonical bytes to the group.
	Prepare(ctx context.Context, blockBytes []byte) error
	// Commit finalizes a previously prepared proposal.
	Commit(ctx context.Context, blockBytes []byte) error
	// Rollback abandons a previously prepared proposal.
	Rollback(ctx context.Context, blockBytes []byte) error
}
