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

// ReindexEligible reports whether the Indexer is allowed to run a flush
// cycle: novelty.size has reached fdb-memory-reindex (§4.2).
func (s *Set) ReindexEligible(noveltyMin int64) bool {
	return s.Stats().Size >= noveltyMin
}

// Overloaded reports whether the Transactor must apply back-pressure and
// reject new writes until a flush completes: novelty.size has reached
// fdb-memory-reindex-max (§4.2, §5 "Backpressure").
func (s *Set) Overloaded(noveltyMax int64) bool {
	return s.Stats().Size >= noveltyMax
}
