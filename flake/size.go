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

package flake

// overhead approximates the fixed per-flake cost of the stable-marshal
// encoding (tuple framing, type tags) used by the persisted index segment
// format (delegated to the serializer; only the estimate lives here).
const overhead = 24

// SizeBytes estimates the stable-marshaled size of a flake. novelty.Set
// computes it once per flake at insertion time and adds it to its running
// size total, so absorb() stays O(1) per flake.
func (f Flake) SizeBytes() int {
	n := overhead
	switch f.O.Kind() {
	case KindString, KindBigInt, KindBigDec:
		n += len(f.O.AsString())
	case KindBytes:
		n += len(f.O.AsBytes())
	case KindBoolean:
		n++
	case KindLong, KindInstant:
		n += 8
	case KindFloat:
		n += 4
	case KindDouble:
		n += 8
	case KindRef:
		n += 8
	}
	n += len(f.M)
	return n
}
