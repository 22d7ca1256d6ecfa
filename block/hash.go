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

package block

import (
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/flakedb/ledger/crypto/hash"
	"github.com/flakedb/ledger/flake"
	"github.com/flakedb/ledger/schema"
)

// headerPredicateNames names the flakes a hash computation must exclude:
// the block's own hash and signer flakes are appended *after* hashing
// (§3.4, §4.5 step 3-4), so they can never be inputs to the digest.
var headerPredicateNames = map[string]bool{
	"_block/hash":    true,
	"_block/ledgers": true,
}

// CanonicalFlakes sorts flakes into spot order and drops any whose
// predicate resolves (through cache) to `_block/hash` or `_block/ledgers`,
// producing the exact input sequence §4.5 step 3 hashes.
func CanonicalFlakes(flakes []flake.Flake, cache *schema.Cache) []flake.Flake {
	out := make([]flake.Flake, 0, len(flakes))
	for _, f := range flakes {
		if p, ok := cache.PredicateByID(f.P); ok && headerPredicateNames[p.Name] {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return flake.Less(flake.SPOT, out[i], out[j]) })
	return out
}

func idString(id flake.ID) string {
	return strconv.FormatUint(id.Encode(), 10)
}

// canonicalValue encodes a flake.Value as a deterministic [kind, payload]
// pair. Numeric payloads too wide for a JSON float64 (long/bigint/bigdec)
// are carried as decimal strings, the same precision-safety rule the
// teacher's msgpack-era hashing never had to consider but canonical JSON
// does.
func canonicalValue(v flake.Value) []interface{} {
	switch v.Kind() {
	case flake.KindNil:
		return []interface{}{v.Kind().String(), nil}
	case flake.KindString:
		return []interface{}{v.Kind().String(), v.AsString()}
	case flake.KindBoolean:
		return []interface{}{v.Kind().String(), v.AsBool()}
	case flake.KindLong:
		return []interface{}{v.Kind().String(), strconv.FormatInt(v.AsLong(), 10)}
	case flake.KindBigInt:
		return []interface{}{v.Kind().String(), v.AsString()}
	case flake.KindFloat:
		return []interface{}{v.Kind().String(), strconv.FormatFloat(float64(v.AsFloat32()), 'g', -1, 32)}
	case flake.KindDouble:
		return []interface{}{v.Kind().String(), strconv.FormatFloat(v.AsFloat64(), 'g', -1, 64)}
	case flake.KindBigDec:
		return []interface{}{v.Kind().String(), v.AsString()}
	case flake.KindInstant:
		return []interface{}{v.Kind().String(), v.AsTime().Format("2006-01-02T15:04:05.000000000Z")}
	case flake.KindBytes:
		return []interface{}{v.Kind().String(), hex.EncodeToString(v.AsBytes())}
	case flake.KindRef:
		return []interface{}{v.Kind().String(), idString(v.AsRef())}
	default:
		return []interface{}{"unknown", nil}
	}
}

func canonicalTuple(f flake.Flake) []interface{} {
	tuple := []interface{}{
		idString(f.S),
		idString(f.P),
		canonicalValue(f.O),
		f.T,
		f.Op,
	}
	if len(f.M) > 0 {
		tuple = append(tuple, hex.EncodeToString(f.M))
	}
	return tuple
}

// CanonicalJSON renders flakes (already in the order to hash) as the
// `[[s,p,o,t,op,m], …]` array the digest covers.
func CanonicalJSON(flakes []flake.Flake) ([]byte, error) {
	tuples := make([][]interface{}, len(flakes))
	for i, f := range flakes {
		tuples[i] = canonicalTuple(f)
	}
	return json.Marshal(tuples)
}

// Hash computes the block-content hash: SHA3-256 over the canonical JSON
// of flakes sorted into spot order with header-only flakes excluded
// (§3.4, §8 "For every block: sha3_256(canonical-json(...)) == B.hash").
func Hash(flakes []flake.Flake, cache *schema.Cache) (string, error) {
	canonical := CanonicalFlakes(flakes, cache)
	body, err := CanonicalJSON(canonical)
	if err != nil {
		return "", err
	}
	return hash.Sha3_256Hex(body), nil
}
