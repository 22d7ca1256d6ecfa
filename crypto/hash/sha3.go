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

package hash

import "golang.org/x/crypto/sha3"

// Sha3_256Size is the size in bytes of a Sha3_256 digest.
const Sha3_256Size = 32

// Sha3_256 hashes b with SHA3-256. Block and transaction content hashing
// (§3.4) uses this instead of the two-pass THash family in hashfuncs.go
// (sha256 over blake2b-512): the length-extension resistance a second pass
// buys is intrinsic to the Keccak sponge construction, so a single pass
// suffices here.
func Sha3_256(b []byte) [Sha3_256Size]byte {
	return sha3.Sum256(b)
}

// Sha3_256Hex hashes b with SHA3-256 and hex-encodes the digest.
func Sha3_256Hex(b []byte) string {
	d := Sha3_256(b)
	const hextable = "0123456789abcdef"
	out := make([]byte, len(d)*2)
	for i, v := range d {
		out[i*2] = hextable[v>>4]
		out[i*2+1] = hextable[v&0x0f]
	}
	return string(out)
}
