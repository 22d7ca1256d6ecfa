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

package asymmetric

import (
	"crypto/ecdsa"

	"github.com/btcsuite/btcd/btcec"
)

// PrivateKey and PublicKey are named local types over btcec's, the same
// pattern signature.go and keyexchange.go already use for Signature so
// that the package can attach its own Sign/Verify/recover methods without
// reaching into btcec's method set directly.
type PrivateKey btcec.PrivateKey

// PublicKey is the local wrapper described above.
type PublicKey btcec.PublicKey

func (p *PrivateKey) toec() *btcec.PrivateKey { return (*btcec.PrivateKey)(p) }

// PubKey returns the public half of the key pair.
func (p *PrivateKey) PubKey() *PublicKey {
	return (*PublicKey)(p.toec().PubKey())
}

func (p *PublicKey) toec() *btcec.PublicKey { return (*btcec.PublicKey)(p) }

func (p *PublicKey) toECDSA() *ecdsa.PublicKey { return p.toec().ToECDSA() }

// SerializeCompressed returns the 33-byte compressed encoding used
// wherever a public key needs to be hashed or embedded in a flake value
// (author identity derivation, tag values for signer predicates).
func (p *PublicKey) SerializeCompressed() []byte {
	return p.toec().SerializeCompressed()
}

// IsValid reports whether the key's curve point is actually on the curve,
// guarding against a zero-value PublicKey slipping through deserialization.
func (p *PublicKey) IsValid() bool {
	return p != nil && p.toec().X != nil && p.toec().Y != nil &&
		p.toec().Curve.IsOnCurve(p.toec().X, p.toec().Y)
}

// SignCompact produces a recoverable compact signature over hash, the
// concrete instance of the spec's abstract `crypto.sign`. The recovery id
// packed into the first byte lets RecoverCompact invert it without the
// caller supplying a candidate public key.
func (p *PrivateKey) SignCompact(hash []byte) ([]byte, error) {
	return btcec.SignCompact(btcec.S256(), p.toec(), hash, true)
}

// RecoverCompact recovers the public key that produced sig over hash, the
// concrete instance of the spec's abstract `crypto.recover(cmd, sig)` used
// by schema bootstrap (§4.1 step 4) and the Transactor (§4.4 step 1).
func RecoverCompact(sig, hash []byte) (*PublicKey, error) {
	pub, _, err := btcec.RecoverCompact(btcec.S256(), sig, hash)
	if err != nil {
		return nil, err
	}
	return (*PublicKey)(pub), nil
}
