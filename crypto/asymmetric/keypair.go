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
	"github.com/btcsuite/btcd/btcec"
	log "github.com/sirupsen/logrus"
)

// GenSecp256k1Keypair generates a new secp256k1 key pair, used to mint an
// author identity (schema bootstrap's master authority, a node's signing
// key) or in tests.
func GenSecp256k1Keypair() (privateKey *PrivateKey, publicKey *PublicKey, err error) {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		log.Errorf("private key generation error: %s", err)
		return nil, nil, err
	}
	privateKey = (*PrivateKey)(priv)
	publicKey = privateKey.PubKey()
	return
}
