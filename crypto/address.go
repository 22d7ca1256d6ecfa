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

package crypto

import (
	"github.com/pkg/errors"

	"github.com/flakedb/ledger/crypto/asymmetric"
	"github.com/flakedb/ledger/crypto/hash"
)

// AccountAddress identifies a signer: the hash of the public key that
// authored a transaction, carried in block.Transaction's Author field and as the
// subject of the `_auth/*` predicates a client uses to manage signer
// rights. It is the concrete instance of the spec's abstract author id.
type AccountAddress string

// PublicKeyToAddress is an alias to function crypto.PubKeyHash
var PublicKeyToAddress = PubKeyHash

// PubKeyHash generates the account address for the given public key.
func PubKeyHash(pubKey *asymmetric.PublicKey) (addr AccountAddress, err error) {
	if !pubKey.IsValid() {
		err = errors.New("invalid public key")
		return
	}
	h := hash.THashH(pubKey.SerializeCompressed())
	addr = AccountAddress(h.String())
	return
}
