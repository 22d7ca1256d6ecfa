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
	"github.com/pkg/errors"

	"github.com/flakedb/ledger/crypto"
	"github.com/flakedb/ledger/crypto/asymmetric"
	"github.com/flakedb/ledger/crypto/hash"
	"github.com/flakedb/ledger/errkind"
)

// VerifyAndRecover recovers the author address from a detached recoverable
// signature over cmd (§4.4 step 1), the same recover-over-sign-compact
// shape bootstrap.Genesis uses to derive the master authority.
func VerifyAndRecover(cmd, sig []byte) (crypto.AccountAddress, error) {
	if len(sig) == 0 {
		return "", errkind.New(errkind.InvalidTx, errors.New("missing signature"), "recover transaction author")
	}
	digest := hash.Sha3_256(cmd)
	pub, err := asymmetric.RecoverCompact(sig, digest[:])
	if err != nil {
		return "", errkind.New(errkind.InvalidTx, err, "recover transaction author")
	}
	addr, err := crypto.PubKeyHash(pub)
	if err != nil {
		return "", errkind.New(errkind.InvalidTx, err, "derive author address")
	}
	return addr, nil
}
