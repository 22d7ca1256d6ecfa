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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flakedb/ledger/crypto/asymmetric"
)

func TestPubKeyHashIsStableAndDeterministic(t *testing.T) {
	_, pub, err := asymmetric.GenSecp256k1Keypair()
	require.NoError(t, err)

	addr1, err := PubKeyHash(pub)
	require.NoError(t, err)
	require.NotEmpty(t, addr1)

	addr2, err := PubKeyHash(pub)
	require.NoError(t, err)
	require.Equal(t, addr1, addr2)
}

func TestPubKeyHashRejectsInvalidKey(t *testing.T) {
	_, err := PubKeyHash(&asymmetric.PublicKey{})
	require.Error(t, err)
}
