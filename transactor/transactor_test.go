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
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flakedb/ledger/block"
	"github.com/flakedb/ledger/bootstrap"
	"github.com/flakedb/ledger/crypto/asymmetric"
	"github.com/flakedb/ledger/crypto/hash"
	"github.com/flakedb/ledger/flake"
	"github.com/flakedb/ledger/ledger"
	"github.com/flakedb/ledger/storage/memstore"
)

func newTestTransactor(t *testing.T) (*Transactor, *asymmetric.PrivateKey) {
	t.Helper()

	masterPriv, _, err := asymmetric.GenSecp256k1Keypair()
	require.NoError(t, err)

	genesisCmd, err := json.Marshal(struct {
		Type string `json:"type"`
		DB   string `json:"db"`
	}{Type: "new-db", DB: "net/db"})
	require.NoError(t, err)
	digest := hash.Sha3_256(genesisCmd)
	genesisSig, err := masterPriv.SignCompact(digest[:])
	require.NoError(t, err)

	result, err := bootstrap.Genesis(genesisCmd, genesisSig, 1000)
	require.NoError(t, err)

	l := ledger.NewFromGenesis("net", "db", result)
	return &Transactor{
		Ledger:  l,
		Builder: &block.Builder{Signer: masterPriv},
		Storage: memstore.New(),
	}, masterPriv
}

func sign(t *testing.T, priv *asymmetric.PrivateKey, cmd Command) (raw, sig []byte) {
	t.Helper()
	raw, err := json.Marshal(cmd)
	require.NoError(t, err)
	digest := hash.Sha3_256(raw)
	sig, err = priv.SignCompact(digest[:])
	require.NoError(t, err)
	return raw, sig
}

func mustPrepareAndCommit(t *testing.T, tr *Transactor, priv *asymmetric.PrivateKey, cmd Command) *Prepared {
	t.Helper()
	raw, sig := sign(t, priv, cmd)
	prepared, err := tr.Prepare(context.Background(), raw, sig)
	require.NoError(t, err)
	tr.Commit(prepared)
	return prepared
}

// defineCollectionAndPredicate registers a new "person" collection and a
// "person/name" string predicate, the groundwork every later test builds
// data on top of.
func defineCollectionAndPredicate(t *testing.T, tr *Transactor, priv *asymmetric.PrivateKey) *Prepared {
	return mustPrepareAndCommit(t, tr, priv, Command{
		Type: "tx",
		DB:   "net/db",
		Statements: []Statement{
			{Tempid: "coll", Collection: "_collection", Predicate: "_collection/name", Value: "person"},
			{Tempid: "pred", Collection: "_predicate", Predicate: "_predicate/name", Value: "person/name"},
			{Tempid: "pred", Predicate: "_predicate/type", Value: "string"},
			{Tempid: "pred", Predicate: "_predicate/unique", Value: false},
		},
	})
}

func TestPrepareCommitDefinesPredicateForNextTransaction(t *testing.T) {
	tr, priv := newTestTransactor(t)

	prepared := defineCollectionAndPredicate(t, tr, priv)
	require.Equal(t, 200, prepared.Tx.Receipt.Status)

	_, ok := tr.Ledger.Schema().Predicate("person/name")
	require.True(t, ok, "schema mutation takes effect for the next transaction")

	prepared2 := mustPrepareAndCommit(t, tr, priv, Command{
		Type: "tx",
		DB:   "net/db",
		Statements: []Statement{
			{Tempid: "alice", Collection: "person", Predicate: "person/name", Value: "Alice"},
		},
	})
	require.Equal(t, 200, prepared2.Tx.Receipt.Status)
	require.Contains(t, prepared2.Tx.Receipt.Tempids, "alice")

	sealed, err := tr.SealBlock(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, sealed.Header.Hash)
	require.Equal(t, int64(2), sealed.Header.Number)
}

func TestPrepareRejectsIllegalTypeChange(t *testing.T) {
	tr, priv := newTestTransactor(t)
	prepared := defineCollectionAndPredicate(t, tr, priv)
	predID := prepared.Tx.Receipt.Tempids["pred"]

	raw, sig := sign(t, priv, Command{
		Type: "tx",
		DB:   "net/db",
		Statements: []Statement{
			{Subject: predID.String(), Predicate: "_predicate/type", Value: "string", Retract: true},
			{Subject: predID.String(), Predicate: "_predicate/type", Value: "boolean"},
		},
	})
	p, err := tr.Prepare(context.Background(), raw, sig)
	require.NoError(t, err)
	require.NotEqual(t, 200, p.Tx.Receipt.Status)
	require.NotEmpty(t, p.Tx.Receipt.Message)
}

func TestPrepareRejectsUniqueOnExisting(t *testing.T) {
	tr, priv := newTestTransactor(t)
	prepared := defineCollectionAndPredicate(t, tr, priv)
	predID := prepared.Tx.Receipt.Tempids["pred"]

	raw, sig := sign(t, priv, Command{
		Type: "tx",
		DB:   "net/db",
		Statements: []Statement{
			{Subject: predID.String(), Predicate: "_predicate/unique", Value: true},
		},
	})
	p, err := tr.Prepare(context.Background(), raw, sig)
	require.NoError(t, err)
	require.NotEqual(t, 200, p.Tx.Receipt.Status)
}

func TestPrepareRejectsComponentOnNonRefPredicate(t *testing.T) {
	tr, priv := newTestTransactor(t)

	raw, sig := sign(t, priv, Command{
		Type: "tx",
		DB:   "net/db",
		Statements: []Statement{
			{Tempid: "coll", Collection: "_collection", Predicate: "_collection/name", Value: "widget"},
			{Tempid: "pred", Collection: "_predicate", Predicate: "_predicate/name", Value: "widget/label"},
			{Tempid: "pred", Predicate: "_predicate/type", Value: "string"},
			{Tempid: "pred", Predicate: "_predicate/component", Value: true},
		},
	})
	p, err := tr.Prepare(context.Background(), raw, sig)
	require.NoError(t, err)
	require.NotEqual(t, 200, p.Tx.Receipt.Status)
}

func TestPostHygieneRemovesPredicateFromPostOnDeindex(t *testing.T) {
	tr, priv := newTestTransactor(t)

	prepared := mustPrepareAndCommit(t, tr, priv, Command{
		Type: "tx",
		DB:   "net/db",
		Statements: []Statement{
			{Tempid: "coll", Collection: "_collection", Predicate: "_collection/name", Value: "person"},
			{Tempid: "pred", Collection: "_predicate", Predicate: "_predicate/name", Value: "person/email"},
			{Tempid: "pred", Predicate: "_predicate/type", Value: "string"},
			{Tempid: "pred", Predicate: "_predicate/index", Value: true},
		},
	})
	predID := prepared.Tx.Receipt.Tempids["pred"]

	mustPrepareAndCommit(t, tr, priv, Command{
		Type: "tx",
		DB:   "net/db",
		Statements: []Statement{
			{Tempid: "bob", Collection: "person", Predicate: "person/email", Value: "bob@example.com"},
		},
	})
	require.NotEmpty(t, tr.Ledger.Novelty().Range(flake.POST, flake.Flake{}, flake.Flake{}))

	deindex := mustPrepareAndCommit(t, tr, priv, Command{
		Type: "tx",
		DB:   "net/db",
		Statements: []Statement{
			{Subject: predID.String(), Predicate: "_predicate/index", Value: true, Retract: true},
			{Subject: predID.String(), Predicate: "_predicate/index", Value: false},
		},
	})
	require.Equal(t, 200, deindex.Tx.Receipt.Status)
	require.Contains(t, deindex.RemoveFromPost, predID)

	for _, f := range tr.Ledger.Novelty().Range(flake.POST, flake.Flake{}, flake.Flake{}) {
		require.NotEqual(t, predID, f.P, "de-indexed predicate's flakes must leave the post projection")
	}
}
