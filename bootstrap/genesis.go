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

package bootstrap

import (
	"github.com/pkg/errors"

	"github.com/flakedb/ledger/block"
	"github.com/flakedb/ledger/crypto"
	"github.com/flakedb/ledger/crypto/asymmetric"
	"github.com/flakedb/ledger/crypto/hash"
	"github.com/flakedb/ledger/flake"
	"github.com/flakedb/ledger/schema"
)

// fnTrueLocal/fnFalseLocal/rootRuleLocal/rootRoleLocal/masterAuthLocal/
// ledgerSettingLocal are the fixed subject-local ids the master authority
// flakes are minted at (§4.1 step 4). Stable across instances, the same
// way the predicate ids in program.go are.
const (
	fnTrueLocal        uint64 = 1
	fnFalseLocal       uint64 = 2
	rootRuleLocal      uint64 = 1
	rootRoleLocal      uint64 = 1
	masterAuthLocal    uint64 = 1
	ledgerSettingLocal uint64 = 1
	genesisTxLocal     uint64 = 1
)

// Result is everything a ledger needs to begin operating after genesis:
// the sealed block, the schema cache the bootstrap program populated, and
// the starting ecount table (§3.5) derived from the program's own highest
// minted local ids per collection.
type Result struct {
	Block  *block.Block
	Cache  *schema.Cache
	Ecount map[flake.CollectionID]uint64
}

// Schema builds the schema cache implied by the bootstrap program: every
// collection and predicate in program.go, as fully-typed schema.Collection
// / schema.Predicate entries a Validator or Novelty set can look up
// immediately, with no separate "replay the genesis flakes" step needed.
func Schema(tables Tables) *schema.Cache {
	cache := schema.NewCache()
	for _, c := range Collections {
		cache.PutCollection(&schema.Collection{ID: c.ID, Name: c.Name, Doc: c.Doc})
	}
	for _, p := range Predicates {
		cache.PutPredicate(&schema.Predicate{
			ID:        tables.PredicateID(p.Name),
			Name:      p.Name,
			Type:      p.Type,
			Multi:     p.Multi,
			Unique:    p.Unique,
			Index:     p.Index,
			Component: p.Component,
		})
	}
	return cache
}

func schemaFlakes(tables Tables, t int64) []flake.Flake {
	var flakes []flake.Flake
	for _, c := range Collections {
		subject := flake.NewID(c.ID, 0)
		flakes = append(flakes, flake.New(subject, tables.PredicateID(schema.MetaCollectionName), flake.String(c.Name), t, true, nil))
	}
	for _, p := range Predicates {
		subject := flake.NewID(flake.CollectionPredicateID, p.Local)
		flakes = append(flakes,
			flake.New(subject, tables.PredicateID(schema.MetaPredicateName), flake.String(p.Name), t, true, nil),
			flake.New(subject, tables.PredicateID(schema.MetaPredicateType), flake.String(string(p.Type)), t, true, nil),
		)
		if p.Multi {
			flakes = append(flakes, flake.New(subject, tables.PredicateID(schema.MetaPredicateMulti), flake.Boolean(true), t, true, nil))
		}
		if p.Unique {
			flakes = append(flakes, flake.New(subject, tables.PredicateID(schema.MetaPredicateUnique), flake.Boolean(true), t, true, nil))
		}
		if p.Index {
			flakes = append(flakes, flake.New(subject, tables.PredicateID(schema.MetaPredicateIndex), flake.Boolean(true), t, true, nil))
		}
		if p.Component {
			flakes = append(flakes, flake.New(subject, tables.PredicateID(schema.MetaPredicateComponent), flake.Boolean(true), t, true, nil))
		}
	}
	return flakes
}

// authorityFlakes builds the master authority flakes §4.1 step 4 names:
// the two boolean spec functions, a root rule, a root role, the `_auth`
// record carrying masterAddr (derived from crypto.recover(cmd, sig)), and
// the `_setting` record tying the ledger's identity to that auth.
func authorityFlakes(tables Tables, masterAddr crypto.AccountAddress, t int64) []flake.Flake {
	fnTrue := flake.NewID(flake.CollectionFnID, fnTrueLocal)
	fnFalse := flake.NewID(flake.CollectionFnID, fnFalseLocal)
	rootRule := flake.NewID(flake.CollectionRuleID, rootRuleLocal)
	rootRole := flake.NewID(flake.CollectionRoleID, rootRoleLocal)
	auth := flake.NewID(flake.CollectionAuthID, masterAuthLocal)
	setting := flake.NewID(flake.CollectionSettingID, ledgerSettingLocal)

	return []flake.Flake{
		flake.New(fnTrue, tables.PredicateID(schema.MetaFnName), flake.String("true"), t, true, nil),
		flake.New(fnFalse, tables.PredicateID(schema.MetaFnName), flake.String("false"), t, true, nil),
		flake.New(rootRule, tables.PredicateID(schema.MetaRuleName), flake.String("root"), t, true, nil),
		flake.New(rootRole, tables.PredicateID(schema.MetaRoleName), flake.String("root"), t, true, nil),
		flake.New(auth, tables.PredicateID(schema.MetaAuthID), flake.String(string(masterAddr)), t, true, nil),
		flake.New(auth, tables.PredicateID(schema.MetaAuthRole), flake.Ref(rootRole), t, true, nil),
		flake.New(setting, tables.PredicateID(schema.MetaSettingAuth), flake.Ref(auth), t, true, nil),
	}
}

// Genesis runs §4.1's full procedure: it derives the master authority from
// crypto.recover(cmd, sig), assembles the schema and authority flakes into
// one genesis transaction at t=-1, and seals them into block 1 via the
// Block Builder. Two runs with the same (cmd, sig, timestampMillis) yield
// byte-identical blocks, since every input to hashing is a pure function
// of those three arguments and the fixed bootstrap program.
//
// The design treats the genesis content (schema definition plus master
// authority) as one synthetic transaction rather than two: §4.1 step 6
// names a single tx-t for the `_block/transactions` reference, and
// splitting it into a schema transaction and an authority transaction
// would require two distinct t values where the spec's own step 5
// describes only one (see DESIGN.md).
func Genesis(cmd, sig []byte, timestampMillis int64) (*Result, error) {
	if len(sig) == 0 {
		return nil, errors.New("bootstrap: missing signature for master authority")
	}

	cmdHash := hash.Sha3_256(cmd)
	pub, err := asymmetric.RecoverCompact(sig, cmdHash[:])
	if err != nil {
		return nil, errors.Wrap(err, "bootstrap: recover master authority public key")
	}
	masterAddr, err := crypto.PubKeyHash(pub)
	if err != nil {
		return nil, errors.Wrap(err, "bootstrap: derive master authority address")
	}

	tables := BuildTables()
	cache := Schema(tables)

	txSubject := block.TxSubject(1, int(genesisTxLocal))
	const txT int64 = -1

	var txFlakes []flake.Flake
	txFlakes = append(txFlakes, schemaFlakes(tables, txT)...)
	txFlakes = append(txFlakes, authorityFlakes(tables, masterAddr, txT)...)
	txFlakes = append(txFlakes,
		flake.New(txSubject, tables.PredicateID(schema.MetaTxID), flake.String(hash.Sha3_256Hex(cmd)), txT, true, nil),
		flake.New(txSubject, tables.PredicateID(schema.MetaTxNonce), flake.Long(timestampMillis), txT, true, nil),
	)

	tx := block.Transaction{
		TxID:    hash.Sha3_256Hex(cmd),
		Author:  masterAddr,
		Command: cmd,
		T:       txT,
		Flakes:  txFlakes,
		Receipt: block.Ok(nil),
	}

	builder := &block.Builder{}
	sealed, err := builder.Seal(txT, 0, "", []block.Transaction{tx}, cache, timestampMillis)
	if err != nil {
		return nil, errors.Wrap(err, "bootstrap: seal genesis block")
	}

	var maxPredicateLocal uint64
	for _, p := range Predicates {
		if p.Local > maxPredicateLocal {
			maxPredicateLocal = p.Local
		}
	}

	ecount := map[flake.CollectionID]uint64{
		flake.CollectionPredicateID: maxPredicateLocal,
		flake.CollectionFnID:        fnFalseLocal,
		flake.CollectionRuleID:      rootRuleLocal,
		flake.CollectionRoleID:      rootRoleLocal,
		flake.CollectionAuthID:      masterAuthLocal,
		flake.CollectionSettingID:   ledgerSettingLocal,
		flake.CollectionTxID:        uint64(block.TxSubject(1, int(genesisTxLocal)).Local),
	}

	return &Result{Block: sealed, Cache: cache, Ecount: ecount}, nil
}
