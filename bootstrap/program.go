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

// Package bootstrap produces the genesis block that defines a ledger's
// own meta-schema (§4.1). The bootstrap program — the fixed ordered list
// of collection/predicate/tag definitions and their stable numeric ids —
// is a Go literal table, not data loaded from a file, because §4.1 step 1
// requires ids "portable across instances": part of the binary, not
// environment-supplied. Modeled on blockproducer/chain.go's genesis-block
// construction path and conf/testnet's embedded static config-as-code.
package bootstrap

import (
	"github.com/flakedb/ledger/flake"
	"github.com/flakedb/ledger/schema"
)

// CollectionDef is one fixed collection entry in the bootstrap program.
type CollectionDef struct {
	ID   flake.CollectionID
	Name string
	Doc  string
}

// PredicateDef is one fixed predicate entry. Local is the predicate's
// subject-local id within the `_predicate` collection.
type PredicateDef struct {
	Local     uint64
	Name      string
	Type      schema.Type
	Multi     bool
	Unique    bool
	Index     bool
	Component bool
}

// TagDef is one fixed enumerated tag value, scoped to a predicate.
type TagDef struct {
	Local     uint64
	Predicate string
	Value     string
}

// Collections is the bootstrap program's collection table. Ids match the
// flake.CollectionID enum so every package agrees on the same numbering.
var Collections = []CollectionDef{
	{ID: flake.CollectionTxID, Name: schema.CollectionTxName, Doc: "transactions"},
	{ID: flake.CollectionChainID, Name: "_chain", Doc: "chain metadata"},
	{ID: flake.CollectionBlockID, Name: schema.CollectionBlockName, Doc: "blocks"},
	{ID: flake.CollectionCollectionID, Name: schema.CollectionCollectionName, Doc: "collection definitions"},
	{ID: flake.CollectionPredicateID, Name: schema.CollectionPredicateName, Doc: "predicate definitions"},
	{ID: flake.CollectionTagID, Name: schema.CollectionTagName, Doc: "enumerated tag values"},
	{ID: flake.CollectionFnID, Name: schema.CollectionFnName, Doc: "delegated spec functions"},
	{ID: flake.CollectionRuleID, Name: schema.CollectionRuleName, Doc: "permission rules"},
	{ID: flake.CollectionRoleID, Name: schema.CollectionRoleName, Doc: "permission roles"},
	{ID: flake.CollectionAuthID, Name: schema.CollectionAuthName, Doc: "signer authorities"},
	{ID: flake.CollectionSettingID, Name: schema.CollectionSettingName, Doc: "ledger settings"},
}

// Predicates is the bootstrap program's predicate table: the meta-fields
// of `_predicate`/`_collection`/`_tx`/`_block`/`_fn`/`_rule`/`_role`/
// `_auth`/`_setting` themselves, each a self-describing entry in the
// `_predicate` collection.
var Predicates = []PredicateDef{
	{Local: 1, Name: schema.MetaPredicateType, Type: schema.TypeString},
	{Local: 2, Name: schema.MetaPredicateMulti, Type: schema.TypeBoolean},
	{Local: 3, Name: schema.MetaPredicateUnique, Type: schema.TypeBoolean},
	{Local: 4, Name: schema.MetaPredicateIndex, Type: schema.TypeBoolean},
	{Local: 5, Name: schema.MetaPredicateComponent, Type: schema.TypeBoolean},
	{Local: 6, Name: schema.MetaPredicateName, Type: schema.TypeString, Unique: true, Index: true},
	{Local: 7, Name: "_predicate/upsert", Type: schema.TypeBoolean},
	{Local: 8, Name: "_predicate/noHistory", Type: schema.TypeBoolean},
	{Local: 9, Name: "_predicate/fullText", Type: schema.TypeBoolean},
	{Local: 10, Name: "_predicate/encrypted", Type: schema.TypeBoolean},
	{Local: 11, Name: "_predicate/deprecated", Type: schema.TypeBoolean},
	{Local: 12, Name: "_predicate/restrictCollection", Type: schema.TypeRef},
	{Local: 13, Name: "_predicate/restrictTag", Type: schema.TypeRef},
	{Local: 14, Name: "_predicate/spec", Type: schema.TypeRef},
	{Local: 15, Name: "_predicate/txSpec", Type: schema.TypeRef},

	{Local: 20, Name: schema.MetaCollectionName, Type: schema.TypeString, Unique: true, Index: true},
	{Local: 21, Name: "_collection/doc", Type: schema.TypeString},
	{Local: 22, Name: "_collection/version", Type: schema.TypeLong},
	{Local: 23, Name: "_collection/spec", Type: schema.TypeRef},
	{Local: 24, Name: "_collection/shard", Type: schema.TypeRef},

	{Local: 30, Name: schema.MetaTxID, Type: schema.TypeString, Unique: true, Index: true},
	{Local: 31, Name: schema.MetaTxNonce, Type: schema.TypeLong},
	{Local: 32, Name: schema.MetaTxAuthor, Type: schema.TypeRef},
	{Local: 33, Name: schema.MetaTxError, Type: schema.TypeString},

	{Local: 40, Name: schema.MetaBlockNumber, Type: schema.TypeLong, Unique: true, Index: true},
	{Local: 41, Name: schema.MetaBlockInstant, Type: schema.TypeLong},
	{Local: 42, Name: schema.MetaBlockPrevHash, Type: schema.TypeString},
	{Local: 43, Name: schema.MetaBlockHash, Type: schema.TypeString, Index: true},
	{Local: 44, Name: schema.MetaBlockLedgers, Type: schema.TypeString, Multi: true},
	{Local: 45, Name: schema.MetaBlockTransactions, Type: schema.TypeRef, Multi: true},

	{Local: 50, Name: schema.MetaFnName, Type: schema.TypeString, Unique: true, Index: true},
	{Local: 51, Name: schema.MetaRuleName, Type: schema.TypeString, Unique: true, Index: true},
	{Local: 52, Name: schema.MetaRoleName, Type: schema.TypeString, Unique: true, Index: true},
	{Local: 53, Name: schema.MetaAuthID, Type: schema.TypeString, Unique: true, Index: true},
	{Local: 54, Name: schema.MetaAuthRole, Type: schema.TypeRef},
	{Local: 55, Name: schema.MetaSettingAuth, Type: schema.TypeRef},
}

// Tags is the bootstrap program's tag table. Empty for this ledger: no
// predicate in Predicates is type `tag`, so there are no enumerated
// values to pre-mint.
var Tags []TagDef

// Tables are the three lookup tables §4.1 step 2 precomputes: pure
// functions of Collections/Predicates/Tags.
type Tables struct {
	CollectionIDByName map[string]flake.CollectionID
	PredicateIDByName  map[string]flake.ID
	TagIDByKey         map[schema.Key]flake.ID
}

// BuildTables computes the three lookup tables from the static program.
func BuildTables() Tables {
	t := Tables{
		CollectionIDByName: make(map[string]flake.CollectionID, len(Collections)),
		PredicateIDByName:  make(map[string]flake.ID, len(Predicates)),
		TagIDByKey:         make(map[schema.Key]flake.ID, len(Tags)),
	}
	for _, c := range Collections {
		t.CollectionIDByName[c.Name] = c.ID
	}
	for _, p := range Predicates {
		t.PredicateIDByName[p.Name] = flake.NewID(flake.CollectionPredicateID, p.Local)
	}
	for _, tag := range Tags {
		t.TagIDByKey[schema.Key{Predicate: tag.Predicate, Value: tag.Value}] = flake.NewID(flake.CollectionTagID, tag.Local)
	}
	return t
}

// PredicateID resolves a predicate name to its bootstrap-program id; it
// panics if the program itself references an undefined name, since that
// is a defect in the program table, not a runtime condition (§4.1
// "Failure").
func (t Tables) PredicateID(name string) flake.ID {
	id, ok := t.PredicateIDByName[name]
	if !ok {
		panic("bootstrap: program references undefined predicate " + name)
	}
	return id
}

// CollectionID resolves a collection name the same way.
func (t Tables) CollectionID(name string) flake.CollectionID {
	id, ok := t.CollectionIDByName[name]
	if !ok {
		panic("bootstrap: program references undefined collection " + name)
	}
	return id
}
