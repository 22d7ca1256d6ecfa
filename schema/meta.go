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

package schema

// Names of the fixed meta-collections and meta-predicates the bootstrap
// program defines (§4.1) and the Schema Validator inspects (§4.3). These
// are the stable, code-embedded names looked up through a Cache rather
// than numeric ids, so the validator never hardcodes bootstrap's id
// allocation.
const (
	CollectionPredicateName  = "_predicate"
	CollectionCollectionName = "_collection"
	CollectionTxName         = "_tx"
	CollectionBlockName      = "_block"
	CollectionTagName        = "_tag"
	CollectionFnName         = "_fn"
	CollectionRuleName       = "_rule"
	CollectionRoleName       = "_role"
	CollectionAuthName       = "_auth"
	CollectionSettingName    = "_setting"

	MetaPredicateType      = "_predicate/type"
	MetaPredicateMulti     = "_predicate/multi"
	MetaPredicateUnique    = "_predicate/unique"
	MetaPredicateIndex     = "_predicate/index"
	MetaPredicateComponent = "_predicate/component"
	MetaPredicateName      = "_predicate/name"

	MetaCollectionName = "_collection/name"

	MetaTxID     = "_tx/id"
	MetaTxNonce  = "_tx/nonce"
	MetaTxAuthor = "_tx/author"
	MetaTxError  = "_tx/error"

	MetaBlockNumber       = "_block/number"
	MetaBlockInstant      = "_block/instant"
	MetaBlockPrevHash     = "_block/prevHash"
	MetaBlockHash         = "_block/hash"
	MetaBlockLedgers      = "_block/ledgers"
	MetaBlockTransactions = "_block/transactions"

	MetaFnName = "_fn/name"

	MetaRuleName = "_rule/name"
	MetaRoleName = "_role/name"

	MetaAuthID   = "_auth/id"
	MetaAuthRole = "_auth/role"

	MetaSettingAuth = "_setting/auth"
)
