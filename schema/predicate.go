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

import "github.com/flakedb/ledger/flake"

// Type enumerates the literal/ref predicate types recognized by the schema
// validator's type-change lattice (§4.3).
type Type string

// Recognized predicate types.
const (
	TypeString  Type = "string"
	TypeBoolean Type = "boolean"
	TypeInt     Type = "int"
	TypeLong    Type = "long"
	TypeBigInt  Type = "bigint"
	TypeFloat   Type = "float"
	TypeDouble  Type = "double"
	TypeBigDec  Type = "bigdec"
	TypeInstant Type = "instant"
	TypeJSON    Type = "json"
	TypeGeoJSON Type = "geojson"
	TypeBytes   Type = "bytes"
	TypeUUID    Type = "uuid"
	TypeURI     Type = "uri"
	TypeRef     Type = "ref"
	TypeTag     Type = "tag"
)

// RefLike reports whether the type's object values are subject ids.
func (t Type) RefLike() bool {
	return t == TypeRef || t == TypeTag
}

// Predicate is a named, typed edge kind in the graph schema.
type Predicate struct {
	ID                 flake.ID
	Name               string // "ns/local"
	Type               Type
	Multi              bool
	Unique             bool
	Index              bool
	Upsert             bool
	Component          bool
	NoHistory          bool
	RestrictCollection *flake.CollectionID
	RestrictTag        *flake.ID
	FullText           bool
	Spec               *FnRef
	TxSpec             *FnRef
	Encrypted          bool
	Deprecated         bool
}

// Indexed reports whether this predicate's flakes belong in the post
// projection (§4.2 absorb rule).
func (p *Predicate) Indexed() bool {
	return p.Index || p.Unique
}

// ReverseIndexed reports whether this predicate's flakes belong in the opst
// projection (§4.2 absorb rule).
func (p *Predicate) ReverseIndexed() bool {
	return p.Type.RefLike()
}
