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

// Package validator enforces the §4.3 type-compatibility lattice and
// structural rules a schema-mutating transaction (one touching
// `_predicate`/`_collection`) must satisfy. Modeled on the teacher's
// "apply, collect errors, never abort" validation shape: failures are
// values on a *Result, never panics, and a rejected transaction never
// aborts the Novelty layer or the Block Builder (§4.3 "Error mode").
package validator

import (
	"fmt"

	"github.com/flakedb/ledger/errkind"
	"github.com/flakedb/ledger/flake"
	"github.com/flakedb/ledger/schema"
)

// typeLattice enumerates, per §4.3's table, which prior types a predicate
// may transition *from* when changing to the map's key type. Any pair not
// listed here is rejected.
var typeLattice = map[schema.Type]map[schema.Type]bool{
	schema.TypeLong:    {schema.TypeInt: true, schema.TypeInstant: true},
	schema.TypeBigInt:  {schema.TypeInt: true, schema.TypeLong: true, schema.TypeInstant: true},
	schema.TypeFloat:   {schema.TypeInt: true, schema.TypeLong: true},
	schema.TypeDouble:  {schema.TypeFloat: true, schema.TypeInt: true, schema.TypeLong: true},
	schema.TypeBigDec:  {schema.TypeFloat: true, schema.TypeDouble: true, schema.TypeInt: true, schema.TypeLong: true, schema.TypeBigInt: true},
	schema.TypeString:  {schema.TypeJSON: true, schema.TypeGeoJSON: true, schema.TypeBytes: true, schema.TypeUUID: true, schema.TypeURI: true},
	schema.TypeInstant: {schema.TypeInt: true, schema.TypeLong: true},
}

// TypeChangeAllowed reports whether a predicate's declared type may move
// from `from` to `to` per §4.3's lattice table.
func TypeChangeAllowed(from, to schema.Type) bool {
	if from == to {
		return true
	}
	allowedFrom, ok := typeLattice[to]
	if !ok {
		return false
	}
	return allowedFrom[from]
}

// Error is one validation failure attached to a subject (always a
// `_predicate` or `_collection` subject-id) with a human-readable message
// and the errkind.Kind the Transactor should report it as.
type Error struct {
	Subject flake.ID
	Kind    errkind.Kind
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Subject, e.Message)
}

// Result accumulates every validation failure found while checking one
// transaction's schema-mutating flakes, plus the post-index hygiene set
// the Transactor must apply on success (§4.3 "Post-index hygiene").
type Result struct {
	Errors         []Error
	RemoveFromPost []flake.ID
}

// OK reports whether the transaction may proceed.
func (r *Result) OK() bool { return len(r.Errors) == 0 }

func (r *Result) fail(subject flake.ID, kind errkind.Kind, format string, args ...interface{}) {
	r.Errors = append(r.Errors, Error{Subject: subject, Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// fieldChange captures, for one meta-field of one mutated predicate
// subject, the value being retracted (before) and the value being
// asserted (after) within this transaction. Either side may be absent
// (nil) when the transaction only asserts or only retracts that field.
type fieldChange struct {
	retracted *flake.Value
	asserted  *flake.Value
}

// predicateMutation groups every meta-field touched for one `_predicate`
// subject within a transaction.
type predicateMutation struct {
	subject flake.ID
	fields  map[string]*fieldChange
}

func newPredicateMutation(subject flake.ID) *predicateMutation {
	return &predicateMutation{subject: subject, fields: map[string]*fieldChange{}}
}

func (m *predicateMutation) change(field string) *fieldChange {
	fc, ok := m.fields[field]
	if !ok {
		fc = &fieldChange{}
		m.fields[field] = fc
	}
	return fc
}

// GroupPredicateMutations partitions a transaction's flakes targeting
// `_predicate` subjects by subject-id, keyed by meta-field name, as
// §4.3's "Flake grouping" step requires. before is the schema cache as
// of the start of the transaction (db-before).
func GroupPredicateMutations(flakes []flake.Flake, before *schema.Cache) map[flake.ID]*predicateMutation {
	out := map[flake.ID]*predicateMutation{}
	for _, f := range flakes {
		if f.S.Collection != predicateCollectionID(before) {
			continue
		}
		p, ok := before.PredicateByID(f.P)
		if !ok {
			continue
		}
		mut, ok := out[f.S]
		if !ok {
			mut = newPredicateMutation(f.S)
			out[f.S] = mut
		}
		fc := mut.change(p.Name)
		v := f.O
		if f.Op {
			fc.asserted = &v
		} else {
			fc.retracted = &v
		}
	}
	return out
}

func predicateCollectionID(cache *schema.Cache) flake.CollectionID {
	if col, ok := cache.Collection(schema.CollectionPredicateName); ok {
		return col.ID
	}
	return flake.CollectionPredicateID
}

func collectionCollectionID(cache *schema.Cache) flake.CollectionID {
	if col, ok := cache.Collection(schema.CollectionCollectionName); ok {
		return col.ID
	}
	return flake.CollectionCollectionID
}

// GroupCollectionNameAssertions collects every asserted `_collection/name`
// flake targeting a `_collection` subject, keyed by subject-id, as §4.4
// step 4's "collection-name flakes are checked against the collection
// regex" requires.
func GroupCollectionNameAssertions(flakes []flake.Flake, before *schema.Cache) map[flake.ID]string {
	namePred, ok := before.Predicate(schema.MetaCollectionName)
	if !ok {
		return nil
	}
	out := map[flake.ID]string{}
	for _, f := range flakes {
		if f.S.Collection != collectionCollectionID(before) || f.P != namePred.ID || !f.Op {
			continue
		}
		out[f.S] = f.O.AsString()
	}
	return out
}

func validateCollectionName(result *Result, subject flake.ID, name string) {
	if err := schema.ValidateCollectionName(name); err != nil {
		result.fail(subject, errkind.InvalidCollection, "invalid collection name: %s", err)
	}
}

// Validate checks every mutated `_predicate` and `_collection` subject in
// flakes against §4.3/§4.4's rules, given the schema cache as it stood
// before this transaction (before).
func Validate(flakes []flake.Flake, before *schema.Cache) *Result {
	result := &Result{}
	mutations := GroupPredicateMutations(flakes, before)

	for subject, mut := range mutations {
		existing, hadExisting := before.PredicateByID(subject)
		validateTypeChange(result, subject, mut, existing, hadExisting)
		validateMulti(result, subject, mut)
		validateComponent(result, subject, mut, existing, hadExisting)
		validateUnique(result, subject, mut, existing, hadExisting)
		validateName(result, subject, mut)
		validatePostHygiene(result, subject, mut, existing, hadExisting)
	}

	for subject, name := range GroupCollectionNameAssertions(flakes, before) {
		validateCollectionName(result, subject, name)
	}

	return result
}

func validateTypeChange(result *Result, subject flake.ID, mut *predicateMutation, existing *schema.Predicate, hadExisting bool) {
	fc, touched := mut.fields[schema.MetaPredicateType]
	if !touched {
		return
	}
	if fc.asserted == nil {
		result.fail(subject, errkind.InvalidPredicate, "retracting _predicate/type without asserting a replacement is rejected")
		return
	}
	to := schema.Type(fc.asserted.AsString())
	if !hadExisting {
		// New predicate: any declared type is acceptable as long as one
		// is declared (checked above).
		return
	}
	if fc.retracted == nil {
		// Asserting a type over an existing predicate without retracting
		// the old value first: treat the existing declared type as from.
		if !TypeChangeAllowed(existing.Type, to) {
			result.fail(subject, errkind.InvalidPredicate, "illegal type change %s -> %s", existing.Type, to)
		}
		return
	}
	from := schema.Type(fc.retracted.AsString())
	if !TypeChangeAllowed(from, to) {
		result.fail(subject, errkind.InvalidPredicate, "illegal type change %s -> %s", from, to)
	}
}

func validateMulti(result *Result, subject flake.ID, mut *predicateMutation) {
	fc, touched := mut.fields[schema.MetaPredicateMulti]
	if !touched || fc.retracted == nil || fc.asserted == nil {
		return
	}
	if fc.retracted.AsBool() == true && fc.asserted.AsBool() == false {
		result.fail(subject, errkind.InvalidPredicate, "multi=true -> multi=false is rejected")
	}
}

func validateComponent(result *Result, subject flake.ID, mut *predicateMutation, existing *schema.Predicate, hadExisting bool) {
	fc, touched := mut.fields[schema.MetaPredicateComponent]
	if !touched || fc.asserted == nil || !fc.asserted.AsBool() {
		return
	}
	if hadExisting {
		result.fail(subject, errkind.InvalidPredicate, "setting component=true on an existing predicate is rejected")
		return
	}
	// New predicate with component=true must be type ref.
	typeChange, hasType := mut.fields[schema.MetaPredicateType]
	declaredType := schema.Type("")
	if hasType && typeChange.asserted != nil {
		declaredType = schema.Type(typeChange.asserted.AsString())
	}
	if declaredType != schema.TypeRef {
		result.fail(subject, errkind.InvalidPredicate, "component=true requires type=ref on a new predicate")
	}
}

func validateUnique(result *Result, subject flake.ID, mut *predicateMutation, existing *schema.Predicate, hadExisting bool) {
	fc, touched := mut.fields[schema.MetaPredicateUnique]
	if !touched || fc.asserted == nil || !fc.asserted.AsBool() {
		return
	}
	if hadExisting && !existing.Unique {
		result.fail(subject, errkind.InvalidPredicate, "setting unique=true on an existing predicate is rejected; migrate via a new predicate instead")
		return
	}
	declaredType := schema.Type("")
	if hasType, ok := mut.fields[schema.MetaPredicateType]; ok && hasType.asserted != nil {
		declaredType = schema.Type(hasType.asserted.AsString())
	} else if hadExisting {
		declaredType = existing.Type
	}
	if declaredType == schema.TypeBoolean {
		result.fail(subject, errkind.InvalidPredicate, "type=boolean may never be unique")
	}
}

func validateName(result *Result, subject flake.ID, mut *predicateMutation) {
	fc, touched := mut.fields[schema.MetaPredicateName]
	if !touched || fc.asserted == nil {
		return
	}
	if err := schema.ValidatePredicateName(fc.asserted.AsString()); err != nil {
		result.fail(subject, errkind.InvalidPredicate, "invalid predicate name: %s", err)
	}
}

// validatePostHygiene accumulates subjects whose index/unique flag
// transitioned to false into Result.RemoveFromPost (§4.3 "Post-index
// hygiene"). The two-phase re-check against db-after happens in
// FinalizeRemoveFromPost, once the transaction's flakes have actually
// been absorbed.
func validatePostHygiene(result *Result, subject flake.ID, mut *predicateMutation, existing *schema.Predicate, hadExisting bool) {
	for _, field := range []string{schema.MetaPredicateIndex, schema.MetaPredicateUnique} {
		fc, touched := mut.fields[field]
		if !touched {
			continue
		}
		if fc.retracted != nil && fc.retracted.AsBool() && (fc.asserted == nil || !fc.asserted.AsBool()) {
			result.RemoveFromPost = append(result.RemoveFromPost, subject)
			return
		}
	}
}

// FinalizeRemoveFromPost re-checks each subject accumulated in
// Result.RemoveFromPost against the db-after predicate lookup: if the
// predicate is still indexable (the other flag is still true), it is
// dropped from the set; otherwise it stays, and the caller removes the
// subject's flakes from the post projection.
func FinalizeRemoveFromPost(pending []flake.ID, after *schema.Cache) []flake.ID {
	var out []flake.ID
	for _, subject := range pending {
		if subject.Collection != predicateCollectionID(after) {
			continue
		}
		p, ok := after.PredicateByID(subject)
		if !ok {
			continue
		}
		if p.Indexed() {
			continue
		}
		out = append(out, subject)
	}
	return out
}
