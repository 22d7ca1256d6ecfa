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

	"github.com/flakedb/ledger/flake"
	"github.com/flakedb/ledger/novelty"
	"github.com/flakedb/ledger/schema"
)

// materialize walks a command's statement graph, resolving names to ids
// through before (the schema cache as of the start of the transaction),
// minting new subject-ids via the ledger's ecount through res, and
// coercing literals to each predicate's declared type (§4.4 step 3).
func materialize(cmd Command, t int64, before *schema.Cache, res *resolver) ([]flake.Flake, error) {
	flakes := make([]flake.Flake, 0, len(cmd.Statements))
	for i, stmt := range cmd.Statements {
		f, err := materializeStatement(stmt, t, before, res)
		if err != nil {
			return nil, errors.Wrapf(err, "statement %d", i)
		}
		flakes = append(flakes, f)
	}
	return flakes, nil
}

func materializeStatement(stmt Statement, t int64, before *schema.Cache, res *resolver) (flake.Flake, error) {
	subject, err := resolveSubject(stmt, before, res)
	if err != nil {
		return flake.Flake{}, err
	}

	predicate, ok := before.Predicate(stmt.Predicate)
	if !ok {
		return flake.Flake{}, errors.Errorf("predicate %q is not declared in the schema", stmt.Predicate)
	}

	object, err := coerceValue(predicate, stmt.Value, res)
	if err != nil {
		return flake.Flake{}, errors.Wrapf(err, "predicate %q", stmt.Predicate)
	}

	return flake.New(subject, predicate.ID, object, t, !stmt.Retract, nil), nil
}

func resolveSubject(stmt Statement, before *schema.Cache, res *resolver) (flake.ID, error) {
	if stmt.Tempid != "" {
		if id, ok := res.tempids[stmt.Tempid]; ok {
			return id, nil
		}
		col, ok := before.Collection(stmt.Collection)
		if !ok {
			return flake.ID{}, errors.Errorf("collection %q is not declared in the schema", stmt.Collection)
		}
		return res.mintOrGet(stmt.Tempid, col.ID), nil
	}
	if stmt.Subject == "" {
		return flake.ID{}, errors.New("statement names neither a tempid nor an existing subject")
	}
	id, ok := res.resolveName(stmt.Subject)
	if !ok {
		return flake.ID{}, errors.Errorf("subject %q does not resolve to a known entity", stmt.Subject)
	}
	return id, nil
}

// coerceValue resolves stmt.Value against predicate's declared type: a
// ref/tag-typed predicate resolves its value as a name (tempid or existing
// subject string form); any other type coerces it as a literal.
func coerceValue(predicate *schema.Predicate, raw interface{}, res *resolver) (flake.Value, error) {
	if predicate.Type.RefLike() {
		name, ok := refName(raw)
		if !ok {
			return flake.Value{}, errors.New("ref-typed predicate requires a {\"ref\": \"...\"} value")
		}
		id, ok := res.resolveName(name)
		if !ok {
			return flake.Value{}, errors.Errorf("ref %q does not resolve to a known entity", name)
		}
		return flake.Ref(id), nil
	}
	return coerceLiteral(predicate.Type, raw)
}

// refName extracts the referenced name out of a decoded `{"ref": "..."}`
// object, the only shape Statement.Value takes for ref/tag predicates.
func refName(raw interface{}) (string, bool) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return "", false
	}
	name, ok := m["ref"].(string)
	return name, ok
}

// applySchemaMutations clones before and replays every flake this
// transaction asserts/retracts against `_collection`/`_predicate`
// subjects, producing the schema cache the next transaction should see
// once this one commits (§4.3 "a schema mutation takes effect for the
// next transaction, never the one that declares it").
func applySchemaMutations(before *schema.Cache, flakes []flake.Flake) *schema.Cache {
	mutations := collectSchemaMutations(before, flakes)
	if len(mutations) == 0 {
		return nil
	}
	next := before.Clone()
	for _, m := range mutations {
		m(next)
	}
	return next
}

func collectSchemaMutations(before *schema.Cache, flakes []flake.Flake) []func(*schema.Cache) {
	predicateCol, hasPredicateCol := before.Collection(schema.CollectionPredicateName)
	collectionCol, hasCollectionCol := before.Collection(schema.CollectionCollectionName)

	touchedPredicates := map[flake.ID]bool{}
	touchedCollections := map[flake.ID]bool{}
	for _, f := range flakes {
		if !f.Op {
			continue
		}
		if hasPredicateCol && f.S.Collection == predicateCol.ID {
			touchedPredicates[f.S] = true
		}
		if hasCollectionCol && f.S.Collection == collectionCol.ID {
			touchedCollections[f.S] = true
		}
	}

	var out []func(*schema.Cache)
	for subject := range touchedPredicates {
		subject := subject
		out = append(out, func(c *schema.Cache) {
			rebuildPredicate(c, subject, flakes)
		})
	}
	for subject := range touchedCollections {
		subject := subject
		out = append(out, func(c *schema.Cache) {
			rebuildCollection(c, subject, flakes)
		})
	}
	return out
}

// rebuildPredicate replays every asserted meta-field flake for subject
// against whatever predicate definition c already has (or a fresh zero
// value for a brand-new predicate), then republishes it.
func rebuildPredicate(c *schema.Cache, subject flake.ID, flakes []flake.Flake) {
	p, ok := c.PredicateByID(subject)
	if !ok {
		p = &schema.Predicate{ID: subject}
	} else {
		clone := *p
		p = &clone
	}
	for _, f := range flakes {
		if f.S != subject || !f.Op {
			continue
		}
		applyPredicateField(c, p, f)
	}
	if p.Name != "" {
		c.PutPredicate(p)
	}
}

func applyPredicateField(c *schema.Cache, p *schema.Predicate, f flake.Flake) {
	meta, ok := c.PredicateByID(f.P)
	if !ok {
		return
	}
	switch meta.Name {
	case schema.MetaPredicateName:
		p.Name = f.O.AsString()
	case schema.MetaPredicateType:
		p.Type = schema.Type(f.O.AsString())
	case schema.MetaPredicateMulti:
		p.Multi = f.O.AsBool()
	case schema.MetaPredicateUnique:
		p.Unique = f.O.AsBool()
	case schema.MetaPredicateIndex:
		p.Index = f.O.AsBool()
	case schema.MetaPredicateComponent:
		p.Component = f.O.AsBool()
	}
}

// rebuildCollection replays every asserted meta-field flake for a
// `_collection` definition subject and republishes the schema.Collection it
// describes. A brand-new collection's numeric id is derived from its
// definition subject's ordinal within the `_collection` collection, offset
// into flake.CollectionUserBase, since that ordinal is assigned once and
// never reused (ledger.Ledger.MintID).
func rebuildCollection(c *schema.Cache, subject flake.ID, flakes []flake.Flake) {
	id := flake.CollectionUserBase + flake.CollectionID(subject.Local) - 1
	col, ok := c.CollectionByID(id)
	if ok {
		clone := *col
		col = &clone
	} else {
		col = &schema.Collection{ID: id}
	}
	for _, f := range flakes {
		if f.S != subject || !f.Op {
			continue
		}
		applyCollectionField(c, col, f)
	}
	if col.Name != "" {
		c.PutCollection(col)
	}
}

func applyCollectionField(c *schema.Cache, col *schema.Collection, f flake.Flake) {
	meta, ok := c.PredicateByID(f.P)
	if !ok {
		return
	}
	switch meta.Name {
	case schema.MetaCollectionName:
		col.Name = f.O.AsString()
	case "_collection/doc":
		col.Doc = f.O.AsString()
	case "_collection/version":
		col.Version = int(f.O.AsLong())
	}
}

// removeFromPost strips every flake belonging to the given predicate
// subjects out of the post projection, the mechanical half of §4.3's
// post-index hygiene step once FinalizeRemoveFromPost has decided which
// subjects still qualify.
func removeFromPost(set *novelty.Set, subjects []flake.ID) {
	for _, subject := range subjects {
		set.RemoveFromOrder(flake.POST, subject)
	}
}
