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

// Cache is an immutable, copy-on-write view of the ledger's current schema:
// the collection/predicate/tag lookup tables a transaction resolves names
// through (§4.4 step 3). A new Cache is published at block commit; readers
// that already hold one never observe later mutations (§5 "Schema cache").
type Cache struct {
	collectionsByName map[string]*Collection
	collectionsByID   map[flake.CollectionID]*Collection
	predicatesByName  map[string]*Predicate
	predicatesByID    map[flake.ID]*Predicate
	tagsByKey         map[Key]flake.ID
}

// NewCache builds an empty cache.
func NewCache() *Cache {
	return &Cache{
		collectionsByName: map[string]*Collection{},
		collectionsByID:   map[flake.CollectionID]*Collection{},
		predicatesByName:  map[string]*Predicate{},
		predicatesByID:    map[flake.ID]*Predicate{},
		tagsByKey:         map[Key]flake.ID{},
	}
}

// Clone returns a shallow copy whose maps are independent, so the copy can
// be mutated by an in-flight transaction without affecting the published
// cache concurrent readers hold.
func (c *Cache) Clone() *Cache {
	n := NewCache()
	for k, v := range c.collectionsByName {
		n.collectionsByName[k] = v
	}
	for k, v := range c.collectionsByID {
		n.collectionsByID[k] = v
	}
	for k, v := range c.predicatesByName {
		n.predicatesByName[k] = v
	}
	for k, v := range c.predicatesByID {
		n.predicatesByID[k] = v
	}
	for k, v := range c.tagsByKey {
		n.tagsByKey[k] = v
	}
	return n
}

// PutCollection registers or overwrites a collection entry.
func (c *Cache) PutCollection(col *Collection) {
	c.collectionsByName[col.Name] = col
	c.collectionsByID[col.ID] = col
}

// Collection looks up a collection by name.
func (c *Cache) Collection(name string) (*Collection, bool) {
	col, ok := c.collectionsByName[name]
	return col, ok
}

// CollectionByID looks up a collection by id.
func (c *Cache) CollectionByID(id flake.CollectionID) (*Collection, bool) {
	col, ok := c.collectionsByID[id]
	return col, ok
}

// PutPredicate registers or overwrites a predicate entry.
func (c *Cache) PutPredicate(p *Predicate) {
	c.predicatesByName[p.Name] = p
	c.predicatesByID[p.ID] = p
}

// Predicate looks up a predicate by name.
func (c *Cache) Predicate(name string) (*Predicate, bool) {
	p, ok := c.predicatesByName[name]
	return p, ok
}

// PredicateByID looks up a predicate by id.
func (c *Cache) PredicateByID(id flake.ID) (*Predicate, bool) {
	p, ok := c.predicatesByID[id]
	return p, ok
}

// PutTag registers a minted tag's subject id under its (predicate, value) key.
func (c *Cache) PutTag(predicateName, value string, id flake.ID) {
	c.tagsByKey[Key{Predicate: predicateName, Value: value}] = id
}

// Tag looks up a minted tag's subject id.
func (c *Cache) Tag(predicateName, value string) (flake.ID, bool) {
	id, ok := c.tagsByKey[Key{Predicate: predicateName, Value: value}]
	return id, ok
}
