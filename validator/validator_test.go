package validator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flakedb/ledger/errkind"
	"github.com/flakedb/ledger/flake"
	"github.com/flakedb/ledger/schema"
)

func newCacheWithPredicate(id flake.ID, p *schema.Predicate) *schema.Cache {
	c := schema.NewCache()
	c.PutCollection(&schema.Collection{ID: flake.CollectionPredicateID, Name: schema.CollectionPredicateName})
	c.PutPredicate(&schema.Predicate{ID: typeFieldID, Name: "_predicate/type"})
	c.PutPredicate(&schema.Predicate{ID: flake.NewID(flake.CollectionPredicateID, 2), Name: "_predicate/multi"})
	c.PutPredicate(&schema.Predicate{ID: flake.NewID(flake.CollectionPredicateID, 3), Name: "_predicate/unique"})
	c.PutPredicate(&schema.Predicate{ID: flake.NewID(flake.CollectionPredicateID, 4), Name: "_predicate/index"})
	c.PutPredicate(&schema.Predicate{ID: flake.NewID(flake.CollectionPredicateID, 5), Name: "_predicate/component"})
	c.PutPredicate(&schema.Predicate{ID: flake.NewID(flake.CollectionPredicateID, 6), Name: "_predicate/name"})
	if p != nil {
		c.PutPredicate(p)
	}
	return c
}

var (
	typeFieldID      = flake.NewID(flake.CollectionPredicateID, 1)
	multiFieldID     = flake.NewID(flake.CollectionPredicateID, 2)
	uniqueFieldID    = flake.NewID(flake.CollectionPredicateID, 3)
	indexFieldID     = flake.NewID(flake.CollectionPredicateID, 4)
	componentFieldID = flake.NewID(flake.CollectionPredicateID, 5)
	nameFieldID      = flake.NewID(flake.CollectionPredicateID, 6)
)

func TestTypeChangeAllowedLattice(t *testing.T) {
	require.True(t, TypeChangeAllowed(schema.TypeInt, schema.TypeLong))
	require.True(t, TypeChangeAllowed(schema.TypeInstant, schema.TypeLong))
	require.True(t, TypeChangeAllowed(schema.TypeFloat, schema.TypeBigDec))
	require.False(t, TypeChangeAllowed(schema.TypeString, schema.TypeInt))
	require.False(t, TypeChangeAllowed(schema.TypeLong, schema.TypeInt))
	require.True(t, TypeChangeAllowed(schema.TypeRef, schema.TypeRef))
}

func TestValidateRejectsIllegalTypeChange(t *testing.T) {
	subject := flake.NewID(flake.CollectionPredicateID, 100)
	before := newCacheWithPredicate(subject, &schema.Predicate{ID: subject, Name: "person/age", Type: schema.TypeString})

	flakes := []flake.Flake{
		flake.New(subject, typeFieldID, flake.String(string(schema.TypeString)), -1, false, nil),
		flake.New(subject, typeFieldID, flake.String(string(schema.TypeInt)), -1, true, nil),
	}

	result := Validate(flakes, before)
	require.False(t, result.OK())
	require.Len(t, result.Errors, 1)
}

func TestValidateAllowsLegalTypeChange(t *testing.T) {
	subject := flake.NewID(flake.CollectionPredicateID, 100)
	before := newCacheWithPredicate(subject, &schema.Predicate{ID: subject, Name: "person/age", Type: schema.TypeInt})

	flakes := []flake.Flake{
		flake.New(subject, typeFieldID, flake.String(string(schema.TypeInt)), -1, false, nil),
		flake.New(subject, typeFieldID, flake.String(string(schema.TypeLong)), -1, true, nil),
	}

	result := Validate(flakes, before)
	require.True(t, result.OK())
}

func TestValidateRejectsMultiToSingle(t *testing.T) {
	subject := flake.NewID(flake.CollectionPredicateID, 100)
	before := newCacheWithPredicate(subject, &schema.Predicate{ID: subject, Name: "person/tags", Type: schema.TypeString, Multi: true})

	flakes := []flake.Flake{
		flake.New(subject, multiFieldID, flake.Boolean(true), -1, false, nil),
		flake.New(subject, multiFieldID, flake.Boolean(false), -1, true, nil),
	}

	result := Validate(flakes, before)
	require.False(t, result.OK())
}

func TestValidateRejectsUniqueOnExisting(t *testing.T) {
	subject := flake.NewID(flake.CollectionPredicateID, 100)
	before := newCacheWithPredicate(subject, &schema.Predicate{ID: subject, Name: "person/email", Type: schema.TypeString, Unique: false})

	flakes := []flake.Flake{
		flake.New(subject, uniqueFieldID, flake.Boolean(true), -1, true, nil),
	}

	result := Validate(flakes, before)
	require.False(t, result.OK())
}

func TestValidateRejectsComponentOnNonRefPredicate(t *testing.T) {
	subject := flake.NewID(flake.CollectionPredicateID, 101)
	before := newCacheWithPredicate(subject, nil)

	flakes := []flake.Flake{
		flake.New(subject, typeFieldID, flake.String(string(schema.TypeString)), -1, true, nil),
		flake.New(subject, componentFieldID, flake.Boolean(true), -1, true, nil),
	}

	result := Validate(flakes, before)
	require.False(t, result.OK())
}

func TestValidateAllowsComponentOnNewRefPredicate(t *testing.T) {
	subject := flake.NewID(flake.CollectionPredicateID, 101)
	before := newCacheWithPredicate(subject, nil)

	flakes := []flake.Flake{
		flake.New(subject, typeFieldID, flake.String(string(schema.TypeRef)), -1, true, nil),
		flake.New(subject, componentFieldID, flake.Boolean(true), -1, true, nil),
	}

	result := Validate(flakes, before)
	require.True(t, result.OK())
}

func TestValidateRejectsInvalidPredicateName(t *testing.T) {
	subject := flake.NewID(flake.CollectionPredicateID, 102)
	before := newCacheWithPredicate(subject, nil)

	flakes := []flake.Flake{
		flake.New(subject, nameFieldID, flake.String("not_a_valid_name_missing_slash"), -1, true, nil),
	}

	result := Validate(flakes, before)
	require.False(t, result.OK())
}

func newCacheWithCollectionName() (*schema.Cache, flake.ID) {
	c := schema.NewCache()
	c.PutCollection(&schema.Collection{ID: flake.CollectionCollectionID, Name: schema.CollectionCollectionName})
	collectionNameFieldID := flake.NewID(flake.CollectionPredicateID, 7)
	c.PutPredicate(&schema.Predicate{ID: collectionNameFieldID, Name: "_collection/name"})
	return c, collectionNameFieldID
}

func TestValidateRejectsInvalidCollectionName(t *testing.T) {
	before, collectionNameFieldID := newCacheWithCollectionName()

	subject := flake.NewID(flake.CollectionCollectionID, 1)
	flakes := []flake.Flake{
		flake.New(subject, collectionNameFieldID, flake.String("has space"), -1, true, nil),
	}

	result := Validate(flakes, before)
	require.False(t, result.OK())
	require.Equal(t, errkind.InvalidCollection, result.Errors[0].Kind)
}

func TestValidateAllowsValidCollectionName(t *testing.T) {
	before, collectionNameFieldID := newCacheWithCollectionName()

	subject := flake.NewID(flake.CollectionCollectionID, 1)
	flakes := []flake.Flake{
		flake.New(subject, collectionNameFieldID, flake.String("person"), -1, true, nil),
	}

	result := Validate(flakes, before)
	require.True(t, result.OK())
}

func TestValidatePostHygieneAccumulatesAndFinalizes(t *testing.T) {
	subject := flake.NewID(flake.CollectionPredicateID, 100)
	before := newCacheWithPredicate(subject, &schema.Predicate{ID: subject, Name: "person/email", Type: schema.TypeString, Index: true})

	flakes := []flake.Flake{
		flake.New(subject, indexFieldID, flake.Boolean(true), -1, false, nil),
		flake.New(subject, indexFieldID, flake.Boolean(false), -1, true, nil),
	}

	result := Validate(flakes, before)
	require.True(t, result.OK())
	require.Len(t, result.RemoveFromPost, 1)

	after := newCacheWithPredicate(subject, &schema.Predicate{ID: subject, Name: "person/email", Type: schema.TypeString, Index: false})
	final := FinalizeRemoveFromPost(result.RemoveFromPost, after)
	require.Len(t, final, 1)

	stillIndexed := newCacheWithPredicate(subject, &schema.Predicate{ID: subject, Name: "person/email", Type: schema.TypeString, Index: false, Unique: true})
	final2 := FinalizeRemoveFromPost(result.RemoveFromPost, stillIndexed)
	require.Empty(t, final2)
}
