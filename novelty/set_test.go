package novelty

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flakedb/ledger/flake"
)

type stubLookup struct {
	indexed, unique, refOrTag map[flake.ID]bool
}

func (l stubLookup) IsIndexed(p flake.ID) bool  { return l.indexed[p] }
func (l stubLookup) IsUnique(p flake.ID) bool   { return l.unique[p] }
func (l stubLookup) IsRefOrTag(p flake.ID) bool { return l.refOrTag[p] }

func TestAbsorbPopulatesUniversalProjections(t *testing.T) {
	s := NewSet()
	subj := flake.NewID(flake.CollectionID(100), 1)
	pred := flake.NewID(flake.CollectionPredicateID, 7)

	f := flake.New(subj, pred, flake.Value{}, -3, true, nil)
	lookup := stubLookup{indexed: map[flake.ID]bool{}, unique: map[flake.ID]bool{}, refOrTag: map[flake.ID]bool{}}

	s.Absorb([]flake.Flake{f}, lookup)

	require.Equal(t, 1, s.Len())
	require.EqualValues(t, 1, s.Stats().Flakes)
	require.Greater(t, s.Stats().Size, int64(0))
}

func TestAbsorbSkipsPostWhenNotIndexedOrUnique(t *testing.T) {
	s := NewSet()
	subj := flake.NewID(flake.CollectionID(100), 1)
	pred := flake.NewID(flake.CollectionPredicateID, 7)
	f := flake.New(subj, pred, flake.String("v"), -3, true, nil)

	lookup := stubLookup{indexed: map[flake.ID]bool{}, unique: map[flake.ID]bool{}, refOrTag: map[flake.ID]bool{}}
	s.Absorb([]flake.Flake{f}, lookup)

	got := s.Range(flake.POST, flake.Flake{}, flake.Flake{})
	require.Empty(t, got)
}

func TestAbsorbIncludesPostWhenIndexed(t *testing.T) {
	s := NewSet()
	subj := flake.NewID(flake.CollectionID(100), 1)
	pred := flake.NewID(flake.CollectionPredicateID, 7)
	f := flake.New(subj, pred, flake.String("v"), -3, true, nil)

	lookup := stubLookup{
		indexed:  map[flake.ID]bool{pred: true},
		unique:   map[flake.ID]bool{},
		refOrTag: map[flake.ID]bool{},
	}
	s.Absorb([]flake.Flake{f}, lookup)

	got := s.Range(flake.POST, flake.Flake{}, flake.Flake{})
	require.Len(t, got, 1)
}

func TestReindexAndOverloadThresholds(t *testing.T) {
	s := NewSet()
	subj := flake.NewID(flake.CollectionID(100), 1)
	pred := flake.NewID(flake.CollectionPredicateID, 7)
	lookup := stubLookup{indexed: map[flake.ID]bool{}, unique: map[flake.ID]bool{}, refOrTag: map[flake.ID]bool{}}

	for i := 0; i < 10; i++ {
		f := flake.New(subj, pred, flake.String("0123456789"), int64(-i-1), true, nil)
		s.Absorb([]flake.Flake{f}, lookup)
	}

	require.True(t, s.ReindexEligible(1))
	require.False(t, s.Overloaded(1<<30))
}

func TestRemoveFromOrderStripsOnlyMatchingPredicate(t *testing.T) {
	s := NewSet()
	subj := flake.NewID(flake.CollectionID(100), 1)
	predA := flake.NewID(flake.CollectionPredicateID, 7)
	predB := flake.NewID(flake.CollectionPredicateID, 8)
	lookup := stubLookup{
		indexed:  map[flake.ID]bool{predA: true, predB: true},
		unique:   map[flake.ID]bool{},
		refOrTag: map[flake.ID]bool{},
	}
	s.Absorb([]flake.Flake{
		flake.New(subj, predA, flake.String("a"), -1, true, nil),
		flake.New(subj, predB, flake.String("b"), -2, true, nil),
	}, lookup)
	require.Len(t, s.Range(flake.POST, flake.Flake{}, flake.Flake{}), 2)

	s.RemoveFromOrder(flake.POST, predA)

	got := s.Range(flake.POST, flake.Flake{}, flake.Flake{})
	require.Len(t, got, 1)
	require.Equal(t, predB, got[0].P)
}

func TestSnapshotIsIsolatedFromLaterAbsorb(t *testing.T) {
	s := NewSet()
	subj := flake.NewID(flake.CollectionID(100), 1)
	pred := flake.NewID(flake.CollectionPredicateID, 7)
	lookup := stubLookup{indexed: map[flake.ID]bool{}, unique: map[flake.ID]bool{}, refOrTag: map[flake.ID]bool{}}

	f1 := flake.New(subj, pred, flake.String("a"), -1, true, nil)
	s.Absorb([]flake.Flake{f1}, lookup)

	snap := s.Snapshot(1, -1)

	f2 := flake.New(subj, pred, flake.String("b"), -2, true, nil)
	s.Absorb([]flake.Flake{f2}, lookup)

	require.Len(t, snap.Range(flake.SPOT, flake.Flake{}, flake.Flake{}), 1)
	require.Equal(t, 2, s.Len())
}
