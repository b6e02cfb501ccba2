package web

import (
	"testing"

	"github.com/nao1215/tablediff"
)

func TestResultStore(t *testing.T) {
	store := newResultStore(2)

	first := store.Put(&tablediff.Result{TableA: "first"})
	second := store.Put(&tablediff.Result{TableA: "second"})

	if got := store.Get(first); got == nil || got.TableA != "first" {
		t.Errorf("Get(first) = %v, want first", got)
	}
	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}

	// Third insert evicts the oldest
	third := store.Put(&tablediff.Result{TableA: "third"})
	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2 after eviction", store.Len())
	}
	if store.Get(first) != nil {
		t.Error("first result should have been evicted")
	}
	if store.Get(second) == nil || store.Get(third) == nil {
		t.Error("second and third results should remain")
	}
}

func TestResultStoreUnknownID(t *testing.T) {
	store := newResultStore(2)
	if store.Get("missing") != nil {
		t.Error("Get(missing) should be nil")
	}
}
