package appstate

import "testing"

func TestStaleReloadIsDiscarded(t *testing.T) {
	t.Parallel()

	gen := NewGeneration()

	first := gen.Begin()
	second := gen.Begin()

	if gen.Commit(first) {
		t.Fatal("expected first reload to be stale after a newer one began")
	}
	if !gen.Commit(second) {
		t.Fatal("expected latest reload to commit")
	}
}

func TestCommitIsRepeatableUntilNextBegin(t *testing.T) {
	t.Parallel()

	gen := NewGeneration()
	ticket := gen.Begin()

	if !gen.Commit(ticket) || !gen.Commit(ticket) {
		t.Fatal("expected latest ticket to stay valid")
	}

	gen.Begin()
	if gen.Commit(ticket) {
		t.Fatal("expected ticket to be stale after a new reload began")
	}
}

func TestCurrentDoesNotAdvance(t *testing.T) {
	t.Parallel()

	gen := NewGeneration()
	ticket := gen.Begin()

	if gen.Current() != ticket {
		t.Fatalf("expected current %d, got %d", ticket, gen.Current())
	}
	if !gen.Commit(ticket) {
		t.Fatal("expected ticket to remain valid after Current")
	}
}
