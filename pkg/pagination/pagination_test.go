package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	t.Parallel()

	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("expected default limit for negative input, got %d", got)
	}
	if got := NormalizeLimit(500); got != MaxLimit {
		t.Fatalf("expected max limit cap, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}

func TestNewPage(t *testing.T) {
	t.Parallel()

	page := NewPage(25, 0, 60)
	if !page.HasMore {
		t.Fatal("expected more pages for total 60 at offset 0")
	}

	page = NewPage(25, 50, 60)
	if page.HasMore {
		t.Fatal("expected no more pages for total 60 at offset 50")
	}
	if page.Total != 60 {
		t.Fatalf("expected exact total, got %d", page.Total)
	}
}
