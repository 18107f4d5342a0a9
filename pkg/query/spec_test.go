package query

import "testing"

func TestSpecBuilderAccumulatesClauses(t *testing.T) {
	t.Parallel()

	spec := NewSpec().
		Eq("status", "active").
		In("category", []string{"art", "textiles"}).
		ILike("name", "mask").
		Gte("price_cents", 1000).
		Lte("price_cents", 5000).
		OrderBy("created_at", true).
		Range(25, 50)

	if len(spec.Predicates) != 5 {
		t.Fatalf("expected 5 predicates, got %d", len(spec.Predicates))
	}
	if spec.Predicates[2].Op != OpILike {
		t.Fatalf("expected ilike predicate, got %s", spec.Predicates[2].Op)
	}
	if spec.Limit != 25 || spec.Offset != 50 {
		t.Fatalf("unexpected range: limit=%d offset=%d", spec.Limit, spec.Offset)
	}
	if err := spec.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestSpecValidateRejectsInjection(t *testing.T) {
	t.Parallel()

	spec := NewSpec().Eq("price_cents; DROP TABLE products", 1)
	if err := spec.Validate(); err == nil {
		t.Fatal("expected validation error for malicious field")
	}

	spec = &Spec{Predicates: []Predicate{{Field: "name", Op: Operator("regex"), Value: "x"}}}
	if err := spec.Validate(); err == nil {
		t.Fatal("expected validation error for unknown operator")
	}
}
