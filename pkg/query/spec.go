package query

import (
	"fmt"
	"regexp"
	"strings"
)

// Operator names a comparison supported by the data service.
type Operator string

const (
	OpEq    Operator = "eq"
	OpIn    Operator = "in"
	OpILike Operator = "ilike"
	OpGte   Operator = "gte"
	OpLte   Operator = "lte"
)

// Predicate is one declarative filter clause.
type Predicate struct {
	Field string
	Op    Operator
	Value any
}

// Order is one ordering clause.
type Order struct {
	Field string
	Desc  bool
}

// Spec is a declarative query: a list of predicates plus ordering and a
// limit/offset range. Builders append clauses; translation to the concrete
// data service happens separately (see gorm.go).
type Spec struct {
	Predicates []Predicate
	Orders     []Order
	Limit      int
	Offset     int
}

// NewSpec returns an empty query spec.
func NewSpec() *Spec {
	return &Spec{}
}

// Eq appends an equality predicate.
func (s *Spec) Eq(field string, value any) *Spec {
	s.Predicates = append(s.Predicates, Predicate{Field: field, Op: OpEq, Value: value})
	return s
}

// In appends a set-membership predicate.
func (s *Spec) In(field string, values any) *Spec {
	s.Predicates = append(s.Predicates, Predicate{Field: field, Op: OpIn, Value: values})
	return s
}

// ILike appends a case-insensitive substring predicate.
func (s *Spec) ILike(field, value string) *Spec {
	s.Predicates = append(s.Predicates, Predicate{Field: field, Op: OpILike, Value: value})
	return s
}

// Gte appends a lower-bound predicate.
func (s *Spec) Gte(field string, value any) *Spec {
	s.Predicates = append(s.Predicates, Predicate{Field: field, Op: OpGte, Value: value})
	return s
}

// Lte appends an upper-bound predicate.
func (s *Spec) Lte(field string, value any) *Spec {
	s.Predicates = append(s.Predicates, Predicate{Field: field, Op: OpLte, Value: value})
	return s
}

// OrderBy appends an ordering clause.
func (s *Spec) OrderBy(field string, desc bool) *Spec {
	s.Orders = append(s.Orders, Order{Field: field, Desc: desc})
	return s
}

// Range sets the limit/offset window.
func (s *Spec) Range(limit, offset int) *Spec {
	s.Limit = limit
	s.Offset = offset
	return s
}

var fieldPattern = regexp.MustCompile(`^[a-z_][a-z0-9_.]*$`)

// Validate checks that every referenced field is a plain column identifier.
func (s *Spec) Validate() error {
	for _, p := range s.Predicates {
		if !fieldPattern.MatchString(p.Field) {
			return fmt.Errorf("invalid predicate field %q", p.Field)
		}
		switch p.Op {
		case OpEq, OpIn, OpILike, OpGte, OpLte:
		default:
			return fmt.Errorf("invalid operator %q", p.Op)
		}
	}
	for _, o := range s.Orders {
		if !fieldPattern.MatchString(o.Field) {
			return fmt.Errorf("invalid order field %q", o.Field)
		}
	}
	return nil
}

// String renders the spec for logging.
func (s *Spec) String() string {
	parts := make([]string, 0, len(s.Predicates))
	for _, p := range s.Predicates {
		parts = append(parts, fmt.Sprintf("%s %s %v", p.Field, p.Op, p.Value))
	}
	return strings.Join(parts, " AND ")
}
