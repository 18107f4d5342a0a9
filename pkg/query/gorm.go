package query

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Apply translates the full spec (predicates, ordering, range) onto a GORM
// query builder.
func Apply(db *gorm.DB, spec *Spec) (*gorm.DB, error) {
	qb, err := ApplyPredicates(db, spec)
	if err != nil {
		return nil, err
	}
	for _, order := range spec.Orders {
		direction := "ASC"
		if order.Desc {
			direction = "DESC"
		}
		qb = qb.Order(fmt.Sprintf("%s %s", order.Field, direction))
	}
	if spec.Limit > 0 {
		qb = qb.Limit(spec.Limit)
	}
	if spec.Offset > 0 {
		qb = qb.Offset(spec.Offset)
	}
	return qb, nil
}

// ApplyPredicates translates only the filter clauses, leaving ordering and
// the range window out. Count queries reuse this so the exact total matches
// the paginated rows.
func ApplyPredicates(db *gorm.DB, spec *Spec) (*gorm.DB, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	qb := db
	for _, p := range spec.Predicates {
		switch p.Op {
		case OpEq:
			qb = qb.Where(p.Field+" = ?", p.Value)
		case OpIn:
			qb = qb.Where(p.Field+" IN ?", p.Value)
		case OpILike:
			pattern := "%" + strings.ToLower(fmt.Sprintf("%v", p.Value)) + "%"
			qb = qb.Where("LOWER("+p.Field+") LIKE ?", pattern)
		case OpGte:
			qb = qb.Where(p.Field+" >= ?", p.Value)
		case OpLte:
			qb = qb.Where(p.Field+" <= ?", p.Value)
		}
	}
	return qb, nil
}
