package specification

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// FieldEqualFold matches a column case-insensitively. Portable replacement
// for Postgres ILIKE without wildcards.
type FieldEqualFold struct {
	Field string
	Value string
}

func (s FieldEqualFold) Apply(db *gorm.DB) *gorm.DB {
	query := fmt.Sprintf("LOWER(%s) = ?", s.Field)
	return db.Where(query, strings.ToLower(s.Value))
}

// AnyFieldLike matches when any of the given columns contains the term,
// case-insensitively.
type AnyFieldLike struct {
	Fields []string
	Term   string
}

func (s AnyFieldLike) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Fields) == 0 || s.Term == "" {
		return db
	}

	like := "%" + strings.ToLower(s.Term) + "%"
	clauses := make([]string, len(s.Fields))
	args := make([]interface{}, len(s.Fields))
	for i, f := range s.Fields {
		clauses[i] = fmt.Sprintf("LOWER(%s) LIKE ?", f)
		args[i] = like
	}
	return db.Where(strings.Join(clauses, " OR "), args...)
}
