package specification

import (
	"gorm.io/gorm"
)

// Specification narrows a query. Implementations are composable and applied
// in order by the repositories.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
