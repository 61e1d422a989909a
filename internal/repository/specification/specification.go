package specification

import "gorm.io/gorm"

// Specification narrows a query. Implementations are composed by the
// repositories' Find methods.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
