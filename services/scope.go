package services

import (
	"github.com/kendall-kelly/tna-tracker-api/models"
	"gorm.io/gorm"
)

// Scope limits which work items a caller may see.
// A zero Scope sees everything.
type Scope struct {
	OwnerID uint
}

// ScopeFor returns the visibility scope of user. Merchandisers only see the
// records they created; every other role sees all records.
func ScopeFor(user *models.User) Scope {
	if user != nil && user.Role == models.RoleMerchandiser {
		return Scope{OwnerID: user.ID}
	}
	return Scope{}
}

// Restricted reports whether the scope filters by owner
func (s Scope) Restricted() bool {
	return s.OwnerID != 0
}

// Apply adds the owner condition on column to q
func (s Scope) Apply(q *gorm.DB, column string) *gorm.DB {
	if !s.Restricted() {
		return q
	}
	return q.Where(column+" = ?", s.OwnerID)
}
