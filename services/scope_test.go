package services

import (
	"testing"

	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/stretchr/testify/assert"
)

func TestScopeFor(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		want Scope
	}{
		{"nil user", nil, Scope{}},
		{"merchandiser", &models.User{ID: 5, Role: models.RoleMerchandiser}, Scope{OwnerID: 5}},
		{"admin", &models.User{ID: 6, Role: models.RoleAdmin}, Scope{}},
		{"manager", &models.User{ID: 7, Role: models.RoleManager}, Scope{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScopeFor(tt.user)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.OwnerID != 0, got.Restricted())
		})
	}
}
