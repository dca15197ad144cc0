package cmd

import (
	"context"
	"testing"

	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/services"
	"github.com/kendall-kelly/tna-tracker-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAdmin(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	user, err := createAdmin(ctx, db, adminInput{
		CustomID: "ADMIN-1",
		Name:     "Root",
		Email:    " Root@Example.com ",
		Password: "change-me",
	})
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", user.Email)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, models.StatusActive, user.Status)
	assert.True(t, services.CheckPassword(user.PasswordHash, "change-me"))

	_, err = createAdmin(ctx, db, adminInput{CustomID: "ADMIN-2", Email: "root@example.com", Password: "x"})
	assert.Error(t, err, "duplicate email")

	_, err = createAdmin(ctx, db, adminInput{CustomID: "ADMIN-3", Email: "other@example.com"})
	assert.Error(t, err, "missing password")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"serve", "migrate", "create-admin"} {
		assert.True(t, names[want], want)
	}
	assert.NotNil(t, serveCmd.Flags().Lookup("port"))
}
