package cmd

import (
	"context"
	"strings"

	"github.com/kendall-kelly/tna-tracker-api/config"
	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/kendall-kelly/tna-tracker-api/services"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// adminInput describes the account created by create-admin
type adminInput struct {
	CustomID string
	Name     string
	Email    string
	Password string
}

var newAdmin adminInput

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an active ADMIN user",
	Long:  `Create the first ADMIN account so the user management API can be used.`,
	RunE:  runCreateAdmin,
}

func init() {
	flags := createAdminCmd.Flags()
	flags.StringVar(&newAdmin.CustomID, "custom-id", "ADMIN-1", "custom id of the admin")
	flags.StringVar(&newAdmin.Name, "name", "Administrator", "display name of the admin")
	flags.StringVar(&newAdmin.Email, "email", "", "login email (required)")
	flags.StringVar(&newAdmin.Password, "password", "", "login password (required)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	_, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db)

	if err := config.AutoMigrate(db); err != nil {
		return err
	}

	user, err := createAdmin(cmd.Context(), db, newAdmin)
	if err != nil {
		return err
	}

	log.WithField("user_id", user.ID).WithField("email", user.Email).Info("Admin user created")
	return nil
}

func createAdmin(ctx context.Context, db *gorm.DB, input adminInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" || strings.TrimSpace(input.CustomID) == "" {
		return nil, errors.New("custom id, email and password are required")
	}

	hash, err := services.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		CustomID:     strings.TrimSpace(input.CustomID),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		if services.IsDuplicateKey(err) {
			return nil, errors.Errorf("a user with email %s or custom id %s already exists", email, user.CustomID)
		}
		return nil, errors.Wrap(err, "create admin")
	}
	return user, nil
}
