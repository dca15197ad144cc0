package testutil

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kendall-kelly/tna-tracker-api/config"
	"github.com/kendall-kelly/tna-tracker-api/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DefaultPassword is the plain-text password of users created by CreateUser
const DefaultPassword = "password123"

var seq int64

func next() int64 {
	return atomic.AddInt64(&seq, 1)
}

// RequireTestEnvironment fails the test unless GO_ENV is "test". Use it in
// tests that talk to a database configured from the environment.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q.", env)
	}
}

// NewTestDB opens a migrated in-memory SQLite database that is closed when the test ends
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.AutoMigrate(db))
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

// CreateUser inserts an ACTIVE user with the given role and DefaultPassword
func CreateUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	require.NoError(t, err)

	n := next()
	user := &models.User{
		CustomID:     fmt.Sprintf("U-%04d", n),
		Name:         fmt.Sprintf("%s User %d", role, n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: string(hash),
		Role:         role,
		Status:       models.StatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateBuyer inserts a buyer
func CreateBuyer(t *testing.T, db *gorm.DB, name string) *models.Buyer {
	t.Helper()

	buyer := &models.Buyer{Name: name, Country: "Sweden"}
	require.NoError(t, db.Create(buyer).Error)
	return buyer
}

// TNAOptions describes a TNA inserted by CreateTNA
type TNAOptions struct {
	Style             string
	ItemName          string
	SampleSendingDate time.Time
	Buyer             *models.Buyer
	Merchandiser      *models.User
	CreatedBy         *models.User // defaults to Merchandiser
}

// CreateTNA inserts a TNA directly, bypassing the creation checks
func CreateTNA(t *testing.T, db *gorm.DB, opts TNAOptions) *models.TNA {
	t.Helper()

	if opts.ItemName == "" {
		opts.ItemName = "Item " + opts.Style
	}
	if opts.SampleSendingDate.IsZero() {
		opts.SampleSendingDate = time.Now().UTC().AddDate(0, 0, 7)
	}
	if opts.CreatedBy == nil {
		opts.CreatedBy = opts.Merchandiser
	}

	tna := &models.TNA{
		Style:             opts.Style,
		ItemName:          opts.ItemName,
		SampleSendingDate: opts.SampleSendingDate,
		OrderDate:         opts.SampleSendingDate.AddDate(0, 0, -30),
		Status:            models.TNAStatusActive,
		SampleType:        models.DefaultSampleType,
		BuyerID:           opts.Buyer.ID,
		MerchandiserID:    opts.Merchandiser.ID,
		CreatedByID:       opts.CreatedBy.ID,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(tna).Error)
	return tna
}

// CreateDHL inserts a DHL tracking row for style
func CreateDHL(t *testing.T, db *gorm.DB, style string, complete bool) *models.DHLTracking {
	t.Helper()

	dhl := &models.DHLTracking{
		Style:          style,
		TrackingNumber: fmt.Sprintf("DHL%06d", next()),
		Date:           time.Now().UTC(),
		IsComplete:     complete,
	}
	require.NoError(t, db.Create(dhl).Error)
	return dhl
}

// CreateCad inserts a CAD design for style; finalComplete marks it complete
func CreateCad(t *testing.T, db *gorm.DB, style string, createdBy uint, finalComplete bool) *models.CadDesign {
	t.Helper()

	now := time.Now().UTC()
	cad := &models.CadDesign{
		Style:           style,
		FileReceiveDate: now,
		CompleteDate:    now.AddDate(0, 0, 3),
		CreatedByID:     createdBy,
	}
	if finalComplete {
		cad.FinalCompleteDate = &now
	}
	require.NoError(t, db.Create(cad).Error)
	return cad
}

// CreateFabric inserts a fabric booking for style; received marks it complete
func CreateFabric(t *testing.T, db *gorm.DB, style string, createdBy uint, received bool) *models.FabricBooking {
	t.Helper()

	now := time.Now().UTC()
	fabric := &models.FabricBooking{
		Style:       style,
		BookingDate: now,
		ReceiveDate: now.AddDate(0, 0, 10),
		CreatedByID: createdBy,
	}
	if received {
		fabric.ActualReceiveDate = &now
	}
	require.NoError(t, db.Create(fabric).Error)
	return fabric
}

// CreateSample inserts a sample development for style; completed marks it complete
func CreateSample(t *testing.T, db *gorm.DB, style string, createdBy uint, completed bool) *models.SampleDevelopment {
	t.Helper()

	now := time.Now().UTC()
	sample := &models.SampleDevelopment{
		Style:              style,
		SamplemanName:      "Karim",
		SampleReceiveDate:  now,
		SampleCompleteDate: now.AddDate(0, 0, 5),
		SampleQuantity:     3,
		CreatedByID:        createdBy,
	}
	if completed {
		sample.ActualSampleCompleteDate = &now
	}
	require.NoError(t, db.Create(sample).Error)
	return sample
}
