// internal/services/testutil_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/models"
)

// setupTestDB opens a uniquely-named in-memory SQLite database so suites
// never share state, and migrates the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Variation{},
		&models.ProductImage{},
		&models.Review{},
		&models.Notification{},
		&models.NotificationRecipient{},
		&models.Warranty{},
		&models.Grievance{},
		&models.PosmRequest{},
		&models.PosmMessage{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string, role models.UserRole, status models.UserStatus) *models.User {
	t.Helper()

	user := &models.User{
		Name:   name,
		Email:  fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Role:   role,
		Status: status,
	}
	if err := user.SetPassword("test-password"); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, basePrice float64) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:      name,
		BasePrice: basePrice,
		InStock:   true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return product
}

func floatPtr(f float64) *float64 {
	return &f
}

func newUUID() uuid.UUID {
	return uuid.New()
}
