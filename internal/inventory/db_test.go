package inventory

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/assetnest/assetnest-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Organization{}, &models.Asset{}, &models.AssetRequest{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func mustCreateTestOrg(t *testing.T, conn *gorm.DB) *models.Organization {
	t.Helper()
	org := &models.Organization{
		ID:           uuid.New(),
		HREmail:      "hr_" + uuid.NewString() + "@example.com",
		CompanyName:  "Test Co",
		PackageLimit: 10,
	}
	if err := conn.Create(org).Error; err != nil {
		t.Fatalf("create org: %v", err)
	}
	return org
}
