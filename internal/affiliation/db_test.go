package affiliation

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/assetnest/assetnest-backend/pkg/db/models"
	"github.com/assetnest/assetnest-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:affiliation_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Organization{}, &models.Account{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func mustCreateTestOrg(t *testing.T, conn *gorm.DB, packageLimit int) *models.Organization {
	t.Helper()
	org := &models.Organization{
		ID:           uuid.New(),
		HREmail:      fmt.Sprintf("hr_%s@example.com", uuid.NewString()),
		CompanyName:  "Test Co",
		PackageLimit: packageLimit,
	}
	if err := conn.Create(org).Error; err != nil {
		t.Fatalf("create org: %v", err)
	}
	return org
}

func mustCreateEmployee(t *testing.T, conn *gorm.DB, name string) *models.Account {
	t.Helper()
	account := &models.Account{
		ID:                uuid.New(),
		Email:             fmt.Sprintf("emp_%s@example.com", uuid.NewString()),
		Name:              name,
		Role:              enums.AccountRoleEmployee,
		AffiliationStatus: enums.AffiliationStatusUnaffiliated,
	}
	if err := conn.Create(account).Error; err != nil {
		t.Fatalf("create employee: %v", err)
	}
	return account
}
