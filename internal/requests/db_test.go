package request

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/assetnest/assetnest-backend/internal/affiliation"
	"github.com/assetnest/assetnest-backend/internal/inventory"
	"github.com/assetnest/assetnest-backend/pkg/db"
	"github.com/assetnest/assetnest-backend/pkg/db/models"
	"github.com/assetnest/assetnest-backend/pkg/enums"
)

type testEnv struct {
	conn *gorm.DB
	svc  Service
	org  *models.Organization
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := "file:requests_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Organization{},
		&models.Account{},
		&models.Asset{},
		&models.AssetRequest{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	client := db.NewWithConn(conn)
	affiliationSvc, err := affiliation.NewService(affiliation.NewRepository(conn), client)
	if err != nil {
		t.Fatalf("affiliation service: %v", err)
	}
	svc, err := NewService(NewRepository(conn), client, inventory.NewRepository(conn), affiliationSvc)
	if err != nil {
		t.Fatalf("request service: %v", err)
	}

	org := &models.Organization{
		ID:           uuid.New(),
		HREmail:      fmt.Sprintf("hr_%s@example.com", uuid.NewString()),
		CompanyName:  "Test Co",
		PackageLimit: 10,
	}
	if err := conn.Create(org).Error; err != nil {
		t.Fatalf("create org: %v", err)
	}

	return &testEnv{conn: conn, svc: svc, org: org}
}

func (e *testEnv) mustCreateEmployee(t *testing.T, joined bool) *models.Account {
	t.Helper()
	account := &models.Account{
		ID:                uuid.New(),
		Email:             fmt.Sprintf("emp_%s@example.com", uuid.NewString()),
		Name:              "Test Employee",
		Role:              enums.AccountRoleEmployee,
		AffiliationStatus: enums.AffiliationStatusUnaffiliated,
	}
	if joined {
		account.AffiliationStatus = enums.AffiliationStatusJoined
		account.OrganizationID = &e.org.ID
	}
	if err := e.conn.Create(account).Error; err != nil {
		t.Fatalf("create employee: %v", err)
	}
	if joined {
		if err := e.conn.Model(&models.Organization{}).
			Where("id = ?", e.org.ID).
			UpdateColumn("member_count", gorm.Expr("member_count + 1")).Error; err != nil {
			t.Fatalf("bump member count: %v", err)
		}
	}
	return account
}

func (e *testEnv) mustCreateAsset(t *testing.T, name string, assetType enums.AssetType, qty int) *models.Asset {
	t.Helper()
	asset := &models.Asset{
		ID:             uuid.New(),
		OrganizationID: e.org.ID,
		ProductName:    name,
		ProductType:    assetType,
		Quantity:       qty,
	}
	if err := e.conn.Create(asset).Error; err != nil {
		t.Fatalf("create asset: %v", err)
	}
	return asset
}

func (e *testEnv) assetQuantity(t *testing.T, assetID uuid.UUID) int {
	t.Helper()
	var asset models.Asset
	if err := e.conn.First(&asset, "id = ?", assetID).Error; err != nil {
		t.Fatalf("reload asset: %v", err)
	}
	return asset.Quantity
}
