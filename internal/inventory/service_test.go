package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/assetnest/assetnest-backend/pkg/db"
	"github.com/assetnest/assetnest-backend/pkg/db/models"
	"github.com/assetnest/assetnest-backend/pkg/enums"
	pkgerrors "github.com/assetnest/assetnest-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *Repository, *models.Organization) {
	t.Helper()
	conn := newTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, db.NewWithConn(conn), 10)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, mustCreateTestOrg(t, conn)
}

func TestCreateAssetValidation(t *testing.T) {
	t.Parallel()

	svc, _, org := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateAsset(ctx, org.ID, CreateAssetInput{ProductName: "", ProductType: enums.AssetTypeReturnable, Quantity: 1})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for empty name, got %v", err)
	}

	_, err = svc.CreateAsset(ctx, org.ID, CreateAssetInput{ProductName: "Laptop", ProductType: "Consumable", Quantity: 1})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for bad type, got %v", err)
	}

	_, err = svc.CreateAsset(ctx, org.ID, CreateAssetInput{ProductName: "Laptop", ProductType: enums.AssetTypeReturnable, Quantity: -1})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for negative quantity, got %v", err)
	}

	created, err := svc.CreateAsset(ctx, org.ID, CreateAssetInput{ProductName: "  Laptop  ", ProductType: enums.AssetTypeReturnable, Quantity: 3})
	if err != nil {
		t.Fatalf("create asset: %v", err)
	}
	if created.ProductName != "Laptop" {
		t.Fatalf("expected trimmed name, got %q", created.ProductName)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
}

func TestUpdateAssetCrossOrgForbidden(t *testing.T) {
	t.Parallel()

	svc, repo, org := newTestService(t)
	ctx := context.Background()

	asset := seedAsset(t, repo, org.ID, "Tablet", enums.AssetTypeReturnable, 2)

	name := "Tablet v2"
	_, err := svc.UpdateAsset(ctx, uuid.New(), asset.ID, UpdateAssetInput{ProductName: &name})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for foreign org, got %v", err)
	}

	updated, err := svc.UpdateAsset(ctx, org.ID, asset.ID, UpdateAssetInput{ProductName: &name})
	if err != nil {
		t.Fatalf("update asset: %v", err)
	}
	if updated.ProductName != "Tablet v2" {
		t.Fatalf("expected renamed asset, got %q", updated.ProductName)
	}
	if updated.Quantity != 2 {
		t.Fatalf("name-only update must keep stock, got %d", updated.Quantity)
	}
}

func TestDeleteAssetBlockedByOpenRequests(t *testing.T) {
	t.Parallel()

	svc, repo, org := newTestService(t)
	ctx := context.Background()

	asset := seedAsset(t, repo, org.ID, "Projector", enums.AssetTypeReturnable, 1)

	request := &models.AssetRequest{
		ID:             uuid.New(),
		AssetID:        asset.ID,
		OrganizationID: org.ID,
		RequesterEmail: "emp@example.com",
		RequesterName:  "Emp",
		RequestDate:    time.Now().UTC(),
		Status:         enums.RequestStatusPending,
	}
	if err := repo.db.Create(request).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}

	err := svc.DeleteAsset(ctx, org.ID, asset.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected CONFLICT while request is open, got %v", err)
	}

	if err := repo.db.Model(request).Update("status", enums.RequestStatusRejected).Error; err != nil {
		t.Fatalf("close request: %v", err)
	}

	if err := svc.DeleteAsset(ctx, org.ID, asset.ID); err != nil {
		t.Fatalf("delete after requests closed: %v", err)
	}

	_, err = svc.GetAsset(ctx, asset.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND after delete, got %v", err)
	}
}
