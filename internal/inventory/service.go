package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/assetnest/assetnest-backend/pkg/db"
	"github.com/assetnest/assetnest-backend/pkg/db/models"
	"github.com/assetnest/assetnest-backend/pkg/enums"
	pkgerrors "github.com/assetnest/assetnest-backend/pkg/errors"
	"github.com/assetnest/assetnest-backend/pkg/pagination"
)

// Service exposes HR asset management and employee browse operations.
type Service interface {
	CreateAsset(ctx context.Context, orgID uuid.UUID, input CreateAssetInput) (*AssetDTO, error)
	UpdateAsset(ctx context.Context, orgID, assetID uuid.UUID, input UpdateAssetInput) (*AssetDTO, error)
	DeleteAsset(ctx context.Context, orgID, assetID uuid.UUID) error
	GetAsset(ctx context.Context, assetID uuid.UUID) (*AssetDTO, error)
	ListAssets(ctx context.Context, orgID uuid.UUID, filters ListFilters, page pagination.Params) (*AssetListResult, error)
	AvailableAssets(ctx context.Context, orgID uuid.UUID, filters ListFilters) ([]AssetDTO, error)
	LowStock(ctx context.Context, orgID uuid.UUID) ([]AssetDTO, error)
}

// CreateAssetInput holds the validated payload to stock a new asset.
type CreateAssetInput struct {
	ProductName string
	ProductType enums.AssetType
	Quantity    int
	ImageURL    *string
}

// UpdateAssetInput holds optional mutation values for an asset.
type UpdateAssetInput struct {
	ProductName *string
	ProductType *enums.AssetType
	Quantity    *int
	ImageURL    *string
}

type service struct {
	repo              *Repository
	dbClient          *db.Client
	lowStockThreshold int
}

// NewService constructs an inventory service instance.
func NewService(repo *Repository, dbClient *db.Client, lowStockThreshold int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if lowStockThreshold <= 0 {
		lowStockThreshold = 10
	}
	return &service{
		repo:              repo,
		dbClient:          dbClient,
		lowStockThreshold: lowStockThreshold,
	}, nil
}

func (s *service) CreateAsset(ctx context.Context, orgID uuid.UUID, input CreateAssetInput) (*AssetDTO, error) {
	if strings.TrimSpace(input.ProductName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_name is required")
	}
	if !input.ProductType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid product_type %q", input.ProductType))
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	asset := &models.Asset{
		ID:             uuid.New(),
		OrganizationID: orgID,
		ProductName:    strings.TrimSpace(input.ProductName),
		ProductType:    input.ProductType,
		Quantity:       input.Quantity,
		ImageURL:       input.ImageURL,
	}
	created, err := s.repo.CreateAsset(ctx, asset)
	if err != nil {
		return nil, err
	}
	return toAssetDTO(created), nil
}

func (s *service) UpdateAsset(ctx context.Context, orgID, assetID uuid.UUID, input UpdateAssetInput) (*AssetDTO, error) {
	asset, err := s.repo.FindByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset.OrganizationID != orgID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "asset belongs to another organization")
	}

	fields := map[string]any{}
	if input.ProductName != nil {
		name := strings.TrimSpace(*input.ProductName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_name cannot be empty")
		}
		fields["product_name"] = name
	}
	if input.ProductType != nil {
		if !input.ProductType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid product_type %q", *input.ProductType))
		}
		fields["product_type"] = *input.ProductType
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
		fields["quantity"] = *input.Quantity
	}
	if input.ImageURL != nil {
		fields["image_url"] = *input.ImageURL
	}

	updated, err := s.repo.UpdateAssetFields(ctx, assetID, fields)
	if err != nil {
		return nil, err
	}
	return toAssetDTO(updated), nil
}

// DeleteAsset removes the asset unless open requests still reference it.
func (s *service) DeleteAsset(ctx context.Context, orgID, assetID uuid.UUID) error {
	asset, err := s.repo.FindByID(ctx, assetID)
	if err != nil {
		return err
	}
	if asset.OrganizationID != orgID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "asset belongs to another organization")
	}

	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		open, err := txRepo.CountOpenRequests(ctx, assetID)
		if err != nil {
			return err
		}
		if open > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict,
				fmt.Sprintf("asset has %d open requests and cannot be deleted", open))
		}
		return txRepo.DeleteAsset(ctx, assetID)
	})
}

func (s *service) GetAsset(ctx context.Context, assetID uuid.UUID) (*AssetDTO, error) {
	asset, err := s.repo.FindByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return toAssetDTO(asset), nil
}

func (s *service) ListAssets(ctx context.Context, orgID uuid.UUID, filters ListFilters, page pagination.Params) (*AssetListResult, error) {
	page = pagination.Normalize(page)
	rows, total, err := s.repo.ListByOrg(ctx, orgID, filters, page)
	if err != nil {
		return nil, err
	}
	return &AssetListResult{
		Assets: toAssetDTOs(rows),
		Meta:   pagination.BuildMeta(page, total),
	}, nil
}

func (s *service) AvailableAssets(ctx context.Context, orgID uuid.UUID, filters ListFilters) ([]AssetDTO, error) {
	rows, err := s.repo.AvailableByOrg(ctx, orgID, filters)
	if err != nil {
		return nil, err
	}
	return toAssetDTOs(rows), nil
}

func (s *service) LowStock(ctx context.Context, orgID uuid.UUID) ([]AssetDTO, error) {
	rows, err := s.repo.LowStock(ctx, orgID, s.lowStockThreshold)
	if err != nil {
		return nil, err
	}
	return toAssetDTOs(rows), nil
}
