package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgdb "github.com/assetnest/assetnest-backend/pkg/db"
	"github.com/assetnest/assetnest-backend/pkg/db/models"
	"github.com/assetnest/assetnest-backend/pkg/enums"
	pkgerrors "github.com/assetnest/assetnest-backend/pkg/errors"
	"github.com/assetnest/assetnest-backend/pkg/pagination"
)

// ListFilters narrows the HR asset listing.
type ListFilters struct {
	Search     string
	TypeFilter *enums.AssetType
	Sort       string
}

// SortQuantityDesc orders the listing by remaining stock, largest first.
const SortQuantityDesc = "quantityDesc"

// Repository wires together asset persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the asset row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	var asset models.Asset
	if err := r.db.WithContext(ctx).First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load asset")
	}
	return &asset, nil
}

// CreateAsset inserts a new asset row.
func (r *Repository) CreateAsset(ctx context.Context, asset *models.Asset) (*models.Asset, error) {
	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert asset")
	}
	return asset, nil
}

// UpdateAssetFields writes only the given columns. Untouched columns,
// quantity in particular, stay whatever concurrent adjustments left them at.
func (r *Repository) UpdateAssetFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Asset, error) {
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).
			Model(&models.Asset{}).
			Where("id = ?", id).
			Updates(fields)
		if res.Error != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: update asset")
		}
		if res.RowsAffected == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
		}
	}
	return r.FindByID(ctx, id)
}

// DeleteAsset removes an asset by ID. A request that slipped in after the
// open-request check trips the ON DELETE RESTRICT foreign key, which is
// surfaced as the same conflict the check reports.
func (r *Repository) DeleteAsset(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Asset{})
	if res.Error != nil {
		if pkgdb.IsForeignKeyViolation(res.Error) {
			return pkgerrors.New(pkgerrors.CodeConflict, "asset has open requests and cannot be deleted")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: delete asset")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
	}
	return nil
}

// CountOpenRequests counts Pending/Approved requests that still reference the asset.
func (r *Repository) CountOpenRequests(ctx context.Context, assetID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AssetRequest{}).
		Where("asset_id = ? AND status IN ?", assetID, []enums.RequestStatus{
			enums.RequestStatusPending,
			enums.RequestStatusApproved,
		}).
		Count(&count).
		Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count open requests")
	}
	return count, nil
}

// ListByOrg returns a page of assets for the organization plus the total count.
func (r *Repository) ListByOrg(ctx context.Context, orgID uuid.UUID, filters ListFilters, page pagination.Params) ([]models.Asset, int64, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Asset{}).
		Where("organization_id = ?", orgID)
	qb = applyFilters(qb, filters)

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count assets")
	}

	switch filters.Sort {
	case SortQuantityDesc:
		qb = qb.Order("quantity DESC")
	default:
		qb = qb.Order("created_at DESC")
	}

	var rows []models.Asset
	if err := qb.Offset(page.Offset()).Limit(page.Limit).Find(&rows).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list assets")
	}
	return rows, total, nil
}

// AvailableByOrg returns in-stock assets for the employee browse view.
func (r *Repository) AvailableByOrg(ctx context.Context, orgID uuid.UUID, filters ListFilters) ([]models.Asset, error) {
	qb := r.db.WithContext(ctx).
		Where("organization_id = ? AND quantity > 0", orgID)
	qb = applyFilters(qb, filters)

	var rows []models.Asset
	if err := qb.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list available assets")
	}
	return rows, nil
}

// LowStock returns assets whose quantity fell under the threshold.
func (r *Repository) LowStock(ctx context.Context, orgID uuid.UUID, threshold int) ([]models.Asset, error) {
	var rows []models.Asset
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND quantity < ?", orgID, threshold).
		Order("quantity ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list low stock assets")
	}
	return rows, nil
}

// AdjustQuantity applies delta to the asset's stock in a single conditional
// UPDATE. The WHERE clause is the arbiter under concurrency: the row is only
// touched when the resulting quantity stays non-negative.
func (r *Repository) AdjustQuantity(ctx context.Context, assetID uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Asset{}).
		Where("id = ? AND quantity + ? >= 0", assetID, delta).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: adjust asset quantity")
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.Asset{}).
			Where("id = ?", assetID).
			Count(&count).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: probe asset existence")
		}
		if count == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "asset not found")
		}
		return pkgerrors.New(pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("asset %s has insufficient stock for delta %d", assetID, delta))
	}
	return nil
}

func applyFilters(qb *gorm.DB, filters ListFilters) *gorm.DB {
	if s := strings.TrimSpace(filters.Search); s != "" {
		qb = qb.Where("LOWER(product_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if filters.TypeFilter != nil {
		qb = qb.Where("product_type = ?", *filters.TypeFilter)
	}
	return qb
}
