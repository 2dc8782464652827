package request

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/assetnest/assetnest-backend/pkg/db/models"
	"github.com/assetnest/assetnest-backend/pkg/enums"
	pkgerrors "github.com/assetnest/assetnest-backend/pkg/errors"
	"github.com/assetnest/assetnest-backend/pkg/pagination"
)

// OrgListFilters narrows the HR request listing.
type OrgListFilters struct {
	Search string
	Status *enums.RequestStatus
}

// RequesterListFilters narrows the employee "my assets" listing.
type RequesterListFilters struct {
	Search string
	Type   *enums.AssetType
	Status *enums.RequestStatus
}

// Row is a request joined with the asset it targets.
type Row struct {
	models.AssetRequest
	ProductName string          `gorm:"column:product_name"`
	ProductType enums.AssetType `gorm:"column:product_type"`
}

// Repository wires together request persistence helpers.
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

// FindByID loads the request row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.AssetRequest, error) {
	var req models.AssetRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load request")
	}
	return &req, nil
}

// FindOrgByID loads the organization row for ownership checks.
func (r *Repository) FindOrgByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "organization not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load organization")
	}
	return &org, nil
}

// FindAccountByEmail loads the account row.
func (r *Repository) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load account")
	}
	return &account, nil
}

// CreateRequest inserts a new request row.
func (r *Repository) CreateRequest(ctx context.Context, req *models.AssetRequest) (*models.AssetRequest, error) {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert request")
	}
	return req, nil
}

// TransitionStatus flips the request status in a single conditional UPDATE.
// Zero rows affected means the request was not in the expected state; the
// second of two competing transitions always loses here.
func (r *Repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.RequestStatus, approvalDate *time.Time) error {
	updates := map[string]any{"status": to}
	if approvalDate != nil {
		updates["approval_date"] = *approvalDate
	}
	res := r.db.WithContext(ctx).
		Model(&models.AssetRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: transition request status")
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.AssetRequest{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: probe request existence")
		}
		if count == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return pkgerrors.New(pkgerrors.CodeInvalidTransition,
			"request is not in status "+string(from))
	}
	return nil
}

// DeletePendingByRequester removes the requester's own pending request.
func (r *Repository) DeletePendingByRequester(ctx context.Context, id uuid.UUID, requesterEmail string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND requester_email = ? AND status = ?", id, requesterEmail, enums.RequestStatusPending).
		Delete(&models.AssetRequest{})
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: delete request")
	}
	if res.RowsAffected == 0 {
		req, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if req.RequesterEmail != requesterEmail {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the requester can cancel a request")
		}
		return pkgerrors.New(pkgerrors.CodeInvalidTransition, "only pending requests can be cancelled")
	}
	return nil
}

// ListForOrg returns a page of the organization's requests joined with assets.
func (r *Repository) ListForOrg(ctx context.Context, orgID uuid.UUID, filters OrgListFilters, page pagination.Params) ([]Row, int64, error) {
	qb := r.db.WithContext(ctx).
		Table("asset_requests ar").
		Select("ar.*, a.product_name, a.product_type").
		Joins("JOIN assets a ON a.id = ar.asset_id").
		Where("ar.organization_id = ?", orgID)

	if s := strings.TrimSpace(filters.Search); s != "" {
		needle := "%" + strings.ToLower(s) + "%"
		qb = qb.Where("LOWER(ar.requester_name) LIKE ? OR LOWER(ar.requester_email) LIKE ? OR LOWER(a.product_name) LIKE ?",
			needle, needle, needle)
	}
	if filters.Status != nil {
		qb = qb.Where("ar.status = ?", *filters.Status)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count requests")
	}

	var rows []Row
	err := qb.Order("ar.request_date DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list org requests")
	}
	return rows, total, nil
}

// ListForRequester returns the requester's requests joined with assets.
func (r *Repository) ListForRequester(ctx context.Context, email string, filters RequesterListFilters) ([]Row, error) {
	qb := r.db.WithContext(ctx).
		Table("asset_requests ar").
		Select("ar.*, a.product_name, a.product_type").
		Joins("JOIN assets a ON a.id = ar.asset_id").
		Where("ar.requester_email = ?", email)

	if s := strings.TrimSpace(filters.Search); s != "" {
		qb = qb.Where("LOWER(a.product_name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if filters.Type != nil {
		qb = qb.Where("a.product_type = ?", *filters.Type)
	}
	if filters.Status != nil {
		qb = qb.Where("ar.status = ?", *filters.Status)
	}

	var rows []Row
	if err := qb.Order("ar.request_date DESC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list requester requests")
	}
	return rows, nil
}
