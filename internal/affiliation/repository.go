package affiliation

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/assetnest/assetnest-backend/pkg/db/models"
	"github.com/assetnest/assetnest-backend/pkg/enums"
	pkgerrors "github.com/assetnest/assetnest-backend/pkg/errors"
)

// Repository wires together roster and capacity persistence helpers.
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

// FindOrgByID loads the organization row.
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

// FindOrgByHREmail loads the organization owned by the HR email.
func (r *Repository) FindOrgByHREmail(ctx context.Context, hrEmail string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, "hr_email = ?", hrEmail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "organization not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load organization by hr email")
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

// ListUnaffiliated returns employee accounts that are free to be recruited.
func (r *Repository) ListUnaffiliated(ctx context.Context, search string) ([]models.Account, error) {
	qb := r.db.WithContext(ctx).
		Where("role = ? AND affiliation_status = ?", enums.AccountRoleEmployee, enums.AffiliationStatusUnaffiliated)
	if s := strings.TrimSpace(search); s != "" {
		needle := "%" + strings.ToLower(s) + "%"
		qb = qb.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", needle, needle)
	}

	var rows []models.Account
	if err := qb.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list unaffiliated accounts")
	}
	return rows, nil
}

// TeamMembers returns the joined employees of the organization.
func (r *Repository) TeamMembers(ctx context.Context, orgID uuid.UUID) ([]models.Account, error) {
	var rows []models.Account
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND affiliation_status = ?", orgID, enums.AffiliationStatusJoined).
		Order("name ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list team members")
	}
	return rows, nil
}

// GrowMemberCount reserves n roster slots in a single conditional UPDATE.
// The WHERE clause arbitrates capacity under concurrency.
func (r *Repository) GrowMemberCount(ctx context.Context, orgID uuid.UUID, n int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Organization{}).
		Where("id = ? AND member_count + ? <= package_limit", orgID, n).
		UpdateColumn("member_count", gorm.Expr("member_count + ?", n))
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: grow member count")
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.Organization{}).
			Where("id = ?", orgID).
			Count(&count).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: probe organization existence")
		}
		if count == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "organization not found")
		}
		return pkgerrors.New(pkgerrors.CodeCapacityExceeded, "organization package limit reached")
	}
	return nil
}

// ShrinkMemberCount releases n roster slots.
func (r *Repository) ShrinkMemberCount(ctx context.Context, orgID uuid.UUID, n int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Organization{}).
		Where("id = ? AND member_count - ? >= 0", orgID, n).
		UpdateColumn("member_count", gorm.Expr("member_count - ?", n))
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: shrink member count")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "member count would go negative")
	}
	return nil
}

// MarkJoined flips the given accounts to joined for the organization. Every
// account must still be unaffiliated; a partial match fails the whole batch.
func (r *Repository) MarkJoined(ctx context.Context, orgID uuid.UUID, accountIDs []uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id IN ? AND affiliation_status = ?", accountIDs, enums.AffiliationStatusUnaffiliated).
		Updates(map[string]any{
			"affiliation_status": enums.AffiliationStatusJoined,
			"organization_id":    orgID,
		})
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: mark accounts joined")
	}
	if res.RowsAffected != int64(len(accountIDs)) {
		return pkgerrors.New(pkgerrors.CodeConflict, "one or more accounts are already affiliated or missing")
	}
	return nil
}

// ClearAffiliation detaches the account from the organization.
func (r *Repository) ClearAffiliation(ctx context.Context, orgID, accountID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND organization_id = ? AND affiliation_status = ?", accountID, orgID, enums.AffiliationStatusJoined).
		Updates(map[string]any{
			"affiliation_status": enums.AffiliationStatusUnaffiliated,
			"organization_id":    nil,
		})
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: clear affiliation")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "account is not a member of this organization")
	}
	return nil
}

// UpgradeLimit raises the package limit, refusing when the roster already
// outgrew the requested limit.
func (r *Repository) UpgradeLimit(ctx context.Context, orgID uuid.UUID, newLimit int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Organization{}).
		Where("id = ? AND member_count <= ?", orgID, newLimit).
		UpdateColumn("package_limit", newLimit)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "db: upgrade package limit")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "current member count exceeds the requested limit")
	}
	return nil
}
