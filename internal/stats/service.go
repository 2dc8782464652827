package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/assetnest/assetnest-backend/pkg/db/models"
	"github.com/assetnest/assetnest-backend/pkg/enums"
	pkgerrors "github.com/assetnest/assetnest-backend/pkg/errors"
)

const (
	topPendingLimit   = 5
	lowStockThreshold = 10
)

// Service exposes the dashboard read models.
type Service interface {
	HRStats(ctx context.Context, orgID uuid.UUID) (*HRStatsDTO, error)
	EmployeeStats(ctx context.Context, email string) (*EmployeeStatsDTO, error)
}

// PendingRequestDTO is one row of the pending-requests widget.
type PendingRequestDTO struct {
	ID             uuid.UUID `json:"id"`
	ProductName    string    `json:"product_name"`
	RequesterName  string    `json:"requester_name"`
	RequesterEmail string    `json:"requester_email"`
	RequestDate    time.Time `json:"request_date"`
}

// LimitedStockItemDTO is one row of the low-stock widget.
type LimitedStockItemDTO struct {
	ID          uuid.UUID `json:"id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
}

// TypeDistributionDTO splits the asset pool by returnability.
type TypeDistributionDTO struct {
	Returnable    int64 `json:"returnable"`
	NonReturnable int64 `json:"non_returnable"`
}

// HRStatsDTO is the HR dashboard payload.
type HRStatsDTO struct {
	TopPending       []PendingRequestDTO   `json:"top_pending"`
	TypeDistribution TypeDistributionDTO   `json:"type_distribution"`
	LimitedStock     []LimitedStockItemDTO `json:"limited_stock"`
}

// MyPendingRequestDTO is one row of the employee pending widget.
type MyPendingRequestDTO struct {
	ID          uuid.UUID `json:"id"`
	ProductName string    `json:"product_name"`
	RequestDate time.Time `json:"request_date"`
}

// EmployeeStatsDTO is the employee dashboard payload.
type EmployeeStatsDTO struct {
	MonthlyRequestCount int64                 `json:"monthly_request_count"`
	PendingRequests     []MyPendingRequestDTO `json:"pending_requests"`
}

type service struct {
	db *gorm.DB
}

// NewService constructs a stats service instance.
func NewService(conn *gorm.DB) (Service, error) {
	if conn == nil {
		return nil, fmt.Errorf("db connection required")
	}
	return &service{db: conn}, nil
}

func (s *service) HRStats(ctx context.Context, orgID uuid.UUID) (*HRStatsDTO, error) {
	var pending []PendingRequestDTO
	err := s.db.WithContext(ctx).
		Table("asset_requests ar").
		Select("ar.id, a.product_name, ar.requester_name, ar.requester_email, ar.request_date").
		Joins("JOIN assets a ON a.id = ar.asset_id").
		Where("ar.organization_id = ? AND ar.status = ?", orgID, enums.RequestStatusPending).
		Order("ar.request_date DESC").
		Limit(topPendingLimit).
		Scan(&pending).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load pending requests")
	}

	var distribution TypeDistributionDTO
	type typeCount struct {
		ProductType enums.AssetType `gorm:"column:product_type"`
		Count       int64           `gorm:"column:count"`
	}
	var counts []typeCount
	err = s.db.WithContext(ctx).
		Model(&models.Asset{}).
		Select("product_type, COUNT(*) AS count").
		Where("organization_id = ?", orgID).
		Group("product_type").
		Scan(&counts).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load type distribution")
	}
	for _, c := range counts {
		switch c.ProductType {
		case enums.AssetTypeReturnable:
			distribution.Returnable = c.Count
		case enums.AssetTypeNonReturnable:
			distribution.NonReturnable = c.Count
		}
	}

	var limited []LimitedStockItemDTO
	err = s.db.WithContext(ctx).
		Model(&models.Asset{}).
		Select("id, product_name, quantity").
		Where("organization_id = ? AND quantity < ?", orgID, lowStockThreshold).
		Order("quantity ASC").
		Scan(&limited).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load limited stock")
	}

	return &HRStatsDTO{
		TopPending:       pending,
		TypeDistribution: distribution,
		LimitedStock:     limited,
	}, nil
}

func (s *service) EmployeeStats(ctx context.Context, email string) (*EmployeeStatsDTO, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var monthly int64
	err := s.db.WithContext(ctx).
		Model(&models.AssetRequest{}).
		Where("requester_email = ? AND request_date >= ?", email, monthStart).
		Count(&monthly).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count monthly requests")
	}

	var pending []MyPendingRequestDTO
	err = s.db.WithContext(ctx).
		Table("asset_requests ar").
		Select("ar.id, a.product_name, ar.request_date").
		Joins("JOIN assets a ON a.id = ar.asset_id").
		Where("ar.requester_email = ? AND ar.status = ?", email, enums.RequestStatusPending).
		Order("ar.request_date DESC").
		Scan(&pending).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load pending requests")
	}

	return &EmployeeStatsDTO{
		MonthlyRequestCount: monthly,
		PendingRequests:     pending,
	}, nil
}
