package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/assetnest/assetnest-backend/pkg/enums"
)

// AssetRequest is an employee's request for one unit of an asset.
// Immutable once it leaves Pending, except for Approved -> Returned.
type AssetRequest struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	AssetID        uuid.UUID           `gorm:"column:asset_id;type:uuid;not null;index"`
	OrganizationID uuid.UUID           `gorm:"column:organization_id;type:uuid;not null;index"`
	RequesterEmail string              `gorm:"column:requester_email;not null;index"`
	RequesterName  string              `gorm:"column:requester_name;not null"`
	Note           *string             `gorm:"column:note"`
	RequestDate    time.Time           `gorm:"column:request_date;not null"`
	ApprovalDate   *time.Time          `gorm:"column:approval_date"`
	Status         enums.RequestStatus `gorm:"column:status;not null;default:'Pending'"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
