package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/assetnest/assetnest-backend/pkg/enums"
)

// Organization is the HR tenant owning an asset pool and a team roster.
//
// MemberCount is the denormalized count of joined employees; it is only ever
// mutated together with the affiliation rows, inside the same transaction, and
// is the column the capacity guard conditions on.
type Organization struct {
	ID           uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	HREmail      string                   `gorm:"column:hr_email;uniqueIndex;not null"`
	CompanyName  string                   `gorm:"column:company_name;not null"`
	LogoURL      *string                  `gorm:"column:logo_url"`
	PackageLimit int                      `gorm:"column:package_limit;not null"`
	MemberCount  int                      `gorm:"column:member_count;not null;default:0"`
	Status       enums.OrganizationStatus `gorm:"column:status;not null;default:'active'"`
	CreatedAt    time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
