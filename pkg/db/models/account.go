package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/assetnest/assetnest-backend/pkg/enums"
)

// Account is the directory record for a resolved identity (HR or employee).
type Account struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	Email             string                  `gorm:"column:email;uniqueIndex;not null"`
	Name              string                  `gorm:"column:name;not null"`
	Role              enums.AccountRole       `gorm:"column:role;not null"`
	PhotoURL          *string                 `gorm:"column:photo_url"`
	OrganizationID    *uuid.UUID              `gorm:"column:organization_id;type:uuid;index"`
	AffiliationStatus enums.AffiliationStatus `gorm:"column:affiliation_status;not null;default:'unaffiliated'"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
