package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/assetnest/assetnest-backend/pkg/enums"
)

// Asset is a stocked company item. Quantity is the count available for new
// approvals; approved-but-unreturned units are already excluded.
type Asset struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrganizationID uuid.UUID       `gorm:"column:organization_id;type:uuid;not null;index"`
	ProductName    string          `gorm:"column:product_name;not null"`
	ProductType    enums.AssetType `gorm:"column:product_type;not null"`
	Quantity       int             `gorm:"column:quantity;not null;default:0"`
	ImageURL       *string         `gorm:"column:image_url"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
