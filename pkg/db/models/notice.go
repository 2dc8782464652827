package models

import (
	"time"

	"github.com/google/uuid"
)

// Notice is a bulletin entry posted by HR for the organization's team.
type Notice struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"column:organization_id;type:uuid;not null;index"`
	Title          string    `gorm:"column:title;not null"`
	Body           string    `gorm:"column:body;not null"`
	PostedBy       string    `gorm:"column:posted_by;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
