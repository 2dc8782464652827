package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/assetnest/assetnest-backend/pkg/db/models"
	"github.com/assetnest/assetnest-backend/pkg/enums"
	"github.com/assetnest/assetnest-backend/pkg/pagination"
)

// AssetDTO is the API shape of an asset.
type AssetDTO struct {
	ID             uuid.UUID       `json:"id"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	ProductName    string          `json:"product_name"`
	ProductType    enums.AssetType `json:"product_type"`
	Quantity       int             `json:"quantity"`
	ImageURL       *string         `json:"image_url,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AssetListResult bundles one page of assets with pagination metadata.
type AssetListResult struct {
	Assets []AssetDTO      `json:"assets"`
	Meta   pagination.Meta `json:"meta"`
}

func toAssetDTO(m *models.Asset) *AssetDTO {
	if m == nil {
		return nil
	}
	return &AssetDTO{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		ProductName:    m.ProductName,
		ProductType:    m.ProductType,
		Quantity:       m.Quantity,
		ImageURL:       m.ImageURL,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toAssetDTOs(rows []models.Asset) []AssetDTO {
	out := make([]AssetDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toAssetDTO(&rows[i]))
	}
	return out
}
