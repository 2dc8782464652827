package request

import (
	"time"

	"github.com/google/uuid"

	"github.com/assetnest/assetnest-backend/pkg/enums"
	"github.com/assetnest/assetnest-backend/pkg/pagination"
)

// RequestDTO is the API shape of an asset request with its asset context.
type RequestDTO struct {
	ID             uuid.UUID           `json:"id"`
	AssetID        uuid.UUID           `json:"asset_id"`
	OrganizationID uuid.UUID           `json:"organization_id"`
	ProductName    string              `json:"product_name"`
	ProductType    enums.AssetType     `json:"product_type"`
	RequesterEmail string              `json:"requester_email"`
	RequesterName  string              `json:"requester_name"`
	Note           *string             `json:"note,omitempty"`
	RequestDate    time.Time           `json:"request_date"`
	ApprovalDate   *time.Time          `json:"approval_date,omitempty"`
	Status         enums.RequestStatus `json:"status"`
}

// RequestListResult bundles one page of requests with pagination metadata.
type RequestListResult struct {
	Requests []RequestDTO    `json:"requests"`
	Meta     pagination.Meta `json:"meta"`
}

func toRequestDTO(row *Row) *RequestDTO {
	if row == nil {
		return nil
	}
	return &RequestDTO{
		ID:             row.ID,
		AssetID:        row.AssetID,
		OrganizationID: row.OrganizationID,
		ProductName:    row.ProductName,
		ProductType:    row.ProductType,
		RequesterEmail: row.RequesterEmail,
		RequesterName:  row.RequesterName,
		Note:           row.Note,
		RequestDate:    row.RequestDate,
		ApprovalDate:   row.ApprovalDate,
		Status:         row.Status,
	}
}

func toRequestDTOs(rows []Row) []RequestDTO {
	out := make([]RequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toRequestDTO(&rows[i]))
	}
	return out
}
