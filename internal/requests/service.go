package request

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/assetnest/assetnest-backend/internal/inventory"
	"github.com/assetnest/assetnest-backend/pkg/db"
	"github.com/assetnest/assetnest-backend/pkg/db/models"
	"github.com/assetnest/assetnest-backend/pkg/enums"
	pkgerrors "github.com/assetnest/assetnest-backend/pkg/errors"
	"github.com/assetnest/assetnest-backend/pkg/pagination"
)

// Service exposes the request lifecycle operations.
type Service interface {
	Create(ctx context.Context, assetID uuid.UUID, requesterEmail string, note *string) (*RequestDTO, error)
	Approve(ctx context.Context, requestID uuid.UUID, approverEmail string) (*RequestDTO, error)
	Reject(ctx context.Context, requestID uuid.UUID, approverEmail string) (*RequestDTO, error)
	Cancel(ctx context.Context, requestID uuid.UUID, requesterEmail string) error
	Return(ctx context.Context, requestID uuid.UUID, requesterEmail string) (*RequestDTO, error)
	ListForOrg(ctx context.Context, orgID uuid.UUID, filters OrgListFilters, page pagination.Params) (*RequestListResult, error)
	ListForRequester(ctx context.Context, email string, filters RequesterListFilters) ([]RequestDTO, error)
}

type affiliationEnsurer interface {
	EnsureJoined(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, email string) error
}

type service struct {
	repo          *Repository
	dbClient      *db.Client
	inventoryRepo *inventory.Repository
	affiliation   affiliationEnsurer
}

// NewService constructs a request workflow service instance.
func NewService(repo *Repository, dbClient *db.Client, inventoryRepo *inventory.Repository, affiliation affiliationEnsurer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("request repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if affiliation == nil {
		return nil, fmt.Errorf("affiliation ensurer required")
	}
	return &service{
		repo:          repo,
		dbClient:      dbClient,
		inventoryRepo: inventoryRepo,
		affiliation:   affiliation,
	}, nil
}

// Create files a pending request. Filing never touches stock.
func (s *service) Create(ctx context.Context, assetID uuid.UUID, requesterEmail string, note *string) (*RequestDTO, error) {
	requesterEmail = strings.TrimSpace(requesterEmail)
	if requesterEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requester email is required")
	}

	account, err := s.repo.FindAccountByEmail(ctx, requesterEmail)
	if err != nil {
		return nil, err
	}
	asset, err := s.inventoryRepo.FindByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if account.AffiliationStatus != enums.AffiliationStatusJoined ||
		account.OrganizationID == nil ||
		*account.OrganizationID != asset.OrganizationID {
		return nil, pkgerrors.New(pkgerrors.CodeNotAffiliated, "requester is not a member of the asset's organization")
	}

	req := &models.AssetRequest{
		ID:             uuid.New(),
		AssetID:        asset.ID,
		OrganizationID: asset.OrganizationID,
		RequesterEmail: account.Email,
		RequesterName:  account.Name,
		Note:           note,
		RequestDate:    time.Now().UTC(),
		Status:         enums.RequestStatusPending,
	}
	created, err := s.repo.CreateRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	return toRequestDTO(&Row{
		AssetRequest: *created,
		ProductName:  asset.ProductName,
		ProductType:  asset.ProductType,
	}), nil
}

// Approve hands out one unit. The status flip, the stock decrement, and the
// roster admission are one transaction; losing any of the three leaves the
// request Pending and the stock untouched.
func (s *service) Approve(ctx context.Context, requestID uuid.UUID, approverEmail string) (*RequestDTO, error) {
	req, err := s.ensureApprover(ctx, requestID, approverEmail)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.TransitionStatus(ctx, requestID, enums.RequestStatusPending, enums.RequestStatusApproved, &now); err != nil {
			return err
		}
		if err := s.inventoryRepo.WithTx(tx).AdjustQuantity(ctx, req.AssetID, -1); err != nil {
			return err
		}
		return s.affiliation.EnsureJoined(ctx, tx, req.OrganizationID, req.RequesterEmail)
	})
	if err != nil {
		return nil, err
	}
	return s.loadDTO(ctx, requestID)
}

// Reject is terminal and has no stock effect.
func (s *service) Reject(ctx context.Context, requestID uuid.UUID, approverEmail string) (*RequestDTO, error) {
	if _, err := s.ensureApprover(ctx, requestID, approverEmail); err != nil {
		return nil, err
	}
	if err := s.repo.TransitionStatus(ctx, requestID, enums.RequestStatusPending, enums.RequestStatusRejected, nil); err != nil {
		return nil, err
	}
	return s.loadDTO(ctx, requestID)
}

// Cancel removes the requester's own pending request.
func (s *service) Cancel(ctx context.Context, requestID uuid.UUID, requesterEmail string) error {
	return s.repo.DeletePendingByRequester(ctx, requestID, strings.TrimSpace(requesterEmail))
}

// Return puts one unit back. Only Returnable assets round-trip.
func (s *service) Return(ctx context.Context, requestID uuid.UUID, requesterEmail string) (*RequestDTO, error) {
	req, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RequesterEmail != strings.TrimSpace(requesterEmail) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the requester can return an asset")
	}

	asset, err := s.inventoryRepo.FindByID(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}
	if asset.ProductType != enums.AssetTypeReturnable {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "non-returnable assets cannot be returned")
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.inventoryRepo.WithTx(tx).AdjustQuantity(ctx, req.AssetID, 1); err != nil {
			return err
		}
		return s.repo.WithTx(tx).TransitionStatus(ctx, requestID, enums.RequestStatusApproved, enums.RequestStatusReturned, nil)
	})
	if err != nil {
		return nil, err
	}
	return s.loadDTO(ctx, requestID)
}

func (s *service) ListForOrg(ctx context.Context, orgID uuid.UUID, filters OrgListFilters, page pagination.Params) (*RequestListResult, error) {
	page = pagination.Normalize(page)
	rows, total, err := s.repo.ListForOrg(ctx, orgID, filters, page)
	if err != nil {
		return nil, err
	}
	return &RequestListResult{
		Requests: toRequestDTOs(rows),
		Meta:     pagination.BuildMeta(page, total),
	}, nil
}

func (s *service) ListForRequester(ctx context.Context, email string, filters RequesterListFilters) ([]RequestDTO, error) {
	rows, err := s.repo.ListForRequester(ctx, strings.TrimSpace(email), filters)
	if err != nil {
		return nil, err
	}
	return toRequestDTOs(rows), nil
}

// ensureApprover verifies the caller owns the organization the request targets.
func (s *service) ensureApprover(ctx context.Context, requestID uuid.UUID, approverEmail string) (*models.AssetRequest, error) {
	req, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	org, err := s.repo.FindOrgByID(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org.HREmail != strings.TrimSpace(approverEmail) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the organization's HR can decide this request")
	}
	return req, nil
}

func (s *service) loadDTO(ctx context.Context, requestID uuid.UUID) (*RequestDTO, error) {
	req, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	asset, err := s.inventoryRepo.FindByID(ctx, req.AssetID)
	if err != nil {
		return nil, err
	}
	return toRequestDTO(&Row{
		AssetRequest: *req,
		ProductName:  asset.ProductName,
		ProductType:  asset.ProductType,
	}), nil
}
