package affiliation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/assetnest/assetnest-backend/pkg/db"
	"github.com/assetnest/assetnest-backend/pkg/db/models"
	"github.com/assetnest/assetnest-backend/pkg/enums"
	pkgerrors "github.com/assetnest/assetnest-backend/pkg/errors"
)

// Service exposes the roster and package-capacity operations.
type Service interface {
	ListUnaffiliated(ctx context.Context, search string) ([]MemberDTO, error)
	MemberCount(ctx context.Context, orgID uuid.UUID) (*TeamCountDTO, error)
	TeamMembers(ctx context.Context, orgID uuid.UUID) ([]MemberDTO, error)
	AddMembers(ctx context.Context, orgID uuid.UUID, accountIDs []uuid.UUID) error
	RemoveMember(ctx context.Context, orgID, accountID uuid.UUID) error
	UpgradePackage(ctx context.Context, hrEmail string, newLimit int) (*TeamCountDTO, error)
	EnsureJoined(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, email string) error
	PackageTiers() []PackageTier
}

// MemberDTO is the API shape of a roster entry.
type MemberDTO struct {
	ID                uuid.UUID               `json:"id"`
	Email             string                  `json:"email"`
	Name              string                  `json:"name"`
	PhotoURL          *string                 `json:"photo_url,omitempty"`
	AffiliationStatus enums.AffiliationStatus `json:"affiliation_status"`
	JoinedAt          time.Time               `json:"joined_at"`
}

// TeamCountDTO reports roster usage against the package limit.
type TeamCountDTO struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	MemberCount    int       `json:"member_count"`
	PackageLimit   int       `json:"package_limit"`
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs an affiliation service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("affiliation repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) ListUnaffiliated(ctx context.Context, search string) ([]MemberDTO, error) {
	rows, err := s.repo.ListUnaffiliated(ctx, search)
	if err != nil {
		return nil, err
	}
	return toMemberDTOs(rows), nil
}

func (s *service) MemberCount(ctx context.Context, orgID uuid.UUID) (*TeamCountDTO, error) {
	org, err := s.repo.FindOrgByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return toTeamCountDTO(org), nil
}

func (s *service) TeamMembers(ctx context.Context, orgID uuid.UUID) ([]MemberDTO, error) {
	rows, err := s.repo.TeamMembers(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return toMemberDTOs(rows), nil
}

// AddMembers admits the batch atomically: the capacity reservation and every
// account flip happen in one transaction, or none of them do.
func (s *service) AddMembers(ctx context.Context, orgID uuid.UUID, accountIDs []uuid.UUID) error {
	if len(accountIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one account id is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		if id == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "account id cannot be empty")
		}
		if _, dup := seen[id]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate account id in batch")
		}
		seen[id] = struct{}{}
	}

	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.GrowMemberCount(ctx, orgID, len(accountIDs)); err != nil {
			return err
		}
		return txRepo.MarkJoined(ctx, orgID, accountIDs)
	})
}

func (s *service) RemoveMember(ctx context.Context, orgID, accountID uuid.UUID) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ClearAffiliation(ctx, orgID, accountID); err != nil {
			return err
		}
		return txRepo.ShrinkMemberCount(ctx, orgID, 1)
	})
}

func (s *service) UpgradePackage(ctx context.Context, hrEmail string, newLimit int) (*TeamCountDTO, error) {
	if _, ok := TierForLimit(newLimit); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("no package tier with member limit %d", newLimit))
	}

	org, err := s.repo.FindOrgByHREmail(ctx, strings.TrimSpace(hrEmail))
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpgradeLimit(ctx, org.ID, newLimit); err != nil {
		return nil, err
	}

	org, err = s.repo.FindOrgByID(ctx, org.ID)
	if err != nil {
		return nil, err
	}
	return toTeamCountDTO(org), nil
}

// EnsureJoined admits the account when it is not yet on the organization's
// roster, going through the same capacity-guarded path as bulk admission.
// Runs inside the caller's transaction.
func (s *service) EnsureJoined(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, email string) error {
	txRepo := s.repo.WithTx(tx)

	account, err := txRepo.FindAccountByEmail(ctx, email)
	if err != nil {
		return err
	}

	if account.AffiliationStatus == enums.AffiliationStatusJoined {
		if account.OrganizationID != nil && *account.OrganizationID == orgID {
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeConflict, "account is affiliated with another organization")
	}

	if err := txRepo.GrowMemberCount(ctx, orgID, 1); err != nil {
		return err
	}
	return txRepo.MarkJoined(ctx, orgID, []uuid.UUID{account.ID})
}

func (s *service) PackageTiers() []PackageTier {
	return Tiers()
}

func toMemberDTOs(rows []models.Account) []MemberDTO {
	out := make([]MemberDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, MemberDTO{
			ID:                row.ID,
			Email:             row.Email,
			Name:              row.Name,
			PhotoURL:          row.PhotoURL,
			AffiliationStatus: row.AffiliationStatus,
			JoinedAt:          row.UpdatedAt,
		})
	}
	return out
}

func toTeamCountDTO(org *models.Organization) *TeamCountDTO {
	return &TeamCountDTO{
		OrganizationID: org.ID,
		MemberCount:    org.MemberCount,
		PackageLimit:   org.PackageLimit,
	}
}
