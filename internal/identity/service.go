package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/assetnest/assetnest-backend/internal/affiliation"
	"github.com/assetnest/assetnest-backend/pkg/db"
	"github.com/assetnest/assetnest-backend/pkg/db/models"
	"github.com/assetnest/assetnest-backend/pkg/enums"
	pkgerrors "github.com/assetnest/assetnest-backend/pkg/errors"
)

// Service exposes the account directory operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AccountDTO, error)
	FindByEmail(ctx context.Context, email string) (*AccountDTO, error)
	Role(ctx context.Context, email string) (enums.AccountRole, error)
	UpdateProfile(ctx context.Context, email string, input UpdateProfileInput) (*AccountDTO, error)
}

// RegisterInput holds the validated registration payload. Organization fields
// only apply to HR registrations.
type RegisterInput struct {
	Email        string
	Name         string
	Role         enums.AccountRole
	PhotoURL     *string
	CompanyName  string
	LogoURL      *string
	PackageLimit int
}

// UpdateProfileInput holds optional profile mutations.
type UpdateProfileInput struct {
	Name     *string
	PhotoURL *string
}

// AccountDTO is the API shape of a directory entry.
type AccountDTO struct {
	ID                uuid.UUID               `json:"id"`
	Email             string                  `json:"email"`
	Name              string                  `json:"name"`
	Role              enums.AccountRole       `json:"role"`
	PhotoURL          *string                 `json:"photo_url,omitempty"`
	OrganizationID    *uuid.UUID              `json:"organization_id,omitempty"`
	AffiliationStatus enums.AffiliationStatus `json:"affiliation_status"`
	CreatedAt         time.Time               `json:"created_at"`
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs an identity service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("identity repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// Register creates the account, plus the organization for HR signups, in one
// transaction.
func (s *service) Register(ctx context.Context, input RegisterInput) (*AccountDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", input.Role))
	}

	account := &models.Account{
		ID:                uuid.New(),
		Email:             email,
		Name:              strings.TrimSpace(input.Name),
		Role:              input.Role,
		PhotoURL:          input.PhotoURL,
		AffiliationStatus: enums.AffiliationStatusUnaffiliated,
	}

	if input.Role == enums.AccountRoleHR {
		if strings.TrimSpace(input.CompanyName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "company_name is required for hr registration")
		}
		if _, ok := affiliation.TierForLimit(input.PackageLimit); !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("no package tier with member limit %d", input.PackageLimit))
		}

		err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)
			org, err := txRepo.CreateOrganization(ctx, &models.Organization{
				ID:           uuid.New(),
				HREmail:      email,
				CompanyName:  strings.TrimSpace(input.CompanyName),
				LogoURL:      input.LogoURL,
				PackageLimit: input.PackageLimit,
				Status:       enums.OrganizationStatusActive,
			})
			if err != nil {
				return err
			}
			account.OrganizationID = &org.ID
			_, err = txRepo.CreateAccount(ctx, account)
			return err
		})
		if err != nil {
			return nil, err
		}
		return toAccountDTO(account), nil
	}

	created, err := s.repo.CreateAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	return toAccountDTO(created), nil
}

func (s *service) FindByEmail(ctx context.Context, email string) (*AccountDTO, error) {
	account, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	return toAccountDTO(account), nil
}

func (s *service) Role(ctx context.Context, email string) (enums.AccountRole, error) {
	account, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}
	return account.Role, nil
}

func (s *service) UpdateProfile(ctx context.Context, email string, input UpdateProfileInput) (*AccountDTO, error) {
	account, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		account.Name = name
	}
	if input.PhotoURL != nil {
		account.PhotoURL = input.PhotoURL
	}

	updated, err := s.repo.UpdateAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	return toAccountDTO(updated), nil
}

func toAccountDTO(m *models.Account) *AccountDTO {
	return &AccountDTO{
		ID:                m.ID,
		Email:             m.Email,
		Name:              m.Name,
		Role:              m.Role,
		PhotoURL:          m.PhotoURL,
		OrganizationID:    m.OrganizationID,
		AffiliationStatus: m.AffiliationStatus,
		CreatedAt:         m.CreatedAt,
	}
}
