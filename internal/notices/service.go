package notice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/assetnest/assetnest-backend/pkg/db/models"
	pkgerrors "github.com/assetnest/assetnest-backend/pkg/errors"
)

// Service exposes the organization bulletin board.
type Service interface {
	Post(ctx context.Context, orgID uuid.UUID, postedBy, title, body string) (*NoticeDTO, error)
	ListForOrg(ctx context.Context, orgID uuid.UUID) ([]NoticeDTO, error)
}

// NoticeDTO is the API shape of a bulletin entry.
type NoticeDTO struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	PostedBy       string    `json:"posted_by"`
	CreatedAt      time.Time `json:"created_at"`
}

type service struct {
	db *gorm.DB
}

// NewService constructs a notice service instance.
func NewService(conn *gorm.DB) (Service, error) {
	if conn == nil {
		return nil, fmt.Errorf("db connection required")
	}
	return &service{db: conn}, nil
}

func (s *service) Post(ctx context.Context, orgID uuid.UUID, postedBy, title, body string) (*NoticeDTO, error) {
	if strings.TrimSpace(title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(body) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "body is required")
	}

	notice := &models.Notice{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Title:          strings.TrimSpace(title),
		Body:           strings.TrimSpace(body),
		PostedBy:       strings.TrimSpace(postedBy),
	}
	if err := s.db.WithContext(ctx).Create(notice).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert notice")
	}
	return toNoticeDTO(notice), nil
}

func (s *service) ListForOrg(ctx context.Context, orgID uuid.UUID) ([]NoticeDTO, error) {
	var rows []models.Notice
	err := s.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list notices")
	}

	out := make([]NoticeDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toNoticeDTO(&rows[i]))
	}
	return out, nil
}

func toNoticeDTO(m *models.Notice) *NoticeDTO {
	return &NoticeDTO{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		Title:          m.Title,
		Body:           m.Body,
		PostedBy:       m.PostedBy,
		CreatedAt:      m.CreatedAt,
	}
}
