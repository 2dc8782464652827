package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/assetnest/assetnest-backend/api/middleware"
	"github.com/assetnest/assetnest-backend/pkg/enums"
	pkgerrors "github.com/assetnest/assetnest-backend/pkg/errors"
)

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

// callerOrgID resolves the caller's organization from the token context.
// Unaffiliated callers get NOT_AFFILIATED.
func callerOrgID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.OrgIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotAffiliated, "caller is not affiliated with an organization")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid organization claim")
	}
	return id, nil
}

// orgScopedParam parses the {orgId} path segment and rejects callers whose
// token belongs to a different organization.
func orgScopedParam(r *http.Request) (uuid.UUID, error) {
	requested, err := parseUUIDParam(r, "orgId")
	if err != nil {
		return uuid.Nil, err
	}
	callerOrg, err := callerOrgID(r)
	if err != nil {
		return uuid.Nil, err
	}
	if requested != callerOrg {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "organization mismatch")
	}
	return requested, nil
}

// requireSelf restricts a user-scoped route to the token holder.
func requireSelf(r *http.Request, email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	caller := strings.ToLower(strings.TrimSpace(middleware.UserEmailFromContext(r.Context())))
	if caller == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	if normalized != caller {
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	return normalized, nil
}

func parseStatusFilter(r *http.Request) (*enums.RequestStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("status"))
	if raw == "" {
		return nil, nil
	}
	status, err := enums.ParseRequestStatus(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
	}
	return &status, nil
}

func parseTypeFilter(r *http.Request, key string) (*enums.AssetType, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	assetType, err := enums.ParseAssetType(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type filter")
	}
	return &assetType, nil
}
