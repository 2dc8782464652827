package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/assetnest/assetnest-backend/api/responses"
	"github.com/assetnest/assetnest-backend/api/validators"
	affiliationsvc "github.com/assetnest/assetnest-backend/internal/affiliation"
	pkgerrors "github.com/assetnest/assetnest-backend/pkg/errors"
	"github.com/assetnest/assetnest-backend/pkg/logger"
)

// TeamCount serves the roster headcount against the package limit.
func TeamCount(svc affiliationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgScopedParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		team, err := svc.MemberCount(r.Context(), orgID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, team)
	}
}

// UnaffiliatedEmployees lists hireable employees across the directory.
func UnaffiliatedEmployees(svc affiliationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		members, err := svc.ListUnaffiliated(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, members)
	}
}

type addToTeamRequest struct {
	AccountIDs []string `json:"account_ids" validate:"required,min=1,dive,required"`
}

// AddToTeamBulk admits a batch of unaffiliated employees. All or nothing
// against the package limit.
func AddToTeamBulk(svc affiliationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := callerOrgID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addToTeamRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		accountIDs := make([]uuid.UUID, 0, len(payload.AccountIDs))
		for _, raw := range payload.AccountIDs {
			id, parseErr := uuid.Parse(strings.TrimSpace(raw))
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid account id"))
				return
			}
			accountIDs = append(accountIDs, id)
		}

		if err := svc.AddMembers(r.Context(), orgID, accountIDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "added", "count": len(accountIDs)})
	}
}

// RemoveEmployee detaches one member and releases their roster slot.
func RemoveEmployee(svc affiliationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := callerOrgID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		accountID, err := parseUUIDParam(r, "accountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveMember(r.Context(), orgID, accountID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// MyEmployees lists the organization's current roster.
func MyEmployees(svc affiliationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgScopedParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		members, err := svc.TeamMembers(r.Context(), orgID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, members)
	}
}
