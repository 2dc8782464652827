package controllers

import (
	"net/http"

	"github.com/assetnest/assetnest-backend/api/middleware"
	"github.com/assetnest/assetnest-backend/api/responses"
	"github.com/assetnest/assetnest-backend/api/validators"
	noticesvc "github.com/assetnest/assetnest-backend/internal/notices"
	pkgerrors "github.com/assetnest/assetnest-backend/pkg/errors"
	"github.com/assetnest/assetnest-backend/pkg/logger"
)

type postNoticeRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

// PostNotice publishes a bulletin to the caller's organization.
func PostNotice(svc noticesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := callerOrgID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		email := middleware.UserEmailFromContext(r.Context())
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var payload postNoticeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		notice, err := svc.Post(r.Context(), orgID, email, payload.Title, payload.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, notice)
	}
}

// ListNotices serves the organization bulletin board, newest first.
func ListNotices(svc noticesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgScopedParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		notices, err := svc.ListForOrg(r.Context(), orgID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, notices)
	}
}
