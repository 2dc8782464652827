package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assetnest/assetnest-backend/api/responses"
	statssvc "github.com/assetnest/assetnest-backend/internal/stats"
	"github.com/assetnest/assetnest-backend/pkg/logger"
)

// HRStats serves the HR dashboard widgets.
func HRStats(svc statssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgScopedParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.HRStats(r.Context(), orgID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// EmployeeStats serves the employee dashboard widgets.
func EmployeeStats(svc statssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := requireSelf(r, chi.URLParam(r, "email"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.EmployeeStats(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
