package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/assetnest/assetnest-backend/api/middleware"
	"github.com/assetnest/assetnest-backend/api/responses"
	"github.com/assetnest/assetnest-backend/api/validators"
	affiliationsvc "github.com/assetnest/assetnest-backend/internal/affiliation"
	identitysvc "github.com/assetnest/assetnest-backend/internal/identity"
	pkgauth "github.com/assetnest/assetnest-backend/pkg/auth"
	"github.com/assetnest/assetnest-backend/pkg/config"
	"github.com/assetnest/assetnest-backend/pkg/enums"
	pkgerrors "github.com/assetnest/assetnest-backend/pkg/errors"
	"github.com/assetnest/assetnest-backend/pkg/logger"
)

type registerUserRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Name         string  `json:"name" validate:"required"`
	Role         string  `json:"role" validate:"required,oneof=hr employee"`
	PhotoURL     *string `json:"photo_url,omitempty"`
	CompanyName  string  `json:"company_name,omitempty"`
	LogoURL      *string `json:"logo_url,omitempty"`
	PackageLimit int     `json:"package_limit,omitempty" validate:"omitempty,min=1"`
}

type registeredUserResponse struct {
	Account     *identitysvc.AccountDTO `json:"account"`
	AccessToken string                  `json:"access_token"`
}

// RegisterUser creates the account (and organization for HR signups) and
// issues the access token the client authenticates with afterwards.
func RegisterUser(svc identitysvc.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		var payload registerUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseAccountRole(strings.TrimSpace(payload.Role))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		account, err := svc.Register(r.Context(), identitysvc.RegisterInput{
			Email:        payload.Email,
			Name:         payload.Name,
			Role:         role,
			PhotoURL:     payload.PhotoURL,
			CompanyName:  payload.CompanyName,
			LogoURL:      payload.LogoURL,
			PackageLimit: payload.PackageLimit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := pkgauth.MintAccessToken(jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
			Email:          account.Email,
			Role:           account.Role,
			OrganizationID: account.OrganizationID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, registeredUserResponse{
			Account:     account,
			AccessToken: token,
		})
	}
}

// GetUser serves a directory entry. Employees may only read themselves,
// HR may read anyone.
func GetUser(svc identitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "email")))
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "email is required"))
			return
		}

		if middleware.RoleFromContext(r.Context()) != string(enums.AccountRoleHR) {
			if _, err := requireSelf(r, email); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		account, err := svc.FindByEmail(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, account)
	}
}

// GetUserRole returns only the role for the given email.
func GetUserRole(svc identitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "email")))
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "email is required"))
			return
		}

		role, err := svc.Role(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"email": email, "role": string(role)})
	}
}

type updateProfileRequest struct {
	Name     *string `json:"name,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

// UpdateUserProfile lets the token holder edit their own profile.
func UpdateUserProfile(svc identitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := requireSelf(r, chi.URLParam(r, "email"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.UpdateProfile(r.Context(), email, identitysvc.UpdateProfileInput{
			Name:     payload.Name,
			PhotoURL: payload.PhotoURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, account)
	}
}

type upgradePackageRequest struct {
	PackageLimit int `json:"package_limit" validate:"required,min=1"`
}

// UpgradePackage moves an organization to a bigger package tier. Only the
// organization's own HR may do it.
func UpgradePackage(svc affiliationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgEmail := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "orgEmail")))
		if orgEmail == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "orgEmail is required"))
			return
		}
		if _, err := requireSelf(r, orgEmail); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload upgradePackageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		team, err := svc.UpgradePackage(r.Context(), orgEmail, payload.PackageLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, team)
	}
}

// ListPackages serves the purchasable tier catalog.
func ListPackages(svc affiliationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.PackageTiers())
	}
}
