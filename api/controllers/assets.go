package controllers

import (
	"net/http"
	"strings"

	"github.com/assetnest/assetnest-backend/api/responses"
	"github.com/assetnest/assetnest-backend/api/validators"
	inventorysvc "github.com/assetnest/assetnest-backend/internal/inventory"
	"github.com/assetnest/assetnest-backend/pkg/enums"
	pkgerrors "github.com/assetnest/assetnest-backend/pkg/errors"
	"github.com/assetnest/assetnest-backend/pkg/logger"
	"github.com/assetnest/assetnest-backend/pkg/pagination"
)

// ListAssets serves the HR inventory table with search, type filter, sort
// and pagination.
func ListAssets(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgScopedParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		typeFilter, err := parseTypeFilter(r, "typeFilter")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListAssets(r.Context(), orgID, inventorysvc.ListFilters{
			Search:     strings.TrimSpace(r.URL.Query().Get("search")),
			TypeFilter: typeFilter,
			Sort:       strings.TrimSpace(r.URL.Query().Get("sort")),
		}, pagination.Params{Page: page, Limit: limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type createAssetRequest struct {
	ProductName string  `json:"product_name" validate:"required"`
	ProductType string  `json:"product_type" validate:"required,oneof=Returnable NonReturnable"`
	Quantity    int     `json:"quantity" validate:"min=0"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// CreateAsset stocks a new asset in the caller's organization.
func CreateAsset(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := callerOrgID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createAssetRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assetType, err := enums.ParseAssetType(strings.TrimSpace(payload.ProductType))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type"))
			return
		}

		asset, err := svc.CreateAsset(r.Context(), orgID, inventorysvc.CreateAssetInput{
			ProductName: payload.ProductName,
			ProductType: assetType,
			Quantity:    payload.Quantity,
			ImageURL:    payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, asset)
	}
}

type updateAssetRequest struct {
	ProductName *string `json:"product_name,omitempty"`
	ProductType *string `json:"product_type,omitempty" validate:"omitempty,oneof=Returnable NonReturnable"`
	Quantity    *int    `json:"quantity,omitempty" validate:"omitempty,min=0"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// UpdateAsset edits an asset owned by the caller's organization.
func UpdateAsset(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := callerOrgID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assetID, err := parseUUIDParam(r, "assetId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateAssetRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := inventorysvc.UpdateAssetInput{
			ProductName: payload.ProductName,
			Quantity:    payload.Quantity,
			ImageURL:    payload.ImageURL,
		}
		if payload.ProductType != nil {
			assetType, parseErr := enums.ParseAssetType(strings.TrimSpace(*payload.ProductType))
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid product type"))
				return
			}
			input.ProductType = &assetType
		}

		asset, err := svc.UpdateAsset(r.Context(), orgID, assetID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, asset)
	}
}

// DeleteAsset removes an asset. Assets with open requests stay put.
func DeleteAsset(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := callerOrgID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assetID, err := parseUUIDParam(r, "assetId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteAsset(r.Context(), orgID, assetID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// LimitedStockAssets serves the assets running under the restock threshold.
func LimitedStockAssets(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgScopedParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assets, err := svc.LowStock(r.Context(), orgID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assets)
	}
}

// AvailableAssets serves the employee request catalog, in-stock only.
func AvailableAssets(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgScopedParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		typeFilter, err := parseTypeFilter(r, "typeFilter")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assets, err := svc.AvailableAssets(r.Context(), orgID, inventorysvc.ListFilters{
			Search:     strings.TrimSpace(r.URL.Query().Get("search")),
			TypeFilter: typeFilter,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, assets)
	}
}
