package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medimart/medimart-backend/api/responses"
	"github.com/medimart/medimart-backend/api/validators"
	"github.com/medimart/medimart-backend/internal/catalog"
	pkgerrors "github.com/medimart/medimart-backend/pkg/errors"
	"github.com/medimart/medimart-backend/pkg/logger"
	"github.com/medimart/medimart-backend/pkg/pagination"
)

// ListProducts serves the filtered, sorted, paginated catalog.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		pageSize, err := validators.ParseQueryInt(r, "page_size", 0, 0, pagination.MaxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		maxPrice, err := validators.ParseQueryInt(r, "max_price", 0, 0, 10000000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		category := query.Get("category")
		if category == "All" {
			category = ""
		}

		result, err := svc.ListProducts(r.Context(), catalog.ListProductsInput{
			Category: category,
			Search:   query.Get("search"),
			Brands:   validators.ParseQueryCSV(r, "brands"),
			MaxPrice: maxPrice,
			Sort:     query.Get("sort"),
			Page:     page,
			PageSize: pageSize,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetProduct serves a single active product by id.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// GetFacets serves the brand counts and category counts for the
// filter sidebar.
func GetFacets(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		facets, err := svc.GetFacets(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, facets)
	}
}
