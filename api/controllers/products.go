package controllers

import (
	"net/http"
	"strings"

	"github.com/akinleyeOJ/culturer-backend/api/middleware"
	"github.com/akinleyeOJ/culturer-backend/api/responses"
	"github.com/akinleyeOJ/culturer-backend/api/validators"
	product "github.com/akinleyeOJ/culturer-backend/internal/products"
	pkgerrors "github.com/akinleyeOJ/culturer-backend/pkg/errors"
	"github.com/akinleyeOJ/culturer-backend/pkg/logger"
	"github.com/akinleyeOJ/culturer-backend/pkg/pagination"
)

// ProductList serves the browse feed with filters, sort and pagination.
// The viewer may be anonymous; favorites are only marked when signed in.
func ProductList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		q := r.URL.Query()
		input := product.ListInput{
			Query:          strings.TrimSpace(q.Get("q")),
			Categories:     splitCSV(append(q["categories"], q.Get("category"))),
			Condition:      strings.TrimSpace(q.Get("condition")),
			CulturalOrigin: strings.TrimSpace(q.Get("culture")),
			Shipping:       strings.TrimSpace(q.Get("shipping")),
			MinPrice:       strings.TrimSpace(q.Get("min_price")),
			MaxPrice:       strings.TrimSpace(q.Get("max_price")),
			Sort:           strings.TrimSpace(q.Get("sort")),
			Limit:          limit,
			Offset:         offset,
		}

		result, err := svc.ListProducts(ctx, middleware.UserUUIDFromContext(ctx), input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductDetail serves a single product and records the view.
func ProductDetail(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.GetProduct(ctx, middleware.UserUUIDFromContext(ctx), id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// splitCSV flattens repeated and comma-separated query values into one list.
func splitCSV(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ProductCategories serves the static category catalog.
func ProductCategories(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Categories())
	}
}
