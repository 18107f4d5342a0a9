package controllers

import (
	"net/http"

	"github.com/akinleyeOJ/culturer-backend/api/responses"
	"github.com/akinleyeOJ/culturer-backend/internal/appstate"
	pkgerrors "github.com/akinleyeOJ/culturer-backend/pkg/errors"
	"github.com/akinleyeOJ/culturer-backend/pkg/logger"
)

type badgesResponse struct {
	CartCount     int `json:"cart_count"`
	WishlistCount int `json:"wishlist_count"`
}

// Badges returns the viewer's cart and wishlist counters for the app chrome.
func Badges(store *appstate.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "app state unavailable"))
			return
		}

		userID, err := requireUser(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		badges := store.Badges(userID)
		responses.WriteSuccess(w, badgesResponse{
			CartCount:     badges.CartCount,
			WishlistCount: badges.WishlistCount,
		})
	}
}
