package controllers

import (
	"net/http"

	"github.com/angelmondragon/delivery-scheduler-backend/api/responses"
	"github.com/angelmondragon/delivery-scheduler-backend/api/validators"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/postal"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/logger"
)

type postalValidateRequest struct {
	PostalCode string `json:"postalCode" validate:"required"`
	ShopDomain string `json:"shopDomain,omitempty"`
}

type postalAutocompleteRequest struct {
	PartialCode string `json:"partialCode" validate:"required"`
	Limit       int    `json:"limit,omitempty" validate:"omitempty,min=1,max=10"`
	ShopDomain  string `json:"shopDomain,omitempty"`
}

// PostalCodeValidate resolves a postal code to a delivery area.
func PostalCodeValidate(svc postal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req postalValidateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if req.ShopDomain != "" {
			ctx = logg.WithShopDomain(ctx, req.ShopDomain)
		}

		result, err := svc.Validate(ctx, req.PostalCode)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PostalCodeAutocomplete suggests serviced prefixes for a partial code.
func PostalCodeAutocomplete(svc postal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req postalAutocompleteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if req.ShopDomain != "" {
			ctx = logg.WithShopDomain(ctx, req.ShopDomain)
		}

		suggestions, err := svc.Autocomplete(ctx, req.PartialCode, req.Limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"suggestions": suggestions})
	}
}
