package controllers

import (
	"net/http"

	"github.com/angelmondragon/delivery-scheduler-backend/api/responses"
	"github.com/angelmondragon/delivery-scheduler-backend/api/validators"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/rules"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/db/models"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/logger"
)

// The dashboard auto-saves whole collections, so each endpoint replaces its
// collection wholesale rather than patching rows.

func SaveDeliveryAreas(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return bulkSave(logg, func(r *http.Request) error {
		var body struct {
			Items []models.DeliveryArea `json:"items" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		return svc.SaveDeliveryAreas(r.Context(), body.Items)
	})
}

func SaveGlobalTimeslots(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return bulkSave(logg, func(r *http.Request) error {
		var body struct {
			Items []models.GlobalTimeslot `json:"items" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		return svc.SaveGlobalTimeslots(r.Context(), body.Items)
	})
}

func SaveDayAssignments(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return bulkSave(logg, func(r *http.Request) error {
		var body struct {
			Items []models.DayTimeslotAssignment `json:"items" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		return svc.SaveDayAssignments(r.Context(), body.Items)
	})
}

func SaveExpressTimeslots(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return bulkSave(logg, func(r *http.Request) error {
		var body struct {
			Items []models.ExpressTimeslot `json:"items" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		return svc.SaveExpressTimeslots(r.Context(), body.Items)
	})
}

func SaveExpressAssignments(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return bulkSave(logg, func(r *http.Request) error {
		var body struct {
			Items []models.ExpressTimeslotAssignment `json:"items" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		return svc.SaveExpressAssignments(r.Context(), body.Items)
	})
}

func SaveBlockedDates(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return bulkSave(logg, func(r *http.Request) error {
		var body struct {
			Items []models.BlockedDate `json:"items" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		return svc.SaveBlockedDates(r.Context(), body.Items)
	})
}

func SaveBlockedTimeslots(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return bulkSave(logg, func(r *http.Request) error {
		var body struct {
			Items []models.BlockedTimeslot `json:"items" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		return svc.SaveBlockedTimeslots(r.Context(), body.Items)
	})
}

func SaveGlobalAdvanceRules(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return bulkSave(logg, func(r *http.Request) error {
		var body struct {
			Items []models.GlobalAdvanceOrderRule `json:"items" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		return svc.SaveGlobalAdvanceRules(r.Context(), body.Items)
	})
}

func SaveProductAdvanceRules(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return bulkSave(logg, func(r *http.Request) error {
		var body struct {
			Items []models.ProductAdvanceOrderRule `json:"items" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		return svc.SaveProductAdvanceRules(r.Context(), body.Items)
	})
}

func bulkSave(logg *logger.Logger, handle func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := handle(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"saved": true})
	}
}
