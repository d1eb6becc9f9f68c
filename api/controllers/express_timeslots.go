package controllers

import (
	"net/http"

	"github.com/angelmondragon/delivery-scheduler-backend/api/responses"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/rules"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/db/models"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/logger"
)

// ExpressTimeslotsList returns the active express windows for the widget's
// upsell banner.
func ExpressTimeslotsList(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Snapshot(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		active := []models.ExpressTimeslot{}
		for _, ts := range snap.ExpressTimeslots {
			if ts.IsActive {
				active = append(active, ts)
			}
		}
		responses.WriteSuccess(w, map[string]any{"expressTimeslots": active})
	}
}
