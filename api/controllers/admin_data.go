package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/delivery-scheduler-backend/api/responses"
	"github.com/angelmondragon/delivery-scheduler-backend/api/validators"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/rules"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/logger"
)

// DataAll returns every scheduling collection in one payload. The dashboard
// hydrates its whole state from this on load.
func DataAll(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Snapshot(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

type backupEnvelope struct {
	CreatedAt string          `json:"createdAt"`
	Snapshot  *rules.Snapshot `json:"snapshot"`
}

// BackupCreate exports the full configuration as a downloadable snapshot.
func BackupCreate(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.ExportAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, backupEnvelope{
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
			Snapshot:  snap,
		})
	}
}

type backupRestoreRequest struct {
	Snapshot *rules.Snapshot `json:"snapshot" validate:"required"`
}

// BackupRestore replaces every collection from a backup snapshot.
func BackupRestore(svc rules.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req backupRestoreRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ImportAll(r.Context(), *req.Snapshot); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logg.Info(r.Context(), "configuration restored from backup")
		responses.WriteSuccess(w, map[string]any{"restored": true})
	}
}
