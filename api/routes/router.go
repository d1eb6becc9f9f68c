package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/delivery-scheduler-backend/api/controllers"
	"github.com/angelmondragon/delivery-scheduler-backend/api/middleware"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/availability"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/locations"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/postal"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/rules"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/config"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/logger"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DBPinger  controllers.Pinger
	RedisP    controllers.Pinger
	Rules     rules.Service
	Postal    postal.Service
	Locations locations.Service
	Engine    *availability.Engine
	Calendar  *availability.Calendar
	Registry  *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisP))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	// Widget-facing endpoints, embedded in merchant storefronts.
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/postal-code/validate", controllers.PostalCodeValidate(deps.Postal, logg))
		r.Post("/postal-code/autocomplete", controllers.PostalCodeAutocomplete(deps.Postal, logg))
		r.Post("/availability", controllers.AvailabilityForDate(deps.Calendar, deps.Engine, logg))
		r.Post("/availability/range", controllers.AvailabilityRange(deps.Calendar, logg))
		r.Post("/slots/reserve", controllers.SlotReserve(deps.Engine, logg))
		r.Post("/slots/release", controllers.SlotRelease(deps.Engine, logg))
		r.Get("/express-timeslots", controllers.ExpressTimeslotsList(deps.Rules, logg))
		r.Get("/locations", controllers.LocationsList(deps.Locations, logg))
	})

	// Dashboard endpoints. Auth rides on the platform proxy in front of us.
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Get("/data/all", controllers.DataAll(deps.Rules, logg))
		r.Post("/backup/create", controllers.BackupCreate(deps.Rules, logg))
		r.Post("/backup/restore", controllers.BackupRestore(deps.Rules, logg))

		r.Post("/delivery-areas", controllers.SaveDeliveryAreas(deps.Rules, logg))
		r.Post("/global-timeslots", controllers.SaveGlobalTimeslots(deps.Rules, logg))
		r.Post("/day-assignments", controllers.SaveDayAssignments(deps.Rules, logg))
		r.Post("/express-timeslots", controllers.SaveExpressTimeslots(deps.Rules, logg))
		r.Post("/express-timeslot-assignments", controllers.SaveExpressAssignments(deps.Rules, logg))
		r.Post("/blocked-dates", controllers.SaveBlockedDates(deps.Rules, logg))
		r.Post("/blocked-timeslots", controllers.SaveBlockedTimeslots(deps.Rules, logg))
		r.Post("/global-advance-rules", controllers.SaveGlobalAdvanceRules(deps.Rules, logg))
		r.Post("/product-advance-rules", controllers.SaveProductAdvanceRules(deps.Rules, logg))

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", controllers.LocationsList(deps.Locations, logg))
			r.Post("/", controllers.LocationCreate(deps.Locations, logg))
			r.Get("/{id}", controllers.LocationGet(deps.Locations, logg))
			r.Put("/{id}", controllers.LocationUpdate(deps.Locations, logg))
			r.Delete("/{id}", controllers.LocationDelete(deps.Locations, logg))
		})
	})

	return r
}
