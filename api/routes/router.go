package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/fillytrckr-backend/api/controllers"
	"github.com/angelmondragon/fillytrckr-backend/api/middleware"
	"github.com/angelmondragon/fillytrckr-backend/api/responses"
	"github.com/angelmondragon/fillytrckr-backend/internal/catalogs"
	"github.com/angelmondragon/fillytrckr-backend/internal/rolls"
	"github.com/angelmondragon/fillytrckr-backend/pkg/config"
	"github.com/angelmondragon/fillytrckr-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/fillytrckr-backend/pkg/errors"
	"github.com/angelmondragon/fillytrckr-backend/pkg/logger"
	"github.com/angelmondragon/fillytrckr-backend/pkg/metrics"
)

// APIPrefix is where the inventory API lives. The same routes are also
// served from the root for the bundled web client.
const APIPrefix = "/api/v1/filly"

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	rollService rolls.Service,
	catalogService catalogs.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		httpMetrics.Middleware,
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeMethodNotAllowed, "method not allowed"))
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	inventory := func(r chi.Router) {
		r.Get("/get_version", controllers.Version())

		r.Route("/rolls", func(r chi.Router) {
			r.Get("/all", controllers.RollsListAll(rollService, logg))
			r.Get("/active", controllers.RollsListActive(rollService, logg))
			r.Get("/in_use", controllers.RollsListInUse(rollService, logg))
			r.Get("/filter", controllers.RollsFilter(rollService, logg))
			r.Post("/filter", controllers.RollsFilter(rollService, logg))
			r.Post("/add", controllers.RollsAdd(rollService, logg))
			r.Get("/{id}", controllers.RollsGet(rollService, logg))
			r.Post("/{id}/duplicate", controllers.RollsDuplicate(rollService, logg))
			r.Post("/{id}/set_opened", controllers.RollsSetOpened(rollService, logg))
			r.Post("/{id}/set_in_use", controllers.RollsSetInUse(rollService, logg))
			r.Post("/{id}/update_weight", controllers.RollsUpdateWeight(rollService, logg))
		})

		for _, kind := range catalogs.Kinds() {
			r.Get("/"+kind.Plural(), controllers.CatalogList(catalogService, kind, logg))
			r.Post("/"+kind.Plural()+"/add", controllers.CatalogAdd(catalogService, kind, logg))
		}
	}

	r.Route(APIPrefix, inventory)
	r.Group(inventory)

	return r
}
