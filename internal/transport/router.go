package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/FoodWeb-ROA/ROACook-sub000/internal/config"
	"github.com/FoodWeb-ROA/ROACook-sub000/internal/importer"
	"github.com/FoodWeb-ROA/ROACook-sub000/internal/observability"
	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

// Dependencies holds all injected dependencies for the HTTP transport layer.
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	Engine  *importer.Engine
	Catalog model.CatalogStore
	Metrics *observability.Metrics
	Ready   http.HandlerFunc
}

// NewRouter creates a chi.Router with the full middleware pipeline and all
// route registrations. Health, readiness, and metrics endpoints sit outside
// the API middleware group.
func NewRouter(deps Dependencies) chi.Router {
	r := chi.NewRouter()

	// Global middleware: applied to all routes including health.
	r.Use(Recovery(deps.Logger))
	r.Use(CORS(deps.Config.Server.CORS))
	r.Use(RequestID)
	r.Use(SecurityHeaders)

	// Operational endpoints.
	r.Get("/healthz", observability.HandleHealth())
	if deps.Ready != nil {
		r.Get("/readyz", deps.Ready)
	}
	if deps.Config.Observability.Metrics.Enabled {
		r.Method(http.MethodGet, deps.Config.Observability.Metrics.Path, observability.Handler())
	}

	// API routes.
	r.Group(func(r chi.Router) {
		r.Use(HandlerTimeout(deps.Config.Server.HandlerTimeout))
		r.Use(RequestLogging(deps.Logger))
		if deps.Metrics != nil {
			r.Use(deps.Metrics.MetricsMiddleware)
		}

		q := &quantitiesHandler{metrics: deps.Metrics}
		r.Post("/v1/quantities/display", q.display)
		r.Post("/v1/quantities/normalize", q.normalize)
		r.Post("/v1/quantities/convert", q.convert)
		r.Post("/v1/quantities/rebase", q.rebase)

		f := &fingerprintsHandler{}
		r.Post("/v1/fingerprints", f.compute)

		u := &unitsHandler{catalog: deps.Catalog, logger: deps.Logger, metrics: deps.Metrics}
		r.Get("/v1/units", u.list)

		imp := &importsHandler{
			engine:    deps.Engine,
			listLimit: deps.Config.Importer.ListLimit,
		}
		r.Post("/v1/imports", imp.start)
		r.Get("/v1/imports", imp.list)
		r.Get("/v1/imports/{runID}", imp.get)
		r.Post("/v1/imports/{runID}/choice", imp.choose)
		r.Post("/v1/imports/{runID}/cancel", imp.cancel)
	})

	return r
}
