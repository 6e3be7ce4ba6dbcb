package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ciclopay/ciclopay/internal/backup"
	"github.com/ciclopay/ciclopay/internal/costs"
	"github.com/ciclopay/ciclopay/internal/cycles"
	dashboardhttp "github.com/ciclopay/ciclopay/internal/dashboard/http"
	"github.com/ciclopay/ciclopay/internal/observability"
	"github.com/ciclopay/ciclopay/internal/users"
	"github.com/ciclopay/ciclopay/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Resolver         ActorResolver
	UsersHandler     *users.Handler
	CyclesHandler    *cycles.Handler
	CostsHandler     *costs.Handler
	DashboardHandler *dashboardhttp.Handler
	BackupHandler    *backup.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with ciclopay defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:   params.Logger,
		Config:   params.Config,
		Resolver: params.Resolver,
		Metrics:  params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.UsersHandler != nil {
		r.Route("/users", params.UsersHandler.MountRoutes)
	}
	if params.CyclesHandler != nil {
		r.Route("/cycles", params.CyclesHandler.MountRoutes)
	}
	if params.CostsHandler != nil {
		r.Route("/costs", params.CostsHandler.MountRoutes)
	}
	if params.DashboardHandler != nil {
		r.Route("/dashboard", params.DashboardHandler.MountRoutes)
	}
	if params.BackupHandler != nil {
		r.Route("/backup", params.BackupHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
