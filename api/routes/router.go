package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assetnest/assetnest-backend/api/controllers"
	"github.com/assetnest/assetnest-backend/api/middleware"
	affiliationsvc "github.com/assetnest/assetnest-backend/internal/affiliation"
	identitysvc "github.com/assetnest/assetnest-backend/internal/identity"
	inventorysvc "github.com/assetnest/assetnest-backend/internal/inventory"
	noticesvc "github.com/assetnest/assetnest-backend/internal/notices"
	requestsvc "github.com/assetnest/assetnest-backend/internal/requests"
	statssvc "github.com/assetnest/assetnest-backend/internal/stats"
	"github.com/assetnest/assetnest-backend/pkg/config"
	"github.com/assetnest/assetnest-backend/pkg/db"
	"github.com/assetnest/assetnest-backend/pkg/enums"
	"github.com/assetnest/assetnest-backend/pkg/logger"
	"github.com/assetnest/assetnest-backend/pkg/metrics"
	"github.com/assetnest/assetnest-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	identityService identitysvc.Service,
	inventoryService inventorysvc.Service,
	requestService requestsvc.Service,
	affiliationService affiliationsvc.Service,
	noticeService noticesvc.Service,
	statsService statssvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware)
	}

	registerPolicy := middleware.NewRegisterRateLimitPolicy(
		"register",
		cfg.RateLimit.RegisterWindow,
		cfg.RateLimit.RegisterIPLimit,
		cfg.RateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})
	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	r.Get("/api/public/ping", controllers.PublicPing())

	idempotency := func(next http.Handler) http.Handler { return next }
	if cfg.FeatureFlags.Idempotency {
		idempotency = middleware.Idempotency(redisClient, logg)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Registration issues the token, so it sits outside the JWT guard.
		r.With(middleware.RegisterRateLimit(registerPolicy, redisClient, logg), idempotency).
			Post("/users", controllers.RegisterUser(identityService, cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(idempotency)

			r.Get("/ping", controllers.PrivatePing())

			r.Get("/users/{email}", controllers.GetUser(identityService, logg))
			r.Get("/users/role/{email}", controllers.GetUserRole(identityService, logg))
			r.Patch("/users/update/{email}", controllers.UpdateUserProfile(identityService, logg))
			r.Get("/packages", controllers.ListPackages(affiliationService, logg))

			r.Get("/available-assets/{orgId}", controllers.AvailableAssets(inventoryService, logg))

			r.Post("/requests", controllers.CreateRequest(requestService, logg))
			r.Get("/my-requests/{email}", controllers.MyRequests(requestService, logg))
			r.Patch("/requests/return/{requestId}", controllers.ReturnRequest(requestService, logg))
			r.Delete("/requests/cancel/{requestId}", controllers.CancelRequest(requestService, logg))

			r.Get("/employee-stats/{email}", controllers.EmployeeStats(statsService, logg))
			r.Get("/notices/{orgId}", controllers.ListNotices(noticeService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.AccountRoleHR), logg))

				r.Patch("/users/upgrade-package/{orgEmail}", controllers.UpgradePackage(affiliationService, logg))

				r.Get("/assets/{orgId}", controllers.ListAssets(inventoryService, logg))
				r.Post("/assets", controllers.CreateAsset(inventoryService, logg))
				r.Put("/assets/{assetId}", controllers.UpdateAsset(inventoryService, logg))
				r.Delete("/assets/{assetId}", controllers.DeleteAsset(inventoryService, logg))
				r.Get("/limited-stock/{orgId}", controllers.LimitedStockAssets(inventoryService, logg))

				r.Get("/all-requests/{orgId}", controllers.AllRequests(requestService, logg))
				r.Patch("/requests/{requestId}", controllers.DecideRequest(requestService, logg))

				r.Get("/team-count/{orgId}", controllers.TeamCount(affiliationService, logg))
				r.Get("/unaffiliated-employees", controllers.UnaffiliatedEmployees(affiliationService, logg))
				r.Patch("/add-to-team-bulk", controllers.AddToTeamBulk(affiliationService, logg))
				r.Patch("/employees/remove/{accountId}", controllers.RemoveEmployee(affiliationService, logg))
				r.Get("/my-employees/{orgId}", controllers.MyEmployees(affiliationService, logg))

				r.Get("/hr-stats/{orgId}", controllers.HRStats(statsService, logg))
				r.Post("/notices", controllers.PostNotice(noticeService, logg))
			})
		})
	})

	return r
}
