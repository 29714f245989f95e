package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/fintrack-api/internal/api"
	apiMiddleware "github.com/phrazzld/fintrack-api/internal/api/middleware"
)

const corsMaxAgeSeconds = 300

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{apiMiddleware.TraceHeader},
		AllowCredentials: true,
		MaxAge:           corsMaxAgeSeconds,
	}))

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.logger)
	txHandler := api.NewTransactionHandler(app.txService, app.logger)
	dashboardHandler := api.NewDashboardHandler(app.txService, app.logger)
	budgetHandler := api.NewBudgetHandler(app.budgetService, app.loc, app.logger)
	analyticsHandler := api.NewAnalyticsHandler(app.analyticsService, app.loc, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Get("/", api.Root)
	r.Get("/health", api.Health)

	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/auth/logout", authHandler.Logout)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", txHandler.List)
			r.Post("/", txHandler.Create)
			r.Get("/{id}", txHandler.Get)
			r.Put("/{id}", txHandler.Replace)
			r.Patch("/{id}", txHandler.Patch)
			r.Delete("/{id}", txHandler.Delete)
		})

		r.Get("/dashboard/recent", dashboardHandler.Recent)

		r.Get("/budgets", budgetHandler.List)
		r.Put("/budgets/{category}", budgetHandler.Put)
		r.Delete("/budgets/{category}", budgetHandler.Delete)

		r.Get("/categories/summary", analyticsHandler.CategorySummary)
		r.Get("/analytics/budget", analyticsHandler.BudgetAnalytics)
	})

	return r
}
