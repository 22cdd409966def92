// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/budgetbuddy/server/internal/app/features/health"
	pushfeature "github.com/budgetbuddy/server/internal/app/features/push"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Most of BudgetBuddy's work happens in
// the change-stream watcher started by Startup; the HTTP surface is a small
// JSON API for device-token management and test pushes, plus a health
// endpoint for load balancers and orchestrators.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	pushHandler := pushfeature.NewHandler(services.dispatcher, services.tokens, logger)
	r.Mount("/api/push", pushfeature.Routes(pushHandler, appCfg.JWTSecret))

	return r, nil
}
