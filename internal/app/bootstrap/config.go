// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the BudgetBuddy
// account service. These are loaded via WAFFLE's config system with
// support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: BUDGETBUDDY_MONGO_URI, BUDGETBUDDY_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "budgetbuddy", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Push delivery
	{Name: "fcm_credentials_file", Default: "", Desc: "Path to FCM service-account JSON (blank: application default credentials)"},
	{Name: "push_dry_run", Default: false, Desc: "Log pushes instead of delivering them"},

	// Callable API auth
	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "HS256 secret for API bearer tokens (must be strong in production)"},

	// Event watcher
	{Name: "watch_enabled", Default: true, Desc: "Tail change streams and run the join-request workflow"},

	// Maintenance
	{Name: "dead_token_grace", Default: "24h", Desc: "How long dead device tokens are kept before pruning (e.g., 24h, 90m)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "BUDGETBUDDY", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		FCMCredentialsFile: appValues.String("fcm_credentials_file"),
		PushDryRun:         appValues.Bool("push_dry_run"),

		JWTSecret: appValues.String("jwt_secret"),

		WatchEnabled: appValues.Bool("watch_enabled"),

		DeadTokenGrace: appValues.Duration("dead_token_grace", 24*time.Hour),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format is checked here to catch configuration errors
// before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret must not be empty")
	}

	// Pushes must go somewhere: real FCM or an explicit dry run.
	if coreCfg.Env == "prod" && appCfg.PushDryRun {
		logger.Warn("push_dry_run enabled in production; no pushes will be delivered")
	}

	return nil
}
