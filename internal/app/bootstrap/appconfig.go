// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (HTTP ports, TLS, log level); AppConfig is
// everything specific to the BudgetBuddy account service.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Push delivery
	FCMCredentialsFile string // Service-account JSON for FCM; empty uses application default credentials
	PushDryRun         bool   // Log pushes instead of delivering (local dev)

	// Callable API auth
	JWTSecret string // HS256 secret for bearer tokens on /api/push

	// Event watcher
	WatchEnabled bool // Tail change streams and run workflow handlers

	// Maintenance
	DeadTokenGrace time.Duration // How long dead-stamped tokens are kept before pruning
}
