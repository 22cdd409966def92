package bootstrap

import (
	"testing"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func baseConfig() AppConfig {
	return AppConfig{
		MongoURI:       "mongodb://localhost:27017",
		MongoDatabase:  "budgetbuddy_test",
		JWTSecret:      "test-secret",
		DeadTokenGrace: 0,
	}
}

func TestValidateConfig_Accepts(t *testing.T) {
	coreCfg := &config.CoreConfig{Env: "dev"}

	if err := ValidateConfig(coreCfg, baseConfig(), testLogger()); err != nil {
		t.Fatalf("ValidateConfig rejected a valid config: %v", err)
	}
}

func TestValidateConfig_RejectsBadURI(t *testing.T) {
	coreCfg := &config.CoreConfig{Env: "dev"}

	cfg := baseConfig()
	cfg.MongoURI = "http://not-a-mongo-uri"

	if err := ValidateConfig(coreCfg, cfg, testLogger()); err == nil {
		t.Fatal("expected error for non-mongodb URI")
	}
}

func TestValidateConfig_RejectsEmptyJWTSecret(t *testing.T) {
	coreCfg := &config.CoreConfig{Env: "dev"}

	cfg := baseConfig()
	cfg.JWTSecret = ""

	if err := ValidateConfig(coreCfg, cfg, testLogger()); err == nil {
		t.Fatal("expected error for empty jwt_secret")
	}
}
