package config

import (
	"testing"
	"time"
)

func TestLoad_RequiresMongoURI(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error when MONGO_URI is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "5001" {
		t.Errorf("expected default port 5001, got %s", cfg.Port)
	}
	if cfg.MongoDatabase != "medconnect" {
		t.Errorf("expected default database medconnect, got %s", cfg.MongoDatabase)
	}
	if cfg.JWTExpiry != 720*time.Hour {
		t.Errorf("expected 30 day token expiry, got %s", cfg.JWTExpiry)
	}
	if cfg.JWTSecret == "" {
		t.Error("expected a development secret to be filled in")
	}
	if !cfg.MongoTransactions {
		t.Error("expected transactions to default on")
	}
	if cfg.ReminderSchedule != "0 8 * * *" {
		t.Errorf("unexpected reminder schedule %q", cfg.ReminderSchedule)
	}
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing in production")
	}
}

func TestLoad_CORSOriginsList(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestConfig_IsProduction(t *testing.T) {
	c := &Config{Env: "production"}
	if !c.IsProduction() {
		t.Error("expected IsProduction() to return true for production")
	}
	c.Env = "development"
	if c.IsProduction() {
		t.Error("expected IsProduction() to return false for development")
	}
}
