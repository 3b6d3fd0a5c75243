package config

import (
	"testing"
	"time"
)

func validBase() Config {
	return Config{
		App:     AppConfig{Env: "local", Port: 8080},
		DB:      DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "market_access"},
		Redis:   RedisConfig{Host: "localhost", Port: 6379},
		CRM:     CRMConfig{BaseURL: "http://localhost:9000"},
		Session: SessionConfig{Secret: "secret"},
	}
}

func TestValidateReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidateLocalDefaults(t *testing.T) {
	c := validBase()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
	if c.Session.SweepInterval != 30*time.Second {
		t.Fatalf("expected sweep interval default, got %v", c.Session.SweepInterval)
	}
	if c.Session.LoginAttemptLimit != 10 || c.Session.LoginAttemptWindow != 5*time.Minute {
		t.Fatalf("expected throttle defaults, got %d %v", c.Session.LoginAttemptLimit, c.Session.LoginAttemptWindow)
	}
	if c.CRM.Timeout != 10*time.Second {
		t.Fatalf("expected crm timeout default, got %v", c.CRM.Timeout)
	}
}

func TestValidateProductionRequiresSSLModeAndHTTPS(t *testing.T) {
	c := validBase()
	c.App.Env = "production"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error: production needs DB_SSLMODE and an https CRM URL")
	}

	c = validBase()
	c.App.Env = "production"
	c.DB.SSLMode = "verify-full"
	c.CRM.BaseURL = "https://crm.example.com"
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateRejectsBadCRMURL(t *testing.T) {
	c := validBase()
	c.CRM.BaseURL = "localhost:9000"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for non-http(s) URL")
	}
}
