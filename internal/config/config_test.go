package config

import (
	"strings"
	"testing"
	"time"
)

// testKey is a structurally valid hex key; config only checks presence,
// cryptographic parsing happens at signer construction.
const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// setBaseEnv sets the minimum environment for Load to succeed.
func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ORACLE_PRIVATE_KEY", testKey)
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q", cfg.GinMode)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Errorf("APIBasePath = %q", cfg.APIBasePath)
	}
	if cfg.Oracle.ChainID != 5003 {
		t.Errorf("ChainID = %d, want 5003", cfg.Oracle.ChainID)
	}
	if cfg.Oracle.ContractAddress != "0xcD95a0422C026f342c914293aa207fE6Cad6B8BA" {
		t.Errorf("ContractAddress = %q", cfg.Oracle.ContractAddress)
	}
	if cfg.Oracle.SigningKey != testKey {
		t.Errorf("SigningKey not picked up from ORACLE_PRIVATE_KEY")
	}
	if cfg.ReadTimeout != 15*time.Second || cfg.IdleTimeout != 60*time.Second {
		t.Errorf("timeouts = %v/%v", cfg.ReadTimeout, cfg.IdleTimeout)
	}
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Errorf("rate = %v/%d", cfg.RateRPS, cfg.RateBurst)
	}
	if cfg.OTEL.Enabled {
		t.Error("OTEL should default to disabled")
	}
}

func TestLoadPrivateKeyFallback(t *testing.T) {
	t.Setenv("ORACLE_PRIVATE_KEY", "")
	t.Setenv("PRIVATE_KEY", testKey)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Oracle.SigningKey != testKey {
		t.Fatalf("SigningKey = %q, want fallback from PRIVATE_KEY", cfg.Oracle.SigningKey)
	}
}

func TestLoadMissingSigningKeyFails(t *testing.T) {
	t.Setenv("ORACLE_PRIVATE_KEY", "")
	t.Setenv("PRIVATE_KEY", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "ORACLE_PRIVATE_KEY") {
		t.Fatalf("Load err = %v, want signing-key error", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CHAIN_ID", "31337")
	t.Setenv("ORACLE_ADDRESS", "0x1111111111111111111111111111111111111111")
	t.Setenv("DIRECTORY_PATH", "/etc/oracle/directory.json")
	t.Setenv("LOG_LEVEL", "warning") // normalized to warn
	t.Setenv("GIN_MODE", "bogus")    // normalized to release
	t.Setenv("API_BASE_PATH", "api/v2/")
	t.Setenv("RATE_RPS", "2.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.Oracle.ChainID != 31337 {
		t.Errorf("ChainID = %d", cfg.Oracle.ChainID)
	}
	if cfg.Oracle.DirectoryPath != "/etc/oracle/directory.json" {
		t.Errorf("DirectoryPath = %q", cfg.Oracle.DirectoryPath)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q, want release", cfg.GinMode)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Errorf("APIBasePath = %q, want /api/v2", cfg.APIBasePath)
	}
	if cfg.RateRPS != 2.5 {
		t.Errorf("RateRPS = %v", cfg.RateRPS)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://staging.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		k, v string
	}{
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"zero chain id", "CHAIN_ID", "0"},
		{"bad oracle address", "ORACLE_ADDRESS", "0x1234"},
		{"non-hex oracle address", "ORACLE_ADDRESS", "0xzz95a0422C026f342c914293aa207fE6Cad6B8BA"},
		{"negative rate", "RATE_RPS", "-1"},
		{"zero burst", "RATE_BURST", "0"},
		{"bad sample ratio", "OTEL_TRACES_SAMPLER_ARG", "1.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tc.k, tc.v)
			if _, err := Load(); err == nil {
				t.Fatalf("Load accepted %s=%s", tc.k, tc.v)
			}
		})
	}
}

func TestMustLoadPanicsOnInvalid(t *testing.T) {
	t.Setenv("ORACLE_PRIVATE_KEY", "")
	t.Setenv("PRIVATE_KEY", "")
	defer func() {
		if recover() == nil {
			t.Fatal("MustLoad did not panic on invalid config")
		}
	}()
	MustLoad()
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":         "/",
		"/":        "/",
		"api":      "/api",
		"/api/":    "/api",
		"/api/v1":  "/api/v1",
		"/api/v1/": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Errorf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}
