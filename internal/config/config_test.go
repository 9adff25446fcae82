package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(envFrom(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, DefaultAPIURL)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.Debug || cfg.UseMockFallback {
		t.Error("Debug and UseMockFallback should default to false")
	}
	if cfg.DefaultTimeout != 30*time.Second || cfg.UploadTimeout != 60*time.Second {
		t.Errorf("timeouts = %v/%v, want 30s/60s", cfg.DefaultTimeout, cfg.UploadTimeout)
	}
	if cfg.MaxRetries != 3 || cfg.RetryDelay != time.Second {
		t.Errorf("retry = %d/%v, want 3/1s", cfg.MaxRetries, cfg.RetryDelay)
	}
	if cfg.Locale != "und" {
		t.Errorf("Locale = %q, want und", cfg.Locale)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(envFrom(map[string]string{
		"RESUMATCH_API_URL":           "http://localhost:3000/dev/",
		"RESUMATCH_DEBUG":             "true",
		"RESUMATCH_USE_MOCK_FALLBACK": "true",
		"RESUMATCH_DEFAULT_TIMEOUT":   "5000",
		"RESUMATCH_UPLOAD_TIMEOUT":    "2m",
		"RESUMATCH_MAX_RETRIES":       "5",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://localhost:3000/dev" {
		t.Errorf("APIURL = %q, trailing slash should be trimmed", cfg.APIURL)
	}
	if !cfg.Debug || !cfg.UseMockFallback {
		t.Error("Debug and UseMockFallback should be true")
	}
	if cfg.DefaultTimeout != 5*time.Second {
		t.Errorf("DefaultTimeout = %v, want 5s", cfg.DefaultTimeout)
	}
	if cfg.UploadTimeout != 2*time.Minute {
		t.Errorf("UploadTimeout = %v, want 2m", cfg.UploadTimeout)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"relative url":   {"RESUMATCH_API_URL": "/jobs"},
		"zero retries":   {"RESUMATCH_MAX_RETRIES": "0"},
		"bad retries":    {"RESUMATCH_MAX_RETRIES": "three"},
		"bad duration":   {"RESUMATCH_UPLOAD_TIMEOUT": "soon"},
		"negative delay": {"RESUMATCH_RETRY_DELAY": "-1s"},
	}
	for name, env := range cases {
		if _, err := load(envFrom(env)); err == nil {
			t.Errorf("%s: expected error, got nil", name)
		}
	}
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "RESUMATCH_TEST_A=from-file\nRESUMATCH_TEST_B=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RESUMATCH_TEST_A", "from-env")
	t.Setenv("RESUMATCH_TEST_B", "")
	os.Unsetenv("RESUMATCH_TEST_B")

	LoadDotEnv(path, filepath.Join(dir, "missing.env"))

	if got := os.Getenv("RESUMATCH_TEST_A"); got != "from-env" {
		t.Errorf("RESUMATCH_TEST_A = %q, want from-env", got)
	}
	if got := os.Getenv("RESUMATCH_TEST_B"); got != "from-file" {
		t.Errorf("RESUMATCH_TEST_B = %q, want from-file", got)
	}
}
