package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samvad-hq/bearer-api-client/pkg/apiclient"
	"github.com/spf13/pflag"
)

// isolateEnv points the loader at an empty .env and clears variables it reads.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"API_BASE_URL", "TOKEN_FILE", "API_TIMEOUT_SECONDS", "API_USER_AGENT",
		"API_DEFAULT_HEADERS", "LOG_LEVEL", "APP_ENV", "ENV_FILE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
}

func TestLoadFromEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("API_BASE_URL", "https://env.test.com")
	t.Setenv("TOKEN_FILE", "/tmp/custom-token.txt")
	t.Setenv("API_TIMEOUT_SECONDS", "5")
	t.Setenv("API_DEFAULT_HEADERS", "X-Tenant=acme, X-Trace = on")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://env.test.com" {
		t.Fatalf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.TokenFile != "/tmp/custom-token.txt" {
		t.Fatalf("unexpected token file %q", cfg.TokenFile)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.Timeout)
	}
	if cfg.DefaultHeaders["X-Tenant"] != "acme" || cfg.DefaultHeaders["X-Trace"] != "on" {
		t.Fatalf("unexpected headers %v", cfg.DefaultHeaders)
	}

	cc := cfg.ClientConfig()
	if cc.BaseURL != cfg.BaseURL || cc.Timeout != cfg.Timeout || cc.UserAgent != "bearer-api-client/1.0" {
		t.Fatalf("unexpected client config %+v", cc)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolateEnv(t)
	t.Setenv("API_BASE_URL", "https://api.test.com")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TokenFile != "token.txt" || cfg.Timeout != 30*time.Second || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	isolateEnv(t)
	envPath := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envPath, []byte("API_BASE_URL=https://dotenv.test.com\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("ENV_FILE", envPath)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://dotenv.test.com" {
		t.Fatalf("expected base url from .env, got %q", cfg.BaseURL)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("API_BASE_URL", "https://env.test.com")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("base-url", "", "")
	flags.String("token-file", "", "")
	if err := flags.Parse([]string{"--base-url", "https://flag.test.com", "--token-file", "flag-token.txt"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://flag.test.com" || cfg.TokenFile != "flag-token.txt" {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func TestLoadMissingBaseURL(t *testing.T) {
	isolateEnv(t)

	_, err := Load(nil)
	var cfgErr *apiclient.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "base_url" {
		t.Fatalf("expected base_url ConfigurationError, got %v", err)
	}
}

func TestLoadInvalidTimeout(t *testing.T) {
	isolateEnv(t)
	t.Setenv("API_BASE_URL", "https://api.test.com")
	t.Setenv("API_TIMEOUT_SECONDS", "0")

	_, err := Load(nil)
	var cfgErr *apiclient.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "timeout" {
		t.Fatalf("expected timeout ConfigurationError, got %v", err)
	}
}

func TestParsePairs(t *testing.T) {
	got, err := ParsePairs([]string{"X-A=1", "X-B: two", "X-Url=http://x.test/a"})
	if err != nil {
		t.Fatalf("ParsePairs: %v", err)
	}
	if got["X-A"] != "1" || got["X-B"] != "two" || got["X-Url"] != "http://x.test/a" {
		t.Fatalf("unexpected pairs %v", got)
	}
	if _, err := ParsePairs([]string{"novalue"}); err == nil {
		t.Fatalf("expected error for pair without separator")
	}
	if _, err := ParseHeaders("=x"); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestParseQueryKeepsRepeatedKeys(t *testing.T) {
	got, err := ParseQuery([]string{"tag=a", "tag=b", "at=12:00", "empty="})
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if tags := got["tag"]; len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Fatalf("expected both tag values in order, got %v", tags)
	}
	if got.Get("at") != "12:00" {
		t.Fatalf("expected colon kept in value, got %q", got.Get("at"))
	}
	if vals, ok := got["empty"]; !ok || vals[0] != "" {
		t.Fatalf("expected empty value kept, got %v", got)
	}
	if _, err := ParseQuery([]string{"page: 3"}); err == nil {
		t.Fatalf("expected error for query pair without '='")
	}
}
