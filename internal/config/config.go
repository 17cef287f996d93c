package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samvad-hq/bearer-api-client/pkg/apiclient"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from .env, the
// environment and command-line flags.
type Config struct {
	AppName        string        `mapstructure:"app_name"`
	Env            string        `mapstructure:"app_env"`
	LogLevel       string        `mapstructure:"log_level"`
	EnvFile        string        `mapstructure:"env_file"`
	TokenFile      string        `mapstructure:"token_file"`
	BaseURL        string        `mapstructure:"api_base_url"`
	TimeoutSeconds int64         `mapstructure:"api_timeout_seconds"`
	Timeout        time.Duration `mapstructure:"-"`
	UserAgent      string        `mapstructure:"api_user_agent"`
	RawHeaders     string        `mapstructure:"api_default_headers"`

	DefaultHeaders map[string]string `mapstructure:"-"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"token-file": "token_file",
	"base-url":   "api_base_url",
	"timeout":    "api_timeout_seconds",
	"log-level":  "log_level",
	"env-file":   "env_file",
}

// Load reads configuration from the .env file, environment variables and,
// when flags is non-nil, any flags the caller set explicitly.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("app_name", "bearer-api-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("env_file", ".env")
	v.SetDefault("token_file", "token.txt")
	v.SetDefault("api_base_url", "")
	v.SetDefault("api_timeout_seconds", 30)
	v.SetDefault("api_user_agent", "bearer-api-client/1.0")
	v.SetDefault("api_default_headers", "")

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	v.AutomaticEnv()

	// A missing .env file is not an error; existing env vars win over it.
	_ = godotenv.Load(v.GetString("env_file"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, &apiclient.ConfigurationError{Field: "base_url", Reason: "is required (set API_BASE_URL)"}
	}
	if cfg.TimeoutSeconds <= 0 {
		return nil, &apiclient.ConfigurationError{Field: "timeout", Reason: "must be positive seconds"}
	}
	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second

	headers, err := ParseHeaders(cfg.RawHeaders)
	if err != nil {
		return nil, &apiclient.ConfigurationError{Field: "default_headers", Reason: "is malformed", Err: err}
	}
	cfg.DefaultHeaders = headers

	return &cfg, nil
}

// ClientConfig maps the application config onto the client settings.
func (c *Config) ClientConfig() apiclient.Config {
	return apiclient.Config{
		BaseURL:        c.BaseURL,
		DefaultHeaders: c.DefaultHeaders,
		Timeout:        c.Timeout,
		UserAgent:      c.UserAgent,
	}
}

// ParseHeaders parses a comma separated "Key=Value" list. Values may not
// contain commas.
func ParseHeaders(raw string) (map[string]string, error) {
	headers := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		if err := addPair(headers, pair); err != nil {
			return nil, err
		}
	}
	return headers, nil
}

// ParsePairs parses repeated "Key=Value" (or "Key: Value") arguments.
func ParsePairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		if err := addPair(out, pair); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ParseQuery parses repeated "key=value" arguments. Repeated keys keep
// every value in order.
func ParseQuery(pairs []string) (url.Values, error) {
	out := url.Values{}
	for _, pair := range pairs {
		key, value, err := splitPair(pair, "=")
		if err != nil {
			return nil, err
		}
		out.Add(key, value)
	}
	return out, nil
}

func addPair(dst map[string]string, pair string) error {
	key, value, err := splitPair(pair, "=:")
	if err != nil {
		return err
	}
	dst[key] = value
	return nil
}

func splitPair(pair, seps string) (string, string, error) {
	sep := strings.IndexAny(pair, seps)
	if sep < 0 {
		return "", "", fmt.Errorf("invalid pair %q (want Key=Value)", pair)
	}
	key := strings.TrimSpace(pair[:sep])
	if key == "" {
		return "", "", fmt.Errorf("invalid pair %q (empty key)", pair)
	}
	return key, strings.TrimSpace(pair[sep+1:]), nil
}
