// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration values for the API server.
// It is built once by Load and passed by value; nothing mutates it afterwards.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to 3333.
	Port int

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// APIBaseURL is the public base URL of this API. Required.
	APIBaseURL string

	// WebBaseURL is the public base URL of the web front end. Required.
	// Redirects land here and it is the only allowed CORS origin.
	WebBaseURL string

	// Env is the lower-cased environment flag ("dev", "prod", ...). Defaults to "dev".
	Env string

	// Debug forces debug-level logging.
	Debug bool

	// LogLevel controls the minimum log level when Debug is off. Defaults to "info".
	LogLevel string

	// Platform names the hosting platform. "render" enables RenderExternalURL.
	Platform string

	// RenderExternalURL is the URL Render assigns to the service, if any.
	RenderExternalURL string

	Mail      Mail
	KeepAlive KeepAlive
}

// Mail configures the notification transport.
// An empty SMTPHost selects the logging transport.
type Mail struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromAddress  string
	Locale       string
}

// KeepAlive configures the periodic self-ping that keeps free hosts awake.
type KeepAlive struct {
	Enabled  bool
	Schedule string
}

// Load reads configuration from environment variables and returns a Config.
// Every problem found is reported in a single error so a misconfigured
// deployment fails once with the full list.
func Load() (Config, error) {
	var errs []error

	cfg := Config{
		Env:               strings.ToLower(getEnv("ENV", "dev")),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Platform:          strings.ToLower(os.Getenv("PLATFORM")),
		RenderExternalURL: os.Getenv("RENDER_EXTERNAL_URL"),
		Mail: Mail{
			SMTPHost:     os.Getenv("SMTP_HOST"),
			SMTPUsername: os.Getenv("SMTP_USERNAME"),
			SMTPPassword: os.Getenv("SMTP_PASSWORD"),
			FromName:     getEnv("MAIL_FROM_NAME", "Equipe plann.er"),
			FromAddress:  getEnv("MAIL_FROM_ADDRESS", "oi@plann.er"),
			Locale:       getEnv("MAIL_LOCALE", "pt_BR"),
		},
		KeepAlive: KeepAlive{
			Schedule: getEnv("KEEPALIVE_SCHEDULE", "*/14 * * * *"),
		},
	}

	var missing []string
	for _, v := range []struct {
		key string
		dst *string
	}{
		{"DATABASE_URL", &cfg.DatabaseURL},
		{"API_BASE_URL", &cfg.APIBaseURL},
		{"WEB_BASE_URL", &cfg.WebBaseURL},
	} {
		*v.dst = os.Getenv(v.key)
		if *v.dst == "" {
			missing = append(missing, v.key)
		}
	}
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", ")))
	}

	if cfg.DatabaseURL != "" {
		if _, err := url.Parse(cfg.DatabaseURL); err != nil {
			errs = append(errs, fmt.Errorf("DATABASE_URL: %w", err))
		}
	}
	for key, v := range map[string]*string{
		"API_BASE_URL":        &cfg.APIBaseURL,
		"WEB_BASE_URL":        &cfg.WebBaseURL,
		"RENDER_EXTERNAL_URL": &cfg.RenderExternalURL,
	} {
		if *v == "" {
			continue
		}
		if err := checkHTTPURL(*v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		*v = strings.TrimRight(*v, "/")
	}

	var err error
	if cfg.Port, err = getEnvPort("PORT", 3333); err != nil {
		errs = append(errs, err)
	}
	if cfg.Mail.SMTPPort, err = getEnvPort("SMTP_PORT", 587); err != nil {
		errs = append(errs, err)
	}
	if cfg.Debug, err = getEnvBool("DEBUG", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.KeepAlive.Enabled, err = getEnvBool("KEEPALIVE_ENABLED", cfg.Platform == "render"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// PublicAPIURL is the externally reachable base URL of the API: the Render
// URL when running on Render and it is known, API_BASE_URL otherwise.
func (c Config) PublicAPIURL() string {
	if c.Platform == "render" && c.RenderExternalURL != "" {
		return c.RenderExternalURL
	}
	return c.APIBaseURL
}

// IsProduction reports whether ENV is "prod".
func (c Config) IsProduction() bool {
	return c.Env == "prod"
}

// ListenAddr is the address the HTTP server binds. Outside production only
// loopback is bound.
func (c Config) ListenAddr() string {
	host := "localhost"
	if c.IsProduction() {
		host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", host, c.Port)
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvPort(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 65535 {
		return 0, fmt.Errorf("%s: %q is not a valid port", key, v)
	}
	return n, nil
}

// getEnvBool accepts only the literal tokens true/false/1/0 so that a typo
// such as "ture" fails startup instead of silently meaning false.
func getEnvBool(key string, fallback bool) (bool, error) {
	switch v := strings.ToLower(os.Getenv(key)); v {
	case "":
		return fallback, nil
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%s: %q is not a boolean (use true or false)", key, v)
	}
}

func checkHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	return nil
}
