// Package config provides configuration loading and validation for the
// publisher service.
//
// Settings are resolved in this order (later wins):
//   - built-in defaults
//   - an optional YAML file (-config flag or PUBLISHER_CONFIG)
//   - a .env file in the working directory, if present
//   - environment variables, either PUBLISHER_<SECTION>_<KEY> or the legacy
//     names used by the original Node backend (GODADDY_API_KEY, PORT, ...)
//
// Missing registrar credentials are deliberately not a load error; the
// registrar client reports them as a ConfigurationError on the first write.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PUBLISHER"

// legacyEnv maps config keys to the variable names of the original backend.
var legacyEnv = map[string][]string{
	"registrar.api_key":    {"GODADDY_API_KEY"},
	"registrar.api_secret": {"GODADDY_API_SECRET"},
	"registrar.domain":     {"GODADDY_DOMAIN"},
	"server.port":          {"PORT"},
	"server.cors_origin":   {"FRONTEND_URL"},
	"publish.default_ip":   {"HOSTING_SERVER_IP", "VITE_HOSTING_SERVER_IP"},
	"auth.jwt_secret":      {"SUPABASE_JWT_SECRET"},
	"logging.level":        {"LOG_LEVEL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.cors_origin", "http://localhost:8086")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.reuse_port", false)

	v.SetDefault("registrar.provider", ProviderGoDaddy)
	v.SetDefault("registrar.domain", "aqall.dev")
	v.SetDefault("registrar.api_key", "")
	v.SetDefault("registrar.api_secret", "")
	v.SetDefault("registrar.base_url", "")
	v.SetDefault("registrar.timeout", 10*time.Second)
	v.SetDefault("registrar.max_retries", 3)
	v.SetDefault("registrar.requests_per_minute", 60)

	v.SetDefault("database.path", "publisher.db")

	v.SetDefault("publish.default_ip", "")
	v.SetDefault("publish.reserved_labels", []string{"www", "api", "mail", "admin"})

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("api.api_key", "")

	v.SetDefault("verify.resolver", "8.8.8.8:53")
	v.SetDefault("verify.timeout", 3*time.Second)

	v.SetDefault("rate_limit.global_rps", 20.0)
	v.SetDefault("rate_limit.global_burst", 40)
	v.SetDefault("rate_limit.ip_rps", 1.0)
	v.SetDefault("rate_limit.ip_burst", 10)
	v.SetDefault("rate_limit.max_ip_entries", 10000)

	v.SetDefault("logging.level", "INFO")
	v.SetDefault("logging.structured", false)
	v.SetDefault("logging.structured_format", "json")
	v.SetDefault("logging.include_pid", false)
}

// ResolveConfigPath picks the config file path from the flag value or the
// PUBLISHER_CONFIG environment variable. Empty means "no file".
func ResolveConfigPath(flagValue string) string {
	if p := strings.TrimSpace(flagValue); p != "" {
		return p
	}
	return strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG"))
}

// Load reads configuration from defaults, the optional YAML file at path and
// the environment, then validates it.
func Load(path string) (*Config, error) {
	// A missing .env is the normal case in production.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, prefixed}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates and normalizes the configuration.
func (cfg *Config) Validate() error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return errors.New("server.port must be 1..65535")
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 5 * time.Second
	}

	if err := cfg.Registrar.normalize(); err != nil {
		return err
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "publisher.db"
	}

	cfg.Publish.DefaultIP = strings.TrimSpace(cfg.Publish.DefaultIP)
	if cfg.Publish.DefaultIP != "" {
		addr, err := netip.ParseAddr(cfg.Publish.DefaultIP)
		if err != nil || !addr.Is4() {
			return fmt.Errorf("publish.default_ip must be an IPv4 address, got %q", cfg.Publish.DefaultIP)
		}
	}
	labels := make([]string, 0, len(cfg.Publish.ReservedLabels))
	for _, l := range cfg.Publish.ReservedLabels {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			labels = append(labels, l)
		}
	}
	cfg.Publish.ReservedLabels = labels

	if cfg.Verify.Resolver == "" {
		cfg.Verify.Resolver = "8.8.8.8:53"
	}
	if _, _, err := net.SplitHostPort(cfg.Verify.Resolver); err != nil {
		cfg.Verify.Resolver = net.JoinHostPort(cfg.Verify.Resolver, "53")
	}
	if cfg.Verify.Timeout <= 0 {
		cfg.Verify.Timeout = 3 * time.Second
	}

	if cfg.RateLimit.MaxIPEntries <= 0 {
		cfg.RateLimit.MaxIPEntries = 10000
	}

	// Normalize logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.StructuredFormat == "" {
		cfg.Logging.StructuredFormat = "json"
	}
	if cfg.Logging.ExtraFields == nil {
		cfg.Logging.ExtraFields = map[string]string{}
	}

	return nil
}

func (r *RegistrarConfig) normalize() error {
	r.Provider = strings.ToLower(strings.TrimSpace(r.Provider))
	if r.Provider == "" {
		r.Provider = ProviderGoDaddy
	}
	if r.Provider != ProviderGoDaddy && r.Provider != ProviderCloudflare {
		return fmt.Errorf("registrar.provider must be %q or %q, got %q", ProviderGoDaddy, ProviderCloudflare, r.Provider)
	}

	r.Domain = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(r.Domain)), ".")
	r.APIKey = strings.TrimSpace(r.APIKey)
	r.APISecret = strings.TrimSpace(r.APISecret)
	r.BaseURL = strings.TrimSuffix(strings.TrimSpace(r.BaseURL), "/")

	if r.Timeout <= 0 {
		r.Timeout = 10 * time.Second
	}
	if r.MaxRetries < 0 {
		r.MaxRetries = 0
	}
	if r.RequestsPerMinute < 0 {
		r.RequestsPerMinute = 0
	}
	return nil
}
