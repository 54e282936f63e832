package config

import "time"

// Registrar providers understood by internal/registrar.
const (
	ProviderGoDaddy    = "godaddy"
	ProviderCloudflare = "cloudflare"
)

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Host       string `mapstructure:"host"        json:"host"`
	Port       int    `mapstructure:"port"        json:"port"`
	CORSOrigin string `mapstructure:"cors_origin" json:"cors_origin"`
	// StaticDir optionally serves the built editor front-end on non-API paths.
	StaticDir       string        `mapstructure:"static_dir"       json:"static_dir,omitempty"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" json:"shutdown_timeout"`
	// ReusePort sets SO_REUSEPORT so several processes can serve one port.
	ReusePort bool `mapstructure:"reuse_port" json:"reuse_port"`
}

// RegistrarConfig describes the DNS zone and the credentials used to manage it.
//
// Note: APIKey and APISecret are secrets and must never be returned by API endpoints.
type RegistrarConfig struct {
	Provider  string `mapstructure:"provider"   json:"provider"`
	Domain    string `mapstructure:"domain"     json:"domain"`
	APIKey    string `mapstructure:"api_key"    json:"-"`
	APISecret string `mapstructure:"api_secret" json:"-"`
	// BaseURL overrides the provider endpoint (tests, OTE environments).
	BaseURL           string        `mapstructure:"base_url"            json:"base_url,omitempty"`
	Timeout           time.Duration `mapstructure:"timeout"             json:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"         json:"max_retries"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" json:"requests_per_minute"`
}

// MissingCredentials lists the settings a registrar write needs but lacks.
func (r RegistrarConfig) MissingCredentials() []string {
	var missing []string
	if r.Domain == "" {
		missing = append(missing, "registrar.domain")
	}
	if r.APIKey == "" {
		missing = append(missing, "registrar.api_key")
	}
	// Cloudflare authenticates with a single API token.
	if r.Provider != ProviderCloudflare && r.APISecret == "" {
		missing = append(missing, "registrar.api_secret")
	}
	return missing
}

// DatabaseConfig points at the SQLite file backing the subdomain directory.
type DatabaseConfig struct {
	Path string `mapstructure:"path" json:"path"`
}

// PublishConfig controls subdomain publishing.
type PublishConfig struct {
	// DefaultIP is the hosting server address used when a publish request omits one.
	DefaultIP      string   `mapstructure:"default_ip"      json:"default_ip"`
	ReservedLabels []string `mapstructure:"reserved_labels" json:"reserved_labels"`
}

// AuthConfig controls how the owner of a request is identified.
type AuthConfig struct {
	// JWTSecret verifies HS256 bearer tokens. Empty means X-User-ID is trusted.
	JWTSecret string `mapstructure:"jwt_secret" json:"-"`
}

// APIConfig contains optional shared-secret protection for the raw DNS routes.
type APIConfig struct {
	APIKey string `mapstructure:"api_key" json:"-"`
}

// VerifyConfig controls DNS propagation checks.
type VerifyConfig struct {
	Resolver string        `mapstructure:"resolver" json:"resolver"`
	Timeout  time.Duration `mapstructure:"timeout"  json:"timeout"`
}

// RateLimitConfig contains per-client admission limits for routes that
// write to the registrar. A rate or burst <= 0 disables that level.
type RateLimitConfig struct {
	GlobalRPS   float64 `mapstructure:"global_rps"   json:"global_rps"`
	GlobalBurst int     `mapstructure:"global_burst" json:"global_burst"`
	IPRPS       float64 `mapstructure:"ip_rps"       json:"ip_rps"`
	IPBurst     int     `mapstructure:"ip_burst"     json:"ip_burst"`
	// MaxIPEntries bounds the tracked client addresses.
	MaxIPEntries int `mapstructure:"max_ip_entries" json:"max_ip_entries"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level            string            `mapstructure:"level"             json:"level"`
	Structured       bool              `mapstructure:"structured"        json:"structured"`
	StructuredFormat string            `mapstructure:"structured_format" json:"structured_format"`
	IncludePID       bool              `mapstructure:"include_pid"       json:"include_pid"`
	ExtraFields      map[string]string `mapstructure:"extra_fields"      json:"extra_fields,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     json:"server"`
	Registrar RegistrarConfig `mapstructure:"registrar"  json:"registrar"`
	Database  DatabaseConfig  `mapstructure:"database"   json:"database"`
	Publish   PublishConfig   `mapstructure:"publish"    json:"publish"`
	Auth      AuthConfig      `mapstructure:"auth"       json:"-"`
	API       APIConfig       `mapstructure:"api"        json:"-"`
	Verify    VerifyConfig    `mapstructure:"verify"     json:"verify"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" json:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"    json:"logging"`
}
