package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/deploytrack/deploytrack/internal/delay"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultDataFile      = "data/deployments.json"
	DefaultDashboardFile = "dashboards/deployment-dashboard.json"
	DefaultHTTPPort      = 8080
	DefaultGrafanaURL    = "https://igotkarmayogi.gov.in/grafana"
	DefaultPlaceholder   = "YOUR_DATA_URL_HERE"
	DefaultTimeout       = 30 * time.Second
)

// Environment variable names. GrafanaURLEnv and DataURLEnv override the file
// values; the API key is only ever read from the environment.
const (
	GrafanaURLEnv = "GRAFANA_URL"
	APIKeyEnv     = "GRAFANA_API_KEY"
	DataURLEnv    = "DATA_URL"
)

// Config is the top-level deploytrack configuration.
type Config struct {
	// DataFile is the deployment collection path shared by calc and serve.
	DataFile string `yaml:"data_file"`

	Calculator CalculatorConfig `yaml:"calculator"`
	Server     ServerConfig     `yaml:"server"`
	Grafana    GrafanaConfig    `yaml:"grafana"`
}

// CalculatorConfig holds delay-calculator settings.
type CalculatorConfig struct {
	// AverageDivisor selects the average-delay divisor: "all" (every record,
	// the historical behavior and the default) or "processed" (only records
	// that got a delay computed).
	AverageDivisor string `yaml:"average_divisor"`
}

// Divisor returns the parsed average divisor. Validated in Load.
func (c CalculatorConfig) Divisor() delay.Divisor {
	d, _ := delay.ParseDivisor(c.AverageDivisor)
	return d
}

// ServerConfig holds data-server settings.
type ServerConfig struct {
	// HTTPPort is the port the read-only API listens on (default 8080).
	// The server binds all interfaces.
	HTTPPort int `yaml:"http_port"`
}

// GrafanaConfig holds dashboard-publisher settings.
type GrafanaConfig struct {
	// URL is the Grafana base URL. The GRAFANA_URL environment variable
	// overrides it; a trailing slash is stripped either way.
	URL string `yaml:"url"`

	// DashboardFile is the dashboard definition to publish.
	DashboardFile string `yaml:"dashboard_file"`

	// Placeholder is the token replaced by DATA_URL in the dashboard JSON.
	Placeholder string `yaml:"placeholder"`

	// Timeout is the full budget for the publish request (default 30s).
	Timeout time.Duration `yaml:"timeout"`
}

// BaseURL returns the effective Grafana base URL without a trailing slash.
func (g GrafanaConfig) BaseURL() string {
	url := g.URL
	if env := os.Getenv(GrafanaURLEnv); env != "" {
		url = env
	}
	return strings.TrimRight(url, "/")
}

// APIKey returns the bearer token from the environment. Empty means unset;
// the publisher refuses to run without it.
func (g GrafanaConfig) APIKey() string {
	return os.Getenv(APIKeyEnv)
}

// DataURL returns the placeholder substitution value from the environment.
// Empty means no substitution is performed.
func (g GrafanaConfig) DataURL() string {
	return os.Getenv(DataURLEnv)
}

// Load reads and parses the config file at path. A missing file is not an
// error: defaults are returned so the tools run unconfigured. Missing fields
// are filled with defaults before validation.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		DataFile: DefaultDataFile,
		Calculator: CalculatorConfig{
			AverageDivisor: string(delay.DivisorAll),
		},
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
		},
		Grafana: GrafanaConfig{
			URL:           DefaultGrafanaURL,
			DashboardFile: DefaultDashboardFile,
			Placeholder:   DefaultPlaceholder,
			Timeout:       DefaultTimeout,
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.DataFile == "" {
		return fmt.Errorf("data_file must not be empty")
	}
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if _, err := delay.ParseDivisor(cfg.Calculator.AverageDivisor); err != nil {
		return fmt.Errorf("calculator: %w", err)
	}
	if cfg.Grafana.Timeout < 0 {
		return fmt.Errorf("grafana.timeout must not be negative")
	}
	return nil
}
