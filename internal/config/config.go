// Package config loads service configuration from environment variables with
// an optional YAML overlay file (DEMOFORGE_CONFIG).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ProviderConfig controls one generative provider.
type ProviderConfig struct {
	Enabled bool          `yaml:"enabled"`
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
}

// UnmarshalYAML accepts Go duration strings ("30s", "2m") for the timeout.
func (p *ProviderConfig) UnmarshalYAML(value *yaml.Node) error {
	type raw struct {
		Enabled *bool  `yaml:"enabled"`
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
		Timeout string `yaml:"timeout"`
	}
	var r raw
	if err := value.Decode(&r); err != nil {
		return err
	}
	if r.Enabled != nil {
		p.Enabled = *r.Enabled
	}
	if r.BaseURL != "" {
		p.BaseURL = r.BaseURL
	}
	if r.APIKey != "" {
		p.APIKey = r.APIKey
	}
	if r.Model != "" {
		p.Model = r.Model
	}
	if r.Timeout != "" {
		d, err := time.ParseDuration(r.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", r.Timeout, err)
		}
		p.Timeout = d
	}
	return nil
}

// RateLimitConfig is one token-bucket budget.
type RateLimitConfig struct {
	Window time.Duration `yaml:"window"`
	Max    int           `yaml:"max"`
}

// UnmarshalYAML accepts a Go duration string for the window.
func (rl *RateLimitConfig) UnmarshalYAML(value *yaml.Node) error {
	type raw struct {
		Window string `yaml:"window"`
		Max    *int   `yaml:"max"`
	}
	var r raw
	if err := value.Decode(&r); err != nil {
		return err
	}
	if r.Window != "" {
		d, err := time.ParseDuration(r.Window)
		if err != nil {
			return fmt.Errorf("invalid window %q: %w", r.Window, err)
		}
		rl.Window = d
	}
	if r.Max != nil {
		rl.Max = *r.Max
	}
	return nil
}

// Config holds the runtime configuration for the demo orchestrator.
type Config struct {
	Port string `yaml:"port"`

	// StoreDSN selects the demo store backend: empty for in-memory,
	// "postgres://..." for pgx, anything else is treated as a sqlite path.
	StoreDSN string `yaml:"store_dsn"`

	// TargetProjectDir is the root of the application the deployer writes
	// generated components into.
	TargetProjectDir string `yaml:"target_project_dir"`

	OpenAI ProviderConfig `yaml:"openai"`
	V0     ProviderConfig `yaml:"v0"`

	// FallbackEnabled substitutes offline output when a real provider call
	// fails. Disabling it turns provider failures into step failures.
	FallbackEnabled bool `yaml:"fallback_enabled"`

	InstallTimeout time.Duration `yaml:"-"`

	GeneralRateLimit    RateLimitConfig `yaml:"general_rate_limit"`
	GenerationRateLimit RateLimitConfig `yaml:"generation_rate_limit"`

	JWTSecret            string `yaml:"jwt_secret"`
	OperatorEmail        string `yaml:"operator_email"`
	OperatorPasswordHash string `yaml:"operator_password_hash"`

	ReleaseMode bool `yaml:"release_mode"`
}

// UnmarshalYAML accepts a Go duration string for the install timeout; the
// remaining fields decode as tagged.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type alias Config
	if err := value.Decode((*alias)(c)); err != nil {
		return err
	}

	var aux struct {
		InstallTimeout string `yaml:"install_timeout"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	if aux.InstallTimeout != "" {
		d, err := time.ParseDuration(aux.InstallTimeout)
		if err != nil {
			return fmt.Errorf("invalid install_timeout %q: %w", aux.InstallTimeout, err)
		}
		c.InstallTimeout = d
	}
	return nil
}

// Load builds the configuration from the environment, then overlays the YAML
// file named by DEMOFORGE_CONFIG when present.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             envOr("PORT", "8080"),
		StoreDSN:         os.Getenv("DEMO_STORE_DSN"),
		TargetProjectDir: envOr("TARGET_PROJECT_DIR", "../demo-app"),
		OpenAI: ProviderConfig{
			Enabled: envBool("OPENAI_ENABLED", true),
			BaseURL: envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   envOr("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout: envDuration("OPENAI_TIMEOUT", 60*time.Second),
		},
		V0: ProviderConfig{
			Enabled: envBool("V0_ENABLED", true),
			BaseURL: envOr("V0_BASE_URL", "https://api.v0.dev/v1"),
			APIKey:  os.Getenv("V0_API_KEY"),
			Timeout: envDuration("V0_TIMEOUT", 90*time.Second),
		},
		FallbackEnabled: envBool("FALLBACK_ENABLED", true),
		InstallTimeout:  envDuration("INSTALL_TIMEOUT", 120*time.Second),
		GeneralRateLimit: RateLimitConfig{
			Window: envDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			Max:    envInt("RATE_LIMIT_MAX", 100),
		},
		GenerationRateLimit: RateLimitConfig{
			Window: envDuration("GENERATION_RATE_LIMIT_WINDOW", time.Hour),
			Max:    envInt("GENERATION_RATE_LIMIT_MAX", 10),
		},
		JWTSecret:            os.Getenv("JWT_SECRET"),
		OperatorEmail:        os.Getenv("OPERATOR_EMAIL"),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
		ReleaseMode:          envBool("RELEASE_MODE", false),
	}

	if path := os.Getenv("DEMOFORGE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Providers without credentials cannot make real calls; treat them as
	// disabled so every request takes the offline path.
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.Enabled = false
	}
	if cfg.V0.APIKey == "" {
		cfg.V0.Enabled = false
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
