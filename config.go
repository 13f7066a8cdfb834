package xread

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ClientConfig holds all configuration for the read client. The zero value
// works: credentials are resolved from the session file, environment, and
// the fallback credentials file at first use.
type ClientConfig struct {
	// CookieFile is the persisted session path (JSON array of cookies).
	// Default: ~/.go-xread/cookies.json
	CookieFile string `yaml:"cookieFile"`

	// CredentialsFile is the fallback NAME="value" credentials file read
	// when the process environment carries no login triple.
	// Default: ~/.go-xread/credentials
	CredentialsFile string `yaml:"credentialsFile"`

	// Username, Password, and Email pre-seed the login triple, taking
	// precedence over environment and file sources. Email is optional
	// but improves the odds against bot-detection challenges.
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Email    string `yaml:"email"`

	// TOTPSecret enables two-factor login when the account requires it.
	TOTPSecret string `yaml:"totpSecret"`

	// Proxy is an optional proxy URL for the direct protocol transport.
	Proxy string `yaml:"proxy"`

	// UserAgent overrides the default browser user agent.
	UserAgent string `yaml:"userAgent"`

	// MetricsHook is called on each direct protocol request for external
	// metrics collection.
	MetricsHook func(endpoint string, success bool) `yaml:"-"`
}

// defaults fills in zero-value config fields.
func (cfg *ClientConfig) defaults() {
	home, _ := os.UserHomeDir()
	if cfg.CookieFile == "" {
		cfg.CookieFile = filepath.Join(home, ".go-xread", "cookies.json")
	}
	if cfg.CredentialsFile == "" {
		cfg.CredentialsFile = filepath.Join(home, ".go-xread", "credentials")
	}
}

// LoadConfig reads a YAML client configuration from path.
func LoadConfig(path string) (ClientConfig, error) {
	var cfg ClientConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
