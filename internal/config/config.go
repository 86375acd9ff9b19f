// Package config handles the XDG configuration directory, the optional
// config.yaml inside it, and TODO_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional settings file inside the config directory.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// EnvPrefix prefixes every environment override (TODO_GATEWAY_MODE, ...).
	EnvPrefix = "TODO"
)

// Gateway modes.
const (
	ModeHTTP   = "http"
	ModeGoogle = "google"
	ModeStatic = "static"
)

// DefaultURL is the confirmation endpoint used when none is configured.
// It always answers 500.
const DefaultURL = "https://httpbin.org/status/500"

// DefaultSeeds are the tasks every session starts with.
var DefaultSeeds = []string{"Buy bread", "Call the doctor"}

// Gateway selects and configures the remote confirmation transport.
type Gateway struct {
	Mode       string `mapstructure:"mode" yaml:"mode" validate:"required,oneof=http google static"`
	URL        string `mapstructure:"url" yaml:"url,omitempty" validate:"omitempty,url"`
	StatusCode int    `mapstructure:"status_code" yaml:"status_code,omitempty" validate:"omitempty,min=100,max=599"`
	Token      string `mapstructure:"token" yaml:"-"`
	ListID     string `mapstructure:"list_id" yaml:"list_id,omitempty"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `mapstructure:"-" yaml:"-"`

	// Debug enables debug logging.
	Debug bool `mapstructure:"debug" yaml:"debug"`

	// Quiet suppresses informational output.
	Quiet bool `mapstructure:"quiet" yaml:"quiet"`

	Gateway Gateway `mapstructure:"gateway" yaml:"gateway"`

	// Seeds are the titles of the tasks created at startup.
	Seeds []string `mapstructure:"seeds" yaml:"seeds" validate:"dive,required"`
}

// New creates a new Config with the default or specified config directory
// and default settings. If configDir is empty, uses XDG_CONFIG_HOME/todo or
// $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:     dir,
		Gateway: Gateway{Mode: ModeHTTP, URL: DefaultURL},
		Seeds:   append([]string(nil), DefaultSeeds...),
	}, nil
}

// Load builds a Config from defaults, dir/config.yaml (if present) and
// TODO_* environment variables, in increasing precedence. Values already
// set on v (for example bound flags) win over all of them.
func Load(configDir string, v *viper.Viper) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = viper.New()
	}

	v.SetDefault("debug", false)
	v.SetDefault("quiet", false)
	v.SetDefault("gateway.mode", cfg.Gateway.Mode)
	v.SetDefault("gateway.url", cfg.Gateway.URL)
	v.SetDefault("gateway.status_code", 0)
	v.SetDefault("gateway.token", "")
	v.SetDefault("gateway.list_id", "")
	v.SetDefault("seeds", cfg.Seeds)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(cfg.Path()); err == nil {
		v.SetConfigFile(cfg.Path())
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", cfg.Path(), err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate ensures the settings are usable.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
			return fmt.Errorf("config.%s failed %q validation", field, fe.Tag())
		}
		return err
	}
	if c.Gateway.Mode == ModeHTTP && c.Gateway.URL == "" {
		return fmt.Errorf("config.gateway.url is required for mode %s", ModeHTTP)
	}
	if c.Gateway.Mode == ModeStatic && c.Gateway.StatusCode == 0 {
		return fmt.Errorf("config.gateway.status_code is required for mode %s", ModeStatic)
	}
	return nil
}

// Dump renders the effective settings as YAML. The token is never included.
func (c *Config) Dump() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(data), nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the path to config.yaml.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
