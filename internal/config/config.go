// Package config provides configuration management for the fyers CLI.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	apperrors "fyers-trader/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	API         APIConfig   `mapstructure:"api"`
	Log         LogConfig   `mapstructure:"log"`
	Store       StoreConfig `mapstructure:"store"`
	Credentials Credentials `mapstructure:"-"` // Loaded separately

	dir string
}

// APIConfig holds the broker endpoints and transport settings.
type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	DataBaseURL string        `mapstructure:"data_base_url"`
	AuthBaseURL string        `mapstructure:"auth_base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level    string `mapstructure:"level"`
	File     bool   `mapstructure:"file"`
	FilePath string `mapstructure:"file_path"`
}

// StoreConfig holds the local candle cache settings.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// Credentials holds API credentials.
type Credentials struct {
	Fyers FyersCredentials `mapstructure:"fyers"`
}

// FyersCredentials holds the app credentials and the current token pair.
type FyersCredentials struct {
	ClientID     string `mapstructure:"client_id"`
	SecretKey    string `mapstructure:"secret_key"`
	RedirectURI  string `mapstructure:"redirect_uri"`
	AccessToken  string `mapstructure:"access_token"`
	RefreshToken string `mapstructure:"refresh_token"`
	Pin          string `mapstructure:"pin"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/fyers-trader"
	}
	return filepath.Join(home, ".config", "fyers-trader")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. Missing files are
// replaced by commented templates and defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{dir: configDir}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("api.base_url", "https://api-t1.fyers.in/api/v3")
	v.SetDefault("api.data_base_url", "https://api-t1.fyers.in/data")
	v.SetDefault("api.auth_base_url", "https://api-t1.fyers.in/api/v3")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.user_agent", "fyers-trader/0.1")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", false)
	v.SetDefault("log.file_path", filepath.Join(configDir, "logs", "fyers.log"))
	v.SetDefault("store.path", filepath.Join(configDir, "candles.db"))
}

func loadConfigFile(configDir string, cfg *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		if err := createTemplate(configDir, "config.toml", configTemplate, 0644); err != nil {
			return err
		}
	}

	return v.Unmarshal(cfg)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// Use restricted permissions for credentials file
		return createTemplate(configDir, "credentials.toml", credentialsTemplate, 0600)
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	fc := &cfg.Credentials.Fyers
	for env, field := range map[string]*string{
		"FYERS_CLIENT_ID":     &fc.ClientID,
		"FYERS_SECRET_KEY":    &fc.SecretKey,
		"FYERS_REDIRECT_URI":  &fc.RedirectURI,
		"FYERS_ACCESS_TOKEN":  &fc.AccessToken,
		"FYERS_REFRESH_TOKEN": &fc.RefreshToken,
		"FYERS_PIN":           &fc.Pin,
	} {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"api.base_url":      c.API.BaseURL,
		"api.data_base_url": c.API.DataBaseURL,
		"api.auth_base_url": c.API.AuthBaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return apperrors.Wrapf(apperrors.ErrConfigInvalid, "%s must be an http(s) URL, got %q", name, raw)
		}
	}
	if c.API.Timeout < 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "api.timeout must be non-negative")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "invalid log level: %s", c.Log.Level)
	}
	return nil
}

// Dir returns the directory the configuration was loaded from.
func (c *Config) Dir() string {
	return c.dir
}

// RequireSession checks that credentials for authenticated calls are present.
func (c *Config) RequireSession() error {
	fc := c.Credentials.Fyers
	if fc.ClientID == "" || fc.AccessToken == "" {
		return apperrors.Wrap(apperrors.ErrNotAuthenticated, "client_id and access_token are required, run 'fyers auth login'")
	}
	return nil
}

// RequireApp checks that the app credentials for the auth flow are present.
func (c *Config) RequireApp() error {
	fc := c.Credentials.Fyers
	if fc.ClientID == "" || fc.SecretKey == "" {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "client_id and secret_key are required in credentials.toml")
	}
	return nil
}

// SaveTokens writes a new token pair to credentials.toml, keeping every other
// key in the file.
func (c *Config) SaveTokens(accessToken, refreshToken string) error {
	path := filepath.Join(c.dir, "credentials.toml")

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading credentials: %w", err)
	}
	v.Set("fyers.access_token", accessToken)
	v.Set("fyers.refresh_token", refreshToken)

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("restricting credentials: %w", err)
	}

	c.Credentials.Fyers.AccessToken = accessToken
	c.Credentials.Fyers.RefreshToken = refreshToken
	return nil
}
