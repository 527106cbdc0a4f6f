// Package config loads lawnquote settings from defaults, an optional YAML
// file and LAWNQUOTE_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// LAWNQUOTE_SERVER_ADDR.
const EnvPrefix = "LAWNQUOTE"

// Config holds application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Quote    QuoteConfig    `mapstructure:"quote"`
	Log      LogConfig      `mapstructure:"log"`
	Theme    ThemeConfig    `mapstructure:"theme"`
	Form     FormConfig     `mapstructure:"form"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr           string `mapstructure:"addr"`
	SessionSecret  string `mapstructure:"session_secret"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	// CORSOrigins enables CORS for the listed origins. A comma separated
	// LAWNQUOTE_SERVER_CORS_ORIGINS is accepted.
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// SessionsConfig bounds the in-memory session cache.
type SessionsConfig struct {
	Max int           `mapstructure:"max"`
	TTL time.Duration `mapstructure:"ttl"`
}

// QuoteConfig holds form behaviour settings.
type QuoteConfig struct {
	SubmitDelay time.Duration `mapstructure:"submit_delay"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ThemeConfig selects the page theme. Dir, when set, holds extra YAML theme
// manifests.
type ThemeConfig struct {
	Name    string `mapstructure:"name"`
	Variant string `mapstructure:"variant"`
	Dir     string `mapstructure:"dir"`
}

// FormConfig holds page copy that operators may override. TemplatesDir,
// when set, replaces the embedded page template; it must contain
// templates/page.tpl.
type FormConfig struct {
	NoticeHTML   string `mapstructure:"notice_html"`
	TemplatesDir string `mapstructure:"templates_dir"`
}

// DefaultSessionSecret is only suitable for local development.
const DefaultSessionSecret = "lawnquote-development-secret-change-me"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.session_secret", DefaultSessionSecret)
	v.SetDefault("server.max_upload_bytes", int64(32<<20))
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("sessions.max", 1024)
	v.SetDefault("sessions.ttl", 30*time.Minute)
	v.SetDefault("quote.submit_delay", time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("theme.name", "lawn")
	v.SetDefault("theme.variant", "")
	v.SetDefault("theme.dir", "")
	v.SetDefault("form.notice_html", "")
	v.SetDefault("form.templates_dir", "")
}

// Load reads configuration. An explicit path must exist; otherwise
// LAWNQUOTE_CONFIG or ./lawnquote.yaml is read when present.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvPrefix + "_CONFIG")
		explicit = path != ""
	}
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("lawnquote")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", describe(path), err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Server.Addr) == "":
		return errors.New("config: server.addr is required")
	case len(c.Server.SessionSecret) < 16:
		return errors.New("config: server.session_secret must be at least 16 bytes")
	case c.Server.MaxUploadBytes <= 0:
		return errors.New("config: server.max_upload_bytes must be positive")
	case c.Sessions.Max <= 0:
		return errors.New("config: sessions.max must be positive")
	case c.Sessions.TTL <= 0:
		return errors.New("config: sessions.ttl must be positive")
	case c.Quote.SubmitDelay <= 0:
		return errors.New("config: quote.submit_delay must be positive")
	}
	return nil
}

func describe(path string) string {
	if path == "" {
		return "lawnquote.yaml"
	}
	return path
}
