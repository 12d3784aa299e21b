// Package config loads FlexiFi settings from defaults, an optional
// config.yaml, a .env file and FLEXIFI_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const envPrefix = "FLEXIFI"

type Config struct {
	Server struct {
		Addr string `mapstructure:"addr" yaml:"addr"`
	} `mapstructure:"server" yaml:"server"`

	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Database struct {
		Driver          string        `mapstructure:"driver" yaml:"driver"`
		DSN             string        `mapstructure:"dsn" yaml:"-"`
		MaxOpenConns    int           `mapstructure:"max_open_conns" yaml:"max_open_conns"`
		MaxIdleConns    int           `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
		ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	} `mapstructure:"database" yaml:"database"`

	Auth struct {
		JWTSecret  string        `mapstructure:"jwt_secret" yaml:"-"`
		AccessTTL  time.Duration `mapstructure:"access_ttl" yaml:"access_ttl"`
		RefreshTTL time.Duration `mapstructure:"refresh_ttl" yaml:"refresh_ttl"`
	} `mapstructure:"auth" yaml:"auth"`

	AI struct {
		Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
		Model             string `mapstructure:"model" yaml:"model"`
		APIKey            string `mapstructure:"api_key" yaml:"-"`
		TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	} `mapstructure:"ai" yaml:"ai"`

	Advisor struct {
		TightnessRatio float64 `mapstructure:"tightness_ratio" yaml:"tightness_ratio"`
	} `mapstructure:"advisor" yaml:"advisor"`

	Report struct {
		Bucket           string `mapstructure:"bucket" yaml:"bucket"`
		Region           string `mapstructure:"region" yaml:"region"`
		Endpoint         string `mapstructure:"endpoint" yaml:"endpoint"`
		URLExpiryMinutes int    `mapstructure:"url_expiry_minutes" yaml:"url_expiry_minutes"`
	} `mapstructure:"report" yaml:"report"`

	Digest struct {
		Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
		Schedule string `mapstructure:"schedule" yaml:"schedule"`
	} `mapstructure:"digest" yaml:"digest"`

	SMTP struct {
		Host     string `mapstructure:"host" yaml:"host"`
		Port     string `mapstructure:"port" yaml:"port"`
		From     string `mapstructure:"from" yaml:"from"`
		Password string `mapstructure:"password" yaml:"-"`
	} `mapstructure:"smtp" yaml:"smtp"`
}

// Load reads configuration. configFile may be empty, in which case
// config.yaml is searched in the working directory and $HOME/.flexifi.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, continuing with system environment variables")
	}

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.flexifi")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			if configFile != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
			logrus.Warnf("error reading config file %s: %v", v.ConfigFileUsed(), err)
		}
	}

	// Keys kept from the original .env layout, read without the prefix.
	bindings := map[string]string{
		"auth.jwt_secret": "JWT_SECRET",
		"ai.api_key":      "GEMINI_API_KEY",
		"database.dsn":    "DB_CONNECTION_STRING",
		"smtp.from":       "EMAIL_ADDRESS",
		"smtp.password":   "EMAIL_PASSWORD",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("database.driver", "pgx")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_ttl", 10*time.Minute)
	v.SetDefault("auth.refresh_ttl", 720*time.Hour)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.timeout_seconds", 20)
	v.SetDefault("ai.requests_per_minute", 15)

	v.SetDefault("advisor.tightness_ratio", 0.5)

	v.SetDefault("report.bucket", "")
	v.SetDefault("report.region", "eu-central-1")
	v.SetDefault("report.endpoint", "")
	v.SetDefault("report.url_expiry_minutes", 15)

	v.SetDefault("digest.enabled", false)
	v.SetDefault("digest.schedule", "@daily")

	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.password", "")
}

func Validate(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Log.Format)
	}

	switch cfg.Database.Driver {
	case "pgx", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %s (must be 'pgx' or 'sqlite')", cfg.Database.Driver)
	}

	if cfg.Auth.JWTSecret == "" {
		return errors.New("no JWT_SECRET provided")
	}

	if cfg.AI.Enabled {
		if cfg.AI.APIKey == "" {
			return errors.New("GEMINI_API_KEY required when AI is enabled")
		}
		if cfg.AI.RequestsPerMinute < 1 || cfg.AI.RequestsPerMinute > 1000 {
			return fmt.Errorf("ai.requests_per_minute must be between 1 and 1000, got: %d", cfg.AI.RequestsPerMinute)
		}
		if cfg.AI.TimeoutSeconds < 1 || cfg.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", cfg.AI.TimeoutSeconds)
		}
	}

	if cfg.Advisor.TightnessRatio <= 0 || cfg.Advisor.TightnessRatio > 1 {
		return fmt.Errorf("advisor.tightness_ratio must be in (0, 1], got: %v", cfg.Advisor.TightnessRatio)
	}

	if cfg.Digest.Enabled && (cfg.SMTP.From == "" || cfg.SMTP.Password == "") {
		return errors.New("smtp.from and smtp.password required when the digest is enabled")
	}
	return nil
}

func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

func (c *Config) ReportStorageEnabled() bool {
	return c.Report.Bucket != ""
}
