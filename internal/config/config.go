// Package config loads service configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		// AllowedIPs restricts clients to these addresses/CIDRs.
		// Empty means no restriction.
		AllowedIPs []string `yaml:"allowed_ips"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Reports struct {
		ExportDir            string `yaml:"export_dir"`
		RetentionHours       int    `yaml:"retention_hours"`
		SweepIntervalMinutes int    `yaml:"sweep_interval_minutes"`
		MaxConcurrentRenders int64  `yaml:"max_concurrent_renders"`
		QueueSize            int    `yaml:"queue_size"`
	} `yaml:"reports"`

	Auth struct {
		JWTSecret     string `yaml:"jwt_secret"`
		TokenTTLHours int    `yaml:"token_ttl_hours"`
		AdminUsername string `yaml:"admin_username"`
		AdminPassword string `yaml:"admin_password"`
	} `yaml:"auth"`
}

// Load builds the configuration: defaults, then the YAML file at path if
// given, then environment variables on top.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret (or STOCKROOM_JWT_SECRET) is required")
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.Database.Path = "stockroom.db"
	cfg.Reports.ExportDir = "./exports"
	cfg.Reports.RetentionHours = 24
	cfg.Reports.SweepIntervalMinutes = 60
	cfg.Reports.MaxConcurrentRenders = 4
	cfg.Reports.QueueSize = 100
	cfg.Auth.TokenTTLHours = 24
	cfg.Auth.AdminUsername = "admin"
	return cfg
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Port, "STOCKROOM_PORT")
	setString(&cfg.Database.Path, "STOCKROOM_DB_PATH")
	setString(&cfg.Reports.ExportDir, "STOCKROOM_EXPORT_DIR")
	setInt(&cfg.Reports.RetentionHours, "STOCKROOM_RETENTION_HOURS")
	setInt(&cfg.Reports.SweepIntervalMinutes, "STOCKROOM_SWEEP_INTERVAL_MINUTES")
	setString(&cfg.Auth.JWTSecret, "STOCKROOM_JWT_SECRET")
	setString(&cfg.Auth.AdminUsername, "STOCKROOM_ADMIN_USERNAME")
	setString(&cfg.Auth.AdminPassword, "STOCKROOM_ADMIN_PASSWORD")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func (c *Config) Retention() time.Duration {
	return time.Duration(c.Reports.RetentionHours) * time.Hour
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Reports.SweepIntervalMinutes) * time.Minute
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}
