// Package config loads the database connection settings the library
// needs, the way DanielCarmel-media-luna/cmd/main.go loads configs/config.yaml
// and Prayush09-MusicRecognition/db/client.go reads DB_* environment
// variables through a small getenv helper.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Database holds the settings needed to open the Index backend.
type Database struct {
	Type            string        `yaml:"type"`
	URL             string        `yaml:"url"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
}

// Config is the top-level configuration record.
type Config struct {
	Database Database `yaml:"database"`
}

func defaults() Config {
	return Config{Database: Database{
		Type:            "postgres",
		MaxConns:        10,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
	}}
}

// Load reads an optional YAML file at path, then applies DB_* environment
// variable overrides (loading a .env file first via godotenv, if present).
// Environment variables win over the YAML file so a deployment can override
// a checked-in config.yaml without editing it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // best-effort; absence of .env is not an error

	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("config: parsing %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("DB_TYPE", ""); v != "" {
		cfg.Database.Type = v
	}
	if v := getEnv("DATABASE_URL", ""); v != "" {
		cfg.Database.URL = v
	} else if v := buildDSNFromParts(); v != "" {
		cfg.Database.URL = v
	}
	if v := getEnv("DB_MAX_CONNS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.MaxConns = int32(n)
		}
	}
}

// buildDSNFromParts assembles a postgres DSN from discrete DB_* variables,
// mirroring db.NewDBClient's dbUser/dbPass/dbHost/dbPort/dbName assembly.
func buildDSNFromParts() string {
	host := getEnv("DB_HOST", "")
	if host == "" {
		return ""
	}
	user := getEnv("DB_USER", "postgres")
	pass := getEnv("DB_PASS", "")
	port := getEnv("DB_PORT", "5432")
	name := getEnv("DB_NAME", "postgres")
	sslmode := getEnv("DB_SSLMODE", "disable")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, name, sslmode)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
