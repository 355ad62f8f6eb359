package commands

import (
	"database/sql"
	"errors"
	"os"
	"time"

	"dealforge-backend/lib/configutil"
	"dealforge-backend/lib/dealstore"
	"dealforge-backend/lib/dealstore/db"
	"dealforge-backend/lib/scrapers"
	"dealforge-backend/lib/serviceutil"
	"dealforge-backend/lib/sqliteutil"
	"dealforge-backend/services/pipeline"
)

type ThrottleConfig struct {
	BaseMs   int `json:"base_ms"`
	JitterMs int `json:"jitter_ms"`
}

type SourceConfig struct {
	// empty means the source's built-in category listings
	Listings []scrapers.Listing `json:"listings"`
	Disabled bool               `json:"disabled"`
}

type Config struct {
	// sqlite file path or libsql:// url
	Database        string                  `json:"database"`
	ExportDir       string                  `json:"export_dir"`
	Throttle        ThrottleConfig          `json:"throttle"`
	Sources         map[string]SourceConfig `json:"sources"`
	ExcludedDomains []string                `json:"excluded_domains"`
	Filter          pipeline.FilterOptions  `json:"filter"`
	Alert           pipeline.AlertConfig    `json:"alert"`
}

func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("forge.json5")
	if errors.Is(err, os.ErrNotExist) {
		return Config{}
	}
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return cfg
}

func (c Config) databasePath() string {
	if c.Database == "" {
		return "deals.db"
	}
	return c.Database
}

func (c Config) throttle() (base, jitter time.Duration) {
	base = time.Duration(c.Throttle.BaseMs) * time.Millisecond
	jitter = time.Duration(c.Throttle.JitterMs) * time.Millisecond
	return base, jitter
}

func openStore(cfg Config) (dealstore.Store, *sql.DB) {
	database, err := sqliteutil.OpenDB(db.Schema, cfg.databasePath())
	if err != nil {
		serviceutil.Fatal("failed to open deals database", err)
	}
	return dealstore.NewStore(database), database
}
