package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	// Database is the SQLite file holding battle results and profiles.
	Database string `json:"database"`
	// Catalog is the move/species data file (.yaml, .yml or .json).
	Catalog  string `json:"catalog"`
	Timeouts *struct {
		Lead         string `json:"lead"`
		Turn         string `json:"turn"`
		MaxBattleAge string `json:"max_battle_age"`
	} `json:"timeouts"`
	DefaultLevel int    `json:"default_level"`
	AIName       string `json:"ai_name"`
}

// envOverrides holds the values that may come from the environment. They
// win over the file.
type envOverrides struct {
	Address       string        `env:"DUEL_ADDR"`
	Database      string        `env:"DUEL_DB"`
	Catalog       string        `env:"DUEL_CATALOG"`
	LeadTimeout   time.Duration `env:"DUEL_LEAD_TIMEOUT"`
	TurnTimeout   time.Duration `env:"DUEL_TURN_TIMEOUT"`
	MaxBattleAge  time.Duration `env:"DUEL_MAX_BATTLE_AGE"`
	SessionSecret string        `env:"DUEL_SESSION_SECRET"`
	AdminToken    string        `env:"DUEL_ADMIN_TOKEN"`
}

// LoadedConfig is the effective server configuration.
type LoadedConfig struct {
	ServerAddress string
	DatabasePath  string
	CatalogPath   string
	// LeadTimeout and TurnTimeout bound each decision wait. Zero waits
	// forever.
	LeadTimeout time.Duration
	TurnTimeout time.Duration
	// MaxBattleAge is how long a session may stay registered before the
	// reaper aborts it.
	MaxBattleAge  time.Duration
	DefaultLevel  int
	AIName        string
	SessionSecret string
	AdminToken    string
}

const (
	defaultAddress      = ":8080"
	defaultDatabase     = "./data/duel.db"
	defaultCatalog      = "./data/catalog.yaml"
	defaultLeadTimeout  = 60 * time.Second
	defaultTurnTimeout  = 90 * time.Second
	defaultMaxBattleAge = 2 * time.Hour
	defaultLevel        = 50
	defaultAIName       = "Arena AI"
)

// LoadConfig reads the configuration file at path, fills defaults and
// applies environment overrides. An empty path skips the file.
func LoadConfig(path string) (*LoadedConfig, error) {
	var rc rawConfig
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(b, &rc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg := &LoadedConfig{
		ServerAddress: defaultAddress,
		DatabasePath:  orDefault(rc.Database, defaultDatabase),
		CatalogPath:   orDefault(rc.Catalog, defaultCatalog),
		LeadTimeout:   defaultLeadTimeout,
		TurnTimeout:   defaultTurnTimeout,
		MaxBattleAge:  defaultMaxBattleAge,
		DefaultLevel:  defaultLevel,
		AIName:        orDefault(rc.AIName, defaultAIName),
	}
	if rc.Server != nil && rc.Server.Address != "" {
		cfg.ServerAddress = rc.Server.Address
	}
	if rc.DefaultLevel != 0 {
		cfg.DefaultLevel = rc.DefaultLevel
	}
	if t := rc.Timeouts; t != nil {
		for _, d := range []struct {
			key string
			raw string
			dst *time.Duration
		}{
			{"timeouts.lead", t.Lead, &cfg.LeadTimeout},
			{"timeouts.turn", t.Turn, &cfg.TurnTimeout},
			{"timeouts.max_battle_age", t.MaxBattleAge, &cfg.MaxBattleAge},
		} {
			if d.raw == "" {
				continue
			}
			v, err := time.ParseDuration(d.raw)
			if err != nil {
				return nil, fmt.Errorf("config file %s: invalid duration for %s: %w", path, d.key, err)
			}
			*d.dst = v
		}
	}

	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.apply(ov)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *LoadedConfig) apply(ov envOverrides) {
	c.ServerAddress = orDefault(ov.Address, c.ServerAddress)
	c.DatabasePath = orDefault(ov.Database, c.DatabasePath)
	c.CatalogPath = orDefault(ov.Catalog, c.CatalogPath)
	if ov.LeadTimeout != 0 {
		c.LeadTimeout = ov.LeadTimeout
	}
	if ov.TurnTimeout != 0 {
		c.TurnTimeout = ov.TurnTimeout
	}
	if ov.MaxBattleAge != 0 {
		c.MaxBattleAge = ov.MaxBattleAge
	}
	c.SessionSecret = ov.SessionSecret
	c.AdminToken = ov.AdminToken
}

func (c *LoadedConfig) validate() error {
	switch {
	case c.LeadTimeout <= 0 || c.TurnTimeout <= 0:
		return fmt.Errorf("decision timeouts must be positive")
	case c.MaxBattleAge <= 0:
		return fmt.Errorf("max_battle_age must be positive")
	case c.DefaultLevel < 1 || c.DefaultLevel > 100:
		return fmt.Errorf("default_level %d out of range 1..100", c.DefaultLevel)
	}
	return nil
}

func orDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}
