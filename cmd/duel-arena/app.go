package main

import (
	"os"

	"github.com/ericogr/duel-arena/internal/catalog"
	"github.com/ericogr/duel-arena/internal/config"
	"github.com/ericogr/duel-arena/internal/constants"
	"github.com/ericogr/duel-arena/internal/logging"
	"github.com/ericogr/duel-arena/internal/storage"
)

func loadConfigOrExit() *config.LoadedConfig {
	// The file is optional; DUEL_* variables and defaults cover the rest.
	path := os.Getenv(constants.EnvConfigPath)
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal("Missing or invalid duel-arena configuration", err, logging.Fields{"config_path": path})
	}
	return cfg
}

func loadCatalogOrExit(path string) *catalog.Catalog {
	cat, err := catalog.Load(path)
	if err != nil {
		logging.Fatal("Failed to load move and species catalog", err, logging.Fields{
			"catalog_path": path,
			"hint":         "provide a YAML or JSON file with 'moves' and 'species' lists",
		})
	}
	moves, species := cat.Len()
	logging.Info("catalog loaded", logging.Fields{"moves": moves, "species": species})
	return cat
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db)
}
