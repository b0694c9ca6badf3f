package ports

import "go.trai.ch/fswatch/internal/core/domain"

// ConfigLoader defines the interface for loading the watcher configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path.
	// An empty path selects domain.ConfigFileName in the working directory.
	Load(path string) (*domain.Config, error)
}
