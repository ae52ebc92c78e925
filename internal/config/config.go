package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// WorkerConfig configures the stats snapshot worker binary. Values load
// from an optional YAML file and are overridden by environment variables.
type WorkerConfig struct {
	MongoURI         string        `yaml:"mongo_uri" envconfig:"MONGO_URI"`
	DatabaseName     string        `yaml:"database_name" envconfig:"DATABASE_NAME"`
	SnapshotInterval time.Duration `yaml:"snapshot_interval" envconfig:"SNAPSHOT_INTERVAL"`
	LogLevel         string        `yaml:"log_level" envconfig:"LOG_LEVEL"`
}

func LoadWorkerConfig(path string) (*WorkerConfig, error) {
	cfg := &WorkerConfig{
		MongoURI:         "mongodb://localhost:27017",
		DatabaseName:     "billfold",
		SnapshotInterval: time.Hour,
		LogLevel:         "info",
	}

	if path != "" {
		file, err := os.Open(path)
		if err == nil {
			defer file.Close()
			if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config: %w", err)
			}
		}
	}

	if err := envconfig.Process("billfold", cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	return cfg, nil
}
