package core

import (
	"fmt"
	"os"

	"github.com/jo-hoe/eduboard/internal/backend/charts"
	"github.com/jo-hoe/eduboard/internal/backend/database"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort             = 8080
	DefaultConnectionString = "numpystreamlit.db"
	DefaultVectorLength     = 10
	DefaultVectorMin        = 1
	DefaultVectorMax        = 100
)

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

// VectorConfig shapes the randomly generated vector of the normalization exercise.
// Values are drawn from [Min, Max).
type VectorConfig struct {
	Length int `yaml:"length"`
	Min    int `yaml:"min"`
	Max    int `yaml:"max"`
}

type ServiceConfig struct {
	Port       int          `yaml:"port"`
	Database   Database     `yaml:"database"`
	Charts     charts.Size  `yaml:"charts"`
	Vector     VectorConfig `yaml:"vector"`
	RandomSeed uint64       `yaml:"randomSeed"`
}

// DefaultConfig returns the configuration used when no file overrides a value.
func DefaultConfig() *ServiceConfig {
	config := &ServiceConfig{}
	config.applyDefaults()
	return config
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return &config, nil
}

func (config *ServiceConfig) applyDefaults() {
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.Database.Type == "" {
		config.Database.Type = database.TypeSQLite
	}
	if config.Database.ConnectionString == "" && config.Database.Type == database.TypeSQLite {
		config.Database.ConnectionString = DefaultConnectionString
	}
	config.Charts = config.Charts.Normalized()
	if config.Vector.Length == 0 {
		config.Vector.Length = DefaultVectorLength
	}
	if config.Vector.Min == 0 && config.Vector.Max == 0 {
		config.Vector.Min = DefaultVectorMin
		config.Vector.Max = DefaultVectorMax
	}
}

func (config *ServiceConfig) validate() error {
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d out of range", config.Port)
	}
	switch config.Database.Type {
	case database.TypeSQLite, database.TypeRedis:
	default:
		return fmt.Errorf("unsupported database type: %s", config.Database.Type)
	}
	if config.Database.ConnectionString == "" {
		return fmt.Errorf("database connectionString must be set for type %s", config.Database.Type)
	}
	if config.Vector.Length < 1 {
		return fmt.Errorf("vector length must be positive, got %d", config.Vector.Length)
	}
	if config.Vector.Max <= config.Vector.Min {
		return fmt.Errorf("vector range [%d, %d) is empty", config.Vector.Min, config.Vector.Max)
	}
	return nil
}
