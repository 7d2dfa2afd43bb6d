package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jo-hoe/eduboard/internal/backend/charts"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	return configPath
}

func TestLoadConfig_Success(t *testing.T) {
	configPath := writeConfig(t, `port: 9090
database:
  type: sqlite
  connectionString: "test.db"
charts:
  width: 500
  height: 250
vector:
  length: 5
  min: 10
  max: 20
randomSeed: 7`)

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Port != 9090 {
		t.Errorf("Expected port to be 9090, got %d", config.Port)
	}
	if config.Database.ConnectionString != "test.db" {
		t.Errorf("Expected connectionString to be 'test.db', got '%s'", config.Database.ConnectionString)
	}
	if config.Charts != (charts.Size{Width: 500, Height: 250}) {
		t.Errorf("Expected charts 500x250, got %+v", config.Charts)
	}
	if config.Vector != (VectorConfig{Length: 5, Min: 10, Max: 20}) {
		t.Errorf("Unexpected vector config %+v", config.Vector)
	}
	if config.RandomSeed != 7 {
		t.Errorf("Expected randomSeed 7, got %d", config.RandomSeed)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, `port: 8081`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Database.Type != "sqlite" || config.Database.ConnectionString != DefaultConnectionString {
		t.Errorf("Expected default sqlite database, got %+v", config.Database)
	}
	if config.Charts != (charts.Size{Width: charts.DefaultWidth, Height: charts.DefaultHeight}) {
		t.Errorf("Expected default chart size, got %+v", config.Charts)
	}
	if config.Vector != (VectorConfig{Length: 10, Min: 1, Max: 100}) {
		t.Errorf("Expected default vector config, got %+v", config.Vector)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unsupported database", "database:\n  type: postgres\n  connectionString: x"},
		{"redis without url", "database:\n  type: redis"},
		{"empty vector range", "vector:\n  min: 5\n  max: 5"},
		{"port out of range", "port: 70000"},
		{"malformed yaml", "port: [1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("Expected error, got config %+v", config)
			}
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	config, err := LoadConfig("/path/that/does/not/exist/config.yaml")
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if config != nil {
		t.Error("Expected config to be nil when file doesn't exist")
	}
}
