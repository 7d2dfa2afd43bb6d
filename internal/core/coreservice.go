package core

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jo-hoe/eduboard/internal/backend/charts"
	"github.com/jo-hoe/eduboard/internal/backend/database"
)

// CoreService is the dashboard logic shared by the web frontend, the JSON API
// and the CLI. It owns no state besides the injected store and random source.
type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	charts          *charts.Registry

	randomMu sync.Mutex
	random   *rand.Rand
}

// NewCoreService wires the service around an already opened store.
func NewCoreService(config *ServiceConfig, databaseService database.DatabaseService, random *rand.Rand) (*CoreService, error) {
	if databaseService == nil {
		return nil, fmt.Errorf("database service must not be nil")
	}
	if random == nil {
		random = newRandom(config.RandomSeed)
	}
	service := &CoreService{
		config:          config,
		databaseService: databaseService,
		charts:          charts.NewRegistry(),
		random:          random,
	}
	if err := service.registerCharts(); err != nil {
		return nil, err
	}
	return service, nil
}

// NewCoreServiceFromConfig opens the configured store and builds the service on top of it.
func NewCoreServiceFromConfig(config *ServiceConfig) (*CoreService, error) {
	databaseService, err := getDatabaseService(config)
	if err != nil {
		slog.Error("failed to initialize database service", "error", err)
		return nil, err
	}
	service, err := NewCoreService(config, databaseService, nil)
	if err != nil {
		_ = databaseService.Close()
		return nil, err
	}
	return service, nil
}

func getDatabaseService(config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}

// newRandom seeds from the clock when seed is zero.
func newRandom(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// withRandom serializes access to the random source, which is not safe for concurrent use.
func (service *CoreService) withRandom(fn func(r *rand.Rand)) {
	service.randomMu.Lock()
	defer service.randomMu.Unlock()
	fn(service.random)
}

func (service *CoreService) Config() *ServiceConfig {
	return service.config
}

func (service *CoreService) Ping(ctx context.Context) error {
	return service.databaseService.Ping(ctx)
}

func (service *CoreService) Close() error {
	return service.databaseService.Close()
}
