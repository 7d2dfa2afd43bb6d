// Command eduboard runs the dashboard exercises and manages the student register from a terminal.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jo-hoe/eduboard/internal/core"
	"github.com/spf13/cobra"
)

// cli holds the state shared by all subcommands of one invocation.
type cli struct {
	configPath  string
	coreService *core.CoreService
}

// newRootCmd builds the command tree. The caller closes app once Execute returns.
func newRootCmd(app *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "eduboard",
		Short: "Statistics exercises and student register",
		Long: `eduboard runs the dashboard exercises without the web server.

Available commands:
  stats     - Summary of 1..100, a random 5x5 matrix and a frequency table
  normalize - Z-score normalization of a comma separated vector
  students  - List, add, update and delete student records
  export    - Write the student register as CSV`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.open()
		},
	}
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "path to config.yaml (default $CONFIG_PATH or ./config.yaml)")

	rootCmd.AddCommand(
		newStatsCmd(app),
		newNormalizeCmd(app),
		newStudentsCmd(app),
		newExportCmd(app),
	)
	return rootCmd
}

// loadConfig reads an explicitly requested file strictly. The implicit
// default location falls back to built-in defaults when absent.
func (app *cli) loadConfig() (*core.ServiceConfig, error) {
	if app.configPath != "" {
		return core.LoadConfig(app.configPath)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(cwd, "config.yaml")
	}
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no config file found, using defaults", "path", configPath)
		return core.DefaultConfig(), nil
	}
	return core.LoadConfig(configPath)
}

func (app *cli) open() error {
	config, err := app.loadConfig()
	if err != nil {
		return err
	}
	coreService, err := core.NewCoreServiceFromConfig(config)
	if err != nil {
		return fmt.Errorf("failed to initialize core service: %w", err)
	}
	app.coreService = coreService
	return nil
}

func (app *cli) close() error {
	if app.coreService == nil {
		return nil
	}
	err := app.coreService.Close()
	app.coreService = nil
	return err
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	app := &cli{}
	err := newRootCmd(app).Execute()
	if closeErr := app.close(); closeErr != nil {
		slog.Error("failed to close store", "error", closeErr)
	}
	if err != nil {
		os.Exit(1)
	}
}
