package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pv-tools/signal-atlas/pkg/server"
	"github.com/pv-tools/signal-atlas/pkg/services/config"
	"github.com/pv-tools/signal-atlas/pkg/services/dataset"
	"github.com/pv-tools/signal-atlas/pkg/services/report"
	"github.com/pv-tools/signal-atlas/pkg/store/duckdb"
	duckdbcases "github.com/pv-tools/signal-atlas/pkg/store/duckdb/cases"
	duckdbdatasets "github.com/pv-tools/signal-atlas/pkg/store/duckdb/datasets"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Signal Atlas web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the configuration file (optional)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: cfg.Storage.Path,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	datasetStore, err := duckdbdatasets.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create dataset store: %w", err)
	}
	caseStore, err := duckdbcases.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create case store: %w", err)
	}
	datasets, err := dataset.NewManagementService(db, datasetStore, caseStore)
	if err != nil {
		return fmt.Errorf("failed to create dataset service: %w", err)
	}

	logger.Info().Str("storage", cfg.Storage.Path).Msg("storage ready")

	api := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Datasets:  datasets,
			Generator: report.NewGenerator(),
		},
	})

	return api.Start()
}
