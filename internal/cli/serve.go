package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/evcraddock/prospect-tracker/internal/config"
	"github.com/evcraddock/prospect-tracker/internal/db"
	"github.com/evcraddock/prospect-tracker/internal/logging"
	"github.com/evcraddock/prospect-tracker/internal/metrics"
	"github.com/evcraddock/prospect-tracker/internal/prospect"
	"github.com/evcraddock/prospect-tracker/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: "Start the HTTP JSON API. Settings come from PT_* environment variables, " +
			"optionally loaded from a .env file; --port and --db override them.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = strconv.Itoa(port)
			}
			if flagDB != "" {
				cfg.DBPath = flagDB
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on (overrides PT_PORT)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional .env file to load")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	if err := logging.Setup(cfg.DevMode, cfg.LogLevel); err != nil {
		return err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer closeDB(database)

	version, _, err := db.Version(database)
	if err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.DBPath, "schema_version", version)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	store := prospect.NewStore(database, prospect.WithRecorder(m))
	srv := web.NewServer(store, web.WithMetrics(m, reg))

	return srv.ListenAndServe(ctx, cfg.Addr())
}
