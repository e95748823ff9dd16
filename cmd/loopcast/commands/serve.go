package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/loopcast/loopcast/pkg/api"
	"github.com/loopcast/loopcast/pkg/config"
	"github.com/loopcast/loopcast/pkg/orchestrator"
	"github.com/loopcast/loopcast/pkg/stores"
	"github.com/loopcast/loopcast/pkg/telemetry"
)

func newServeCommand() *cobra.Command {
	var (
		dbPath      string
		metricsAddr string
		exporter    string
		watch       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the media server",
		Long: `Load and publish the server configuration, seed the virtual host
topology from its declared virtual hosts, and serve the administrative
API until interrupted.

The configuration file is watched for changes; an edit rebinds the
document and admits newly declared virtual hosts without a restart.`,
		Example: `  # Run with the default configuration file
  loopcast serve

  # Run with a specific configuration and audit database
  loopcast serve --config /etc/loopcast/Server.xml --db /var/lib/loopcast/audit.db

  # Run with OTLP trace export
  loopcast serve --tracing otlp`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.Logger

			// Telemetry
			telCfg := telemetry.DefaultConfig()
			telCfg.Metrics.ListenAddress = metricsAddr
			telCfg.Metrics.Enabled = metricsAddr != ""
			telCfg.Tracing.Enabled = exporter != "" && exporter != "none"
			if telCfg.Tracing.Enabled {
				telCfg.Tracing.Exporter = exporter
			}
			if verbose {
				telCfg.Logging.Level = "debug"
			}
			tel, err := telemetry.NewTelemetry(telCfg)
			if err != nil {
				return fmt.Errorf("failed to initialize telemetry: %w", err)
			}
			defer func() {
				_ = tel.Shutdown(context.Background())
			}()

			tree, _, err := bindConfigInstrumented(ctx, logger, tel, configPath)
			if err != nil {
				return err
			}

			// Audit store
			store, err := stores.NewSQLiteStore(stores.Config{Path: dbPath})
			if err != nil {
				return err
			}
			if err := store.Init(ctx); err != nil {
				return fmt.Errorf("failed to open audit store: %w", err)
			}
			defer store.Close()
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate audit store: %w", err)
			}

			orch := orchestrator.New(logger, orchestrator.Options{
				Store:   store,
				Metrics: tel.Metrics,
				Events:  tel.Events,
				Tracer:  tel.Tracer,
			})

			// Publish: seed the topology, then freeze the tree.
			admitted, err := orch.SeedFromServer(ctx, tree)
			if err != nil {
				return fmt.Errorf("failed to seed virtual hosts: %w", err)
			}
			tree.Freeze()
			logger.Info().
				Str("config", configPath).
				Int("vhosts", admitted).
				Msg("Configuration published")

			saveSnapshot(ctx, logger, store, tree, configPath)

			srv := api.NewServer(logger, apiConfigFromTree(tree), orch, tree, tel.Metrics)

			if err := tel.StartMetricsServer(); err != nil {
				return fmt.Errorf("failed to start metrics server: %w", err)
			}

			if watch {
				watcher := config.NewWatcher(logger, 0)
				go func() {
					err := watcher.Watch(ctx, configPath, func() {
						reloadConfig(ctx, logger, tel, store, orch, srv)
					})
					if err != nil && ctx.Err() == nil {
						logger.Error().Err(err).Msg("Configuration watcher stopped")
					}
				}()
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "loopcast.db", "audit store database path")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "metrics listen address (empty disables)")
	cmd.Flags().StringVar(&exporter, "tracing", "none", "trace exporter: otlp, stdout or none")
	cmd.Flags().BoolVar(&watch, "watch", true, "reload the configuration file on change")

	return cmd
}

// reloadConfig rebinds the configuration file and admits newly declared
// virtual hosts. Hosts removed from the file stay in the topology; static
// hosts are never deleted by a reload.
func reloadConfig(ctx context.Context, logger zerolog.Logger, tel *telemetry.Telemetry, store stores.Store, orch *orchestrator.Orchestrator, srv *api.Server) {
	tree, _, err := bindConfigInstrumented(ctx, logger, tel, configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Configuration reload failed")
		tel.Metrics.RecordReload("failed")
		_ = tel.Events.PublishConfigReloaded(configPath, "failed")
		return
	}

	admitted, err := orch.SeedFromServer(ctx, tree)
	if err != nil {
		logger.Error().Err(err).Msg("Configuration reload failed")
		tel.Metrics.RecordReload("failed")
		_ = tel.Events.PublishConfigReloaded(configPath, "failed")
		return
	}
	tree.Freeze()
	srv.SwapTree(tree)
	saveSnapshot(ctx, logger, store, tree, configPath)

	tel.Metrics.RecordReload("succeeded")
	_ = tel.Events.PublishConfigReloaded(configPath, "succeeded")
	logger.Info().Int("new_vhosts", admitted).Msg("Configuration reloaded")
}

// saveSnapshot records the effective configuration, best-effort.
func saveSnapshot(ctx context.Context, logger zerolog.Logger, store stores.Store, tree *config.Node, source string) {
	ser := config.Serializer{}
	snap := &stores.Snapshot{Source: source, Content: ser.RenderXML(tree)}
	if err := store.SaveSnapshot(ctx, snap); err != nil {
		logger.Warn().Err(err).Msg("Failed to save configuration snapshot")
	}
}

// apiConfigFromTree extracts the admin API settings from the bound tree.
func apiConfigFromTree(tree *config.Node) api.Config {
	cfg := api.Config{ListenAddress: ":8081"}

	if bind, ok := tree.Child("Bind"); ok {
		if mgrs, ok := bind.Child("Managers"); ok {
			if apiNode, ok := mgrs.Child("API"); ok {
				if port, parsed := apiNode.GetInt("Port"); parsed && port > 0 {
					cfg.ListenAddress = fmt.Sprintf(":%d", port)
				}
			}
		}
	}

	if mgrs, ok := tree.Child("Managers"); ok {
		if apiNode, ok := mgrs.Child("API"); ok {
			if token, parsed := apiNode.GetString("AccessToken"); parsed {
				cfg.AccessToken = token
			}
			if cd, ok := apiNode.Child("CrossDomains"); ok {
				if urls, ok := cd.GetList("Url"); ok {
					cfg.CrossDomains = urls.Strings()
				}
			}
		}
	}

	return cfg
}
