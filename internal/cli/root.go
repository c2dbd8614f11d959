// Package cli wires configuration, storage and the feed builder into the
// menufeed commands.
package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nypl-labs/menufeed/internal/config"
	"github.com/nypl-labs/menufeed/internal/database"
	"github.com/nypl-labs/menufeed/internal/logging"
	"github.com/nypl-labs/menufeed/internal/menufeed"
)

type options struct {
	configPath string
	logLevel   string
	migrate    bool
}

// NewRootCmd builds the menufeed command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "menufeed",
		Short:         "Serve the menu archive as a paginated Atom feed",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")
	cmd.PersistentFlags().BoolVar(&opts.migrate, "migrate", false, "create the archive tables if missing")

	cmd.AddCommand(newServeCmd(opts), newRenderCmd(opts), newCrawlCmd(opts))
	return cmd
}

// app is everything a command needs once configuration is loaded.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	db      *database.DB
	builder *menufeed.Builder
}

func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	return cfg, logger, nil
}

// open loads configuration and connects to the archive. The caller must
// call close.
func (o *options) open(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, logger, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database.Driver, cfg.Database.ConnString())
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	logger.Info().Str("database", db.DatabaseType()).Msg("connected")

	if o.migrate {
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		builder: menufeed.New(db, cfg.FeedOptions(), logging.Component(logger, "feed")),
	}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("close database")
	}
}
