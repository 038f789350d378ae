// Package cli implements the wrapdoc command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/usawrapco/wrapdoc/pkg/assets"
	"github.com/usawrapco/wrapdoc/pkg/buildinfo"
	"github.com/usawrapco/wrapdoc/pkg/cache"
	"github.com/usawrapco/wrapdoc/pkg/config"
	"github.com/usawrapco/wrapdoc/pkg/document"
	"github.com/usawrapco/wrapdoc/pkg/fonts"
	"github.com/usawrapco/wrapdoc/pkg/integrations/reviews"
	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/pipeline"
	"github.com/usawrapco/wrapdoc/pkg/shop"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "wrapdoc"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
	stdin      io.Reader
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		stdin:  os.Stdin,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "wrapdoc renders estimates, invoices, sales orders and work orders",
		Long: `wrapdoc turns job records into print-ready US Letter documents for the shop:
customer estimates and invoices, internal sales orders with cost and
commission breakdowns, and installer work orders.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./wrapdoc.toml or the user config dir)")

	// Register all subcommands
	for _, t := range job.DocTypes {
		root.AddCommand(c.documentCommand(t))
	}
	root.AddCommand(c.financialsCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.mockupCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		c.Logger.Debug("loaded config", "file", cfg.File)
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use from the configuration.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	env, err := c.newEnv(cfg)
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}

	fontSet := fonts.Load(fonts.Dirs(cfg.Fonts.Dirs...), c.Logger)
	runner := pipeline.NewRunner(env, fontSet, store, c.Logger)
	runner.Compress = cfg.Layout.Compress
	runner.S3 = cfg.Storage.S3
	runner.SetRenderTTL(cfg.Cache.TTL)
	return runner, nil
}

// newEnv builds the document environment: shop profile, financial policy
// and artwork.
func (c *CLI) newEnv(cfg *config.Config) (document.Env, error) {
	profile, err := loadProfile(cfg.Profile)
	if err != nil {
		return document.Env{}, err
	}
	return document.Env{
		Profile: profile,
		Finance: cfg.Finance,
		Assets:  assets.Load(cfg.Assets.Dir, c.Logger),
		Logger:  c.Logger,
	}, nil
}

func loadProfile(path string) (*shop.Profile, error) {
	if path == "" {
		return shop.Default()
	}
	return shop.Load(path)
}

// newCache opens the configured cache: redis when a URL is set, else the
// file cache. A file cache that cannot be created disables caching.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		return cache.Scoped(rc, appName+":"), nil
	}
	fc, err := cache.NewFileCache(cfg.Cache.Dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", cfg.Cache.Dir, "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// withReviews attaches the review-count lookup to ctx.
func (c *CLI) withReviews(ctx context.Context, runner *pipeline.Runner) context.Context {
	lookup := c.newReviews(runner)
	if lookup == nil {
		return ctx
	}
	return reviews.NewContext(ctx, lookup)
}

// newReviews creates the review-count lookup. It shares the runner's cache
// and falls back to the profile's count.
func (c *CLI) newReviews(runner *pipeline.Runner) *reviews.Lookup {
	cfg, err := c.config()
	if err != nil {
		return nil
	}
	return reviews.NewLookup(cfg.Reviews.Endpoint, cfg.Reviews.Window, runner.Env.Profile.Reviews, runner.Cache, c.Logger)
}
