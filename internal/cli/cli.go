// Package cli implements the sharecard command-line interface.
//
// This package provides commands for exporting activity share cards to
// platform-sized assets, sharing them through the system share surface,
// batch-exporting platform packs, composing captions, and running the
// activity service. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - export: Render one card and save it to disk
//   - share: Render one card and hand it to the system share surface
//   - pack: Export every platform in a pack, sequentially
//   - caption: Compose and print a platform caption
//   - templates: List platform templates and packs
//   - serve: Run the activity service
//   - cache: Manage the local cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kestrelhq/sharecard/pkg/buildinfo"
	"github.com/kestrelhq/sharecard/pkg/cache"
)

// appName is the application name used for directories, filenames, and display.
const appName = "sharecard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// cacheKeyer is the shared artifact cache key scheme.
var cacheKeyer = cache.NewDefaultKeyer()

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Sharecard renders activity share cards for social platforms",
		Long:         `Sharecard turns an activity and its task list into platform-sized share cards: it renders PNG, JPG, or PDF assets at 2x density, hands them to the system share surface, and batch-exports whole platform packs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Attach the logger to the command context so subcommands and the
	// packages they drive can pick it up with loggerFromContext.
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.AddCommand(c.exportCommand())
	root.AddCommand(c.shareCommand())
	root.AddCommand(c.packCommand())
	root.AddCommand(c.captionCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newArtifactCache builds the artifact cache backend from config.
// Redis when configured, otherwise the file cache; --no-cache gets the
// null backend.
func newArtifactCache(cmd *cobra.Command, cfg Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Redis.Addr != "" {
		return cache.NewRedisCache(cmd.Context(), cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(filepath.Join(dir, "artifacts"))
}

// cacheDir returns the cache directory using XDG standard (~/.cache/sharecard/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
