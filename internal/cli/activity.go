package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrelhq/sharecard/pkg/card"
	"github.com/kestrelhq/sharecard/pkg/errors"
	"github.com/kestrelhq/sharecard/pkg/export"
	"github.com/kestrelhq/sharecard/pkg/httputil"
	"github.com/kestrelhq/sharecard/pkg/track"
)

// activityFlags are the input flags shared by export, share, and pack.
type activityFlags struct {
	file     string
	backdrop string
	refresh  bool
	noCache  bool
	out      string
}

func (f *activityFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read the activity from a local JSON file instead of the service")
	cmd.Flags().StringVar(&f.backdrop, "backdrop", "", "backdrop image file (png or jpg)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass the response cache when fetching the activity")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable all caching for this run")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output directory (default from config)")
}

// newTrackClient builds the activity service client with the configured
// response cache.
func (c *CLI) newTrackClient(cfg Config, noCache bool) *track.Client {
	opts := []track.Option{track.WithLogger(c.Logger)}
	if !noCache {
		dir := cfg.Cache.Dir
		if dir == "" {
			dir, _ = cacheDir()
		}
		if hc, err := httputil.NewCache(dir, cfg.Cache.TTL()); err == nil {
			opts = append(opts, track.WithCache(hc))
		}
	}
	return track.NewClient(cfg.Service.URL, opts...)
}

// loadActivity resolves the render request for a command invocation: either
// a local JSON file (--file) or the activity service by id.
func (c *CLI) loadActivity(ctx context.Context, cfg Config, flags activityFlags, activityID string) (card.RenderRequest, error) {
	var activity track.Activity

	switch {
	case flags.file != "":
		data, err := os.ReadFile(flags.file)
		if err != nil {
			return card.RenderRequest{}, fmt.Errorf("read activity file: %w", err)
		}
		if err := json.Unmarshal(data, &activity); err != nil {
			return card.RenderRequest{}, fmt.Errorf("parse activity file: %w", err)
		}
		if activity.ID == "" {
			activity.ID = activityID
		}
	case activityID != "":
		var err error
		activity, err = c.newTrackClient(cfg, flags.noCache).Activity(ctx, activityID, flags.refresh)
		if err != nil {
			return card.RenderRequest{}, err
		}
	default:
		return card.RenderRequest{}, errors.New(errors.ErrCodeInvalidRequest,
			"an activity id or --file is required")
	}

	req := activity.RenderRequest()
	if flags.backdrop != "" {
		data, err := os.ReadFile(flags.backdrop)
		if err != nil {
			return card.RenderRequest{}, fmt.Errorf("read backdrop: %w", err)
		}
		req.Backdrop = data
	}
	return req, nil
}

// newExporter assembles the export pipeline from config and flags.
func (c *CLI) newExporter(cmd *cobra.Command, cfg Config, flags activityFlags, extra ...export.ExporterOption) (*export.Exporter, error) {
	logger := loggerFromContext(cmd.Context())
	renderOpts := []card.Option{card.WithLogger(logger)}
	if cfg.App.Font != "" {
		renderOpts = append(renderOpts, card.WithFont(cfg.App.Font))
	}
	renderer := card.NewRenderer(renderOpts...)

	outDir := flags.out
	if outDir == "" {
		outDir = cfg.App.OutputDir
	}

	artifacts, err := newArtifactCache(cmd, cfg, flags.noCache)
	if err != nil {
		return nil, err
	}

	opts := []export.ExporterOption{
		export.WithSaver(export.DirSaver{Dir: outDir}),
		export.WithTracker(c.newTrackClient(cfg, flags.noCache)),
		export.WithClipboard(systemClipboard{}),
		export.WithNotifier(cliNotifier{}),
		export.WithAppName(cfg.App.Name),
		export.WithArtifactCache(artifacts, cacheKeyer),
		export.WithExportLogger(logger),
	}
	opts = append(opts, extra...)
	return export.NewExporter(renderer, opts...), nil
}

// cliNotifier maps export notifications to styled terminal output.
type cliNotifier struct{}

func (cliNotifier) Notify(_ context.Context, kind export.NotificationKind, message string) {
	switch kind {
	case export.NoticeSuccess:
		printSuccess("%s", message)
	case export.NoticeWarning:
		printWarning("%s", message)
	case export.NoticeError:
		printError("%s", message)
	default:
		printInfo("%s", message)
	}
}
