// Package export implements the single-asset and pack export flows.
//
// An Exporter drives one export at a time: render the card, hand the bytes
// to a save or share capability, then report the share event. Capabilities
// are injected; anything not provided degrades gracefully (no clipboard
// means no caption copy, no sharer means share falls back to download).
package export

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kestrelhq/sharecard/pkg/cache"
	"github.com/kestrelhq/sharecard/pkg/card"
	"github.com/kestrelhq/sharecard/pkg/errors"
	"github.com/kestrelhq/sharecard/pkg/observability"
	"github.com/kestrelhq/sharecard/pkg/template"
	"github.com/kestrelhq/sharecard/pkg/track"
)

// State is the exporter's lifecycle phase. Exactly one export runs at a
// time; starting another while busy fails with BUSY.
type State string

const (
	StateIdle        State = "idle"
	StateRendering   State = "rendering"
	StateDownloading State = "downloading"
	StateSharing     State = "sharing"
)

// defaultPackDelay paces sequential pack downloads so a burst of file
// writes does not overwhelm the receiving side.
const defaultPackDelay = 300 * time.Millisecond

// trackTimeout bounds the best-effort share beacon.
const trackTimeout = 5 * time.Second

// Exporter coordinates render, save, share, and tracking for one export
// at a time.
type Exporter struct {
	renderer  Renderer
	saver     Saver
	sharer    Sharer
	clipboard Clipboard
	notifier  Notifier
	tracker   Tracker

	artifacts cache.Cache
	keyer     cache.Keyer

	appName   string
	packDelay time.Duration
	pause     func(ctx context.Context, d time.Duration)
	onItem    func(platformID string, err error)
	logger    *log.Logger

	beacons sync.WaitGroup

	mu    sync.Mutex
	state State
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithSaver sets the download destination.
func WithSaver(s Saver) ExporterOption {
	return func(e *Exporter) { e.saver = s }
}

// WithSharer enables the native share flow.
func WithSharer(s Sharer) ExporterOption {
	return func(e *Exporter) { e.sharer = s }
}

// WithClipboard enables best-effort caption copying.
func WithClipboard(c Clipboard) ExporterOption {
	return func(e *Exporter) { e.clipboard = c }
}

// WithNotifier sets the user-facing notification sink.
func WithNotifier(n Notifier) ExporterOption {
	return func(e *Exporter) { e.notifier = n }
}

// WithTracker enables share event reporting.
func WithTracker(t Tracker) ExporterOption {
	return func(e *Exporter) { e.tracker = t }
}

// WithArtifactCache caches rendered bytes keyed by content hash, platform,
// format, and scale, so re-exporting unchanged content skips rasterization.
func WithArtifactCache(c cache.Cache, k cache.Keyer) ExporterOption {
	return func(e *Exporter) {
		e.artifacts = c
		e.keyer = k
	}
}

// WithAppName sets the filename prefix (default "sharecard").
func WithAppName(name string) ExporterOption {
	return func(e *Exporter) {
		if name != "" {
			e.appName = name
		}
	}
}

// WithPackDelay overrides the pause between sequential pack downloads.
func WithPackDelay(d time.Duration) ExporterOption {
	return func(e *Exporter) {
		if d >= 0 {
			e.packDelay = d
		}
	}
}

// WithOnItem registers a per-platform callback invoked after each pack item
// finishes, with a nil error on success. Progress UIs hang off this.
func WithOnItem(fn func(platformID string, err error)) ExporterOption {
	return func(e *Exporter) { e.onItem = fn }
}

// WithExportLogger sets the exporter's logger.
func WithExportLogger(l *log.Logger) ExporterOption {
	return func(e *Exporter) { e.logger = l }
}

// NewExporter creates an Exporter around a renderer.
func NewExporter(r Renderer, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		renderer:  r,
		notifier:  NopNotifier{},
		appName:   "sharecard",
		packDelay: defaultPackDelay,
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
		state:     StateIdle,
	}
	e.pause = func(ctx context.Context, d time.Duration) {
		select {
		case <-ctx.Done():
		case <-time.After(d):
		}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the exporter's current phase.
func (e *Exporter) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// begin transitions Idle into the given phase, or fails with BUSY.
func (e *Exporter) begin(s State) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateIdle {
		return errors.New(errors.ErrCodeBusy, "export already in progress (%s)", e.state)
	}
	e.state = s
	return nil
}

func (e *Exporter) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

func (e *Exporter) finish() {
	e.setState(StateIdle)
}

// renderCached renders the card, consulting the artifact cache when one is
// configured.
func (e *Exporter) renderCached(ctx context.Context, req card.RenderRequest, tpl template.PlatformTemplate, format string) ([]byte, error) {
	var key string
	if e.artifacts != nil {
		key = e.keyer.ArtifactKey(req.ContentHash(), cache.ArtifactKeyOpts{
			PlatformID: tpl.ID,
			Format:     format,
			Scale:      card.DefaultScale,
		})
		if data, hit, err := e.artifacts.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	data, err := e.renderer.Render(ctx, req, tpl, format)
	if err != nil {
		return nil, err
	}

	if e.artifacts != nil {
		if err := e.artifacts.Set(ctx, key, data, 0); err != nil {
			e.logger.Debug("artifact cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return data, nil
}

// trackBestEffort fires a share beacon in the background and swallows any
// failure; tracking must never block or change an export's outcome. Close
// drains in-flight beacons.
func (e *Exporter) trackBestEffort(activityID string, event track.ShareEvent) {
	if e.tracker == nil {
		return
	}
	e.beacons.Add(1)
	go func() {
		defer e.beacons.Done()
		ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		defer cancel()
		if err := e.tracker.TrackShare(ctx, activityID, event); err != nil {
			e.logger.Warn("share tracking failed", "activity", activityID, "platform", event.Platform, "err", err)
		}
	}()
}

// Close waits for in-flight share beacons to finish. Call once after the
// last export.
func (e *Exporter) Close() {
	e.beacons.Wait()
}

// singleFilename names a single-asset export: <app>-<activity>-<platform>.<format>.
func (e *Exporter) singleFilename(activityID, platformID, format string) string {
	return fmt.Sprintf("%s-%s-%s.%s", e.appName, activityID, platformID, format)
}

// packFilename names a pack item: <app>-<platform>.<format>.
func (e *Exporter) packFilename(platformID, format string) string {
	return fmt.Sprintf("%s-%s.%s", e.appName, platformID, format)
}

// mimeFor maps an export format to its MIME type.
func mimeFor(format string) string {
	switch format {
	case template.FormatPNG:
		return "image/png"
	case template.FormatJPG:
		return "image/jpeg"
	case template.FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
