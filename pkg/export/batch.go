package export

import (
	"context"
	"fmt"
	"time"

	"github.com/kestrelhq/sharecard/pkg/card"
	"github.com/kestrelhq/sharecard/pkg/errors"
	"github.com/kestrelhq/sharecard/pkg/observability"
	"github.com/kestrelhq/sharecard/pkg/template"
	"github.com/kestrelhq/sharecard/pkg/track"
)

// BatchReport summarizes a pack export.
type BatchReport struct {
	PackID          string
	TotalRequested  int
	Succeeded       int
	FailedPlatforms []string
	SavedPaths      []string
}

// AllSucceeded reports whether every requested platform exported.
func (r BatchReport) AllSucceeded() bool {
	return r.Succeeded == r.TotalRequested
}

// AllFailed reports whether no platform exported.
func (r BatchReport) AllFailed() bool {
	return r.Succeeded == 0
}

// ExportPack downloads one card per platform in the pack, sequentially.
//
// Each item renders at the platform's recommended format and saves as
// <app>-<platformID>.<format>. A failing platform is recorded and the batch
// moves on; one bad template never sinks the rest. Items are paced with a
// short delay, skipped after the last one. Context cancellation stops the
// batch; platforms not yet attempted are not counted as failures.
//
// One aggregated share event (pack ID, success count) is reported when at
// least one item succeeded, and exactly one summary notification fires:
// all succeeded, partial, or all failed.
func (e *Exporter) ExportPack(ctx context.Context, req card.RenderRequest, packID string) (BatchReport, error) {
	pack, err := template.LookupPack(packID)
	if err != nil {
		return BatchReport{}, err
	}
	if e.saver == nil {
		return BatchReport{}, errors.New(errors.ErrCodeInternal, "no saver configured")
	}

	if err := e.begin(StateRendering); err != nil {
		return BatchReport{}, err
	}
	defer e.finish()

	report := BatchReport{
		PackID:         pack.ID,
		TotalRequested: len(pack.Platforms),
	}

	start := time.Now()
	for i, platformID := range pack.Platforms {
		if ctx.Err() != nil {
			break
		}

		path, err := e.exportPackItem(ctx, req, platformID)
		if err != nil {
			e.logger.Warn("pack item failed", "pack", pack.ID, "platform", platformID, "err", err)
			report.FailedPlatforms = append(report.FailedPlatforms, platformID)
		} else {
			report.Succeeded++
			report.SavedPaths = append(report.SavedPaths, path)
		}
		if e.onItem != nil {
			e.onItem(platformID, err)
		}

		if i < len(pack.Platforms)-1 && e.packDelay > 0 {
			e.pause(ctx, e.packDelay)
		}
	}

	observability.Export().OnBatchComplete(ctx, pack.ID, report.TotalRequested, report.Succeeded, time.Since(start))

	if report.Succeeded > 0 {
		e.trackBestEffort(req.ActivityID, track.ShareEvent{Platform: pack.ID, Count: report.Succeeded})
	}
	if err := ctx.Err(); err != nil {
		return report, errors.Wrap(errors.ErrCodeTimeout, err, "pack export interrupted")
	}
	e.notifyBatch(ctx, pack, report)
	return report, nil
}

func (e *Exporter) exportPackItem(ctx context.Context, req card.RenderRequest, platformID string) (string, error) {
	tpl, err := template.Lookup(platformID)
	if err != nil {
		return "", err
	}
	format := tpl.RecommendedFormat()

	data, err := e.renderCached(ctx, req, tpl, format)
	if err != nil {
		return "", err
	}
	return e.saver.Save(ctx, e.packFilename(tpl.ID, format), data)
}

// notifyBatch emits exactly one summary notification per batch.
func (e *Exporter) notifyBatch(ctx context.Context, pack template.PlatformPack, report BatchReport) {
	switch {
	case report.AllSucceeded():
		e.notifier.Notify(ctx, NoticeSuccess,
			fmt.Sprintf("Exported all %d cards from %s", report.TotalRequested, pack.DisplayName))
	case report.AllFailed():
		e.notifier.Notify(ctx, NoticeError,
			fmt.Sprintf("Could not export %s", pack.DisplayName))
	default:
		e.notifier.Notify(ctx, NoticeInfo,
			fmt.Sprintf("Exported %d of %d cards from %s", report.Succeeded, report.TotalRequested, pack.DisplayName))
	}
}
