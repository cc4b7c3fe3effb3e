package export

import (
	"context"
	"time"

	"github.com/kestrelhq/sharecard/pkg/card"
	"github.com/kestrelhq/sharecard/pkg/errors"
	"github.com/kestrelhq/sharecard/pkg/observability"
	"github.com/kestrelhq/sharecard/pkg/template"
	"github.com/kestrelhq/sharecard/pkg/track"
)

// Outcome is the terminal result of a share flow.
type Outcome string

const (
	// OutcomeShared means the native share completed.
	OutcomeShared Outcome = "shared"

	// OutcomeCancelled means the user dismissed the share sheet. Not a
	// failure; no fallback runs.
	OutcomeCancelled Outcome = "cancelled"

	// OutcomeDownloaded means the asset was saved to disk, either directly
	// or as the fallback for an unavailable share surface.
	OutcomeDownloaded Outcome = "downloaded"
)

// Download renders one card and saves it as
// <app>-<activityID>-<platformID>.<format>, then reports the share event.
// It returns the saved path.
func (e *Exporter) Download(ctx context.Context, req card.RenderRequest, platformID, format string) (string, error) {
	tpl, err := template.Lookup(platformID)
	if err != nil {
		return "", err
	}
	if !tpl.SupportsFormat(format) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "platform %s does not export %s", platformID, format)
	}
	if e.saver == nil {
		return "", errors.New(errors.ErrCodeInternal, "no saver configured")
	}

	if err := e.begin(StateRendering); err != nil {
		return "", err
	}
	defer e.finish()

	start := time.Now()
	observability.Export().OnExportStart(ctx, "download", platformID, format)

	path, err := e.download(ctx, req, tpl, format)
	observability.Export().OnExportComplete(ctx, "download", platformID, format, time.Since(start), err)
	if err != nil {
		e.notifier.Notify(ctx, NoticeError, "Export failed: "+errors.UserMessage(err))
		return "", err
	}

	e.trackBestEffort(req.ActivityID, track.ShareEvent{Platform: platformID})
	e.notifier.Notify(ctx, NoticeSuccess, "Saved "+path)
	return path, nil
}

func (e *Exporter) download(ctx context.Context, req card.RenderRequest, tpl template.PlatformTemplate, format string) (string, error) {
	data, err := e.renderCached(ctx, req, tpl, format)
	if err != nil {
		return "", err
	}

	e.setState(StateDownloading)
	filename := e.singleFilename(req.ActivityID, tpl.ID, format)
	path, err := e.saver.Save(ctx, filename, data)
	if err != nil {
		return "", err
	}

	e.logger.Info("exported card", "platform", tpl.ID, "format", format, "path", path)
	return path, nil
}

// Share renders one card and hands it to the native share surface.
//
// PDF is substituted with JPG before sharing: share targets take images, and
// the recipient side of a share sheet rarely handles documents. The caption
// is copied to the clipboard first (best-effort) so it survives whatever the
// share target does with the text field.
//
// Outcomes:
//   - the share completes: OutcomeShared
//   - the user dismisses the sheet: OutcomeCancelled, nil error, no fallback
//   - the surface is missing or rejects the payload: the asset is saved to
//     disk instead and the flow reports OutcomeDownloaded
func (e *Exporter) Share(ctx context.Context, req card.RenderRequest, platformID, format, caption string) (Outcome, error) {
	tpl, err := template.Lookup(platformID)
	if err != nil {
		return "", err
	}

	// Share surfaces take images, not documents.
	if format == template.FormatPDF {
		format = template.FormatJPG
	}
	if !tpl.SupportsFormat(format) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "platform %s does not export %s", platformID, format)
	}

	if err := e.begin(StateRendering); err != nil {
		return "", err
	}
	defer e.finish()

	start := time.Now()
	observability.Export().OnExportStart(ctx, "share", platformID, format)

	outcome, err := e.share(ctx, req, tpl, format, caption)
	observability.Export().OnExportComplete(ctx, "share", platformID, format, time.Since(start), err)
	if err != nil {
		e.notifier.Notify(ctx, NoticeError, "Share failed: "+errors.UserMessage(err))
		return "", err
	}

	switch outcome {
	case OutcomeShared:
		e.trackBestEffort(req.ActivityID, track.ShareEvent{Platform: platformID})
		e.notifier.Notify(ctx, NoticeSuccess, "Shared to "+tpl.ID)
	case OutcomeDownloaded:
		e.trackBestEffort(req.ActivityID, track.ShareEvent{Platform: platformID})
		e.notifier.Notify(ctx, NoticeSuccess, "Sharing unavailable, saved instead")
	case OutcomeCancelled:
		// The user changed their mind. No notification, no tracking.
	}
	return outcome, nil
}

func (e *Exporter) share(ctx context.Context, req card.RenderRequest, tpl template.PlatformTemplate, format, caption string) (Outcome, error) {
	data, err := e.renderCached(ctx, req, tpl, format)
	if err != nil {
		return "", err
	}

	if caption != "" && e.clipboard != nil {
		if err := e.clipboard.WriteText(caption); err != nil {
			e.logger.Debug("clipboard write failed", "err", err)
		}
	}

	shareReq := ShareRequest{
		Title:    req.Title,
		Text:     caption,
		Filename: e.singleFilename(req.ActivityID, tpl.ID, format),
		MIMEType: mimeFor(format),
		Data:     data,
	}

	if e.sharer == nil || !e.sharer.CanShare(shareReq) {
		// Some surfaces reject file+text payloads but accept files alone.
		shareReq.Text = ""
		if e.sharer == nil || !e.sharer.CanShare(shareReq) {
			return e.fallbackDownload(ctx, shareReq)
		}
	}

	e.setState(StateSharing)
	switch err := e.sharer.Share(ctx, shareReq); {
	case err == nil:
		return OutcomeShared, nil
	case IsCancelled(err):
		e.logger.Debug("share cancelled", "platform", tpl.ID)
		return OutcomeCancelled, nil
	case IsUnsupported(err):
		return e.fallbackDownload(ctx, shareReq)
	default:
		return "", errors.Wrap(errors.ErrCodeInternal, err, "share %s", tpl.ID)
	}
}

// fallbackDownload saves the asset when no share surface can take it. With
// no saver either, the share is genuinely unsupported.
func (e *Exporter) fallbackDownload(ctx context.Context, shareReq ShareRequest) (Outcome, error) {
	if e.saver == nil {
		return "", errors.New(errors.ErrCodeShareUnsupported, "sharing is not available here")
	}
	e.setState(StateDownloading)
	path, err := e.saver.Save(ctx, shareReq.Filename, shareReq.Data)
	if err != nil {
		return "", err
	}
	e.logger.Info("share fell back to download", "path", path)
	return OutcomeDownloaded, nil
}
