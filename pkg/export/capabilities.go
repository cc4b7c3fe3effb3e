package export

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/kestrelhq/sharecard/pkg/card"
	"github.com/kestrelhq/sharecard/pkg/errors"
	"github.com/kestrelhq/sharecard/pkg/template"
	"github.com/kestrelhq/sharecard/pkg/track"
)

// Renderer produces encoded card bytes for a platform template.
// *card.Renderer is the production implementation.
type Renderer interface {
	Render(ctx context.Context, req card.RenderRequest, tpl template.PlatformTemplate, format string) ([]byte, error)
}

// NotificationKind classifies user-facing export notifications.
type NotificationKind string

const (
	NoticeSuccess NotificationKind = "success"
	NoticeWarning NotificationKind = "warning"
	NoticeError   NotificationKind = "error"
	NoticeInfo    NotificationKind = "info"
)

// Notifier surfaces export outcomes to the user. Implementations decide the
// medium (terminal line, toast, log entry).
type Notifier interface {
	Notify(ctx context.Context, kind NotificationKind, message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, NotificationKind, string) {}

// Saver persists a rendered asset under the given filename and returns the
// full path it was written to.
type Saver interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}

// DirSaver writes assets into a directory, creating it on first use.
type DirSaver struct {
	Dir string
}

func (s DirSaver) Save(_ context.Context, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "create output directory %s", s.Dir)
	}
	path := filepath.Join(s.Dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return path, nil
}

// ShareRequest is handed to a Sharer. Data holds the encoded asset;
// Text carries the caption when the target accepts files with text.
type ShareRequest struct {
	Title    string
	Text     string
	Filename string
	MIMEType string
	Data     []byte
}

// Sharer hands an asset to a native share surface.
//
// Share returns nil when the user completed a share, a SHARE_CANCELLED error
// when the user dismissed the sheet, and a SHARE_UNSUPPORTED error when the
// surface cannot take this payload. Any other error is a real failure.
type Sharer interface {
	CanShare(req ShareRequest) bool
	Share(ctx context.Context, req ShareRequest) error
}

// Clipboard writes caption text for manual pasting.
type Clipboard interface {
	WriteText(text string) error
}

// Tracker reports share events. *track.Client is the production
// implementation; export flows call it best-effort and swallow failures.
type Tracker interface {
	TrackShare(ctx context.Context, activityID string, event track.ShareEvent) error
}

// IsCancelled reports whether err represents a user-dismissed share sheet.
// Context cancellation counts: an aborted share is not a failure.
func IsCancelled(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, errors.ErrCodeShareCancelled) || stderrors.Is(err, context.Canceled)
}

// IsUnsupported reports whether err means the share surface cannot take the
// payload, which triggers the download fallback.
func IsUnsupported(err error) bool {
	return errors.Is(err, errors.ErrCodeShareUnsupported)
}
