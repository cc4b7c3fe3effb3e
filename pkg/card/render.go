package card

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kestrelhq/sharecard/pkg/errors"
	"github.com/kestrelhq/sharecard/pkg/observability"
	"github.com/kestrelhq/sharecard/pkg/template"
)

// Renderer rasterizes share cards. Create one with NewRenderer and reuse it;
// renders are serialized internally (the canvas is exclusively owned).
type Renderer struct {
	scale    float64
	fontPath string
	logger   *log.Logger
	mu       sync.Mutex
}

// Render composes the card described by req on a canvas sized to tpl and
// encodes it in the given format.
//
// The returned slice is complete: any failure during composition or encoding
// surfaces as a RENDER_FAILED error and no bytes are returned.
func (r *Renderer) Render(ctx context.Context, req RenderRequest, tpl template.PlatformTemplate, format string) ([]byte, error) {
	if err := template.ValidateFormat(format); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", tpl.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	observability.Render().OnRenderStart(ctx, tpl.ID, format)

	data, err := r.render(req, tpl, format)
	observability.Render().OnRenderComplete(ctx, tpl.ID, format, len(data), time.Since(start), err)
	if err != nil {
		r.logger.Error("render failed", "platform", tpl.ID, "format", format, "err", err)
		return nil, err
	}

	r.logger.Debug("rendered card", "platform", tpl.ID, "format", format,
		"bytes", len(data), "elapsed", time.Since(start).Round(time.Millisecond))
	return data, nil
}

func (r *Renderer) render(req RenderRequest, tpl template.PlatformTemplate, format string) ([]byte, error) {
	img, err := r.rasterize(req, tpl)
	if err != nil {
		return nil, err
	}

	switch format {
	case template.FormatPNG:
		return encodePNG(img, tpl.ID)
	case template.FormatJPG:
		return encodeJPEG(img, tpl.ID)
	case template.FormatPDF:
		data, err := encodePNG(img, tpl.ID)
		if err != nil {
			return nil, err
		}
		return wrapPDF(data, tpl)
	default:
		// Unreachable: ValidateFormat runs first.
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
}

func encodePNG(img image.Image, platformID string) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode png for %s", platformID)
	}
	return buf.Bytes(), nil
}

func encodeJPEG(img image.Image, platformID string) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode jpeg for %s", platformID)
	}
	return buf.Bytes(), nil
}
