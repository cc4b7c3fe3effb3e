package card

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/kestrelhq/sharecard/pkg/errors"
	"github.com/kestrelhq/sharecard/pkg/template"
)

// maxTasksOnCard caps the checklist length drawn on the card; the rest is
// summarized as a "+N more" line.
const maxTasksOnCard = 5

// gradientPalette holds the backdrop gradients used when no backdrop image
// is supplied. The category picks a pair deterministically.
var gradientPalette = [][2]color.RGBA{
	{{R: 0x6d, G: 0x28, B: 0xd9, A: 0xff}, {R: 0xdb, G: 0x27, B: 0x77, A: 0xff}}, // violet → pink
	{{R: 0x0e, G: 0xa5, B: 0xe9, A: 0xff}, {R: 0x63, G: 0x66, B: 0xf1, A: 0xff}}, // sky → indigo
	{{R: 0x05, G: 0x96, B: 0x69, A: 0xff}, {R: 0x0d, G: 0x94, B: 0x88, A: 0xff}}, // emerald → teal
	{{R: 0xea, G: 0x58, B: 0x0c, A: 0xff}, {R: 0xdc, G: 0x26, B: 0x26, A: 0xff}}, // orange → red
	{{R: 0x4f, G: 0x46, B: 0xe5, A: 0xff}, {R: 0x06, G: 0xb6, B: 0xd4, A: 0xff}}, // indigo → cyan
}

// priorityColors map task priorities to their marker colors.
var priorityColors = map[string]color.RGBA{
	"high":   {R: 0xef, G: 0x44, B: 0x44, A: 0xff},
	"medium": {R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff},
	"low":    {R: 0x22, G: 0xc5, B: 0x5e, A: 0xff},
}

// rasterize composes the card and returns the finished image at
// scale-multiplied device resolution.
func (r *Renderer) rasterize(req RenderRequest, tpl template.PlatformTemplate) (image.Image, error) {
	w := float64(tpl.Width) * r.scale
	h := float64(tpl.Height) * r.scale
	dc := gg.NewContext(int(w), int(h))

	if err := r.drawBackdrop(dc, req, w, h); err != nil {
		return nil, err
	}

	// Typography scales with the canvas so the same request composes
	// sensibly on a 1080x1920 story and a 1200x630 link card.
	margin := 0.07 * w
	y := margin

	y = r.drawCategoryBadge(dc, req.Category, margin, y, w)
	y = r.drawTitle(dc, req.Title, margin, y, w)
	y = r.drawSummary(dc, req.PlanSummary, margin, y, w, h)
	r.drawTasks(dc, req.Tasks, margin, y, w, h)
	r.drawFooter(dc, req, margin, w, h)

	return dc.Image(), nil
}

// drawBackdrop paints either the supplied backdrop image (cover-cropped to
// the canvas, behind a dark scrim for text legibility) or the category's
// gradient. A supplied but undecodable backdrop is an error, not a silent
// gradient fallback.
func (r *Renderer) drawBackdrop(dc *gg.Context, req RenderRequest, w, h float64) error {
	if len(req.Backdrop) == 0 {
		top, bottom := gradientFor(req.Category)
		grad := gg.NewLinearGradient(0, 0, 0, h)
		grad.AddColorStop(0, top)
		grad.AddColorStop(1, bottom)
		dc.SetFillStyle(grad)
		dc.DrawRectangle(0, 0, w, h)
		dc.Fill()
		return nil
	}

	img, err := imaging.Decode(bytes.NewReader(req.Backdrop))
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "decode backdrop for activity %s", req.ActivityID)
	}
	cover := imaging.Fill(img, int(w), int(h), imaging.Center, imaging.Lanczos)
	dc.DrawImage(cover, 0, 0)

	dc.SetRGBA(0, 0, 0, 0.45)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()
	return nil
}

func (r *Renderer) drawCategoryBadge(dc *gg.Context, category string, x, y, w float64) float64 {
	if category == "" {
		return y
	}
	label := strings.ToUpper(category)
	size := 0.024 * w
	r.loadFont(dc, size)

	tw, th := dc.MeasureString(label)
	padX, padY := 0.6*size, 0.45*size

	dc.SetRGBA(1, 1, 1, 0.22)
	dc.DrawRoundedRectangle(x, y, tw+2*padX, th+2*padY, (th+2*padY)/2)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(label, x+padX+tw/2, y+padY+th/2, 0.5, 0.5)

	return y + th + 2*padY + 0.035*w
}

func (r *Renderer) drawTitle(dc *gg.Context, title string, x, y, w float64) float64 {
	size := 0.062 * w
	r.loadFont(dc, size)

	width := w - 2*x
	dc.SetRGB(1, 1, 1)
	dc.DrawStringWrapped(title, x, y, 0, 0, width, 1.25, gg.AlignLeft)

	lines := dc.WordWrap(title, width)
	return y + float64(len(lines))*size*1.25 + 0.04*w
}

func (r *Renderer) drawSummary(dc *gg.Context, summary string, x, y, w, h float64) float64 {
	if summary == "" {
		return y
	}
	size := 0.028 * w
	r.loadFont(dc, size)

	width := w - 2*x
	dc.SetRGBA(1, 1, 1, 0.85)
	dc.DrawStringWrapped(summary, x, y, 0, 0, width, 1.35, gg.AlignLeft)

	lines := dc.WordWrap(summary, width)
	return y + float64(len(lines))*size*1.35 + 0.04*w
}

func (r *Renderer) drawTasks(dc *gg.Context, tasks []Task, x, y, w, h float64) {
	if len(tasks) == 0 {
		return
	}
	size := 0.03 * w
	lineHeight := size * 1.9
	marker := 0.38 * size
	footerBudget := 0.12 * h

	shown := tasks
	if len(shown) > maxTasksOnCard {
		shown = shown[:maxTasksOnCard]
	}

	r.loadFont(dc, size)
	for _, task := range shown {
		if y+lineHeight > h-footerBudget {
			break
		}
		cy := y + lineHeight/2

		mc, ok := priorityColors[strings.ToLower(task.Priority)]
		if !ok {
			mc = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
		}
		dc.SetColor(mc)
		if task.Completed {
			dc.DrawCircle(x+marker, cy, marker)
			dc.Fill()
		} else {
			dc.DrawCircle(x+marker, cy, marker)
			dc.SetLineWidth(0.12 * size)
			dc.Stroke()
		}

		if task.Completed {
			dc.SetRGBA(1, 1, 1, 0.65)
		} else {
			dc.SetRGB(1, 1, 1)
		}
		dc.DrawStringAnchored(task.Title, x+2.2*marker+0.5*size, cy, 0, 0.35)

		y += lineHeight
	}

	if rest := len(tasks) - len(shown); rest > 0 && y+lineHeight <= h-footerBudget {
		dc.SetRGBA(1, 1, 1, 0.6)
		dc.DrawStringAnchored(fmt.Sprintf("+%d more", rest), x, y+lineHeight/2, 0, 0.35)
	}
}

func (r *Renderer) drawFooter(dc *gg.Context, req RenderRequest, x, w, h float64) {
	size := 0.024 * w
	r.loadFont(dc, size)
	baseline := h - 0.05*h

	if attr := footerAttribution(req); attr != "" {
		dc.SetRGBA(1, 1, 1, 0.8)
		dc.DrawStringAnchored(attr, x, baseline, 0, 0.5)
	}

	dc.SetRGBA(1, 1, 1, 0.5)
	dc.DrawStringAnchored("sharecard", w-x, baseline, 1, 0.5)
}

func footerAttribution(req RenderRequest) string {
	switch {
	case req.CreatorHandle != "":
		return "by @" + strings.TrimPrefix(req.CreatorHandle, "@")
	case req.CreatorName != "":
		return "by " + req.CreatorName
	default:
		return ""
	}
}

// loadFont sets the drawing face at the given point size. Failure falls back
// to the context's built-in face; the card still renders.
func (r *Renderer) loadFont(dc *gg.Context, points float64) {
	if r.fontPath == "" {
		return
	}
	if err := dc.LoadFontFace(r.fontPath, points); err != nil {
		r.logger.Debug("font load failed, using built-in face", "path", r.fontPath, "err", err)
	}
}

// gradientFor picks the category's gradient pair deterministically.
func gradientFor(category string) (color.RGBA, color.RGBA) {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(category)))
	pair := gradientPalette[h.Sum32()%uint32(len(gradientPalette))]
	return pair[0], pair[1]
}
