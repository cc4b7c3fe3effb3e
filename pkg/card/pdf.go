package card

import (
	"bytes"

	"github.com/go-pdf/fpdf"

	"github.com/kestrelhq/sharecard/pkg/errors"
	"github.com/kestrelhq/sharecard/pkg/template"
)

// wrapPDF embeds a rendered PNG as the single full-bleed page of a PDF.
// The page is sized to the template's pixel dimensions interpreted as
// points, so the document keeps the platform's exact aspect ratio.
func wrapPDF(pngData []byte, tpl template.PlatformTemplate) ([]byte, error) {
	w := float64(tpl.Width)
	h := float64(tpl.Height)

	orientation := "P"
	if w > h {
		orientation = "L"
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("card", opts, bytes.NewReader(pngData))
	doc.ImageOptions("card", 0, 0, w, h, false, opts, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "write pdf for %s", tpl.ID)
	}
	return buf.Bytes(), nil
}
