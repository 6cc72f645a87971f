package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// embed is one pending image placement: raster bytes scaled into a widget
// rectangle on a template page.
type embed struct {
	field string
	page  int
	rect  Rect
	data  []byte
}

// applyEmbed stamps the image onto the serialized document at the widget
// rectangle. The image is scaled uniformly to fit inside the rectangle and
// anchored at its lower-left corner; no other page content is altered.
func applyEmbed(doc []byte, e embed) ([]byte, error) {
	w, h, err := imageSize(e.data)
	if err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 || e.rect.Width <= 0 || e.rect.Height <= 0 {
		return nil, fmt.Errorf("degenerate geometry for field %q", e.field)
	}

	scale := e.rect.Width / float64(w)
	if s := e.rect.Height / float64(h); s < scale {
		scale = s
	}

	desc := fmt.Sprintf("pos:bl, off:%.2f %.2f, scalefactor:%.4f abs, rot:0, op:1",
		e.rect.X, e.rect.Y, scale)

	wm, err := api.ImageWatermarkForReader(bytes.NewReader(e.data), desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("building image stamp: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var buf bytes.Buffer
	pages := []string{strconv.Itoa(e.page)}
	if err := api.AddWatermarks(bytes.NewReader(doc), &buf, pages, wm, conf); err != nil {
		return nil, fmt.Errorf("stamping page %d: %w", e.page, err)
	}
	return buf.Bytes(), nil
}

// lockForm makes every interactive field read-only so the filled document
// cannot be casually re-edited. Best effort: callers keep the unlocked
// document when this fails.
func lockForm(doc []byte) ([]byte, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var buf bytes.Buffer
	if err := api.LockFormFields(bytes.NewReader(doc), &buf, nil, conf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
