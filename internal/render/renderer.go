// Package render produces a filled public-offer PDF from an application
// snapshot and a fixed AcroForm template. The pipeline is linear: load the
// template, populate fields under a tolerant name-resolution policy, embed
// signature and receipt images at widget geometry, finalize, serialize.
//
// Exactly two outcomes exist: a complete byte buffer, or a fatal error naming
// the failed stage. Everything between those — an unresolved field name, an
// unsupported image source, a fetch or decode failure, a finalize failure —
// is absorbed and logged; a best-effort document beats no document.
package render

import (
	"time"

	"go.uber.org/zap"

	"github.com/apelng/offerintake/internal/model"
)

// Renderer renders applications against one immutable template byte buffer.
// Each Render call loads its own template instance, so a single Renderer is
// safe for concurrent use.
type Renderer struct {
	template []byte
	fetcher  ImageFetcher
	logger   *zap.Logger
	now      func() time.Time
}

// NewRenderer builds a renderer over template bytes. fetcher may be nil, in
// which case remote image references are skipped.
func NewRenderer(template []byte, fetcher ImageFetcher, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		template: template,
		fetcher:  fetcher,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the application-date clock. Test hook.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

// Render produces the filled document for one application snapshot.
func (r *Renderer) Render(app *model.Application) ([]byte, error) {
	t, err := LoadTemplate(r.template)
	if err != nil {
		return nil, err
	}

	for _, a := range PlanFields(app, r.now()) {
		if !Resolve(t, a) {
			r.logger.Debug("no template field for attribute",
				zap.Strings("candidates", a.Candidates))
		}
	}

	embeds := r.collectEmbeds(t, app)

	doc, err := t.Serialize()
	if err != nil {
		return nil, err
	}

	for _, e := range embeds {
		stamped, err := applyEmbed(doc, e)
		if err != nil {
			r.logger.Warn("image embedding skipped",
				zap.String("field", e.field), zap.Error(err))
			continue
		}
		doc = stamped
	}

	if locked, err := lockForm(doc); err != nil {
		r.logger.Warn("form finalize failed, serving editable document", zap.Error(err))
	} else {
		doc = locked
	}

	return doc, nil
}

// collectEmbeds resolves the signature and payment-receipt artifacts into
// pending placements and clears any text value on their target fields. Every
// failure here degrades to "no image".
func (r *Renderer) collectEmbeds(t *Template, app *model.Application) []embed {
	var embeds []embed

	artifacts := []struct {
		source     string
		candidates []string
	}{
		{app.Signature(), signatureCandidates(app.AccountType)},
		{app.PaymentReceipt, receiptCandidates()},
	}

	for _, art := range artifacts {
		if art.source == "" {
			continue
		}

		data, err := ResolveImage(art.source, r.fetcher)
		if err != nil {
			r.logger.Warn("artifact image unresolved",
				zap.Strings("candidates", art.candidates), zap.Error(err))
			continue
		}
		if data == nil {
			// Unrecognized source encoding: not an error, just no image.
			continue
		}
		if SniffFormat(data) == FormatUnknown {
			r.logger.Warn("artifact image format unsupported",
				zap.Strings("candidates", art.candidates))
			continue
		}

		field := r.resolveWidget(t, art.candidates)
		if field == nil {
			continue
		}

		t.ClearValue(field.Name)
		embeds = append(embeds, embed{
			field: field.Name,
			page:  field.Page,
			rect:  *field.Rect,
			data:  data,
		})
	}

	return embeds
}

// resolveWidget finds the first candidate field that exists and carries
// widget geometry. Same fallback-chain policy as text resolution.
func (r *Renderer) resolveWidget(t *Template, candidates []string) *Field {
	for _, name := range candidates {
		if f, ok := t.Field(name); ok {
			if f.Rect == nil {
				r.logger.Debug("field has no widget geometry", zap.String("field", name))
				continue
			}
			return f
		}
	}
	return nil
}
