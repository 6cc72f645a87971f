package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ErrTemplateLoad marks a fatal load failure: the template asset is missing,
// unreadable or not a valid PDF. There is no fallback template.
var ErrTemplateLoad = errors.New("template load failed")

// ErrSerialize marks a fatal failure while writing the filled document.
var ErrSerialize = errors.New("document serialize failed")

// FieldKind is the closed set of form-field kinds the renderer handles,
// determined once at template load from the AcroForm metadata.
type FieldKind int

const (
	KindText FieldKind = iota
	KindCheckbox
	KindRadioGroup
)

// String returns the lowercase kind name for diagnostics.
func (k FieldKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindCheckbox:
		return "checkbox"
	case KindRadioGroup:
		return "radiogroup"
	}
	return "unknown"
}

// Rect is a widget rectangle in PDF user-space units.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Field is one interactive form field of the loaded template.
type Field struct {
	Name string
	Kind FieldKind

	// Page is the 1-based page carrying the field's widget. Defaults to 1
	// when the widget's page reference cannot be resolved.
	Page int

	// Rect is the widget geometry, nil when the field has no widget.
	Rect *Rect

	dict types.Dict

	// onState is the checked-state export name of a checkbox, resolved from
	// the widget's appearance dictionary at load time.
	onState types.Name
}

// Template is a loaded form template. It owns a private pdfcpu context, so a
// Template must not be shared between concurrent renders; load one per call.
type Template struct {
	ctx    *model.Context
	fields map[string]*Field
}

// LoadTemplate parses template bytes and builds the field table. Any parse
// failure is fatal and wrapped in ErrTemplateLoad.
func LoadTemplate(data []byte) (*Template, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty template", ErrTemplateLoad)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateLoad, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateLoad, err)
	}

	t := &Template{
		ctx:    ctx,
		fields: make(map[string]*Field),
	}
	if err := t.indexFields(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateLoad, err)
	}
	t.requestAppearanceRegeneration()

	return t, nil
}

// indexFields walks the AcroForm Fields array and records name, kind, page
// and widget geometry per field. A template without an AcroForm is legal;
// every later assignment simply misses.
func (t *Template) indexFields() error {
	acroForm, err := t.acroFormDict()
	if err != nil || acroForm == nil {
		return err
	}

	fieldsObj, found := acroForm.Find("Fields")
	if !found {
		return nil
	}
	fieldsArr, err := t.ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return fmt.Errorf("dereferencing Fields array: %w", err)
	}

	for _, ref := range fieldsArr {
		f, err := t.indexField(ref)
		if err != nil || f == nil {
			// A single malformed field entry must not sink the template.
			continue
		}
		t.fields[f.Name] = f
	}
	return nil
}

func (t *Template) acroFormDict() (types.Dict, error) {
	rootDict, err := t.ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return nil, nil
	}
	acroForm, err := t.ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, fmt.Errorf("dereferencing AcroForm: %w", err)
	}
	return acroForm, nil
}

func (t *Template) indexField(fieldObj types.Object) (*Field, error) {
	dict, err := t.ctx.DereferenceDict(fieldObj)
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, nil
	}

	f := &Field{dict: dict, Page: 1}

	if nameObj, found := dict.Find("T"); found {
		if name, err := t.ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil {
			f.Name = name
		}
	}
	if f.Name == "" {
		return nil, nil
	}

	f.Kind = t.fieldKind(dict)
	if f.Kind == KindCheckbox {
		f.onState = t.widgetOnState(dict)
	}
	f.Rect = t.widgetRect(dict)
	if f.Rect != nil {
		f.Page = t.widgetPage(dict)
	}

	return f, nil
}

// fieldKind maps the FT entry (inherited through Parent when absent) onto the
// closed kind set. Choice and unknown types are treated as text so a string
// value still lands somewhere sensible.
func (t *Template) fieldKind(dict types.Dict) FieldKind {
	ftObj, found := dict.Find("FT")
	if !found {
		if parentObj, ok := dict.Find("Parent"); ok {
			if parent, err := t.ctx.DereferenceDict(parentObj); err == nil && parent != nil {
				return t.fieldKind(parent)
			}
		}
		return KindText
	}

	ftName, err := t.ctx.DereferenceName(ftObj, model.V10, nil)
	if err != nil {
		return KindText
	}

	switch ftName {
	case "Btn":
		if flagsObj, ok := dict.Find("Ff"); ok {
			if flags, err := t.ctx.DereferenceInteger(flagsObj); err == nil && flags != nil {
				if (*flags & (1 << 15)) != 0 { // radio flag
					return KindRadioGroup
				}
			}
		}
		return KindCheckbox
	default:
		return KindText
	}
}

// widgetOnState resolves the checked-state name of a checkbox from the
// appearance dictionary's /N keys: the template author picks the export name
// ("Yes", "On", ...), so it cannot be assumed. Falls back to "Yes" when no
// appearance dictionary names one.
func (t *Template) widgetOnState(dict types.Dict) types.Name {
	widgets := []types.Dict{dict}
	if kidsObj, found := dict.Find("Kids"); found {
		if kids, err := t.ctx.DereferenceArray(kidsObj); err == nil {
			for _, k := range kids {
				if kid, err := t.ctx.DereferenceDict(k); err == nil && kid != nil {
					widgets = append(widgets, kid)
				}
			}
		}
	}

	for _, w := range widgets {
		apObj, found := w.Find("AP")
		if !found {
			continue
		}
		ap, err := t.ctx.DereferenceDict(apObj)
		if err != nil || ap == nil {
			continue
		}
		nObj, found := ap.Find("N")
		if !found {
			continue
		}
		states, err := t.ctx.DereferenceDict(nObj)
		if err != nil || states == nil {
			continue
		}
		for name := range states {
			if name != "Off" {
				return types.Name(name)
			}
		}
	}
	return "Yes"
}

// widgetRect reads the widget rectangle from the field dict itself (merged
// widget) or from its first kid.
func (t *Template) widgetRect(dict types.Dict) *Rect {
	if rectObj, found := dict.Find("Rect"); found {
		if r := t.parseRect(rectObj); r != nil {
			return r
		}
	}
	if kidsObj, found := dict.Find("Kids"); found {
		if kids, err := t.ctx.DereferenceArray(kidsObj); err == nil && len(kids) > 0 {
			if kid, err := t.ctx.DereferenceDict(kids[0]); err == nil && kid != nil {
				if rectObj, found := kid.Find("Rect"); found {
					return t.parseRect(rectObj)
				}
			}
		}
	}
	return nil
}

func (t *Template) parseRect(rectObj types.Object) *Rect {
	arr, err := t.ctx.DereferenceArray(rectObj)
	if err != nil || len(arr) != 4 {
		return nil
	}
	coords := make([]float64, 4)
	for i, c := range arr {
		f, err := t.ctx.DereferenceNumber(c)
		if err != nil {
			return nil
		}
		coords[i] = f
	}
	return &Rect{
		X:      coords[0],
		Y:      coords[1],
		Width:  coords[2] - coords[0],
		Height: coords[3] - coords[1],
	}
}

// widgetPage resolves the widget's P reference against the page tree.
// Falls back to page 1 when the reference is absent or unmatched.
func (t *Template) widgetPage(dict types.Dict) int {
	pObj, found := dict.Find("P")
	if !found {
		if kidsObj, ok := dict.Find("Kids"); ok {
			if kids, err := t.ctx.DereferenceArray(kidsObj); err == nil && len(kids) > 0 {
				if kid, err := t.ctx.DereferenceDict(kids[0]); err == nil && kid != nil {
					pObj, found = kid.Find("P")
				}
			}
		}
	}
	if !found {
		return 1
	}
	pRef, ok := pObj.(types.IndirectRef)
	if !ok {
		return 1
	}

	for i := 1; i <= t.ctx.PageCount; i++ {
		pageRef, err := t.ctx.PageDictIndRef(i)
		if err != nil || pageRef == nil {
			continue
		}
		if pageRef.ObjectNumber == pRef.ObjectNumber {
			return i
		}
	}
	return 1
}

// requestAppearanceRegeneration flags the AcroForm so viewers rebuild field
// appearance streams for the values written here.
func (t *Template) requestAppearanceRegeneration() {
	acroForm, err := t.acroFormDict()
	if err != nil || acroForm == nil {
		return
	}
	acroForm["NeedAppearances"] = types.Boolean(true)
}

// Field returns the field table entry for an exact template field name.
func (t *Template) Field(name string) (*Field, bool) {
	f, ok := t.fields[name]
	return f, ok
}

// FieldNames returns the names of all indexed fields.
func (t *Template) FieldNames() []string {
	names := make([]string, 0, len(t.fields))
	for name := range t.fields {
		names = append(names, name)
	}
	return names
}

// PageCount returns the number of pages in the template.
func (t *Template) PageCount() int {
	return t.ctx.PageCount
}

// Apply writes a value to the named field if it exists, dispatching on the
// field kind recorded at load time. Text-capable fields receive the string as
// is; checkboxes check only on a case-insensitive "true"; radio groups select
// the export value named by a non-empty string. Returns false when the field
// does not exist.
func (t *Template) Apply(name, value string) bool {
	f, ok := t.fields[name]
	if !ok {
		return false
	}

	switch f.Kind {
	case KindCheckbox:
		t.setCheckState(f, strings.EqualFold(value, "true"))
	case KindRadioGroup:
		if value == "" {
			t.setCheckState(f, false)
		} else {
			f.dict["V"] = types.Name(value)
			f.dict["AS"] = types.Name(value)
		}
	default:
		t.setText(f, value)
	}
	return true
}

func (t *Template) setText(f *Field, value string) {
	escaped, err := types.Escape(value)
	if err != nil || escaped == nil {
		s := value
		escaped = &s
	}
	f.dict["V"] = types.StringLiteral(*escaped)
}

func (t *Template) setCheckState(f *Field, on bool) {
	state := types.Name("Off")
	if on {
		state = f.onState
		if state == "" {
			state = "Yes"
		}
	}
	f.dict["V"] = state
	f.dict["AS"] = state
}

// ClearValue removes any value from the named field, so no text renders on
// top of an embedded image. Missing fields are ignored.
func (t *Template) ClearValue(name string) {
	f, ok := t.fields[name]
	if !ok {
		return
	}
	delete(f.dict, "V")
	if f.Kind != KindText {
		f.dict["AS"] = types.Name("Off")
	}
}

// FieldValue reads back the current value of a field: the literal string for
// text fields, the selected state name for buttons. The second return is
// false when the field does not exist or carries no value.
func (t *Template) FieldValue(name string) (string, bool) {
	f, ok := t.fields[name]
	if !ok {
		return "", false
	}
	vObj, found := f.dict.Find("V")
	if !found {
		return "", false
	}

	switch f.Kind {
	case KindCheckbox, KindRadioGroup:
		if n, err := t.ctx.DereferenceName(vObj, model.V10, nil); err == nil {
			return string(n), true
		}
	default:
		if s, err := t.ctx.DereferenceStringOrHexLiteral(vObj, model.V10, nil); err == nil {
			return s, true
		}
	}
	return "", false
}

// Serialize writes the (possibly modified) document to a complete in-memory
// byte sequence. Failures are fatal and wrapped in ErrSerialize.
func (t *Template) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := api.WriteContext(t.ctx, &buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return buf.Bytes(), nil
}
