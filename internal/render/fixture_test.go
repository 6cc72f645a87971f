package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

// fixtureField describes one widget in a handcrafted template fixture.
type fixtureField struct {
	name    string
	ft      string // "Tx" or "Btn"
	rect    [4]float64
	flags   int
	onState string // checkbox appearance on-state, empty for no /AP entry
}

func textField(name string, rect [4]float64) fixtureField {
	return fixtureField{name: name, ft: "Tx", rect: rect}
}

func checkboxField(name string, rect [4]float64) fixtureField {
	return fixtureField{name: name, ft: "Btn", rect: rect}
}

func checkboxFieldWithOnState(name string, rect [4]float64, onState string) fixtureField {
	return fixtureField{name: name, ft: "Btn", rect: rect, onState: onState}
}

// buildFormPDF assembles a minimal single-page AcroForm PDF with the given
// widgets, computing the cross-reference table by hand so the result is a
// well-formed document.
func buildFormPDF(t *testing.T, fields []fixtureField) []byte {
	t.Helper()

	refs := make([]string, len(fields))
	for i := range fields {
		refs[i] = fmt.Sprintf("%d 0 R", 4+i)
	}
	refList := strings.Join(refs, " ")

	objs := []string{
		fmt.Sprintf("<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [%s] /DA (/Helv 0 Tf 0 g) >> >>", refList),
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Annots [%s] >>", refList),
	}
	for _, f := range fields {
		b := fmt.Sprintf("<< /Type /Annot /Subtype /Widget /FT /%s /T (%s) /Rect [%.1f %.1f %.1f %.1f] /P 3 0 R /F 4",
			f.ft, f.name, f.rect[0], f.rect[1], f.rect[2], f.rect[3])
		if f.ft == "Btn" {
			b += " /V /Off /AS /Off"
			if f.onState != "" {
				b += fmt.Sprintf(" /AP << /N << /%s null /Off null >> >>", f.onState)
			}
		} else {
			b += " /DA (/Helv 0 Tf 0 g)"
		}
		if f.flags != 0 {
			b += fmt.Sprintf(" /Ff %d", f.flags)
		}
		b += " >>"
		objs = append(objs, b)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objs)+1)
	for i, body := range objs {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objs); i++ {
		fmt.Fprintf(&buf, "%010d %05d n \n", offsets[i], 0)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objs)+1, xrefPos)

	return buf.Bytes()
}

// offerFixtureFields mirrors the shape of the production template closely
// enough to exercise resolution, checkbox groups and signature geometry.
func offerFixtureFields() []fixtureField {
	return []fixtureField{
		textField("surname", [4]float64{100, 700, 300, 720}),
		textField("first_name", [4]float64{310, 700, 500, 720}),
		textField("shares_applied", [4]float64{100, 660, 250, 680}),
		textField("amount_payable", [4]float64{260, 660, 400, 680}),
		textField("date", [4]float64{410, 660, 540, 680}),
		textField("individual_signature", [4]float64{100, 100, 280, 160}),
		textField("corporate_signature", [4]float64{300, 100, 480, 160}),
		checkboxField("MR", [4]float64{100, 630, 115, 645}),
		checkboxField("MRS", [4]float64{130, 630, 145, 645}),
		checkboxField("MISS", [4]float64{160, 630, 175, 645}),
		checkboxField("OTHERS", [4]float64{190, 630, 205, 645}),
		checkboxField("INDIVIDUAL", [4]float64{100, 600, 115, 615}),
		checkboxField("CORPORATE", [4]float64{130, 600, 145, 615}),
		checkboxField("JOINT", [4]float64{160, 600, 175, 615}),
		checkboxField("declaration", [4]float64{100, 570, 115, 585}),
	}
}

// testPNG returns a tiny opaque PNG.
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	return buf.Bytes()
}

// testPNGDataURI wraps testPNG in the inline source convention.
func testPNGDataURI(t *testing.T) string {
	t.Helper()
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG(t))
}
