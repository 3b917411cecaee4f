package svgdoc

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/kando-menu/design/pkg/errors"
)

const circleSVG = `<?xml version="1.0" encoding="UTF-8"?>
<!-- background -->
<svg xmlns="http://www.w3.org/2000/svg" width="256" height="256" viewBox="0 0 256 256">
  <defs>
    <linearGradient id="bg_circle-gradient"><stop offset="0" stop-color="#ff7a59"/></linearGradient>
  </defs>
  <circle cx="128" cy="128" r="120" fill="url(#bg_circle-gradient)"/>
</svg>
`

const blossomSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 256 256">
  <circle id="blossom_medium-petal" cx="128" cy="64" r="40" fill="#fff"/>
</svg>`

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	d, err := Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

// rootElements decodes data and returns the number of top-level elements.
func rootElements(t *testing.T, data []byte) int {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(data))
	depth, roots := 0, 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("document is not well-formed: %v\n%s", err, data)
		}
		switch tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return roots
}

func TestParse(t *testing.T) {
	d := mustParse(t, circleSVG)

	if d.Root() != "svg" {
		t.Errorf("Root() = %q, want svg", d.Root())
	}
	if !strings.HasPrefix(string(d.OpenTag()), "<svg xmlns=") || !strings.HasSuffix(string(d.OpenTag()), `viewBox="0 0 256 256">`) {
		t.Errorf("OpenTag() = %q", d.OpenTag())
	}
	if !strings.Contains(string(d.Content()), "<circle") {
		t.Errorf("Content() missing circle: %q", d.Content())
	}
	if strings.Contains(string(d.Content()), "</svg>") {
		t.Errorf("Content() contains root close: %q", d.Content())
	}
}

func TestParseSelfClosingRoot(t *testing.T) {
	d := mustParse(t, `<svg viewBox="0 0 256 256"/>`)
	if got := d.String(); got != `<svg viewBox="0 0 256 256"></svg>` {
		t.Errorf("String() = %q", got)
	}
	if len(d.Content()) != 0 {
		t.Errorf("Content() = %q, want empty", d.Content())
	}
}

func TestParseQuotedGreaterThan(t *testing.T) {
	d := mustParse(t, `<svg data-x="a>b"><g/></svg>`)
	if string(d.OpenTag()) != `<svg data-x="a>b">` {
		t.Errorf("OpenTag() = %q", d.OpenTag())
	}
}

func TestParseDoctype(t *testing.T) {
	src := `<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd" [ <!ENTITY x "y"> ]>
<svg><rect/></svg>`
	d := mustParse(t, src)
	if string(d.Content()) != "<rect/>" {
		t.Errorf("Content() = %q", d.Content())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"text only", "hello"},
		{"no close", `<svg><rect/>`},
		{"unterminated open", `<svg width="1"`},
		{"trailing element", `<svg></svg><rect/>`},
		{"unterminated comment", `<!-- <svg></svg>`},
		{"malformed close", `<svg></svg`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidDocument) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidDocument)
			}
		})
	}
}

func TestInsetTransform(t *testing.T) {
	tests := []struct {
		margin float64
		want   string
	}{
		{0, "translate(0, 0) scale(1, 1)"},
		{32, "translate(32, 32) scale(0.75, 0.75)"},
		{64, "translate(64, 64) scale(0.5, 0.5)"},
		{8, "translate(8, 8) scale(0.9375, 0.9375)"},
	}

	for _, tt := range tests {
		if got := InsetTransform(tt.margin).String(); got != tt.want {
			t.Errorf("InsetTransform(%g) = %q, want %q", tt.margin, got, tt.want)
		}
	}
}

func TestInset(t *testing.T) {
	d := mustParse(t, blossomSVG)
	inset := Inset(d, 32)

	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 256 256"><g transform="translate(32, 32) scale(0.75, 0.75)">
  <circle id="blossom_medium-petal" cx="128" cy="64" r="40" fill="#fff"/>
</g></svg>`
	if inset.String() != want {
		t.Errorf("Inset() =\n%s\nwant\n%s", inset, want)
	}
	if rootElements(t, inset.Bytes()) != 1 {
		t.Error("inset document must have exactly one root")
	}
	// The input is left untouched.
	if d.String() != blossomSVG {
		t.Error("Inset modified its input")
	}
}

func TestInsetZeroMarginIsIdentity(t *testing.T) {
	d := mustParse(t, blossomSVG)
	inset := Inset(d, 0)

	if !strings.Contains(inset.String(), `<g transform="translate(0, 0) scale(1, 1)">`) {
		t.Errorf("zero margin must still add the group: %s", inset)
	}
	x, y := InsetTransform(0).Apply(100, 200)
	if x != 100 || y != 200 {
		t.Errorf("identity transform moved point to (%g, %g)", x, y)
	}
}

func TestInsetNests(t *testing.T) {
	d := Inset(Inset(mustParse(t, blossomSVG), 16), 16)
	if n := strings.Count(d.String(), "<g transform="); n != 2 {
		t.Errorf("expected two nested groups, got %d", n)
	}
	if rootElements(t, d.Bytes()) != 1 {
		t.Error("nested inset must have exactly one root")
	}
}

func TestInsetStaysInCanvas(t *testing.T) {
	for m := 0.0; m < Canvas/2; m += 7.5 {
		tr := InsetTransform(m)
		for _, p := range [][2]float64{{0, 0}, {Canvas, Canvas}, {0, Canvas}, {Canvas / 2, Canvas / 2}} {
			x, y := tr.Apply(p[0], p[1])
			if x < 0 || y < 0 || x > Canvas || y > Canvas {
				t.Errorf("margin %g maps (%g, %g) outside canvas to (%g, %g)", m, p[0], p[1], x, y)
			}
		}
		// Nested insets (base and overlay margins) also stay inside.
		x, y := tr.Apply(InsetTransform(m / 2).Apply(Canvas, Canvas))
		if x > Canvas || y > Canvas {
			t.Errorf("nested margin %g leaves canvas: (%g, %g)", m, x, y)
		}
	}
}

func TestMerge(t *testing.T) {
	base := mustParse(t, circleSVG)
	overlay := Inset(mustParse(t, blossomSVG), 32)

	merged, err := Merge(base, overlay)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	out := merged.String()

	if n := strings.Count(out, "<svg"); n != 1 {
		t.Errorf("expected one root open, got %d:\n%s", n, out)
	}
	if n := strings.Count(out, "</svg>"); n != 1 {
		t.Errorf("expected one root close, got %d:\n%s", n, out)
	}
	if rootElements(t, merged.Bytes()) != 1 {
		t.Error("merged document must have exactly one root")
	}
	if !strings.HasPrefix(out, `<?xml version="1.0"`) {
		t.Error("base prologue should be kept")
	}
	circle := strings.Index(out, "<circle cx=")
	petal := strings.Index(out, `id="blossom_medium-petal"`)
	if circle < 0 || petal < 0 || petal < circle {
		t.Error("overlay content must follow base content")
	}
	if string(merged.OpenTag()) != string(base.OpenTag()) {
		t.Errorf("merged root = %q, want base root %q", merged.OpenTag(), base.OpenTag())
	}
}

func TestMergeDropsOverlayPrologue(t *testing.T) {
	base := mustParse(t, blossomSVG)
	overlay := mustParse(t, circleSVG)

	merged, err := Merge(base, overlay)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if strings.Contains(merged.String(), "<?xml") {
		t.Error("overlay XML declaration must not be copied")
	}
	if strings.Contains(merged.String(), "<!-- background -->") {
		t.Error("overlay prologue comment must not be copied")
	}
	if rootElements(t, merged.Bytes()) != 1 {
		t.Error("merged document must have exactly one root")
	}
}

func TestMergeIsReparseable(t *testing.T) {
	for m := 0.0; m < 128; m += 16 {
		merged, err := Merge(Inset(mustParse(t, circleSVG), m/2), Inset(mustParse(t, blossomSVG), m))
		if err != nil {
			t.Fatalf("Merge(m=%g): %v", m, err)
		}
		again, err := Parse(merged.Bytes())
		if err != nil {
			t.Fatalf("reparse (m=%g): %v", m, err)
		}
		if again.String() != merged.String() || string(again.Content()) != string(merged.Content()) {
			t.Errorf("reparse changed offsets for m=%g", m)
		}
	}
}

func TestMergeRootMismatch(t *testing.T) {
	_, err := Merge(mustParse(t, `<svg></svg>`), mustParse(t, `<svg:svg></svg:svg>`))
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("expected INVALID_DOCUMENT, got %v", err)
	}
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/nested/out.svg"

	if err := mustParse(t, blossomSVG).WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	d, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if d.String() != blossomSVG {
		t.Errorf("round trip changed document")
	}

	if _, err := ReadFile(dir + "/missing.svg"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("expected FILE_NOT_FOUND, got %v", err)
	}
}
