package svgdoc

import (
	"fmt"
	"strconv"
)

// Transform is a uniform translate+scale applied to a subtree.
type Transform struct {
	TranslateX, TranslateY float64
	Scale                  float64
}

// InsetTransform returns the transform that shrinks the full canvas into
// the centered square left after removing margin on every side.
// Callers must keep 0 <= margin < Canvas/2; it is not checked here.
func InsetTransform(margin float64) Transform {
	return Transform{
		TranslateX: margin,
		TranslateY: margin,
		Scale:      (Canvas - 2*margin) / Canvas,
	}
}

// Apply maps a point from the wrapped content into the parent coordinate space.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.TranslateX + t.Scale*x, t.TranslateY + t.Scale*y
}

// String formats the transform as an SVG transform attribute value. The
// scale is written with both factors; oksvg drops groups whose scale has a
// single argument.
func (t Transform) String() string {
	s := formatNumber(t.Scale)
	return fmt.Sprintf("translate(%s, %s) scale(%s, %s)",
		formatNumber(t.TranslateX), formatNumber(t.TranslateY), s, s)
}

// Wrap returns a copy of d whose content is enclosed in one group carrying t.
func Wrap(d *Document, t Transform) *Document {
	open := []byte(`<g transform="` + t.String() + `">`)
	body := make([]byte, 0, len(open)+len(d.Content())+4)
	body = append(body, open...)
	body = append(body, d.Content()...)
	body = append(body, "</g>"...)
	return splice(d.root, d.openStart, d.data[:d.openEnd], body, d.data[d.closeStart:], d.closeEnd-d.closeStart)
}

// Inset wraps the content of d so it fills the canvas minus margin on every
// side. A zero margin still adds the (identity) group.
func Inset(d *Document, margin float64) *Document {
	return Wrap(d, InsetTransform(margin))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
