package svgdoc

import (
	"github.com/kando-menu/design/pkg/errors"
)

// Merge layers overlay on top of base.
//
// The result is every byte of base up to its root close tag, followed by
// every byte of overlay after its root open tag. The base root open tag (and
// with it the canvas size and viewBox) is kept; the overlay prologue and root
// attributes are dropped. Both documents must share the same coordinate
// space, Merge does not scale.
func Merge(base, overlay *Document) (*Document, error) {
	if base.root != overlay.root {
		return nil, errors.New(errors.ErrCodeInvalidDocument,
			"cannot merge <%s> into <%s>", overlay.root, base.root)
	}
	return splice(
		base.root,
		base.openStart,
		base.data[:base.openEnd],
		append(append([]byte{}, base.Content()...), overlay.Content()...),
		overlay.data[overlay.closeStart:],
		overlay.closeEnd-overlay.closeStart,
	), nil
}
