// Package namespace rewrites SVG element identifiers so two documents can be
// concatenated without id collisions.
//
// Every id becomes prefix+id and every internal reference to it
// (url(#id), href="#id", xlink:href="#id") is rewritten to match. The prefix
// comes from the source file name via [PrefixFor], so repeated builds produce
// the same markup.
//
// Two implementations are provided:
//   - [SVGO] delegates to the svgo optimizer (prefixIds plugin), which also
//     minifies and pretty-prints the document
//   - [Builtin] rewrites ids in-process without touching anything else
package namespace

import (
	"context"
	"path/filepath"
	"strings"
	"unicode"
)

// Namespacer prefixes all identifiers of the SVG file at path in place.
type Namespacer interface {
	Namespace(ctx context.Context, path, prefix string) error
}

// PrefixFor derives the id prefix for a source file: the base name without
// extension, with characters that are not valid in an XML name replaced by
// '_', followed by '-'.
//
// The sanitized stem never contains '-', so the first '-' of a rewritten id
// ends its prefix and sources with different stems yield disjoint ids.
func PrefixFor(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var b strings.Builder
	for i, r := range stem {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r) || r == '.':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		b.WriteByte('_')
	}
	b.WriteByte('-')
	return b.String()
}
