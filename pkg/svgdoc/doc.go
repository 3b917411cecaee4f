// Package svgdoc provides the structural edits used to layer one SVG
// document on top of another.
//
// # Overview
//
// All source artwork is drawn on the same logical square canvas of
// [Canvas] units. Compositing two documents is a textual splice rather than
// a DOM merge, so this package only needs to know where each document's
// root element opens and closes:
//
//   - [Parse] locates the root open and close tags
//   - [Inset] wraps the content in a translate+scale group so it shrinks
//     into a centered sub-square of size Canvas-2*margin
//   - [Merge] concatenates the base document (minus its root close) with
//     the overlay document (minus its prologue and root open)
//
// Element identifiers are not touched here. Documents must be namespaced
// before merging (see the namespace package) or ids from the two sources
// may collide.
//
// # Example
//
//	base, _ := svgdoc.ReadFile("bg_circle.svg")
//	overlay, _ := svgdoc.ReadFile("blossom_medium.svg")
//	merged, err := svgdoc.Merge(base, svgdoc.Inset(overlay, 32))
//
// Transforms are never combined arithmetically. Each Inset adds one more
// wrapping group, so insetting twice nests two groups.
package svgdoc
