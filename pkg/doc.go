// Package pkg provides the libraries behind the kando-icons build tool.
//
// # Overview
//
// The Kando icon set is produced from a handful of hand-drawn SVG sources:
// background shapes (bg_*) and variants of the blossom motif (blossom_*).
// Every published icon is one background with one blossom layered on top,
// shrunk by a margin that depends on the target platform. The pkg directory
// is organized as:
//
//  1. [svgdoc], [namespace] - SVG document handling (inset, merge, id prefixing)
//  2. [compose] - The layered compositor that turns two sources into one icon
//  3. [raster], [pack] - PNG rendering and ICO/ICNS/social preview packing
//  4. [manifest], [pipeline] - What to build, and the build itself
//  5. [tool], [cache], [errors], [observability] - Shared infrastructure
//
// # Data Flow
//
//	bg_circle.svg + blossom_medium.svg
//	         ↓
//	[namespace] prefix ids (bg_circle-*, blossom_medium-*)
//	         ↓
//	[svgdoc] inset overlay by margin, merge into base
//	         ↓
//	kando.svg ─→ [raster] kando-{size}.png ─→ [pack] kando.ico / kando.icns
//
// # External Tools
//
// The default backends shell out to svgo, rsvg-convert, ImageMagick and
// iconutil. Each has an in-process alternative ("builtin") so tests and
// hosts without the tools can still build. A missing iconutil only skips
// the macOS bundle.
package pkg
