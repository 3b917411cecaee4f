// Package pack bundles rendered PNG frames into multi-resolution icon
// containers and builds the social preview image.
//
// ICO files are written with ImageMagick ([Magick]) or in-process
// ([NativeICO]). ICNS files need Apple's iconutil ([Iconutil]), which only
// exists on macOS; elsewhere packing fails with PLATFORM_UNAVAILABLE and the
// build carries on.
package pack

import (
	"context"
	"sort"

	"github.com/kando-menu/design/pkg/errors"
)

// Frame is one rendered square PNG.
type Frame struct {
	Size int
	Path string
}

// Packer writes frames into a single container file at out.
type Packer interface {
	Pack(ctx context.Context, frames []Frame, out string) error
}

// sorted returns frames ordered by ascending size.
func sorted(frames []Frame) []Frame {
	s := append([]Frame(nil), frames...)
	sort.SliceStable(s, func(i, j int) bool { return s[i].Size < s[j].Size })
	return s
}

func checkFrames(frames []Frame) error {
	if len(frames) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no frames to pack")
	}
	seen := make(map[int]bool, len(frames))
	for _, f := range frames {
		if seen[f.Size] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate %dpx frame", f.Size)
		}
		seen[f.Size] = true
	}
	return nil
}
