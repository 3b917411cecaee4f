package pack

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kando-menu/design/pkg/errors"
	"github.com/kando-menu/design/pkg/tool"
)

// iconsetSlot is one file iconutil expects inside an .iconset directory.
type iconsetSlot struct {
	name string
	size int
}

var iconsetSlots = []iconsetSlot{
	{"icon_16x16.png", 16},
	{"icon_16x16@2x.png", 32},
	{"icon_32x32.png", 32},
	{"icon_32x32@2x.png", 64},
	{"icon_128x128.png", 128},
	{"icon_128x128@2x.png", 256},
	{"icon_256x256.png", 256},
	{"icon_256x256@2x.png", 512},
	{"icon_512x512.png", 512},
	{"icon_512x512@2x.png", 1024},
}

// IconsetSizes are the frame sizes a complete ICNS file is built from.
var IconsetSizes = []int{16, 32, 64, 128, 256, 512, 1024}

// Iconutil packs ICNS files with iconutil.
type Iconutil struct {
	Tool tool.Tool
}

// Pack lays the frames out as an .iconset next to out and converts it.
// Slots without a matching frame are left empty.
func (p Iconutil) Pack(ctx context.Context, frames []Frame, out string) error {
	if err := checkFrames(frames); err != nil {
		return err
	}
	if _, err := p.Tool.Path(); err != nil {
		return errors.Wrap(errors.ErrCodePlatformUnavailable, err, "cannot write %s", filepath.Base(out))
	}

	set := strings.TrimSuffix(out, filepath.Ext(out)) + ".iconset"
	if err := os.MkdirAll(set, 0755); err != nil {
		return err
	}
	defer os.RemoveAll(set)

	if err := layoutIconset(set, frames); err != nil {
		return err
	}
	_, err := p.Tool.Run(ctx, nil, "-c", "icns", set, "-o", out)
	return err
}

// layoutIconset copies frames into dir under their iconset names. One frame
// may fill two slots (32px is both 16@2x and 32).
func layoutIconset(dir string, frames []Frame) error {
	bySize := make(map[int]string, len(frames))
	for _, f := range frames {
		bySize[f.Size] = f.Path
	}

	filled := 0
	for _, slot := range iconsetSlots {
		src, ok := bySize[slot.size]
		if !ok {
			continue
		}
		if err := copyFile(src, filepath.Join(dir, slot.name)); err != nil {
			return err
		}
		filled++
	}
	if filled == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no frame matches an iconset size %v", IconsetSizes)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open frame: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
