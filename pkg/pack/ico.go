package pack

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"

	ico "github.com/sergeymakinen/go-ico"
	"golang.org/x/image/draw"

	"github.com/kando-menu/design/pkg/errors"
	"github.com/kando-menu/design/pkg/tool"
)

// Magick packs ICO files with ImageMagick.
type Magick struct {
	Tool tool.Tool
}

// MaxICOSize is the largest frame an ICO directory entry can describe.
const MaxICOSize = 256

// Pack runs "magick frame... out". Frames are passed smallest first.
func (m Magick) Pack(ctx context.Context, frames []Frame, out string) error {
	if err := checkICOFrames(frames); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}

	args := make([]string, 0, len(frames)+1)
	for _, f := range sorted(frames) {
		args = append(args, f.Path)
	}
	_, err := m.Tool.Run(ctx, nil, append(args, out)...)
	return err
}

// NativeICO packs ICO files in-process. Frames whose pixel size does not
// match their declared size are resampled.
type NativeICO struct{}

func (NativeICO) Pack(ctx context.Context, frames []Frame, out string) error {
	if err := checkICOFrames(frames); err != nil {
		return err
	}

	images := make([]image.Image, 0, len(frames))
	for _, f := range sorted(frames) {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := readPNG(f.Path)
		if err != nil {
			return err
		}
		images = append(images, fit(img, f.Size))
	}

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}
	file, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := ico.EncodeAll(file, images); err != nil {
		file.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", out)
	}
	return file.Close()
}

func checkICOFrames(frames []Frame) error {
	if err := checkFrames(frames); err != nil {
		return err
	}
	for _, f := range frames {
		if f.Size > MaxICOSize {
			return errors.New(errors.ErrCodeInvalidInput, "ICO frames are limited to %dpx, got %dpx", MaxICOSize, f.Size)
		}
	}
	return nil
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "frame %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "frame %s", path)
	}
	return img, nil
}

func fit(img image.Image, size int) image.Image {
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
