// Package texture loads image files into GPU textures.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"go.uber.org/zap"

	"github.com/Faultbox/shadowbox/internal/engine/gfx"
	"github.com/Faultbox/shadowbox/internal/logger"
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("texture: empty image")

// decoder pairs a file signature with its decode function. TGA has no
// signature and is tried last.
type decoder struct {
	format string
	magic  string
	decode func(io.Reader) (image.Image, error)
}

var decoders = []decoder{
	{"png", "\x89PNG\r\n\x1a\n", png.Decode},
	{"jpeg", "\xff\xd8", jpeg.Decode},
	{"bmp", "BM", bmp.Decode},
	{"tga", "", tga.Decode},
}

// Decode reads a JPEG, PNG, BMP or TGA image and converts it to RGBA with the
// bottom row first, the layout texture uploads expect. Images larger than
// maxSize on either side are downscaled to fit; maxSize <= 0 disables the limit.
func Decode(r io.Reader, maxSize int) (*image.RGBA, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("texture: read: %w", err)
	}

	var (
		src    image.Image
		format string
	)
	for _, d := range decoders {
		if bytes.HasPrefix(data, []byte(d.magic)) {
			format = d.format
			src, err = d.decode(bytes.NewReader(data))
			break
		}
	}
	if err != nil {
		return nil, format, fmt.Errorf("texture: decode %s: %w", format, err)
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, format, ErrEmptyImage
	}

	w, h := fitSize(b.Dx(), b.Dy(), maxSize)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}

	FlipVertical(dst)
	return dst, format, nil
}

// fitSize scales w×h down, keeping the aspect ratio, so that neither side
// exceeds limit.
func fitSize(w, h, limit int) (int, int) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

// FlipVertical mirrors img top to bottom in place.
func FlipVertical(img *image.RGBA) {
	b := img.Bounds()
	row := b.Dx() * 4
	tmp := make([]byte, row)
	for top, bottom := b.Min.Y, b.Max.Y-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := img.Pix[img.PixOffset(b.Min.X, top):][:row]
		u := img.Pix[img.PixOffset(b.Min.X, bottom):][:row]
		copy(tmp, t)
		copy(t, u)
		copy(u, tmp)
	}
}

// Loader uploads decoded images to a device.
type Loader struct {
	dev     gfx.Device
	maxSize int
}

// NewLoader returns a loader for dev. maxSize bounds the texture side length.
func NewLoader(dev gfx.Device, maxSize int) *Loader {
	return &Loader{dev: dev, maxSize: maxSize}
}

// Load reads path and uploads it as a mipmapped RGBA texture.
func (l *Loader) Load(path string) (*gfx.Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: open %s: %w", path, err)
	}
	defer f.Close()

	img, format, err := Decode(f, l.maxSize)
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", path, err)
	}

	size := img.Bounds().Size()
	id := l.dev.NewTexture2D(int32(size.X), int32(size.Y), img.Pix)
	logger.Debug("texture loaded",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("width", size.X),
		zap.Int("height", size.Y),
		zap.Uint32("id", id),
	)
	return gfx.NewHandle(l.dev, gfx.KindTexture, id), nil
}
