// Package imgio loads carriers from disk and saves stego images in lossless formats.
package imgio

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrLossyFormat is returned when saving to a format that would destroy the low bit-planes.
	ErrLossyFormat   = errors.New("lossy output format")
	ErrUnknownFormat = errors.New("unknown image format")

	// ErrAlphaUnsupported is returned when saving a translucent image to BMP, which drops alpha.
	ErrAlphaUnsupported = errors.New("format cannot store alpha")
)

type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

var lossy = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// FormatOf picks the output format from the file extension.
func FormatOf(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	}
	if lossy[ext] {
		return "", fmt.Errorf("%w: %s", ErrLossyFormat, ext)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}

// Load decodes any registered format, including JPEG, GIF and WebP.
func Load(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	img, name, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	return img, name, nil
}

// Encode writes img to w in format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case PNG:
		return png.Encode(w, img)
	case BMP:
		if !opaque(img) {
			return fmt.Errorf("%w: %s", ErrAlphaUnsupported, format)
		}
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// KeepsAlpha reports whether format stores the alpha channel losslessly.
func (f Format) KeepsAlpha() bool {
	return f != BMP
}

func opaque(img image.Image) bool {
	o, ok := img.(interface{ Opaque() bool })
	return ok && o.Opaque()
}

// Save encodes img into a temporary file next to path and renames it into
// place, so path is left untouched when encoding fails.
func Save(path string, img image.Image) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	return WriteAtomic(path, func(w io.Writer) error {
		return Encode(w, img, format)
	})
}

// WriteAtomic writes through a temporary file in path's directory and renames it to path on success.
func WriteAtomic(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
