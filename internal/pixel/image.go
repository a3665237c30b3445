package pixel

import (
	"image"

	"golang.org/x/image/draw"
)

// FromImage copies src into a new buffer with the requested channel layout.
// RGBA uses non-premultiplied values so lossless formats round-trip exactly.
func FromImage(src image.Image, channels int) (*Buffer, error) {
	bounds := src.Bounds()
	buf, err := New(bounds.Dx(), bounds.Dy(), channels)
	if err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, buf.Width, buf.Height)

	if channels == 1 {
		gray := image.NewGray(rect)
		draw.Draw(gray, rect, src, bounds.Min, draw.Src)
		for y := range buf.Height {
			copy(buf.Pix[y*buf.Width:(y+1)*buf.Width], gray.Pix[y*gray.Stride:])
		}
		return buf, nil
	}

	nrgba, ok := src.(*image.NRGBA)
	if !ok || bounds.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(rect)
		draw.Draw(nrgba, rect, src, bounds.Min, draw.Src)
	}
	idx := 0
	for y := range buf.Height {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := range buf.Width {
			copy(buf.Pix[idx:idx+channels], row[x*4:x*4+channels])
			idx += channels
		}
	}
	return buf, nil
}

// Image builds an image from the buffer: *image.Gray for one channel,
// *image.NRGBA otherwise, with alpha forced opaque for RGB.
func (b *Buffer) Image() image.Image {
	rect := image.Rect(0, 0, b.Width, b.Height)
	if b.Channels == 1 {
		gray := image.NewGray(rect)
		for y := range b.Height {
			copy(gray.Pix[y*gray.Stride:], b.Pix[y*b.Width:(y+1)*b.Width])
		}
		return gray
	}

	dst := image.NewNRGBA(rect)
	idx := 0
	for y := range b.Height {
		row := dst.Pix[y*dst.Stride:]
		for x := range b.Width {
			px := row[x*4 : x*4+4]
			copy(px, b.Pix[idx:idx+b.Channels])
			if b.Channels == 3 {
				px[3] = 0xff
			}
			idx += b.Channels
		}
	}
	return dst
}
