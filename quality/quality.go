// Package quality measures how far a stego carrier drifted from its original.
package quality

import (
	"errors"
	"fmt"
	"image"
	"math"
	"math/bits"

	"github.com/yyyoichi/lsbstego/internal/pixel"
	"gonum.org/v1/gonum/floats"
)

var ErrSizeMismatch = errors.New("images differ in size")

// Report compares two images channel byte by channel byte.
type Report struct {
	// Samples is the number of channel bytes compared.
	Samples int
	// Changed counts channel bytes that differ.
	Changed int
	MSE     float64
	// PSNR in dB against a peak of 255; +Inf for identical images.
	PSNR    float64
	MaxDiff float64
	// LumaPSNR compares the Y plane (BT.601 weights); equal to PSNR for gray images.
	LumaPSNR float64
	// Planes[k] counts channel bytes whose bit k differs.
	Planes [8]int
}

// Compare reads both images with the given channel layout and reports their difference.
func Compare(original, stego image.Image, channels int) (Report, error) {
	if original.Bounds().Size() != stego.Bounds().Size() {
		return Report{}, fmt.Errorf("%w: %v != %v", ErrSizeMismatch, original.Bounds().Size(), stego.Bounds().Size())
	}
	a, err := pixel.FromImage(original, channels)
	if err != nil {
		return Report{}, err
	}
	b, err := pixel.FromImage(stego, channels)
	if err != nil {
		return Report{}, err
	}

	r := Report{Samples: len(a.Pix)}
	if r.Samples == 0 {
		r.PSNR = math.Inf(1)
		r.LumaPSNR = math.Inf(1)
		return r, nil
	}
	fa := make([]float64, r.Samples)
	fb := make([]float64, r.Samples)
	for i := range a.Pix {
		fa[i], fb[i] = float64(a.Pix[i]), float64(b.Pix[i])
		diff := a.Pix[i] ^ b.Pix[i]
		if diff == 0 {
			continue
		}
		r.Changed++
		for diff != 0 {
			k := bits.TrailingZeros8(diff)
			r.Planes[k]++
			diff &^= 1 << k
		}
	}

	d := floats.Distance(fa, fb, 2)
	r.MSE = d * d / float64(r.Samples)
	r.MaxDiff = floats.Distance(fa, fb, math.Inf(1))
	r.PSNR = PSNR(r.MSE)

	lumaA, lumaB := luma(a), luma(b)
	d = floats.Distance(lumaA, lumaB, 2)
	r.LumaPSNR = PSNR(d * d / float64(len(lumaA)))
	return r, nil
}

const (
	yr = 0.299
	yg = 0.587
	yb = 0.114
)

func luma(b *pixel.Buffer) []float64 {
	y := make([]float64, b.Width*b.Height)
	for i := range y {
		px := b.Pix[i*b.Channels : i*b.Channels+b.Channels]
		if b.Channels == 1 {
			y[i] = float64(px[0])
			continue
		}
		y[i] = yr*float64(px[0]) + yg*float64(px[1]) + yb*float64(px[2])
	}
	return y
}

// PSNR converts a mean squared error over 8-bit samples to decibels.
func PSNR(mse float64) float64 {
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(255*255/mse)
}
