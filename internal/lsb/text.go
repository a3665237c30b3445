package lsb

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yyyoichi/lsbstego/internal/bitconv"
	"golang.org/x/text/encoding/charmap"
)

const (
	textLengthBits = 16

	// DefaultRuneBits keeps one byte per character; only Latin-1 text fits.
	DefaultRuneBits = 8
	MinRuneBits     = 8
	MaxRuneBits     = 32
)

var ErrRuneBits = errors.New("unsupported character field width")

func validRuneBits(runeBits int) error {
	if runeBits < MinRuneBits || runeBits > MaxRuneBits {
		return fmt.Errorf("%w: %d", ErrRuneBits, runeBits)
	}
	return nil
}

// EncodeText writes a 16-bit code point count followed by one runeBits-wide
// field per code point. With 8-bit fields the text must be Latin-1; any
// other character fails with bitconv.ErrOverflow before the carrier is touched.
// Capacity is not checked up front.
func (c *Codec) EncodeText(text string, runeBits int) error {
	if err := validRuneBits(runeBits); err != nil {
		return err
	}
	runes := []rune(text)
	b := bitconv.NewBuilder()
	if err := b.WriteUint(uint64(len(runes)), textLengthBits); err != nil {
		return fmt.Errorf("text length: %w", err)
	}
	for i, r := range runes {
		v := uint64(r)
		if runeBits == 8 {
			l, ok := charmap.ISO8859_1.EncodeRune(r)
			if !ok {
				return fmt.Errorf("%w: character %d (%U) is not Latin-1", bitconv.ErrOverflow, i, r)
			}
			v = uint64(l)
		}
		if err := b.WriteUint(v, runeBits); err != nil {
			return fmt.Errorf("character %d (%U): %w", i, r, err)
		}
	}
	return c.WriteBits(b.Bits())
}

// DecodeText reads text written by EncodeText with the same field width.
func (c *Codec) DecodeText(runeBits int) (string, error) {
	if err := validRuneBits(runeBits); err != nil {
		return "", err
	}
	n, err := c.readUint(textLengthBits)
	if err != nil {
		return "", err
	}
	if err := c.expect(n*uint64(runeBits), "text"); err != nil {
		return "", err
	}
	bits, err := c.ReadBits(int(n) * runeBits)
	if err != nil {
		return "", fmt.Errorf("%w:%w", ErrMalformedStream, err)
	}

	var sb strings.Builder
	sb.Grow(int(n))
	for i := range int(n) {
		v := bits.Uint(i*runeBits, runeBits)
		if runeBits == 8 {
			sb.WriteRune(charmap.ISO8859_1.DecodeByte(byte(v)))
			continue
		}
		r := rune(v)
		if v > utf8.MaxRune || !utf8.ValidRune(r) {
			return "", fmt.Errorf("%w: character %d has invalid code point %#x", ErrMalformedStream, i, v)
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}
