package lvgl

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

var errEmpty = errors.New("lvgl: image is empty")

// luma returns the relative luminance of c, scaled to 0-0xffff.
func luma(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return (19595*r + 38470*g + 7471*b + 1<<15) >> 16
}

// Work out which palette entries should become a set bit. With two distinct
// colors the lighter one wins, otherwise anything at least half bright does.
func whiteIndices(p color.Palette) []bool {
	lut := make([]bool, len(p))
	if len(p) == 2 && luma(p[0]) != luma(p[1]) {
		lut[1] = luma(p[1]) > luma(p[0])
		lut[0] = !lut[1]
		return lut
	}
	for i, c := range p {
		lut[i] = luma(c) >= 0x8000
	}
	return lut
}

// Encode writes the Image m to w as 1-bit pixel data. Images that are not
// already paletted with at most two colors are reduced to two colors first;
// callers wanting control over dithering should do that themselves.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Empty() {
		return errEmpty
	}

	pm, _ := m.(*image.Paletted)
	if pm == nil || len(pm.Palette) > 2 {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, 2), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	lut := whiteIndices(pm.Palette)

	row := make([]byte, Stride(b.Dx()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for i := range row {
			row[i] = 0
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			i := pm.ColorIndexAt(x, y)
			if int(i) < len(lut) && lut[i] {
				dx := x - b.Min.X
				row[dx>>3] |= 1 << (7 - uint(dx&7))
			}
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// Marshal is a convenience wrapper around Encode returning the bytes.
func Marshal(m image.Image) ([]byte, error) {
	b := new(bytes.Buffer)
	if err := Encode(b, m); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
