package lvgl

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSize(t *testing.T) {
	assert.Equal(t, 9, Stride(Width))
	assert.Equal(t, 1260, Size(Width, Height))
	assert.Equal(t, 1, Stride(1))
	assert.Equal(t, 1, Stride(8))
	assert.Equal(t, 2, Stride(9))
}

func TestEncodeBitOrder(t *testing.T) {
	m := image.NewPaletted(image.Rect(0, 0, 10, 2), Palette)
	// Row 0: first and last pixel white
	m.SetColorIndex(0, 0, 1)
	m.SetColorIndex(9, 0, 1)
	// Row 1: eighth pixel white
	m.SetColorIndex(7, 1, 1)

	b, err := Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80, 0x40, 0x01, 0x00}, b)
}

func TestEncodeSwappedPalette(t *testing.T) {
	m := image.NewPaletted(image.Rect(0, 0, 8, 1), color.Palette{color.White, color.Black})
	m.SetColorIndex(0, 0, 1)

	b, err := Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7f}, b)
}

func TestEncodeOffsetBounds(t *testing.T) {
	m := image.NewPaletted(image.Rect(4, 4, 12, 5), Palette)
	m.SetColorIndex(4, 4, 1)

	b, err := Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80}, b)
}

func TestEncodeQuantizes(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 16, 1))
	for x := 0; x < 16; x++ {
		if x < 8 {
			m.SetGray(x, 0, color.Gray{Y: 0x10})
		} else {
			m.SetGray(x, 0, color.Gray{Y: 0xe0})
		}
	}

	b, err := Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff}, b)
}

func TestEncodeEmpty(t *testing.T) {
	assert.Error(t, Encode(new(bytes.Buffer), image.NewPaletted(image.Rectangle{}, Palette)))
}

func TestDecode(t *testing.T) {
	m, err := Decode(bytes.NewReader([]byte{0x80, 0x40, 0x01, 0x00}), 10, 2)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 10, 2), m.Bounds())
	assert.Equal(t, uint8(1), m.ColorIndexAt(0, 0))
	assert.Equal(t, uint8(1), m.ColorIndexAt(9, 0))
	assert.Equal(t, uint8(0), m.ColorIndexAt(8, 0))
	assert.Equal(t, uint8(1), m.ColorIndexAt(7, 1))
	assert.Equal(t, color.White, m.At(0, 0))
	assert.Equal(t, color.Black, m.At(1, 0))
}

func TestDecodeRoundTrip(t *testing.T) {
	m := image.NewPaletted(image.Rect(0, 0, Width, Height), Palette)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if (x*7+y*3)%5 == 0 {
				m.SetColorIndex(x, y, 1)
			}
		}
	}

	b, err := Marshal(m)
	require.NoError(t, err)
	require.Len(t, b, Size(Width, Height))

	d, err := Decode(bytes.NewReader(b), Width, Height)
	require.NoError(t, err)
	assert.Equal(t, m.Pix, d.Pix)
}

func TestDecodeErrors(t *testing.T) {
	tables := []struct {
		name   string
		data   []byte
		width  int
		height int
		err    error
	}{
		{"short", []byte{0x00}, 8, 2, errNotEnough},
		{"empty", nil, 8, 1, errNotEnough},
		{"long", []byte{0x00, 0x00, 0x00}, 8, 2, errTooMuch},
		{"zero width", []byte{0x00}, 0, 1, errBadSize},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(table.data), table.width, table.height)
			assert.Equal(t, table.err, err)
		})
	}
}
