/*
Package lvgl implements the LVGL 1-bit indexed image format
(LV_IMG_CF_INDEXED_1BIT) used by the nice!view widgets.

Pixel data is written row by row with each row padded to a whole number of
bytes. The leftmost pixel of a row is the most significant bit of the first
byte and a set bit selects palette index 1. The generated C array is preceded
by an 8 byte palette of two 32-bit colors which is emitted separately so that
it can be swapped at compile time for the inverted widget theme.
*/
package lvgl

import "image/color"

const (
	// PaletteSize is the number of bytes the two color palette occupies
	// in front of the pixel data.
	PaletteSize = 8

	// Width and Height are the nice!view panel dimensions in portrait
	// orientation.
	Width  = 68
	Height = 140
)

// Palette maps index 0 to black and index 1 to white.
var Palette = color.Palette{color.Black, color.White}

// Stride returns the number of bytes per row for an image width pixels wide.
func Stride(width int) int {
	return (width + 7) >> 3
}

// Size returns the number of pixel bytes for an image of the given
// dimensions, not including the palette.
func Size(width, height int) int {
	return Stride(width) * height
}
