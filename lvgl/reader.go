package lvgl

import (
	"errors"
	"image"
	"io"
)

var (
	errNotEnough = errors.New("lvgl: not enough image data")
	errTooMuch   = errors.New("lvgl: too much image data")
	errBadSize   = errors.New("lvgl: invalid image dimensions")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// Decode reads width by height pixels of 1-bit data from r and returns them
// as a paletted image using Palette. Exactly Size(width, height) bytes must
// be available.
func Decode(r io.Reader, width, height int) (*image.Paletted, error) {
	if width <= 0 || height <= 0 {
		return nil, errBadSize
	}

	stride := Stride(width)
	tmp := make([]byte, Size(width, height))

	if err := readFull(r, tmp); err != nil {
		if err != io.ErrUnexpectedEOF {
			return nil, err
		}
		return nil, errNotEnough
	}

	var extra [1]byte
	if n, err := r.Read(extra[:]); n != 0 || (err != io.EOF && err != io.ErrUnexpectedEOF) {
		if err != nil {
			return nil, err
		}
		return nil, errTooMuch
	}

	m := image.NewPaletted(image.Rect(0, 0, width, height), Palette)
	for y := 0; y < height; y++ {
		row := tmp[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			m.SetColorIndex(x, y, row[x>>3]>>(7-uint(x&7))&1)
		}
	}

	return m, nil
}
