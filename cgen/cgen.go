/*
Package cgen writes the C sources consumed by the nice!view widgets: the
art.c file holding one LVGL image descriptor per bitmap, and the
declaration block in peripheral_status.c that lists them for the animation.
*/
package cgen

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/bodgit/niceview/lvgl"
	"github.com/bodgit/niceview/order"
)

const bytesPerLine = 18

// Bitmap is one converted image ready to be emitted.
type Bitmap struct {
	Rank   int
	Width  int
	Height int
	Data   []byte
}

// Name returns the C identifier of the image descriptor.
func (b Bitmap) Name() string {
	return order.Identifier(b.Rank)
}

// Attribute returns the LV_ATTRIBUTE_IMG_* macro name for the bitmap.
func (b Bitmap) Attribute() string {
	return "LV_ATTRIBUTE_IMG_" + strings.ToUpper(b.Name())
}

// DataSize is the descriptor data_size, which includes the palette.
func (b Bitmap) DataSize() int {
	return len(b.Data) + lvgl.PaletteSize
}

// Hex formats the pixel data as the body of a C array initializer.
func (b Bitmap) Hex() string {
	return formatHex(b.Data)
}

func formatHex(data []byte) string {
	var lines []string
	for i := 0; i < len(data); i += bytesPerLine {
		end := i + bytesPerLine
		if end > len(data) {
			end = len(data)
		}
		values := make([]string, 0, end-i)
		for _, v := range data[i:end] {
			values = append(values, fmt.Sprintf("0x%02x", v))
		}
		lines = append(lines, "  "+strings.Join(values, ", ")+", ")
	}
	if n := len(lines); n > 0 {
		lines[n-1] = strings.TrimRight(lines[n-1], ", ") + " "
	}
	return strings.Join(lines, "\n")
}

var artTemplate = template.Must(template.New("art").Parse(`/*
 * Generated by niceview. Do not edit.
 */

#include <lvgl.h>

#ifndef LV_ATTRIBUTE_MEM_ALIGN
#define LV_ATTRIBUTE_MEM_ALIGN
#endif
{{range .}}
#ifndef {{.Attribute}}
#define {{.Attribute}}
#endif

const LV_ATTRIBUTE_MEM_ALIGN LV_ATTRIBUTE_LARGE_CONST {{.Attribute}} uint8_t {{.Name}}_map[] = {
#if CONFIG_NICE_VIEW_WIDGET_INVERTED
        0xff, 0xff, 0xff, 0xff, /*Color of index 0*/
        0x00, 0x00, 0x00, 0xff, /*Color of index 1*/
#else
        0x00, 0x00, 0x00, 0xff, /*Color of index 0*/
        0xff, 0xff, 0xff, 0xff, /*Color of index 1*/
#endif

{{.Hex}}
};

const lv_img_dsc_t {{.Name}} = {
  .header.cf = LV_IMG_CF_INDEXED_1BIT,
  .header.always_zero = 0,
  .header.reserved = 0,
  .header.w = {{.Width}},
  .header.h = {{.Height}},
  .data_size = {{.DataSize}},  // +8 for color palette
  .data = {{.Name}}_map,
};
{{end}}`))

// WriteArt writes the art.c source for bitmaps to w in the order given.
func WriteArt(w io.Writer, bitmaps []Bitmap) error {
	for _, b := range bitmaps {
		if want := lvgl.Size(b.Width, b.Height); len(b.Data) != want {
			return fmt.Errorf("cgen: %s has %d bytes, expected %d", b.Name(), len(b.Data), want)
		}
	}
	return artTemplate.Execute(w, bitmaps)
}

// WriteFile replaces path with data without leaving a partial file behind.
func WriteFile(path string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err = f.Chmod(0644); err != nil {
		f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), path)
}

// WriteArtFile renders bitmaps into the art.c file at path.
func WriteArtFile(path string, bitmaps []Bitmap) error {
	var b strings.Builder
	if err := WriteArt(&b, bitmaps); err != nil {
		return err
	}
	return WriteFile(path, []byte(b.String()))
}
