package cgen

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bodgit/niceview/order"
)

const (
	animArray  = "const lv_img_dsc_t *anim_imgs[]"
	arrayClose = "};"
)

// Older widget sources named their images landscapeN.
var declarePrefixes = []string{"LV_IMG_DECLARE(landscape", "LV_IMG_DECLARE(image"}

// ErrNoDeclarations is returned when a source has no declaration block to
// replace.
var ErrNoDeclarations = errors.New("cgen: LV_IMG_DECLARE section not found")

// Declarations renders the LV_IMG_DECLARE lines and anim_imgs array for the
// given ranks.
func Declarations(ranks []int) string {
	var b strings.Builder
	for _, r := range ranks {
		fmt.Fprintf(&b, "LV_IMG_DECLARE(%s);\n", order.Identifier(r))
	}
	b.WriteString("\n")
	b.WriteString(animArray + " = {\n")
	for _, r := range ranks {
		fmt.Fprintf(&b, "    &%s,\n", order.Identifier(r))
	}
	b.WriteString(arrayClose)
	return b.String()
}

// UpdateDeclarations replaces everything from the first image declaration to
// the end of the anim_imgs array in src.
func UpdateDeclarations(src string, ranks []int) (string, error) {
	start := -1
	for _, p := range declarePrefixes {
		if start = strings.Index(src, p); start != -1 {
			break
		}
	}
	if start == -1 {
		return "", ErrNoDeclarations
	}

	anim := strings.Index(src[start:], animArray)
	if anim == -1 {
		return "", ErrNoDeclarations
	}
	anim += start

	end := strings.Index(src[anim:], arrayClose)
	if end == -1 {
		return "", ErrNoDeclarations
	}
	end += anim + len(arrayClose)

	return src[:start] + Declarations(ranks) + src[end:], nil
}

// UpdateDeclarationsFile rewrites the declaration block of the file at path.
func UpdateDeclarationsFile(path string, ranks []int) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	s, err := UpdateDeclarations(string(b), ranks)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if s == string(b) {
		return nil
	}

	return WriteFile(path, []byte(s))
}
