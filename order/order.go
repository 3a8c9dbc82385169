/*
Package order decides which image in an art directory becomes image1, image2
and so on.

Files whose name starts with exactly two ASCII digits followed by '_' or '-'
are "prefixed" and always sort before everything else, ascending by the
prefix value and then by filename. The remaining files follow in filename
order. Filenames are compared byte-wise so non-ASCII names sort by their
UTF-8 encoding rather than by any locale rules.
*/
package order

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions lists the image types the display pipeline can decode.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif"}

// ImageFile is one candidate image found in the art directory.
type ImageFile struct {
	Path      string
	Filename  string
	Extension string
	Prefix    int
	HasPrefix bool
	Rank      int
}

// Identifier returns the name the generated code uses for the file.
func (f ImageFile) Identifier() string {
	return Identifier(f.Rank)
}

// Identifier returns the generated code name for rank, e.g. "image3".
func Identifier(rank int) string {
	return fmt.Sprintf("image%d", rank)
}

// ParsePrefix reports the two-digit ordering prefix of filename, if any.
func ParsePrefix(filename string) (int, bool) {
	if len(filename) < 3 {
		return 0, false
	}
	d0, d1, sep := filename[0], filename[1], filename[2]
	if !isDigit(d0) || !isDigit(d1) || (sep != '_' && sep != '-') {
		return 0, false
	}
	return int(d0-'0')*10 + int(d1-'0'), true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func hasExtension(name string, exts []string) (string, bool) {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return ext, true
		}
	}
	return "", false
}

// NewImageFile builds the record for path without touching the filesystem.
func NewImageFile(path string) ImageFile {
	name := filepath.Base(path)
	prefix, ok := ParsePrefix(name)
	return ImageFile{
		Path:      path,
		Filename:  name,
		Extension: filepath.Ext(name),
		Prefix:    prefix,
		HasPrefix: ok,
	}
}

// isRegular reports whether the entry is a regular file, following symlinks.
// A dangling link is not.
func isRegular(path string, info os.FileInfo) bool {
	if info.Mode()&os.ModeSymlink != 0 {
		var err error
		if info, err = os.Stat(path); err != nil {
			return false
		}
	}
	return info.Mode().IsRegular()
}

// Scan lists the supported images directly inside dir. Subdirectories are
// not descended into and symlinks to regular files are followed. Hidden
// files are ignored so the AppleDouble "._name.png" and Spotlight files
// macOS leaves behind on removable drives are never ranked. The result is
// unranked.
func Scan(dir string, exts []string) ([]ImageFile, error) {
	if exts == nil {
		exts = DefaultExtensions
	}

	d, err := os.Open(dir)
	if err != nil {
		return nil, &ConfigError{Dir: dir, Err: err}
	}
	defer d.Close()

	info, err := d.Stat()
	if err != nil {
		return nil, &ConfigError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &ConfigError{Dir: dir, Err: ErrNotDirectory}
	}

	entries, err := d.Readdir(0)
	if err != nil {
		return nil, &ConfigError{Dir: dir, Err: err}
	}

	var files []ImageFile
	for _, e := range entries {
		// Ignore any hidden files, otherwise we end up fighting with things like Spotlight, etc.
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, ok := hasExtension(e.Name(), exts); !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if !isRegular(path, e) {
			continue
		}
		files = append(files, NewImageFile(path))
	}

	return files, nil
}

type byRank []ImageFile

func (r byRank) Len() int {
	return len(r)
}

func (r byRank) Swap(i, j int) {
	r[i], r[j] = r[j], r[i]
}

func (r byRank) Less(i, j int) bool {
	a, b := r[i], r[j]
	switch {
	case a.HasPrefix != b.HasPrefix:
		return a.HasPrefix
	case a.HasPrefix && a.Prefix != b.Prefix:
		return a.Prefix < b.Prefix
	default:
		return a.Filename < b.Filename
	}
}

// Resolve returns a copy of files sorted into processing order with Rank
// set to the 1-based position. Any previous Rank is ignored.
func Resolve(files []ImageFile) []ImageFile {
	ranked := make([]ImageFile, len(files))
	copy(ranked, files)

	for i := range ranked {
		ranked[i].Prefix, ranked[i].HasPrefix = ParsePrefix(ranked[i].Filename)
	}

	sort.Stable(byRank(ranked))

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}
