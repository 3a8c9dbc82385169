package order

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const emptyBase = "image"

// Sanitize replaces every character outside [A-Za-z0-9] with an underscore,
// collapses runs of underscores and trims them from both ends.
func Sanitize(base string) string {
	var b strings.Builder
	underscore := false
	for i := 0; i < len(base); i++ {
		c := base[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || isDigit(c) {
			b.WriteByte(c)
			underscore = false
			continue
		}
		if !underscore {
			b.WriteByte('_')
			underscore = true
		}
	}
	s := strings.Trim(b.String(), "_")
	if s == "" {
		return emptyBase
	}
	return s
}

// PrefixedName returns the on-disk name for filename at the given rank,
// e.g. "01_My_Photo.PNG". The extension keeps its original case.
func PrefixedName(rank int, filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("%02d_%s%s", rank, Sanitize(strings.TrimSuffix(filename, ext)), ext)
}

// Status is the result of renaming a single file.
type Status int

const (
	StatusRenamed Status = iota
	StatusSkipped
	StatusConflict
	StatusPermission
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRenamed:
		return "renamed"
	case StatusSkipped:
		return "skipped"
	case StatusConflict:
		return "conflict"
	case StatusPermission:
		return "permission denied"
	default:
		return "failed"
	}
}

// Outcome records what happened to one ranked file.
type Outcome struct {
	File    ImageFile
	NewPath string
	Status  Status
	Err     error
}

// OK is true unless the rename was attempted and failed.
func (o Outcome) OK() bool {
	return o.Status == StatusRenamed || o.Status == StatusSkipped
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func classify(err error) Status {
	switch {
	case errors.Is(err, ErrConflict):
		return StatusConflict
	case errors.Is(err, fs.ErrPermission):
		return StatusPermission
	default:
		return StatusFailed
	}
}

// Rename gives every ranked file without a numeric prefix a name that
// carries its rank. Files that already have a prefix are left alone even
// when it no longer matches their rank. Each file gets an Outcome; a failure
// never stops the remaining renames.
func Rename(ranked []ImageFile) []Outcome {
	outcomes := make([]Outcome, 0, len(ranked))

	for _, f := range ranked {
		o := Outcome{File: f, NewPath: f.Path}

		if f.HasPrefix {
			o.Status = StatusSkipped
			outcomes = append(outcomes, o)
			continue
		}

		dst := filepath.Join(filepath.Dir(f.Path), PrefixedName(f.Rank, f.Filename))

		err := func() error {
			found, err := exists(dst)
			if err != nil {
				return err
			}
			if found {
				return fmt.Errorf("%s: %w", filepath.Base(dst), ErrConflict)
			}
			return os.Rename(f.Path, dst)
		}()

		if err != nil {
			o.Status, o.Err = classify(err), err
		} else {
			o.Status, o.NewPath = StatusRenamed, dst
		}
		outcomes = append(outcomes, o)
	}

	return outcomes
}

// Summary counts outcomes by status.
type Summary struct {
	Renamed int
	Skipped int
	Failed  int
}

// Summarize tallies outcomes; conflicts and permission errors count as
// failures.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Status {
		case StatusRenamed:
			s.Renamed++
		case StatusSkipped:
			s.Skipped++
		default:
			s.Failed++
		}
	}
	return s
}
