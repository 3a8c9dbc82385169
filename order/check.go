package order

// Drift describes a prefixed file whose prefix differs from its rank. The
// prefix on disk is kept; generated code always uses the rank.
type Drift struct {
	File   ImageFile
	Prefix int
	Rank   int
}

// Report is the read-only view produced by Check.
type Report struct {
	Dir   string
	Files []ImageFile
	Drift []Drift
}

// Check scans dir and ranks its images without modifying anything.
func Check(dir string, exts []string) (*Report, error) {
	files, err := Scan(dir, exts)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Dir:   dir,
		Files: Resolve(files),
	}

	for _, f := range r.Files {
		if f.HasPrefix && f.Prefix != f.Rank {
			r.Drift = append(r.Drift, Drift{File: f, Prefix: f.Prefix, Rank: f.Rank})
		}
	}

	return r, nil
}
