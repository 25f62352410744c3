package epub

import (
	"io"
	"os"
	"path/filepath"
)

// serializer is anything that can write a full container image.
type serializer interface {
	WriteTo(w io.Writer) error
}

// WriteFile serializes the container to a temp file next to dest and renames
// it over dest only after the write fully succeeds. On any failure the temp
// file is removed and dest is left untouched.
func WriteFile(c serializer, dest string) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".retoc-*.epub")
	if err != nil {
		return WriteError{Path: dest, Err: err}
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return WriteError{Path: dest, Err: err}
	}

	if err := c.WriteTo(tmp); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return WriteError{Path: dest, Err: err}
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return WriteError{Path: dest, Err: err}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return WriteError{Path: dest, Err: err}
	}
	return nil
}
