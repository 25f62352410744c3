package epub

import "fmt"

// Error types for container I/O failures
type (
	// ReadError indicates the container could not be opened or parsed.
	ReadError struct {
		Path string
		Err  error
	}
	// WriteError indicates serialization or temp-file promotion failed.
	WriteError struct {
		Path string
		Err  error
	}
)

func (e ReadError) Error() string  { return fmt.Sprintf("reading %s: %v", e.Path, e.Err) }
func (e ReadError) Unwrap() error  { return e.Err }
func (e WriteError) Error() string { return fmt.Sprintf("writing %s: %v", e.Path, e.Err) }
func (e WriteError) Unwrap() error { return e.Err }
