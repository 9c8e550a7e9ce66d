// internal/fixture/errors.go
package fixture

import (
	"errors"
	"fmt"
)

// ErrUnsupported is wrapped by parse errors for syntax the loader knows but
// does not implement.
var ErrUnsupported = errors.New("unsupported value")

// ParseError locates a malformed fixture value.
type ParseError struct {
	// Source is the file path, or empty for in-memory documents.
	Source string
	// Path is the node location inside the document, e.g. root.children[2].
	Path     string
	Property string
	Value    string
	Err      error
}

func (e *ParseError) Error() string {
	loc := e.Path
	if e.Source != "" {
		loc = e.Source + ": " + loc
	}
	if e.Property == "" {
		return fmt.Sprintf("fixture %s: %v", loc, e.Err)
	}
	return fmt.Sprintf("fixture %s: %s: %q: %v", loc, e.Property, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
