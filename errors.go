package tiled

import (
	"errors"
	"fmt"
)

var (
	ErrCorruptData       = errors.New("corrupt layer data")
	ErrMissingResource   = errors.New("missing resource")
	ErrUnresolvedGID     = errors.New("unresolved gid")
	ErrCircularReference = errors.New("circular reference")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidTmxData    = errors.New("invalid Tmx data")
	ErrEmptyTemplate     = errors.New("template has no object")
)

// LoadError is the terminal error of a failed load. It names the document
// and, when known, the element that could not be read.
type LoadError struct {
	Path    string
	Element string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("tiled: load %s (%s): %v", e.Path, e.Element, e.Err)
	}
	return fmt.Sprintf("tiled: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// MissingResourceError reports an external tileset, template or map file
// that could not be opened.
type MissingResourceError struct {
	Path     string
	Referrer string
	Err      error
}

func (e *MissingResourceError) Error() string {
	if e.Referrer != "" {
		return fmt.Sprintf("missing resource %q referenced by %q: %v", e.Path, e.Referrer, e.Err)
	}
	return fmt.Sprintf("missing resource %q: %v", e.Path, e.Err)
}

func (e *MissingResourceError) Unwrap() []error {
	return []error{ErrMissingResource, e.Err}
}

// UnresolvedGIDError is returned when no tileset of the map owns a GID.
type UnresolvedGIDError struct {
	GID uint32
}

func (e *UnresolvedGIDError) Error() string {
	return fmt.Sprintf("gid %d does not belong to any tileset", e.GID)
}

func (e *UnresolvedGIDError) Is(target error) bool {
	return target == ErrUnresolvedGID
}

// Diagnostic is a recoverable problem found while building a map. The
// affected entity is left empty and the build goes on.
type Diagnostic struct {
	Path    string // document the problem was found in
	Element string // XPath-like location, e.g. /map/layer[2]
	Err     error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %v", d.Path, d.Element, d.Err)
}

// Errors returns the diagnostics of m joined into one error, or nil.
func (m *Map) Errors() error {
	errs := make([]error, 0, len(m.Diagnostics))
	for _, d := range m.Diagnostics {
		errs = append(errs, fmt.Errorf("%s %s: %w", d.Path, d.Element, d.Err))
	}
	return errors.Join(errs...)
}
