package bitdb

import (
	"fmt"
	"strings"
)

// Entity kinds used in UnknownEntityError and AmbiguousDecodeError.
const (
	EntityMux        = "mux"
	EntityMuxSource  = "mux source"
	EntityWord       = "word"
	EntityEnum       = "enum"
	EntityEnumOption = "enum option"
)

// ParseError is a malformed on-disk database entry. It is fatal to Load.
type ParseError struct {
	Path   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
}

// UnknownEntityError reports a referenced mux sink, word name, enum name,
// mux source or enum option that is absent from the database.
type UnknownEntityError struct {
	Kind string
	Name string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

// AmbiguousDecodeError reports a database/bitstream inconsistency: more
// than one non-default bit group matched during a mux or enum decode.
type AmbiguousDecodeError struct {
	Kind    string
	Name    string
	Matches []string
}

func (e *AmbiguousDecodeError) Error() string {
	return fmt.Sprintf("ambiguous decode of %s %q: matching %s", e.Kind, e.Name,
		strings.Join(e.Matches, ", "))
}

// ShapeMismatchError reports a word value whose length differs from the
// database's declared width.
type ShapeMismatchError struct {
	Name string
	Want int
	Got  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("word %q expects %d bits, got %d", e.Name, e.Want, e.Got)
}
