package ingest

import "fmt"

// ParseError indicates that a source document could not be parsed: corrupt
// bytes, an unsupported format, or an unreachable parsing backend.
type ParseError struct {
	Doc string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse document %s: %v", e.Doc, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
