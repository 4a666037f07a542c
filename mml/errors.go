package mml

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEOF is returned when the document ends where another item was
// required.
var ErrUnexpectedEOF = errors.New("mml: unexpected end of document")

// IOError wraps a failure of the underlying output sink or input source.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return "mml: " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// TagReason classifies why a type tag URI failed to parse.
type TagReason uint8

const (
	TagUnknownSchema   TagReason = iota // URI does not start with "serde://"
	TagUnknownType                      // first path segment is not a known kind
	TagMissingFragment                  // a required name/variant/length segment is absent
	TagBadLength                        // a length segment is not an unsigned integer
)

// String returns a short description of the reason.
func (r TagReason) String() string {
	switch r {
	case TagUnknownSchema:
		return "unknown schema"
	case TagUnknownType:
		return "unknown type"
	case TagMissingFragment:
		return "missing path fragment"
	case TagBadLength:
		return "bad length"
	default:
		return "invalid tag"
	}
}

// TagParseError reports a malformed type tag URI.
type TagParseError struct {
	URI    string
	Reason TagReason
	Err    error // underlying cause for TagBadLength, nil otherwise
}

func (e *TagParseError) Error() string {
	return fmt.Sprintf("mml: %s in type tag %q", e.Reason, e.URI)
}

func (e *TagParseError) Unwrap() error {
	return e.Err
}

// PrimitiveParseError reports a leaf literal that does not parse as the kind
// its tag names: a malformed number, boolean, char, or base64 payload.
type PrimitiveParseError struct {
	Kind Kind
	Text string
	Err  error
}

func (e *PrimitiveParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mml: invalid %s literal %q: %v", e.Kind, e.Text, e.Err)
	}
	return fmt.Sprintf("mml: invalid %s literal %q", e.Kind, e.Text)
}

func (e *PrimitiveParseError) Unwrap() error {
	return e.Err
}

// SyntaxError reports a structural violation: input that could not have been
// produced by this codec's writer, or a document whose shape does not match
// what the caller asked to decode. It is distinct from ordinary data errors
// and aborts the whole operation.
type SyntaxError struct {
	Offset int // byte offset into the document, -1 when unknown
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Offset < 0 {
		return "mml: " + e.Msg
	}
	return fmt.Sprintf("mml: %s at offset %d", e.Msg, e.Offset)
}

// SerializeError is an application-level failure raised through the Marshaler
// contract: the value could not produce a representation.
type SerializeError struct {
	Msg string
}

func (e *SerializeError) Error() string {
	return "mml: serialize: " + e.Msg
}

// DeserializeError is an application-level failure raised through the
// Unmarshaler contract: the document could not be turned into the value.
type DeserializeError struct {
	Msg string
}

func (e *DeserializeError) Error() string {
	return "mml: deserialize: " + e.Msg
}
