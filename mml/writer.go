package mml

import (
	"encoding/base64"
	"io"
	"strconv"
	"strings"
)

// Indent is the number of spaces per nesting level.
const Indent = 4

type bulletKind uint8

const (
	bulletNumber   bulletKind = iota // "0. ", "1. ", ...
	bulletAsterisk                   // "* "
)

// List tracks the writer's position inside one Markdown list: its nesting
// depth and the next bullet to emit. The zero depth is the outermost list;
// a nil *List means "writing at the document root", outside any list.
type List struct {
	depth int
	kind  bulletKind
	next  int // next ordinal for numbered bullets
}

// Depth returns the list's nesting depth, counted from 0 at the outermost
// list.
func (l *List) Depth() int {
	return l.depth
}

// Writer emits Markdown list syntax to an output sink. All operations are
// append-only; the only failures are the sink's write failures, surfaced as
// *IOError.
type Writer struct {
	out io.Writer
}

// NewWriter returns a Writer over the given sink.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) write(s string) error {
	if _, err := io.WriteString(w.out, s); err != nil {
		return &IOError{Err: err}
	}
	return nil
}

// OrderedList opens a numbered sublist under parent. If parent is non-nil its
// next bullet is written on a line of its own (the sublist hangs off an
// otherwise empty item). The returned cursor starts numbering at 0.
func (w *Writer) OrderedList(parent *List) (List, error) {
	return w.sublist(parent, bulletNumber)
}

// UnorderedList opens an asterisk-bulleted sublist under parent.
func (w *Writer) UnorderedList(parent *List) (List, error) {
	return w.sublist(parent, bulletAsterisk)
}

func (w *Writer) sublist(parent *List, kind bulletKind) (List, error) {
	depth := 0
	if parent != nil {
		if err := w.bullet(parent); err != nil {
			return List{}, err
		}
		if err := w.write("\n"); err != nil {
			return List{}, err
		}
		depth = parent.depth + 1
	}
	return List{depth: depth, kind: kind}, nil
}

// bullet writes the indentation and bullet prefix for the next item of list,
// advancing its counter. A nil list writes nothing (root item).
func (w *Writer) bullet(list *List) error {
	if list == nil {
		return nil
	}
	for i := 0; i < list.depth; i++ {
		if err := w.write("    "); err != nil {
			return err
		}
	}
	if list.kind == bulletNumber {
		if err := w.write(strconv.Itoa(list.next)); err != nil {
			return err
		}
		list.next++
		if err := w.write(". "); err != nil {
			return err
		}
		return nil
	}
	return w.write("* ")
}

// Link writes one link item "[text](uri)" as the next item of list. The text
// is escaped; the URI is written verbatim.
func (w *Writer) Link(list *List, text, uri string) error {
	if err := w.bullet(list); err != nil {
		return err
	}
	if err := w.write("["); err != nil {
		return err
	}
	if err := w.write(escapeText(text)); err != nil {
		return err
	}
	return w.write("](" + uri + ")\n")
}

// BytesLink writes a link item whose text is the URL-safe, padded base64
// encoding of buf. Base64 output never needs Markdown escaping.
func (w *Writer) BytesLink(list *List, buf []byte, uri string) error {
	if err := w.bullet(list); err != nil {
		return err
	}
	if err := w.write("["); err != nil {
		return err
	}
	if err := w.write(base64.URLEncoding.EncodeToString(buf)); err != nil {
		return err
	}
	return w.write("](" + uri + ")\n")
}

// isPunct reports whether b is an ASCII punctuation byte.
func isPunct(b byte) bool {
	switch {
	case b >= '!' && b <= '/':
		return true
	case b >= ':' && b <= '@':
		return true
	case b >= '[' && b <= '`':
		return true
	case b >= '{' && b <= '~':
		return true
	}
	return false
}

// escapeText backslash-prefixes every ASCII punctuation byte so that link
// text can never be confused with the link-closing "]" or other structure.
// Unpunctuated text is returned unchanged, without allocating.
func escapeText(s string) string {
	i := 0
	for i < len(s) && !isPunct(s[i]) {
		i++
	}
	if i == len(s) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 8)
	sb.WriteString(s[:i])
	for ; i < len(s); i++ {
		if isPunct(s[i]) {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
