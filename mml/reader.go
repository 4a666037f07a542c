package mml

import "strings"

// ItemKind discriminates the structural events a Reader produces.
type ItemKind uint8

const (
	ItemEOF           ItemKind = iota // input exhausted, all lists closed
	ItemLink                          // one leaf: "[text](uri)"
	ItemPushOrdered                   // a numbered sublist opened
	ItemPushUnordered                 // an asterisk sublist opened
	ItemPop                           // the innermost open list closed
)

// String returns the item kind name.
func (k ItemKind) String() string {
	switch k {
	case ItemEOF:
		return "EOF"
	case ItemLink:
		return "LINK"
	case ItemPushOrdered:
		return "PUSH-ORDERED"
	case ItemPushUnordered:
		return "PUSH-UNORDERED"
	case ItemPop:
		return "POP"
	default:
		return "UNKNOWN"
	}
}

// Item is one structural event. For ItemLink, Text holds the raw (still
// escaped) link text and URI the verbatim link target; both are slices of the
// Reader's input and share its lifetime.
type Item struct {
	Kind ItemKind
	Text string
	URI  string
}

type readerState uint8

const (
	stateBeforeItem readerState = iota
	stateInItem
	stateEOF
)

// Reader is an indentation-tracking pull parser over a Markdown document. It
// yields a well-nested sequence of Items in a single lazy pass: every
// ItemPushOrdered/ItemPushUnordered has exactly one matching later ItemPop,
// and once the input is exhausted Next drains the remaining open lists and
// then reports ItemEOF forever.
//
// A Reader is not restartable and must not be shared between goroutines.
type Reader struct {
	input   string
	pos     int
	indents []int
	state   readerState
	depth   int // indent of the item being scanned, valid in stateInItem
}

// NewReader returns a Reader over the given document text.
func NewReader(input string) *Reader {
	return &Reader{input: input}
}

func (r *Reader) syntaxErr(msg string) error {
	return &SyntaxError{Offset: r.pos, Msg: msg}
}

// Next returns the next structural item. Structural violations (input the
// Writer could never have produced) surface as *SyntaxError and poison the
// stream.
func (r *Reader) Next() (Item, error) {
	for {
		switch r.state {
		case stateBeforeItem:
			r.depth = r.measureIndent()
			r.state = stateInItem

		case stateInItem:
			// One pop per dedented level, re-checked against the new top
			// on the following call.
			if n := len(r.indents); n > 0 && r.depth < r.indents[n-1] {
				r.indents = r.indents[:n-1]
				return Item{Kind: ItemPop}, nil
			}

			if r.pos >= len(r.input) {
				r.state = stateEOF
				continue
			}

			ch := r.input[r.pos]
			r.pos++

			switch {
			case ch >= '0' && ch <= '9':
				for r.pos < len(r.input) && isDigit(r.input[r.pos]) {
					r.pos++
				}
				if r.pos >= len(r.input) || r.input[r.pos] != '.' {
					return Item{}, r.syntaxErr("numbered bullet without '.'")
				}
				r.pos++
				if err := r.expectSpace(); err != nil {
					return Item{}, err
				}
				if it, ok := r.pushIfIndented(ItemPushOrdered); ok {
					return it, nil
				}
				// Same-depth continuation item: keep scanning its body.

			case ch == '*':
				if err := r.expectSpace(); err != nil {
					return Item{}, err
				}
				if it, ok := r.pushIfIndented(ItemPushUnordered); ok {
					return it, nil
				}

			case ch == '\n':
				// Empty item: its content is purely a nested sublist.
				r.state = stateBeforeItem

			case ch == '[':
				return r.link()

			default:
				r.pos--
				return Item{}, r.syntaxErr("unexpected character in list item")
			}

		case stateEOF:
			if n := len(r.indents); n > 0 {
				r.indents = r.indents[:n-1]
				return Item{Kind: ItemPop}, nil
			}
			return Item{Kind: ItemEOF}, nil
		}
	}
}

// measureIndent counts and consumes the leading ASCII spaces of a line.
func (r *Reader) measureIndent() int {
	start := r.pos
	for r.pos < len(r.input) && r.input[r.pos] == ' ' {
		r.pos++
	}
	return r.pos - start
}

// expectSpace consumes the single space the Writer always puts after a
// bullet.
func (r *Reader) expectSpace() error {
	if r.pos >= len(r.input) || r.input[r.pos] != ' ' {
		return r.syntaxErr("bullet without trailing space")
	}
	r.pos++
	return nil
}

// pushIfIndented opens a new list when the current item sits deeper than the
// innermost open list (or there is none). A same-depth bullet is a
// continuation item and opens nothing.
func (r *Reader) pushIfIndented(kind ItemKind) (Item, bool) {
	if n := len(r.indents); n == 0 || r.indents[n-1] < r.depth {
		r.indents = append(r.indents, r.depth)
		return Item{Kind: kind}, true
	}
	return Item{}, false
}

// link scans the body of "[text](uri)" with the opening '[' already consumed.
// The text scan honors backslash escapes so escaped ']' bytes do not end it;
// the URI is never escaped.
func (r *Reader) link() (Item, error) {
	text, ok := r.takeEscapedUntil(']')
	if !ok {
		return Item{}, r.syntaxErr("unterminated link text")
	}
	if r.pos >= len(r.input) || r.input[r.pos] != '(' {
		return Item{}, r.syntaxErr("link text without '(' target")
	}
	r.pos++
	uri, ok := r.takeUntil(')')
	if !ok {
		return Item{}, r.syntaxErr("unterminated link target")
	}
	// Discard the rest of the line; a missing final newline is fine.
	if nl := strings.IndexByte(r.input[r.pos:], '\n'); nl >= 0 {
		r.pos += nl + 1
	} else {
		r.pos = len(r.input)
	}
	r.state = stateBeforeItem
	return Item{Kind: ItemLink, Text: text, URI: uri}, nil
}

// takeUntil returns the input up to the next needle byte, consuming both.
func (r *Reader) takeUntil(needle byte) (string, bool) {
	idx := strings.IndexByte(r.input[r.pos:], needle)
	if idx < 0 {
		r.pos = len(r.input)
		return "", false
	}
	s := r.input[r.pos : r.pos+idx]
	r.pos += idx + 1
	return s, true
}

// takeEscapedUntil is takeUntil, skipping backslash-escaped bytes.
func (r *Reader) takeEscapedUntil(needle byte) (string, bool) {
	start := r.pos
	for r.pos < len(r.input) {
		switch r.input[r.pos] {
		case '\\':
			r.pos += 2
		case needle:
			s := r.input[start:r.pos]
			r.pos++
			return s, true
		default:
			r.pos++
		}
	}
	return "", false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// unescapeText removes the backslashes the Writer inserted before punctuation.
// Text without escapes is returned as-is, still sharing the input buffer.
func unescapeText(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// itemStream adds the single item of lookahead the deserializer needs over a
// Reader.
type itemStream struct {
	r      *Reader
	item   Item
	err    error
	peeked bool
}

func newItemStream(input string) *itemStream {
	return &itemStream{r: NewReader(input)}
}

// Peek returns the next item without consuming it.
func (s *itemStream) Peek() (Item, error) {
	if !s.peeked {
		s.item, s.err = s.r.Next()
		s.peeked = true
	}
	return s.item, s.err
}

// Next consumes and returns the next item.
func (s *itemStream) Next() (Item, error) {
	it, err := s.Peek()
	s.peeked = false
	return it, err
}
