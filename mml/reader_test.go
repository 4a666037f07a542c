package mml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readAll drains the reader up to (and excluding) ItemEOF.
func readAll(t *testing.T, doc string) []Item {
	t.Helper()

	r := NewReader(doc)
	var items []Item
	for {
		it, err := r.Next()
		require.NoError(t, err)
		if it.Kind == ItemEOF {
			return items
		}
		items = append(items, it)
	}
}

func TestReaderRootLink(t *testing.T) {
	items := readAll(t, "[None](serde://none)\n")
	assert.Equal(t, []Item{{Kind: ItemLink, Text: "None", URI: "serde://none"}}, items)
}

func TestReaderOrderedList(t *testing.T) {
	doc := "0. [a](serde://string)\n" +
		"1. [b](serde://string)\n"

	items := readAll(t, doc)
	assert.Equal(t, []Item{
		{Kind: ItemPushOrdered},
		{Kind: ItemLink, Text: "a", URI: "serde://string"},
		{Kind: ItemLink, Text: "b", URI: "serde://string"},
		{Kind: ItemPop},
	}, items)
}

func TestReaderUnorderedList(t *testing.T) {
	doc := "* [a](serde://string)\n" +
		"* [b](serde://string)\n"

	items := readAll(t, doc)
	assert.Equal(t, []Item{
		{Kind: ItemPushUnordered},
		{Kind: ItemLink, Text: "a", URI: "serde://string"},
		{Kind: ItemLink, Text: "b", URI: "serde://string"},
		{Kind: ItemPop},
	}, items)
}

func TestReaderNestedSublist(t *testing.T) {
	doc := "0. [outer](serde://string)\n" +
		"1. \n" +
		"    0. [inner](serde://string)\n" +
		"2. [after](serde://string)\n"

	items := readAll(t, doc)
	assert.Equal(t, []Item{
		{Kind: ItemPushOrdered},
		{Kind: ItemLink, Text: "outer", URI: "serde://string"},
		{Kind: ItemPushOrdered},
		{Kind: ItemLink, Text: "inner", URI: "serde://string"},
		{Kind: ItemPop},
		{Kind: ItemLink, Text: "after", URI: "serde://string"},
		{Kind: ItemPop},
	}, items)
}

// Returning from three levels deep to root depth in one step must yield one
// pop per level, in order.
func TestReaderMultiLevelDedent(t *testing.T) {
	doc := "0. \n" +
		"    0. \n" +
		"        0. [deep](serde://u8)\n" +
		"1. [shallow](serde://u8)\n"

	items := readAll(t, doc)
	assert.Equal(t, []Item{
		{Kind: ItemPushOrdered},
		{Kind: ItemPushOrdered},
		{Kind: ItemPushOrdered},
		{Kind: ItemLink, Text: "deep", URI: "serde://u8"},
		{Kind: ItemPop},
		{Kind: ItemPop},
		{Kind: ItemLink, Text: "shallow", URI: "serde://u8"},
		{Kind: ItemPop},
	}, items)
}

// End of input drains every still-open list.
func TestReaderEOFDrainsStack(t *testing.T) {
	doc := "0. \n" +
		"    0. \n" +
		"        0. [deep](serde://u8)\n"

	items := readAll(t, doc)
	assert.Equal(t, []Item{
		{Kind: ItemPushOrdered},
		{Kind: ItemPushOrdered},
		{Kind: ItemPushOrdered},
		{Kind: ItemLink, Text: "deep", URI: "serde://u8"},
		{Kind: ItemPop},
		{Kind: ItemPop},
		{Kind: ItemPop},
	}, items)
}

func TestReaderEOFIsSticky(t *testing.T) {
	r := NewReader("")
	for i := 0; i < 3; i++ {
		it, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, ItemEOF, it.Kind)
	}
}

// Escaped ']' bytes must not terminate the link text scan.
func TestReaderEscapedLinkText(t *testing.T) {
	items := readAll(t, "[a\\]b](serde://string)\n")
	require.Len(t, items, 1)
	assert.Equal(t, `a\]b`, items[0].Text)
	assert.Equal(t, "serde://string", items[0].URI)
}

func TestReaderMissingFinalNewline(t *testing.T) {
	items := readAll(t, "[x](serde://string)")
	assert.Equal(t, []Item{{Kind: ItemLink, Text: "x", URI: "serde://string"}}, items)
}

func TestReaderSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bullet without space", "0.[x](serde://u8)\n"},
		{"asterisk without space", "*[x](serde://u8)\n"},
		{"number without dot", "0 [x](serde://u8)\n"},
		{"stray character", "- [x](serde://u8)\n"},
		{"unterminated text", "[x(serde://u8)\n"},
		{"text without target", "[x] serde\n"},
		{"unterminated target", "[x](serde://u8\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.doc)
			var err error
			for err == nil {
				var it Item
				it, err = r.Next()
				if it.Kind == ItemEOF {
					break
				}
			}
			require.Error(t, err)

			var synErr *SyntaxError
			assert.ErrorAs(t, err, &synErr)
		})
	}
}

func TestUnescapeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{`a\.b`, "a.b"},
		{`\[x\]\(y\)`, "[x](y)"},
		{`back\\slash`, `back\slash`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, unescapeText(tt.in))
		})
	}
}

func TestItemStreamLookahead(t *testing.T) {
	s := newItemStream("0. [a](serde://string)\n")

	it, err := s.Peek()
	require.NoError(t, err)
	assert.Equal(t, ItemPushOrdered, it.Kind)

	// Peek must not consume.
	it, err = s.Peek()
	require.NoError(t, err)
	assert.Equal(t, ItemPushOrdered, it.Kind)

	it, err = s.Next()
	require.NoError(t, err)
	assert.Equal(t, ItemPushOrdered, it.Kind)

	it, err = s.Next()
	require.NoError(t, err)
	assert.Equal(t, ItemLink, it.Kind)
}
