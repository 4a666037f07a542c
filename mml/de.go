package mml

import (
	"encoding/base64"
	"math/big"
	"strconv"
	"unicode/utf8"
)

// Decoder is the generic deserializer: it consumes the Reader's item stream
// with one item of lookahead and drives the Visitor contract to reconstruct a
// value. One Decoder serves one document; it holds no state shared across
// calls.
type Decoder struct {
	items *itemStream
}

// NewDecoder returns a Decoder over a document.
func NewDecoder(doc string) *Decoder {
	return &Decoder{items: newItemStream(doc)}
}

// Unmarshal decodes a Markdown document into v.
func Unmarshal(doc string, v Unmarshaler) error {
	return v.UnmarshalMML(NewDecoder(doc))
}

// DeserializeAny dispatches on the next item: a bare link is a primitive, an
// ordered list opens a primitive-wrapping or element-counted composite, an
// unordered list opens a keyed composite.
func (d *Decoder) DeserializeAny(vis Visitor) error {
	it, err := d.items.Next()
	if err != nil {
		return err
	}

	switch it.Kind {
	case ItemLink:
		return d.primitive(it.Text, it.URI, vis)
	case ItemPushOrdered:
		return d.orderedList(vis)
	case ItemPushUnordered:
		return d.unorderedList(vis)
	default:
		// ItemPop at top level, or no item at all, means the document ran
		// out where a value was required.
		return ErrUnexpectedEOF
	}
}

// primitive interprets one leaf per its tag.
func (d *Decoder) primitive(text, uri string, vis Visitor) error {
	t, err := ParseType(uri)
	if err != nil {
		return err
	}

	switch t.Kind {
	case KindBool:
		v, err := strconv.ParseBool(unescapeText(text))
		if err != nil {
			return &PrimitiveParseError{Kind: t.Kind, Text: text, Err: err}
		}
		return vis.VisitBool(v)

	case KindI8, KindI16, KindI32, KindI64:
		v, err := strconv.ParseInt(unescapeText(text), 10, intBits(t.Kind))
		if err != nil {
			return &PrimitiveParseError{Kind: t.Kind, Text: text, Err: err}
		}
		switch t.Kind {
		case KindI8:
			return vis.VisitI8(int8(v))
		case KindI16:
			return vis.VisitI16(int16(v))
		case KindI32:
			return vis.VisitI32(int32(v))
		default:
			return vis.VisitI64(v)
		}

	case KindU8, KindU16, KindU32, KindU64:
		v, err := strconv.ParseUint(unescapeText(text), 10, intBits(t.Kind))
		if err != nil {
			return &PrimitiveParseError{Kind: t.Kind, Text: text, Err: err}
		}
		switch t.Kind {
		case KindU8:
			return vis.VisitU8(uint8(v))
		case KindU16:
			return vis.VisitU16(uint16(v))
		case KindU32:
			return vis.VisitU32(uint32(v))
		default:
			return vis.VisitU64(v)
		}

	case KindI128, KindU128:
		lit := unescapeText(text)
		v, ok := new(big.Int).SetString(lit, 10)
		if !ok || (t.Kind == KindU128 && v.Sign() < 0) {
			return &PrimitiveParseError{Kind: t.Kind, Text: text}
		}
		if t.Kind == KindI128 {
			return vis.VisitI128(v)
		}
		return vis.VisitU128(v)

	case KindF32:
		v, err := strconv.ParseFloat(unescapeText(text), 32)
		if err != nil {
			return &PrimitiveParseError{Kind: t.Kind, Text: text, Err: err}
		}
		return vis.VisitF32(float32(v))

	case KindF64:
		v, err := strconv.ParseFloat(unescapeText(text), 64)
		if err != nil {
			return &PrimitiveParseError{Kind: t.Kind, Text: text, Err: err}
		}
		return vis.VisitF64(v)

	case KindChar:
		lit := unescapeText(text)
		r, size := utf8.DecodeRuneInString(lit)
		if size == 0 || size != len(lit) || r == utf8.RuneError && size == 1 {
			return &PrimitiveParseError{Kind: t.Kind, Text: text}
		}
		return vis.VisitChar(r)

	case KindString:
		return vis.VisitString(unescapeText(text))

	case KindBytes:
		// Base64 text is never escaped by the writer.
		buf, err := base64.URLEncoding.DecodeString(text)
		if err != nil {
			return &PrimitiveParseError{Kind: t.Kind, Text: text, Err: err}
		}
		return vis.VisitBytes(buf)

	case KindNone:
		return vis.VisitNone()

	case KindUnit:
		return vis.VisitUnit()

	case KindUnitStruct:
		return vis.VisitUnitStruct(t.Name)

	case KindUnitVariant:
		return vis.VisitEnum(&enumAccess{dec: d, shape: t})

	default:
		// Composite tags cannot label a bare leaf; the document was not
		// produced by this codec's serializer.
		return &SyntaxError{Offset: -1, Msg: "composite tag " + uri + " on a leaf item"}
	}
}

// tagLink reads a composite's leading tag link.
func (d *Decoder) tagLink() (Type, error) {
	it, err := d.items.Next()
	if err != nil {
		return Type{}, err
	}
	switch it.Kind {
	case ItemLink:
		return ParseType(it.URI)
	case ItemEOF:
		return Type{}, ErrUnexpectedEOF
	default:
		return Type{}, &SyntaxError{Offset: -1, Msg: "composite list without a leading tag link"}
	}
}

// expectPop consumes the item closing the current list.
func (d *Decoder) expectPop() error {
	it, err := d.items.Next()
	if err != nil {
		return err
	}
	switch it.Kind {
	case ItemPop:
		return nil
	case ItemEOF:
		return ErrUnexpectedEOF
	default:
		return &SyntaxError{Offset: -1, Msg: "expected end of list, got " + it.Kind.String()}
	}
}

// orderedList decodes an ordered-list composite: an option payload, a newtype
// wrapper, or an element-counted sequence shape.
func (d *Decoder) orderedList(vis Visitor) error {
	t, err := d.tagLink()
	if err != nil {
		return err
	}

	switch t.Kind {
	case KindSome:
		if err := vis.VisitSome(d); err != nil {
			return err
		}
		return d.expectPop()

	case KindNewtypeStruct:
		if err := vis.VisitNewtype(t.Name, d); err != nil {
			return err
		}
		return d.expectPop()

	case KindNewtypeVariant:
		if err := vis.VisitEnum(&enumAccess{dec: d, shape: t}); err != nil {
			return err
		}
		return d.expectPop()

	case KindSeq, KindTuple, KindTupleStruct:
		return vis.VisitSeq(&seqAccess{dec: d, shape: t})

	case KindTupleVariant:
		return vis.VisitEnum(&enumAccess{dec: d, shape: t})

	default:
		return &SyntaxError{Offset: -1, Msg: "tag " + t.String() + " cannot open an ordered list"}
	}
}

// unorderedList decodes a keyed composite: a map, struct, or struct variant.
func (d *Decoder) unorderedList(vis Visitor) error {
	t, err := d.tagLink()
	if err != nil {
		return err
	}

	switch t.Kind {
	case KindMap, KindStruct:
		return vis.VisitMap(&mapAccess{dec: d, shape: t})

	case KindStructVariant:
		return vis.VisitEnum(&enumAccess{dec: d, shape: t})

	default:
		return &SyntaxError{Offset: -1, Msg: "tag " + t.String() + " cannot open an unordered list"}
	}
}

func intBits(k Kind) int {
	switch k {
	case KindI8, KindU8:
		return 8
	case KindI16, KindU16:
		return 16
	case KindI32, KindU32:
		return 32
	default:
		return 64
	}
}

// seqAccess walks the elements of an open ordered list, stopping at (and
// consuming) its closing pop.
type seqAccess struct {
	dec   *Decoder
	shape Type
}

func (a *seqAccess) NextElement(v Unmarshaler) (bool, error) {
	it, err := a.dec.items.Peek()
	if err != nil {
		return false, err
	}
	switch it.Kind {
	case ItemPop:
		_, _ = a.dec.items.Next()
		return false, nil
	case ItemEOF:
		return false, ErrUnexpectedEOF
	}
	if err := v.UnmarshalMML(a.dec); err != nil {
		return false, err
	}
	return true, nil
}

func (a *seqAccess) Shape() Type {
	return a.shape
}

func (a *seqAccess) SizeHint() int {
	return a.shape.Len
}

// mapAccess walks the key/value pair lists of an open unordered list.
type mapAccess struct {
	dec   *Decoder
	shape Type
}

func (a *mapAccess) NextKey(k Unmarshaler) (bool, error) {
	it, err := a.dec.items.Next()
	if err != nil {
		return false, err
	}
	switch it.Kind {
	case ItemPop:
		return false, nil
	case ItemPushOrdered:
		if err := k.UnmarshalMML(a.dec); err != nil {
			return false, err
		}
		return true, nil
	case ItemEOF:
		return false, ErrUnexpectedEOF
	default:
		return false, &SyntaxError{Offset: -1, Msg: "map entry without a pair list"}
	}
}

func (a *mapAccess) NextValue(v Unmarshaler) error {
	if err := v.UnmarshalMML(a.dec); err != nil {
		return err
	}
	// The pair list holds exactly the key and the value.
	return a.dec.expectPop()
}

func (a *mapAccess) Shape() Type {
	return a.shape
}

// enumAccess surfaces a decoded variant. The payload items, if any, are still
// on the stream; the visitor consumes them through the method matching the
// shape.
type enumAccess struct {
	dec   *Decoder
	shape Type
}

func (a *enumAccess) Shape() Type {
	return a.shape
}

func (a *enumAccess) UnitVariant() error {
	if a.shape.Kind != KindUnitVariant {
		return &SyntaxError{Offset: -1, Msg: "variant " + a.shape.Variant + " is not a unit variant"}
	}
	return nil
}

func (a *enumAccess) NewtypeVariant(v Unmarshaler) error {
	if a.shape.Kind != KindNewtypeVariant {
		return &SyntaxError{Offset: -1, Msg: "variant " + a.shape.Variant + " is not a newtype variant"}
	}
	return v.UnmarshalMML(a.dec)
}

func (a *enumAccess) TupleVariant(vis Visitor) error {
	if a.shape.Kind != KindTupleVariant {
		return &SyntaxError{Offset: -1, Msg: "variant " + a.shape.Variant + " is not a tuple variant"}
	}
	return vis.VisitSeq(&seqAccess{dec: a.dec, shape: a.shape})
}

func (a *enumAccess) StructVariant(vis Visitor) error {
	if a.shape.Kind != KindStructVariant {
		return &SyntaxError{Offset: -1, Msg: "variant " + a.shape.Variant + " is not a struct variant"}
	}
	return vis.VisitMap(&mapAccess{dec: a.dec, shape: a.shape})
}
