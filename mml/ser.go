package mml

import (
	"bytes"
	"fmt"
	"io"
	"math/big"
	"strconv"
)

// 128-bit integer bounds.
var (
	maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minI128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// Encoder is the generic serializer: it walks a value through the Marshaler
// contract and emits the nested-list document. One Encoder serves one
// serialize call at a time; concurrent use must be serialized by the caller.
type Encoder struct {
	w    *Writer
	list *List // current list context, nil at the document root
}

// NewEncoder returns an Encoder writing to out.
func NewEncoder(out io.Writer) *Encoder {
	return &Encoder{w: NewWriter(out)}
}

// Marshal encodes v as a Markdown document.
func Marshal(v Marshaler) ([]byte, error) {
	var buf bytes.Buffer
	if err := v.MarshalMML(NewEncoder(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// primitive emits exactly one link at the current cursor.
func (e *Encoder) primitive(text string, t Type) error {
	return e.w.Link(e.list, text, t.String())
}

// newtype opens an ordered sublist holding the wrapper's tag link and a
// single recursively serialized inner value, then restores the outer cursor.
func (e *Encoder) newtype(text string, t Type, v Marshaler) error {
	parent := e.list
	sub, err := e.w.OrderedList(parent)
	if err != nil {
		return err
	}
	e.list = &sub
	if err := e.primitive(text, t); err != nil {
		return err
	}
	if err := v.MarshalMML(e); err != nil {
		return err
	}
	e.list = parent
	return nil
}

// beginSeq opens an ordered sublist with its tag link; elements follow until
// the returned sub-serializer's End restores the outer cursor.
func (e *Encoder) beginSeq(text string, t Type) (SeqSerializer, error) {
	parent := e.list
	sub, err := e.w.OrderedList(parent)
	if err != nil {
		return nil, err
	}
	e.list = &sub
	if err := e.primitive(text, t); err != nil {
		return nil, err
	}
	return &seqEncoder{enc: e, parent: parent}, nil
}

// beginMap opens an unordered sublist with its tag link; each entry adds an
// anonymous two-item ordered pair list.
func (e *Encoder) beginMap(text string, t Type) (MapSerializer, error) {
	parent := e.list
	sub, err := e.w.UnorderedList(parent)
	if err != nil {
		return nil, err
	}
	e.list = &sub
	if err := e.primitive(text, t); err != nil {
		return nil, err
	}
	return &mapEncoder{enc: e, parent: parent}, nil
}

func (e *Encoder) SerializeBool(v bool) error {
	return e.primitive(strconv.FormatBool(v), Type{Kind: KindBool})
}

func (e *Encoder) SerializeI8(v int8) error {
	return e.primitive(strconv.FormatInt(int64(v), 10), Type{Kind: KindI8})
}

func (e *Encoder) SerializeI16(v int16) error {
	return e.primitive(strconv.FormatInt(int64(v), 10), Type{Kind: KindI16})
}

func (e *Encoder) SerializeI32(v int32) error {
	return e.primitive(strconv.FormatInt(int64(v), 10), Type{Kind: KindI32})
}

func (e *Encoder) SerializeI64(v int64) error {
	return e.primitive(strconv.FormatInt(v, 10), Type{Kind: KindI64})
}

func (e *Encoder) SerializeI128(v *big.Int) error {
	if v == nil {
		return &SerializeError{Msg: "nil i128"}
	}
	if v.Cmp(minI128) < 0 || v.Cmp(maxI128) > 0 {
		return &SerializeError{Msg: "i128 out of range: " + v.String()}
	}
	return e.primitive(v.String(), Type{Kind: KindI128})
}

func (e *Encoder) SerializeU8(v uint8) error {
	return e.primitive(strconv.FormatUint(uint64(v), 10), Type{Kind: KindU8})
}

func (e *Encoder) SerializeU16(v uint16) error {
	return e.primitive(strconv.FormatUint(uint64(v), 10), Type{Kind: KindU16})
}

func (e *Encoder) SerializeU32(v uint32) error {
	return e.primitive(strconv.FormatUint(uint64(v), 10), Type{Kind: KindU32})
}

func (e *Encoder) SerializeU64(v uint64) error {
	return e.primitive(strconv.FormatUint(v, 10), Type{Kind: KindU64})
}

func (e *Encoder) SerializeU128(v *big.Int) error {
	if v == nil {
		return &SerializeError{Msg: "nil u128"}
	}
	if v.Sign() < 0 || v.Cmp(maxU128) > 0 {
		return &SerializeError{Msg: "u128 out of range: " + v.String()}
	}
	return e.primitive(v.String(), Type{Kind: KindU128})
}

func (e *Encoder) SerializeF32(v float32) error {
	return e.primitive(strconv.FormatFloat(float64(v), 'g', -1, 32), Type{Kind: KindF32})
}

func (e *Encoder) SerializeF64(v float64) error {
	return e.primitive(strconv.FormatFloat(v, 'g', -1, 64), Type{Kind: KindF64})
}

func (e *Encoder) SerializeChar(v rune) error {
	return e.primitive(string(v), Type{Kind: KindChar})
}

func (e *Encoder) SerializeString(v string) error {
	return e.primitive(v, Type{Kind: KindString})
}

func (e *Encoder) SerializeBytes(v []byte) error {
	return e.w.BytesLink(e.list, v, Type{Kind: KindBytes}.String())
}

func (e *Encoder) SerializeNone() error {
	return e.primitive("None", Type{Kind: KindNone})
}

func (e *Encoder) SerializeSome(v Marshaler) error {
	return e.newtype("Some", Type{Kind: KindSome}, v)
}

func (e *Encoder) SerializeUnit() error {
	return e.primitive("()", Type{Kind: KindUnit})
}

func (e *Encoder) SerializeUnitStruct(name string) error {
	return e.primitive(name, UnitStructType(name))
}

func (e *Encoder) SerializeUnitVariant(name, variant string) error {
	return e.primitive(name+"::"+variant, UnitVariantType(name, variant))
}

func (e *Encoder) SerializeNewtypeStruct(name string, v Marshaler) error {
	return e.newtype(name, NewtypeStructType(name), v)
}

func (e *Encoder) SerializeNewtypeVariant(name, variant string, v Marshaler) error {
	return e.newtype(name+"::"+variant, NewtypeVariantType(name, variant), v)
}

func (e *Encoder) SerializeSeq(n int) (SeqSerializer, error) {
	if n < 0 {
		return e.beginSeq("Seq of unknown length", SeqType(n))
	}
	return e.beginSeq(fmt.Sprintf("Seq of length %d", n), SeqType(n))
}

func (e *Encoder) SerializeTuple(n int) (SeqSerializer, error) {
	return e.beginSeq(fmt.Sprintf("Tuple of length %d", n), TupleType(n))
}

func (e *Encoder) SerializeTupleStruct(name string, n int) (SeqSerializer, error) {
	return e.beginSeq(
		fmt.Sprintf("Tuple struct %s of length %d", name, n),
		TupleStructType(name, n),
	)
}

func (e *Encoder) SerializeTupleVariant(name, variant string, n int) (SeqSerializer, error) {
	return e.beginSeq(
		fmt.Sprintf("Tuple variant %s::%s of length %d", name, variant, n),
		TupleVariantType(name, variant, n),
	)
}

func (e *Encoder) SerializeMap(n int) (MapSerializer, error) {
	if n < 0 {
		return e.beginMap("Map of unknown length", MapType(n))
	}
	return e.beginMap(fmt.Sprintf("Map of length %d", n), MapType(n))
}

func (e *Encoder) SerializeStruct(name string, n int) (MapSerializer, error) {
	return e.beginMap(
		fmt.Sprintf("Struct %s of length %d", name, n),
		StructType(name, n),
	)
}

func (e *Encoder) SerializeStructVariant(name, variant string, n int) (MapSerializer, error) {
	return e.beginMap(
		fmt.Sprintf("Struct variant %s::%s of length %d", name, variant, n),
		StructVariantType(name, variant, n),
	)
}

// seqEncoder writes sequence elements into the open ordered sublist.
type seqEncoder struct {
	enc    *Encoder
	parent *List
}

func (s *seqEncoder) SerializeElement(v Marshaler) error {
	return v.MarshalMML(s.enc)
}

func (s *seqEncoder) End() error {
	s.enc.list = s.parent
	return nil
}

// mapEncoder writes map entries. Each key opens an anonymous two-item ordered
// pair list; the matching value write restores the outer unordered list.
type mapEncoder struct {
	enc    *Encoder
	parent *List
	outer  *List // the unordered list, parked while inside a pair
}

func (m *mapEncoder) SerializeKey(k Marshaler) error {
	pair, err := m.enc.w.OrderedList(m.enc.list)
	if err != nil {
		return err
	}
	m.outer = m.enc.list
	m.enc.list = &pair
	return k.MarshalMML(m.enc)
}

func (m *mapEncoder) SerializeValue(v Marshaler) error {
	if err := v.MarshalMML(m.enc); err != nil {
		return err
	}
	m.enc.list = m.outer
	m.outer = nil
	return nil
}

func (m *mapEncoder) End() error {
	m.enc.list = m.parent
	return nil
}
