package mml

import (
	"bytes"
	"math/big"
)

// Value is a dynamic MML value: one variant per shape in the data model. It
// implements Marshaler, Unmarshaler and Visitor, so it can stand in for any
// application type on either side of the codec. It is the vehicle for the
// JSON and CBOR bridges and for round-trip testing.
type Value struct {
	kind    Kind
	name    string // struct / enum type name
	variant string

	b     bool
	i     int64    // i8..i64
	u     uint64   // u8..u64
	big   *big.Int // i128 / u128
	f     float64  // f32 (widened) / f64
	r     rune     // char
	s     string   // string
	buf   []byte   // bytes
	inner *Value   // some / newtype payload

	seq     []Value      // seq / tuple / tuple struct / tuple variant
	entries []ValueEntry // map / struct / struct variant
}

// ValueEntry is one key/value pair of a map, struct, or struct variant.
// Struct field keys are string values.
type ValueEntry struct {
	Key Value
	Val Value
}

// Entry builds a ValueEntry.
func Entry(k, v Value) ValueEntry {
	return ValueEntry{Key: k, Val: v}
}

// Field builds a struct field entry with a string key.
func Field(name string, v Value) ValueEntry {
	return ValueEntry{Key: Str(name), Val: v}
}

// Bool creates a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// I8 creates an 8-bit signed integer value.
func I8(v int8) Value { return Value{kind: KindI8, i: int64(v)} }

// I16 creates a 16-bit signed integer value.
func I16(v int16) Value { return Value{kind: KindI16, i: int64(v)} }

// I32 creates a 32-bit signed integer value.
func I32(v int32) Value { return Value{kind: KindI32, i: int64(v)} }

// I64 creates a 64-bit signed integer value.
func I64(v int64) Value { return Value{kind: KindI64, i: v} }

// I128 creates a 128-bit signed integer value. A nil argument is zero.
func I128(v *big.Int) Value {
	if v == nil {
		v = new(big.Int)
	}
	return Value{kind: KindI128, big: v}
}

// U8 creates an 8-bit unsigned integer value.
func U8(v uint8) Value { return Value{kind: KindU8, u: uint64(v)} }

// U16 creates a 16-bit unsigned integer value.
func U16(v uint16) Value { return Value{kind: KindU16, u: uint64(v)} }

// U32 creates a 32-bit unsigned integer value.
func U32(v uint32) Value { return Value{kind: KindU32, u: uint64(v)} }

// U64 creates a 64-bit unsigned integer value.
func U64(v uint64) Value { return Value{kind: KindU64, u: v} }

// U128 creates a 128-bit unsigned integer value. A nil argument is zero.
func U128(v *big.Int) Value {
	if v == nil {
		v = new(big.Int)
	}
	return Value{kind: KindU128, big: v}
}

// F32 creates a 32-bit float value.
func F32(v float32) Value { return Value{kind: KindF32, f: float64(v)} }

// F64 creates a 64-bit float value.
func F64(v float64) Value { return Value{kind: KindF64, f: v} }

// Char creates a character value.
func Char(v rune) Value { return Value{kind: KindChar, r: v} }

// Str creates a string value.
func Str(v string) Value { return Value{kind: KindString, s: v} }

// BytesValue creates a byte buffer value.
func BytesValue(v []byte) Value { return Value{kind: KindBytes, buf: v} }

// None creates the absent option value.
func None() Value { return Value{kind: KindNone} }

// Some creates a present option value.
func Some(v Value) Value { return Value{kind: KindSome, inner: &v} }

// Unit creates the unit value.
func Unit() Value { return Value{kind: KindUnit} }

// UnitStruct creates a named unit struct value.
func UnitStruct(name string) Value { return Value{kind: KindUnitStruct, name: name} }

// UnitVariant creates a unit enum variant value.
func UnitVariant(name, variant string) Value {
	return Value{kind: KindUnitVariant, name: name, variant: variant}
}

// NewtypeStruct creates a named single-value wrapper.
func NewtypeStruct(name string, v Value) Value {
	return Value{kind: KindNewtypeStruct, name: name, inner: &v}
}

// NewtypeVariant creates a single-value enum variant.
func NewtypeVariant(name, variant string, v Value) Value {
	return Value{kind: KindNewtypeVariant, name: name, variant: variant, inner: &v}
}

// Seq creates a sequence value.
func Seq(vs ...Value) Value { return Value{kind: KindSeq, seq: vs} }

// Tuple creates a tuple value.
func Tuple(vs ...Value) Value { return Value{kind: KindTuple, seq: vs} }

// TupleStruct creates a named tuple value.
func TupleStruct(name string, vs ...Value) Value {
	return Value{kind: KindTupleStruct, name: name, seq: vs}
}

// TupleVariant creates a tuple enum variant value.
func TupleVariant(name, variant string, vs ...Value) Value {
	return Value{kind: KindTupleVariant, name: name, variant: variant, seq: vs}
}

// MapValue creates a map value.
func MapValue(entries ...ValueEntry) Value { return Value{kind: KindMap, entries: entries} }

// StructValue creates a named struct value.
func StructValue(name string, fields ...ValueEntry) Value {
	return Value{kind: KindStruct, name: name, entries: fields}
}

// StructVariant creates a struct enum variant value.
func StructVariant(name, variant string, fields ...ValueEntry) Value {
	return Value{kind: KindStructVariant, name: name, variant: variant, entries: fields}
}

// Kind returns the value's shape.
func (v Value) Kind() Kind { return v.kind }

// Name returns the struct or enum type name, if any.
func (v Value) Name() string { return v.name }

// Variant returns the enum variant name, if any.
func (v Value) Variant() string { return v.variant }

// Inner returns the payload of a some/newtype value, or nil.
func (v Value) Inner() *Value { return v.inner }

// Elems returns the elements of a seq/tuple-shaped value.
func (v Value) Elems() []Value { return v.seq }

// Entries returns the entries of a map/struct-shaped value.
func (v Value) Entries() []ValueEntry { return v.entries }

// Equal reports deep structural equality, including names, variants and
// shapes: U8(1) and U16(1) are unequal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.name != o.name || v.variant != o.variant {
		return false
	}

	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindI8, KindI16, KindI32, KindI64:
		return v.i == o.i
	case KindU8, KindU16, KindU32, KindU64:
		return v.u == o.u
	case KindI128, KindU128:
		return v.big.Cmp(o.big) == 0
	case KindF32, KindF64:
		return v.f == o.f
	case KindChar:
		return v.r == o.r
	case KindString:
		return v.s == o.s
	case KindBytes:
		return bytes.Equal(v.buf, o.buf)
	case KindNone, KindUnit, KindUnitStruct, KindUnitVariant:
		return true
	case KindSome, KindNewtypeStruct, KindNewtypeVariant:
		return v.inner.Equal(*o.inner)
	case KindSeq, KindTuple, KindTupleStruct, KindTupleVariant:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	case KindMap, KindStruct, KindStructVariant:
		if len(v.entries) != len(o.entries) {
			return false
		}
		for i := range v.entries {
			if !v.entries[i].Key.Equal(o.entries[i].Key) {
				return false
			}
			if !v.entries[i].Val.Equal(o.entries[i].Val) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MarshalMML serializes the value through the generic contract.
func (v Value) MarshalMML(s Serializer) error {
	switch v.kind {
	case KindBool:
		return s.SerializeBool(v.b)
	case KindI8:
		return s.SerializeI8(int8(v.i))
	case KindI16:
		return s.SerializeI16(int16(v.i))
	case KindI32:
		return s.SerializeI32(int32(v.i))
	case KindI64:
		return s.SerializeI64(v.i)
	case KindI128:
		return s.SerializeI128(v.big)
	case KindU8:
		return s.SerializeU8(uint8(v.u))
	case KindU16:
		return s.SerializeU16(uint16(v.u))
	case KindU32:
		return s.SerializeU32(uint32(v.u))
	case KindU64:
		return s.SerializeU64(v.u)
	case KindU128:
		return s.SerializeU128(v.big)
	case KindF32:
		return s.SerializeF32(float32(v.f))
	case KindF64:
		return s.SerializeF64(v.f)
	case KindChar:
		return s.SerializeChar(v.r)
	case KindString:
		return s.SerializeString(v.s)
	case KindBytes:
		return s.SerializeBytes(v.buf)
	case KindNone:
		return s.SerializeNone()
	case KindSome:
		return s.SerializeSome(*v.inner)
	case KindUnit:
		return s.SerializeUnit()
	case KindUnitStruct:
		return s.SerializeUnitStruct(v.name)
	case KindUnitVariant:
		return s.SerializeUnitVariant(v.name, v.variant)
	case KindNewtypeStruct:
		return s.SerializeNewtypeStruct(v.name, *v.inner)
	case KindNewtypeVariant:
		return s.SerializeNewtypeVariant(v.name, v.variant, *v.inner)

	case KindSeq, KindTuple, KindTupleStruct, KindTupleVariant:
		var (
			ss  SeqSerializer
			err error
		)
		switch v.kind {
		case KindSeq:
			ss, err = s.SerializeSeq(len(v.seq))
		case KindTuple:
			ss, err = s.SerializeTuple(len(v.seq))
		case KindTupleStruct:
			ss, err = s.SerializeTupleStruct(v.name, len(v.seq))
		default:
			ss, err = s.SerializeTupleVariant(v.name, v.variant, len(v.seq))
		}
		if err != nil {
			return err
		}
		for _, elem := range v.seq {
			if err := ss.SerializeElement(elem); err != nil {
				return err
			}
		}
		return ss.End()

	case KindMap, KindStruct, KindStructVariant:
		var (
			ms  MapSerializer
			err error
		)
		switch v.kind {
		case KindMap:
			ms, err = s.SerializeMap(len(v.entries))
		case KindStruct:
			ms, err = s.SerializeStruct(v.name, len(v.entries))
		default:
			ms, err = s.SerializeStructVariant(v.name, v.variant, len(v.entries))
		}
		if err != nil {
			return err
		}
		for _, entry := range v.entries {
			if err := ms.SerializeKey(entry.Key); err != nil {
				return err
			}
			if err := ms.SerializeValue(entry.Val); err != nil {
				return err
			}
		}
		return ms.End()

	default:
		return &SerializeError{Msg: "invalid value kind"}
	}
}

// UnmarshalMML reconstructs the value from a Deserializer.
func (v *Value) UnmarshalMML(d Deserializer) error {
	return d.DeserializeAny(v)
}

// The Visitor implementation below makes *Value a universal sink: whatever
// shape the document carries, the matching callback records it.

func (v *Value) VisitBool(b bool) error { *v = Bool(b); return nil }

func (v *Value) VisitI8(n int8) error { *v = I8(n); return nil }

func (v *Value) VisitI16(n int16) error { *v = I16(n); return nil }

func (v *Value) VisitI32(n int32) error { *v = I32(n); return nil }

func (v *Value) VisitI64(n int64) error { *v = I64(n); return nil }

func (v *Value) VisitI128(n *big.Int) error { *v = I128(n); return nil }

func (v *Value) VisitU8(n uint8) error { *v = U8(n); return nil }

func (v *Value) VisitU16(n uint16) error { *v = U16(n); return nil }

func (v *Value) VisitU32(n uint32) error { *v = U32(n); return nil }

func (v *Value) VisitU64(n uint64) error { *v = U64(n); return nil }

func (v *Value) VisitU128(n *big.Int) error { *v = U128(n); return nil }

func (v *Value) VisitF32(f float32) error { *v = F32(f); return nil }

func (v *Value) VisitF64(f float64) error { *v = F64(f); return nil }

func (v *Value) VisitChar(r rune) error { *v = Char(r); return nil }

func (v *Value) VisitString(s string) error { *v = Str(s); return nil }

func (v *Value) VisitBytes(buf []byte) error { *v = BytesValue(buf); return nil }

func (v *Value) VisitNone() error { *v = None(); return nil }

func (v *Value) VisitSome(d Deserializer) error {
	var inner Value
	if err := inner.UnmarshalMML(d); err != nil {
		return err
	}
	*v = Some(inner)
	return nil
}

func (v *Value) VisitUnit() error { *v = Unit(); return nil }

func (v *Value) VisitUnitStruct(name string) error { *v = UnitStruct(name); return nil }

func (v *Value) VisitNewtype(name string, d Deserializer) error {
	var inner Value
	if err := inner.UnmarshalMML(d); err != nil {
		return err
	}
	*v = NewtypeStruct(name, inner)
	return nil
}

func (v *Value) VisitSeq(a SeqAccess) error {
	shape := a.Shape()

	var elems []Value
	if n := a.SizeHint(); n > 0 {
		elems = make([]Value, 0, n)
	}
	for {
		var elem Value
		ok, err := a.NextElement(&elem)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		elems = append(elems, elem)
	}

	switch shape.Kind {
	case KindTuple:
		*v = Tuple(elems...)
	case KindTupleStruct:
		*v = TupleStruct(shape.Name, elems...)
	case KindTupleVariant:
		*v = TupleVariant(shape.Name, shape.Variant, elems...)
	default:
		*v = Seq(elems...)
	}
	return nil
}

func (v *Value) VisitMap(a MapAccess) error {
	shape := a.Shape()

	var entries []ValueEntry
	for {
		var key Value
		ok, err := a.NextKey(&key)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		var val Value
		if err := a.NextValue(&val); err != nil {
			return err
		}
		entries = append(entries, Entry(key, val))
	}

	switch shape.Kind {
	case KindStruct:
		*v = StructValue(shape.Name, entries...)
	case KindStructVariant:
		*v = StructVariant(shape.Name, shape.Variant, entries...)
	default:
		*v = MapValue(entries...)
	}
	return nil
}

func (v *Value) VisitEnum(a EnumAccess) error {
	shape := a.Shape()

	switch shape.Kind {
	case KindUnitVariant:
		if err := a.UnitVariant(); err != nil {
			return err
		}
		*v = UnitVariant(shape.Name, shape.Variant)
		return nil

	case KindNewtypeVariant:
		var inner Value
		if err := a.NewtypeVariant(&inner); err != nil {
			return err
		}
		*v = NewtypeVariant(shape.Name, shape.Variant, inner)
		return nil

	case KindTupleVariant:
		return a.TupleVariant(v)

	case KindStructVariant:
		return a.StructVariant(v)

	default:
		return &DeserializeError{Msg: "unexpected enum shape " + shape.Kind.String()}
	}
}
