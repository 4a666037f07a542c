package mml

import "math/big"

// Marshaler is implemented by application types that can decompose themselves
// into the codec's primitive shapes by calling back into a Serializer.
type Marshaler interface {
	MarshalMML(s Serializer) error
}

// Unmarshaler is implemented by application types that can reconstruct
// themselves from a Deserializer.
type Unmarshaler interface {
	UnmarshalMML(d Deserializer) error
}

// Serializer is the encode half of the visitor contract: one method per
// shape. Compound shapes hand back a sub-serializer whose End call restores
// the enclosing context; the caller signals completion explicitly, declared
// lengths are advisory metadata only.
//
// The 128-bit integer shapes take *big.Int since Go has no native 128-bit
// integers; values outside the 128-bit range are rejected.
type Serializer interface {
	SerializeBool(v bool) error
	SerializeI8(v int8) error
	SerializeI16(v int16) error
	SerializeI32(v int32) error
	SerializeI64(v int64) error
	SerializeI128(v *big.Int) error
	SerializeU8(v uint8) error
	SerializeU16(v uint16) error
	SerializeU32(v uint32) error
	SerializeU64(v uint64) error
	SerializeU128(v *big.Int) error
	SerializeF32(v float32) error
	SerializeF64(v float64) error
	SerializeChar(v rune) error
	SerializeString(v string) error
	SerializeBytes(v []byte) error
	SerializeNone() error
	SerializeSome(v Marshaler) error
	SerializeUnit() error
	SerializeUnitStruct(name string) error
	SerializeUnitVariant(name, variant string) error
	SerializeNewtypeStruct(name string, v Marshaler) error
	SerializeNewtypeVariant(name, variant string, v Marshaler) error

	// A negative n declares the sequence/map length unknown.
	SerializeSeq(n int) (SeqSerializer, error)
	SerializeTuple(n int) (SeqSerializer, error)
	SerializeTupleStruct(name string, n int) (SeqSerializer, error)
	SerializeTupleVariant(name, variant string, n int) (SeqSerializer, error)
	SerializeMap(n int) (MapSerializer, error)
	SerializeStruct(name string, n int) (MapSerializer, error)
	SerializeStructVariant(name, variant string, n int) (MapSerializer, error)
}

// SeqSerializer writes the elements of a sequence, tuple, or tuple
// struct/variant.
type SeqSerializer interface {
	SerializeElement(v Marshaler) error
	End() error
}

// MapSerializer writes the entries of a map, struct, or struct variant. Keys
// and values must alternate, starting with a key.
type MapSerializer interface {
	SerializeKey(k Marshaler) error
	SerializeValue(v Marshaler) error
	End() error
}

// Deserializer is the decode half of the contract. The format is fully
// self-describing, so a single entry point suffices: the document's own tags
// decide which Visitor callback fires.
type Deserializer interface {
	DeserializeAny(v Visitor) error
}

// Visitor receives exactly one callback per deserialized value, chosen by the
// value's type tag.
type Visitor interface {
	VisitBool(v bool) error
	VisitI8(v int8) error
	VisitI16(v int16) error
	VisitI32(v int32) error
	VisitI64(v int64) error
	VisitI128(v *big.Int) error
	VisitU8(v uint8) error
	VisitU16(v uint16) error
	VisitU32(v uint32) error
	VisitU64(v uint64) error
	VisitU128(v *big.Int) error
	VisitF32(v float32) error
	VisitF64(v float64) error
	VisitChar(v rune) error
	VisitString(v string) error
	VisitBytes(v []byte) error
	VisitNone() error
	VisitSome(d Deserializer) error
	VisitUnit() error
	VisitUnitStruct(name string) error
	VisitNewtype(name string, d Deserializer) error
	VisitSeq(a SeqAccess) error
	VisitMap(a MapAccess) error
	VisitEnum(a EnumAccess) error
}

// SeqAccess hands a visitor the elements of a sequence, tuple, or tuple
// struct one at a time.
type SeqAccess interface {
	// NextElement decodes the next element into v, or reports false when the
	// sequence has ended.
	NextElement(v Unmarshaler) (bool, error)

	// Shape returns the decoded tag that opened this sequence (KindSeq,
	// KindTuple, KindTupleStruct or KindTupleVariant, with name and declared
	// length).
	Shape() Type

	// SizeHint returns the declared length, or -1 when unknown. Advisory
	// only; it is never checked against the actual element count.
	SizeHint() int
}

// MapAccess hands a visitor the entries of a map or struct pair by pair.
// NextKey and NextValue must alternate, starting with NextKey.
type MapAccess interface {
	NextKey(k Unmarshaler) (bool, error)
	NextValue(v Unmarshaler) error

	// Shape returns the decoded tag that opened this map (KindMap,
	// KindStruct or KindStructVariant).
	Shape() Type
}

// EnumAccess hands a visitor an enum variant. Shape carries the enum name,
// variant name and, for tuple/struct variants, the declared length; exactly
// one of the payload methods matching Shape().Kind may be called.
type EnumAccess interface {
	Shape() Type
	UnitVariant() error
	NewtypeVariant(v Unmarshaler) error
	TupleVariant(vis Visitor) error
	StructVariant(vis Visitor) error
}
