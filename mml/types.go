package mml

import (
	"strconv"
	"strings"
)

// Kind enumerates every shape a serialized value can take. It is a closed set:
// the wire format has no room for additional kinds.
type Kind uint8

const (
	KindBool Kind = iota
	KindI8
	KindI16
	KindI32
	KindI64
	KindI128
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindF32
	KindF64
	KindChar
	KindString
	KindBytes
	KindNone
	KindSome
	KindUnit
	KindUnitStruct
	KindUnitVariant
	KindNewtypeStruct
	KindNewtypeVariant
	KindSeq
	KindTuple
	KindTupleStruct
	KindTupleVariant
	KindMap
	KindStruct
	KindStructVariant
)

// String returns the kind's name as it appears in type tag URIs.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindI128:
		return "i128"
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindU128:
		return "u128"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindNone:
		return "none"
	case KindSome:
		return "some"
	case KindUnit:
		return "unit"
	case KindUnitStruct:
		return "unit_struct"
	case KindUnitVariant:
		return "unit_variant"
	case KindNewtypeStruct:
		return "newtype_struct"
	case KindNewtypeVariant:
		return "newtype_variant"
	case KindSeq:
		return "seq"
	case KindTuple:
		return "tuple"
	case KindTupleStruct:
		return "tuple_struct"
	case KindTupleVariant:
		return "tuple_variant"
	case KindMap:
		return "map"
	case KindStruct:
		return "struct"
	case KindStructVariant:
		return "struct_variant"
	default:
		return "unknown"
	}
}

// Type identifies the shape of one encoded value: its kind plus, where the
// kind calls for them, a type name, a variant name and a declared length.
// Lengths are advisory; a negative Len means "unknown length" and is only
// meaningful for KindSeq and KindMap.
//
// A Type round-trips exactly through its URI form: ParseType(t.String()) == t
// for every constructible t.
type Type struct {
	Kind    Kind
	Name    string
	Variant string
	Len     int
}

// Scheme is the URI scheme prefix shared by all type tags.
const Scheme = "serde://"

// UnitStructType returns the tag for a unit struct with the given name.
func UnitStructType(name string) Type {
	return Type{Kind: KindUnitStruct, Name: name}
}

// UnitVariantType returns the tag for a unit enum variant.
func UnitVariantType(name, variant string) Type {
	return Type{Kind: KindUnitVariant, Name: name, Variant: variant}
}

// NewtypeStructType returns the tag for a newtype struct with the given name.
func NewtypeStructType(name string) Type {
	return Type{Kind: KindNewtypeStruct, Name: name}
}

// NewtypeVariantType returns the tag for a newtype enum variant.
func NewtypeVariantType(name, variant string) Type {
	return Type{Kind: KindNewtypeVariant, Name: name, Variant: variant}
}

// SeqType returns the tag for a sequence. A negative n declares the length
// unknown.
func SeqType(n int) Type {
	return Type{Kind: KindSeq, Len: clampLen(n)}
}

// TupleType returns the tag for a tuple of n elements.
func TupleType(n int) Type {
	return Type{Kind: KindTuple, Len: n}
}

// TupleStructType returns the tag for a tuple struct of n elements.
func TupleStructType(name string, n int) Type {
	return Type{Kind: KindTupleStruct, Name: name, Len: n}
}

// TupleVariantType returns the tag for a tuple enum variant of n elements.
func TupleVariantType(name, variant string, n int) Type {
	return Type{Kind: KindTupleVariant, Name: name, Variant: variant, Len: n}
}

// MapType returns the tag for a map. A negative n declares the length unknown.
func MapType(n int) Type {
	return Type{Kind: KindMap, Len: clampLen(n)}
}

// StructType returns the tag for a struct with n fields.
func StructType(name string, n int) Type {
	return Type{Kind: KindStruct, Name: name, Len: n}
}

// StructVariantType returns the tag for a struct enum variant with n fields.
func StructVariantType(name, variant string, n int) Type {
	return Type{Kind: KindStructVariant, Name: name, Variant: variant, Len: n}
}

// clampLen normalizes every "unknown" length to -1 so that Type values
// compare equal regardless of which negative number the caller passed.
func clampLen(n int) int {
	if n < 0 {
		return -1
	}
	return n
}

// String encodes the tag as its canonical URI.
func (t Type) String() string {
	switch t.Kind {
	case KindSome:
		return Scheme + "option/some"
	case KindUnitStruct, KindNewtypeStruct:
		return Scheme + t.Kind.String() + "/" + t.Name
	case KindUnitVariant, KindNewtypeVariant:
		return Scheme + t.Kind.String() + "/" + t.Name + "/" + t.Variant
	case KindSeq, KindMap:
		if t.Len < 0 {
			return Scheme + t.Kind.String() + "/"
		}
		return Scheme + t.Kind.String() + "/" + strconv.Itoa(t.Len)
	case KindTuple:
		return Scheme + "tuple/" + strconv.Itoa(t.Len)
	case KindTupleStruct, KindStruct:
		return Scheme + t.Kind.String() + "/" + t.Name + "/" + strconv.Itoa(t.Len)
	case KindTupleVariant, KindStructVariant:
		return Scheme + t.Kind.String() + "/" + t.Name + "/" + t.Variant + "/" + strconv.Itoa(t.Len)
	default:
		return Scheme + t.Kind.String()
	}
}

// ParseType decodes a type tag URI back into a Type. It is the exact inverse
// of String for every constructible Type.
func ParseType(uri string) (Type, error) {
	if !strings.HasPrefix(uri, Scheme) {
		return Type{}, &TagParseError{URI: uri, Reason: TagUnknownSchema}
	}

	segs := strings.Split(uri[len(Scheme):], "/")
	p := tagParser{uri: uri, segs: segs[1:]}

	switch segs[0] {
	case "bool":
		return Type{Kind: KindBool}, nil
	case "i8":
		return Type{Kind: KindI8}, nil
	case "i16":
		return Type{Kind: KindI16}, nil
	case "i32":
		return Type{Kind: KindI32}, nil
	case "i64":
		return Type{Kind: KindI64}, nil
	case "i128":
		return Type{Kind: KindI128}, nil
	case "u8":
		return Type{Kind: KindU8}, nil
	case "u16":
		return Type{Kind: KindU16}, nil
	case "u32":
		return Type{Kind: KindU32}, nil
	case "u64":
		return Type{Kind: KindU64}, nil
	case "u128":
		return Type{Kind: KindU128}, nil
	case "f32":
		return Type{Kind: KindF32}, nil
	case "f64":
		return Type{Kind: KindF64}, nil
	case "char":
		return Type{Kind: KindChar}, nil
	case "string":
		return Type{Kind: KindString}, nil
	case "bytes":
		return Type{Kind: KindBytes}, nil
	case "none":
		return Type{Kind: KindNone}, nil
	case "unit":
		return Type{Kind: KindUnit}, nil

	case "option":
		frag, err := p.fragment()
		if err != nil {
			return Type{}, err
		}
		if frag != "some" {
			return Type{}, &TagParseError{URI: uri, Reason: TagUnknownType}
		}
		return Type{Kind: KindSome}, nil

	case "unit_struct":
		name, err := p.fragment()
		if err != nil {
			return Type{}, err
		}
		return UnitStructType(name), nil

	case "unit_variant":
		name, variant, err := p.pair()
		if err != nil {
			return Type{}, err
		}
		return UnitVariantType(name, variant), nil

	case "newtype_struct":
		name, err := p.fragment()
		if err != nil {
			return Type{}, err
		}
		return NewtypeStructType(name), nil

	case "newtype_variant":
		name, variant, err := p.pair()
		if err != nil {
			return Type{}, err
		}
		return NewtypeVariantType(name, variant), nil

	case "seq":
		n, err := p.optLen()
		if err != nil {
			return Type{}, err
		}
		return SeqType(n), nil

	case "tuple":
		n, err := p.length()
		if err != nil {
			return Type{}, err
		}
		return TupleType(n), nil

	case "tuple_struct":
		name, err := p.fragment()
		if err != nil {
			return Type{}, err
		}
		n, err := p.length()
		if err != nil {
			return Type{}, err
		}
		return TupleStructType(name, n), nil

	case "tuple_variant":
		name, variant, err := p.pair()
		if err != nil {
			return Type{}, err
		}
		n, err := p.length()
		if err != nil {
			return Type{}, err
		}
		return TupleVariantType(name, variant, n), nil

	case "map":
		n, err := p.optLen()
		if err != nil {
			return Type{}, err
		}
		return MapType(n), nil

	case "struct":
		name, err := p.fragment()
		if err != nil {
			return Type{}, err
		}
		n, err := p.length()
		if err != nil {
			return Type{}, err
		}
		return StructType(name, n), nil

	case "struct_variant":
		name, variant, err := p.pair()
		if err != nil {
			return Type{}, err
		}
		n, err := p.length()
		if err != nil {
			return Type{}, err
		}
		return StructVariantType(name, variant, n), nil

	default:
		return Type{}, &TagParseError{URI: uri, Reason: TagUnknownType}
	}
}

// tagParser consumes the path fragments after the kind segment in declaration
// order.
type tagParser struct {
	uri  string
	segs []string
	pos  int
}

// fragment takes the next fragment, erroring if the path is exhausted.
func (p *tagParser) fragment() (string, error) {
	if p.pos >= len(p.segs) {
		return "", &TagParseError{URI: p.uri, Reason: TagMissingFragment}
	}
	s := p.segs[p.pos]
	p.pos++
	return s, nil
}

// pair takes the next two fragments (name and variant).
func (p *tagParser) pair() (string, string, error) {
	name, err := p.fragment()
	if err != nil {
		return "", "", err
	}
	variant, err := p.fragment()
	if err != nil {
		return "", "", err
	}
	return name, variant, nil
}

// length takes the next fragment and parses it as an unsigned length.
func (p *tagParser) length() (int, error) {
	s, err := p.fragment()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, &TagParseError{URI: p.uri, Reason: TagBadLength, Err: err}
	}
	return int(n), nil
}

// optLen is like length but an absent or empty fragment means "unknown",
// reported as -1.
func (p *tagParser) optLen() (int, error) {
	if p.pos >= len(p.segs) || p.segs[p.pos] == "" {
		if p.pos < len(p.segs) {
			p.pos++
		}
		return -1, nil
	}
	return p.length()
}
