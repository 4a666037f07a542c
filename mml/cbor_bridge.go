package mml

import (
	"github.com/fxamacker/cbor/v2"
)

// CBOR bridge: the binary twin of the JSON bridge, built on fxamacker/cbor.
// CBOR keeps byte strings and non-string map keys, so the mapping is tighter
// than JSON's.

// FromCBOR converts a CBOR document into a Value.
func FromCBOR(data []byte) (Value, error) {
	var raw interface{}
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return Value{}, &DeserializeError{Msg: "invalid CBOR: " + err.Error()}
	}
	return fromGoValue(raw)
}

// ToCBOR converts a Value into a CBOR document.
func ToCBOR(v Value) ([]byte, error) {
	raw, err := toCBORValue(v)
	if err != nil {
		return nil, err
	}
	data, err := cbor.Marshal(raw)
	if err != nil {
		return nil, &SerializeError{Msg: "encode CBOR: " + err.Error()}
	}
	return data, nil
}

// toCBORValue is toGoValue with the CBOR-only refinements: bytes stay raw and
// 128-bit integers ride as bignums.
func toCBORValue(v Value) (interface{}, error) {
	switch v.Kind() {
	case KindBytes:
		return v.buf, nil
	case KindI128, KindU128:
		return v.big, nil
	case KindSome, KindNewtypeStruct:
		return toCBORValue(*v.inner)
	case KindSeq, KindTuple, KindTupleStruct:
		elems := make([]interface{}, len(v.seq))
		for i, elem := range v.seq {
			raw, err := toCBORValue(elem)
			if err != nil {
				return nil, err
			}
			elems[i] = raw
		}
		return elems, nil
	case KindMap, KindStruct:
		out := make(map[interface{}]interface{}, len(v.entries))
		for _, entry := range v.entries {
			key, err := cborKey(entry.Key)
			if err != nil {
				return nil, err
			}
			raw, err := toCBORValue(entry.Val)
			if err != nil {
				return nil, err
			}
			out[key] = raw
		}
		return out, nil
	default:
		return toGoValue(v)
	}
}

// cborKey keeps scalar map keys in their native CBOR form; composite keys
// fall back to their string rendering since Go map keys must be comparable.
func cborKey(k Value) (interface{}, error) {
	switch k.Kind() {
	case KindBool:
		return k.b, nil
	case KindI8, KindI16, KindI32, KindI64:
		return k.i, nil
	case KindU8, KindU16, KindU32, KindU64:
		return k.u, nil
	case KindF32, KindF64:
		return k.f, nil
	case KindChar:
		return string(k.r), nil
	case KindString:
		return k.s, nil
	default:
		return keyString(k)
	}
}
