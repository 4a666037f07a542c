package mml

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
)

// JSON bridge: converts between JSON documents and Values so that arbitrary
// JSON can be transcoded to MML and back. The mapping is lossy in the
// directions JSON cannot express: unit-ish values all become null, enum
// variants become single-key objects, bytes become base64 strings.

// FromJSON converts a JSON document into a Value. Numbers without a fraction
// or exponent become i64 (u64 when out of i64 range), everything else f64;
// null becomes unit.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return Value{}, &DeserializeError{Msg: "invalid JSON: " + err.Error()}
	}
	return fromGoValue(raw)
}

// ToJSON converts a Value into a JSON document.
func ToJSON(v Value) ([]byte, error) {
	raw, err := toGoValue(v)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, &SerializeError{Msg: "encode JSON: " + err.Error()}
	}
	return data, nil
}

// fromGoValue maps the dynamic shapes produced by encoding/json and
// fxamacker/cbor onto Values.
func fromGoValue(raw interface{}) (Value, error) {
	switch val := raw.(type) {
	case nil:
		return Unit(), nil

	case bool:
		return Bool(val), nil

	case json.Number:
		if n, err := strconv.ParseInt(string(val), 10, 64); err == nil {
			return I64(n), nil
		}
		if n, err := strconv.ParseUint(string(val), 10, 64); err == nil {
			return U64(n), nil
		}
		f, err := strconv.ParseFloat(string(val), 64)
		if err != nil {
			return Value{}, &DeserializeError{Msg: "invalid number: " + string(val)}
		}
		return F64(f), nil

	case int64:
		return I64(val), nil

	case uint64:
		return U64(val), nil

	case float64:
		return F64(val), nil

	case *big.Int:
		if val.Sign() < 0 {
			return I128(val), nil
		}
		return U128(val), nil

	case big.Int:
		return fromGoValue(&val)

	case string:
		return Str(val), nil

	case []byte:
		return BytesValue(val), nil

	case []interface{}:
		elems := make([]Value, len(val))
		for i, elem := range val {
			v, err := fromGoValue(elem)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}
		return Seq(elems...), nil

	case map[string]interface{}:
		entries := make([]ValueEntry, 0, len(val))
		for _, key := range sortedKeys(val) {
			v, err := fromGoValue(val[key])
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, Entry(Str(key), v))
		}
		return MapValue(entries...), nil

	case map[interface{}]interface{}:
		entries := make([]ValueEntry, 0, len(val))
		for rawKey, rawVal := range val {
			k, err := fromGoValue(rawKey)
			if err != nil {
				return Value{}, err
			}
			v, err := fromGoValue(rawVal)
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, Entry(k, v))
		}
		return MapValue(entries...), nil

	default:
		return Value{}, &DeserializeError{Msg: fmt.Sprintf("unsupported input type %T", raw)}
	}
}

// toGoValue maps a Value onto the dynamic shapes encoding/json and
// fxamacker/cbor accept.
func toGoValue(v Value) (interface{}, error) {
	switch v.Kind() {
	case KindBool:
		return v.b, nil
	case KindI8, KindI16, KindI32, KindI64:
		return v.i, nil
	case KindU8, KindU16, KindU32, KindU64:
		return v.u, nil
	case KindI128, KindU128:
		// json.Marshal would reject *big.Int; its decimal form is exact.
		return json.RawMessage(v.big.String()), nil
	case KindF32, KindF64:
		return v.f, nil
	case KindChar:
		return string(v.r), nil
	case KindString:
		return v.s, nil
	case KindBytes:
		return base64.StdEncoding.EncodeToString(v.buf), nil
	case KindNone, KindUnit, KindUnitStruct:
		return nil, nil
	case KindSome, KindNewtypeStruct:
		return toGoValue(*v.inner)
	case KindUnitVariant:
		return v.variant, nil
	case KindNewtypeVariant:
		inner, err := toGoValue(*v.inner)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{v.variant: inner}, nil

	case KindSeq, KindTuple, KindTupleStruct:
		return seqToGo(v.seq)

	case KindTupleVariant:
		elems, err := seqToGo(v.seq)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{v.variant: elems}, nil

	case KindMap, KindStruct:
		return entriesToGo(v.entries)

	case KindStructVariant:
		fields, err := entriesToGo(v.entries)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{v.variant: fields}, nil

	default:
		return nil, &SerializeError{Msg: "invalid value kind"}
	}
}

func seqToGo(seq []Value) ([]interface{}, error) {
	elems := make([]interface{}, len(seq))
	for i, elem := range seq {
		raw, err := toGoValue(elem)
		if err != nil {
			return nil, err
		}
		elems[i] = raw
	}
	return elems, nil
}

func entriesToGo(entries []ValueEntry) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(entries))
	for _, entry := range entries {
		key, err := keyString(entry.Key)
		if err != nil {
			return nil, err
		}
		raw, err := toGoValue(entry.Val)
		if err != nil {
			return nil, err
		}
		out[key] = raw
	}
	return out, nil
}

// keyString renders a map key for formats whose object keys are strings.
func keyString(k Value) (string, error) {
	switch k.Kind() {
	case KindString:
		return k.s, nil
	case KindChar:
		return string(k.r), nil
	case KindBool:
		return strconv.FormatBool(k.b), nil
	case KindI8, KindI16, KindI32, KindI64:
		return strconv.FormatInt(k.i, 10), nil
	case KindU8, KindU16, KindU32, KindU64:
		return strconv.FormatUint(k.u, 10), nil
	case KindI128, KindU128:
		return k.big.String(), nil
	default:
		return "", &SerializeError{Msg: "map key of kind " + k.Kind().String() + " has no string form"}
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	// Insertion sort: key sets are small and this keeps output deterministic.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
