package mml

import (
	"math/big"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Value
	}{
		{"null", `null`, Unit()},
		{"bool", `true`, Bool(true)},
		{"integer", `42`, I64(42)},
		{"negative", `-42`, I64(-42)},
		{"big unsigned", `18446744073709551615`, U64(18446744073709551615)},
		{"float", `1.5`, F64(1.5)},
		{"exponent", `1e3`, F64(1000)},
		{"string", `"hi"`, Str("hi")},
		{"array", `[1, "two"]`, Seq(I64(1), Str("two"))},
		{
			"object keys sorted",
			`{"b": 2, "a": 1}`,
			MapValue(Entry(Str("a"), I64(1)), Entry(Str("b"), I64(2))),
		},
		{
			"nested",
			`{"xs": [null, {"k": false}]}`,
			MapValue(Entry(Str("xs"), Seq(Unit(), MapValue(Entry(Str("k"), Bool(false)))))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromJSON([]byte(tt.json))
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v", got)
		})
	}
}

func TestFromJSONInvalid(t *testing.T) {
	_, err := FromJSON([]byte(`{"unterminated`))
	require.Error(t, err)

	var deErr *DeserializeError
	assert.ErrorAs(t, err, &deErr)
}

func TestToJSON(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"bool", Bool(true), `true`},
		{"i8", I8(-5), `-5`},
		{"u128", U128(new(big.Int).Lsh(big.NewInt(1), 100)), `1267650600228229401496703205376`},
		{"char", Char('x'), `"x"`},
		{"bytes", BytesValue([]byte{0, 1, 2}), `"AAEC"`},
		{"none", None(), `null`},
		{"unit struct", UnitStruct("Marker"), `null`},
		{"some unwraps", Some(U8(7)), `7`},
		{"newtype unwraps", NewtypeStruct("Meters", U8(3)), `3`},
		{"unit variant", UnitVariant("Shape", "Point"), `"Point"`},
		{"newtype variant", NewtypeVariant("Shape", "Radius", U8(2)), `{"Radius":2}`},
		{"tuple variant", TupleVariant("Shape", "Circle", U8(5)), `{"Circle":[5]}`},
		{"seq", Seq(U8(1), Str("two")), `[1,"two"]`},
		{
			"struct",
			StructValue("Point", Field("x", U8(1)), Field("y", U8(2))),
			`{"x":1,"y":2}`,
		},
		{
			"struct variant",
			StructVariant("Shape", "Rect", Field("w", U8(3))),
			`{"Rect":{"w":3}}`,
		},
		{"integer map keys", MapValue(Entry(U8(1), Str("one"))), `{"1":"one"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ToJSON(tt.v)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestToJSONCompositeKeyRejected(t *testing.T) {
	_, err := ToJSON(MapValue(Entry(Seq(U8(1)), Str("v"))))
	require.Error(t, err)

	var serErr *SerializeError
	assert.ErrorAs(t, err, &serErr)
}

// JSON to MML and back: the value settles after the first conversion.
func TestJSONRoundTripThroughMML(t *testing.T) {
	src := `{"name":"deep","tags":["a","b"],"count":3,"extra":null}`

	value, err := FromJSON([]byte(src))
	require.NoError(t, err)

	doc, err := Marshal(value)
	require.NoError(t, err)

	var back Value
	require.NoError(t, Unmarshal(string(doc), &back))
	require.True(t, back.Equal(value))

	out, err := ToJSON(back)
	require.NoError(t, err)
	assert.JSONEq(t, src, string(out))
}

func TestCBORRoundTripThroughMML(t *testing.T) {
	// Single-entry maps keep the re-encoded byte order deterministic.
	src, err := cbor.Marshal(map[interface{}]interface{}{
		"payload": []interface{}{uint64(1), int64(-2), "three", []byte{0xff, 0x00}},
	})
	require.NoError(t, err)

	value, err := FromCBOR(src)
	require.NoError(t, err)

	// Positive integers surface as u64, negative as i64, bytes stay raw.
	want := MapValue(Entry(Str("payload"), Seq(
		U64(1), I64(-2), Str("three"), BytesValue([]byte{0xff, 0x00}),
	)))
	require.True(t, value.Equal(want), "got %v", value)

	doc, err := Marshal(value)
	require.NoError(t, err)

	var back Value
	require.NoError(t, Unmarshal(string(doc), &back))
	require.True(t, back.Equal(value))

	out, err := ToCBOR(back)
	require.NoError(t, err)

	var rawA, rawB interface{}
	require.NoError(t, cbor.Unmarshal(src, &rawA))
	require.NoError(t, cbor.Unmarshal(out, &rawB))
	assert.Equal(t, rawA, rawB)
}

func TestCBORKeepsBytesAndBignums(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 100)

	out, err := ToCBOR(Seq(BytesValue([]byte{1, 2, 3}), U128(huge)))
	require.NoError(t, err)

	back, err := FromCBOR(out)
	require.NoError(t, err)

	elems := back.Elems()
	require.Len(t, elems, 2)
	assert.True(t, elems[0].Equal(BytesValue([]byte{1, 2, 3})))
	assert.Equal(t, KindU128, elems[1].Kind())
}

func TestFromCBORInvalid(t *testing.T) {
	_, err := FromCBOR([]byte{0xff})
	require.Error(t, err)

	var deErr *DeserializeError
	assert.ErrorAs(t, err, &deErr)
}
