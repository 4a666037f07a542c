package mml

import (
	"fmt"
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randValue builds an arbitrary value of bounded depth. Strings and chars stay
// clear of newlines, which the line-oriented format cannot carry; floats stay
// clear of NaN, which is unequal to itself.
func randValue(rng *rand.Rand, depth int) Value {
	// Leaves only once the depth budget runs out.
	max := 30
	if depth <= 0 {
		max = 19
	}

	switch rng.Intn(max) {
	case 0:
		return Bool(rng.Intn(2) == 0)
	case 1:
		return I8(int8(rng.Uint64()))
	case 2:
		return I16(int16(rng.Uint64()))
	case 3:
		return I32(int32(rng.Uint64()))
	case 4:
		return I64(int64(rng.Uint64()))
	case 5:
		return I128(randBig(rng, 127, true))
	case 6:
		return U8(uint8(rng.Uint64()))
	case 7:
		return U16(uint16(rng.Uint64()))
	case 8:
		return U32(uint32(rng.Uint64()))
	case 9:
		return U64(rng.Uint64())
	case 10:
		return U128(randBig(rng, 128, false))
	case 11:
		return F32(float32(rng.NormFloat64()))
	case 12:
		return F64(rng.NormFloat64())
	case 13:
		return Char(randChar(rng))
	case 14:
		return Str(randText(rng))
	case 15:
		buf := make([]byte, rng.Intn(24))
		rng.Read(buf)
		return BytesValue(buf)
	case 16:
		return None()
	case 17:
		return Unit()
	case 18:
		return UnitStruct(randName(rng))
	case 19:
		return UnitVariant(randName(rng), randName(rng))
	case 20:
		return Some(randValue(rng, depth-1))
	case 21:
		return NewtypeStruct(randName(rng), randValue(rng, depth-1))
	case 22:
		return NewtypeVariant(randName(rng), randName(rng), randValue(rng, depth-1))
	case 23:
		return Seq(randValues(rng, depth)...)
	case 24:
		return Tuple(randValues(rng, depth)...)
	case 25:
		return TupleStruct(randName(rng), randValues(rng, depth)...)
	case 26:
		return TupleVariant(randName(rng), randName(rng), randValues(rng, depth)...)
	case 27:
		return MapValue(randEntries(rng, depth)...)
	case 28:
		return StructValue(randName(rng), randFields(rng, depth)...)
	default:
		return StructVariant(randName(rng), randName(rng), randFields(rng, depth)...)
	}
}

func randBig(rng *rand.Rand, bits int, signed bool) *big.Int {
	v := new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
	if signed && rng.Intn(2) == 0 {
		v.Neg(v)
	}
	return v
}

func randChar(rng *rand.Rand) rune {
	runes := []rune("ax9!\\[]()*.é中\U0001F600")
	return runes[rng.Intn(len(runes))]
}

func randText(rng *rand.Rand) string {
	n := rng.Intn(12)
	out := make([]rune, n)
	for i := range out {
		out[i] = randChar(rng)
	}
	return string(out)
}

func randName(rng *rand.Rand) string {
	names := []string{"Point", "Shape", "Meters", "Wrapper", "T"}
	return names[rng.Intn(len(names))]
}

func randValues(rng *rand.Rand, depth int) []Value {
	out := make([]Value, rng.Intn(4))
	for i := range out {
		out[i] = randValue(rng, depth-1)
	}
	return out
}

func randEntries(rng *rand.Rand, depth int) []ValueEntry {
	out := make([]ValueEntry, rng.Intn(4))
	for i := range out {
		out[i] = Entry(randValue(rng, depth-1), randValue(rng, depth-1))
	}
	return out
}

func randFields(rng *rand.Rand, depth int) []ValueEntry {
	out := make([]ValueEntry, rng.Intn(4))
	for i := range out {
		out[i] = Field(randText(rng), randValue(rng, depth-1))
	}
	return out
}

func roundTrip(t *testing.T, v Value) Value {
	t.Helper()

	doc, err := Marshal(v)
	require.NoError(t, err, "marshal %v", v)

	var back Value
	require.NoError(t, Unmarshal(string(doc), &back), "unmarshal %q", doc)
	return back
}

func TestRoundTripRandomValues(t *testing.T) {
	rng := rand.New(rand.NewSource(0x6d6d6c))

	for i := 0; i < 500; i++ {
		t.Run(fmt.Sprintf("seed0/%d", i), func(t *testing.T) {
			v := randValue(rng, 4)
			back := roundTrip(t, v)
			assert.True(t, back.Equal(v), "value %v came back as %v", v, back)
		})
	}
}

// Shape must survive, not just content: a u8 must not come back as a u16,
// a tuple must not come back as a seq.
func TestRoundTripPreservesShape(t *testing.T) {
	pairs := []struct {
		name string
		a, b Value
	}{
		{"u8 vs u16", U8(1), U16(1)},
		{"i64 vs u64", I64(1), U64(1)},
		{"f32 vs f64", F32(1), F64(1)},
		{"char vs string", Char('a'), Str("a")},
		{"seq vs tuple", Seq(U8(1)), Tuple(U8(1))},
		{"struct vs map", StructValue("P", Field("a", U8(1))), MapValue(Entry(Str("a"), U8(1)))},
		{"unit vs unit struct", Unit(), UnitStruct("Unit")},
		{"none vs unit", None(), Unit()},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			backA := roundTrip(t, tt.a)
			backB := roundTrip(t, tt.b)

			assert.True(t, backA.Equal(tt.a))
			assert.True(t, backB.Equal(tt.b))
			assert.False(t, backA.Equal(backB))
		})
	}
}

func TestRoundTripPunctuationString(t *testing.T) {
	s := "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	assert.True(t, roundTrip(t, Str(s)).Equal(Str(s)))
}

func TestRoundTripAllByteValues(t *testing.T) {
	buf := make([]byte, 256)
	for i := range buf {
		buf[i] = byte(i)
	}

	assert.True(t, roundTrip(t, BytesValue(buf)).Equal(BytesValue(buf)))
	assert.True(t, roundTrip(t, BytesValue(nil)).Equal(BytesValue(nil)))
}

func TestRoundTripEmptyComposites(t *testing.T) {
	for _, v := range []Value{Seq(), Tuple(), MapValue(), StructValue("Empty"), Str("")} {
		assert.True(t, roundTrip(t, v).Equal(v), "value %v", v)
	}
}

func TestRoundTripDeeplyNested(t *testing.T) {
	v := U8(1)
	for i := 0; i < 32; i++ {
		v = Some(v)
	}
	assert.True(t, roundTrip(t, v).Equal(v))
}
