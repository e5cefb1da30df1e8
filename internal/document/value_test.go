package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEqual_Primitives tests equality across the primitive value types.
func TestEqual_Primitives(t *testing.T) {
	assert.True(t, Equal(String("a"), String("a")))
	assert.False(t, Equal(String("a"), String("b")))
	assert.True(t, Equal(Int(7), Int(7)))
	assert.False(t, Equal(Int(7), Int(8)))
	assert.True(t, Equal(Bool(true), Bool(true)))
	assert.False(t, Equal(Bool(true), Bool(false)))
	assert.True(t, Equal(Null{}, Null{}))

	// Cross-type comparisons are never equal
	assert.False(t, Equal(Int(1), Bool(true)))
	assert.False(t, Equal(String("1"), Int(1)))
	assert.False(t, Equal(Null{}, Int(0)))
}

// TestEqual_Composite tests deep equality of arrays and objects.
func TestEqual_Composite(t *testing.T) {
	a := Object{
		"pool": Object{"current": Int(12), "maximum": Int(20)},
		"log":  Array{Int(1), Int(2), Int(3)},
	}
	b := Object{
		"pool": Object{"current": Int(12), "maximum": Int(20)},
		"log":  Array{Int(1), Int(2), Int(3)},
	}
	assert.True(t, Equal(a, b))

	// Array order matters
	c := CloneObject(a)
	c["log"] = Array{Int(3), Int(2), Int(1)}
	assert.False(t, Equal(a, c))

	// Missing key
	d := CloneObject(a)
	delete(d, "log")
	assert.False(t, Equal(a, d))
}

// TestFromGo_Conversions tests the plain-Go to Value conversion.
func TestFromGo_Conversions(t *testing.T) {
	v, err := FromGo(map[string]any{
		"name":  "Vessa",
		"level": 6,
		"alive": true,
		"tags":  []any{"arcanist", int64(2)},
	})
	require.NoError(t, err)

	obj, ok := v.(Object)
	require.True(t, ok)
	assert.Equal(t, String("Vessa"), obj["name"])
	assert.Equal(t, Int(6), obj["level"])
	assert.Equal(t, Bool(true), obj["alive"])
	assert.Equal(t, Array{String("arcanist"), Int(2)}, obj["tags"])
}

// TestFromGo_RejectsFloats tests that floats cannot enter the document model.
func TestFromGo_RejectsFloats(t *testing.T) {
	_, err := FromGo(3.14)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")

	_, err = FromGo(map[string]any{"hp": 1.5})
	require.Error(t, err)
}

// TestFromGo_JSONNumber tests that integral json.Number values convert and
// fractional ones are rejected.
func TestFromGo_JSONNumber(t *testing.T) {
	v, err := FromGo(json.Number("42"))
	require.NoError(t, err)
	assert.Equal(t, Int(42), v)

	_, err = FromGo(json.Number("4.2"))
	require.Error(t, err)
}

// TestObject_UnmarshalJSON tests decoding JSON into the sealed value set.
func TestObject_UnmarshalJSON(t *testing.T) {
	var obj Object
	err := json.Unmarshal([]byte(`{"id":"chr-1","hp":{"current":10,"maximum":12},"flags":[true,null]}`), &obj)
	require.NoError(t, err)

	assert.Equal(t, String("chr-1"), obj["id"])
	hp, ok := obj["hp"].(Object)
	require.True(t, ok)
	assert.Equal(t, Int(10), hp["current"])
	assert.Equal(t, Array{Bool(true), Null{}}, obj["flags"])
}

// TestObject_UnmarshalJSON_RejectsFractions tests float rejection at decode.
func TestObject_UnmarshalJSON_RejectsFractions(t *testing.T) {
	var obj Object
	err := json.Unmarshal([]byte(`{"hp":10.5}`), &obj)
	require.Error(t, err)
}

// TestToGo_RoundTrip tests Value -> Go -> Value identity.
func TestToGo_RoundTrip(t *testing.T) {
	orig := Object{
		"id":    String("chr-1"),
		"level": Int(3),
		"log":   Array{Object{"amount": Int(4)}},
	}

	back, err := FromGo(ToGo(orig))
	require.NoError(t, err)
	assert.True(t, Equal(orig, back))
}

// TestSortedKeys_UTF16Order tests RFC 8785 key ordering.
// Keys outside the BMP sort by UTF-16 code units, which differs from UTF-8
// byte order for surrogate pairs.
func TestSortedKeys_UTF16Order(t *testing.T) {
	obj := Object{
		"b":        Int(1),
		"a":        Int(2),
		"aa":       Int(3),
		"דּ":   Int(4), // HEBREW LETTER DALET WITH DAGESH (BMP, high code unit)
		"\U0001F600": Int(5), // Emoji - surrogate pair, sorts before U+FB33 in UTF-16
	}

	keys := obj.SortedKeys()
	assert.Equal(t, []string{"a", "aa", "b", "\U0001F600", "דּ"}, keys)
}
