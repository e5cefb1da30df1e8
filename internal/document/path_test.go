package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPath_StringForm tests rendering structured paths to the wire form.
func TestPath_StringForm(t *testing.T) {
	p := Path{}.Child("heatStress").Child("recentAccumulation").At(2).Child("amount")
	assert.Equal(t, "heatStress.recentAccumulation[2].amount", p.String())

	assert.Equal(t, "hitPoints", Path{FieldStep("hitPoints")}.String())
	assert.Equal(t, "log[0][1]", Path{FieldStep("log"), IndexStep(0), IndexStep(1)}.String())
}

// TestParsePath_RoundTrip tests parse(print(p)) identity.
func TestParsePath_RoundTrip(t *testing.T) {
	cases := []string{
		"hitPoints.current",
		"heatStress.recentAccumulation[9].source",
		"maintainedPowers[0]",
		"a[1][2].b",
	}

	for _, c := range cases {
		t.Run(c, func(t *testing.T) {
			p, err := ParsePath(c)
			require.NoError(t, err)
			assert.Equal(t, c, p.String())
		})
	}
}

// TestParsePath_Invalid tests malformed wire forms.
func TestParsePath_Invalid(t *testing.T) {
	cases := []string{
		"",
		"a..b",
		"a.",
		".a",
		"a[",
		"a[x]",
		"a[-1]",
	}

	for _, c := range cases {
		t.Run(c, func(t *testing.T) {
			_, err := ParsePath(c)
			assert.Error(t, err, "path %q should not parse", c)
		})
	}
}

// TestResolve tests walking paths into a document.
func TestResolve(t *testing.T) {
	doc := Object{
		"hitPoints": Object{"current": Int(8), "maximum": Int(12)},
		"log":       Array{Object{"amount": Int(3)}, Object{"amount": Int(5)}},
	}

	v, err := Resolve(doc, Path{FieldStep("hitPoints"), FieldStep("current")})
	require.NoError(t, err)
	assert.Equal(t, Int(8), v)

	v, err = Resolve(doc, Path{FieldStep("log"), IndexStep(1), FieldStep("amount")})
	require.NoError(t, err)
	assert.Equal(t, Int(5), v)
}

// TestResolve_Errors tests missing fields, bad indexes, and kind mismatches.
func TestResolve_Errors(t *testing.T) {
	doc := Object{"log": Array{Int(1)}}

	_, err := Resolve(doc, Path{FieldStep("missing")})
	assert.Error(t, err)

	_, err = Resolve(doc, Path{FieldStep("log"), IndexStep(5)})
	assert.Error(t, err)

	_, err = Resolve(doc, Path{FieldStep("log"), FieldStep("notAnObject")})
	assert.Error(t, err)

	_, err = Resolve(doc, Path{IndexStep(0)})
	assert.Error(t, err)
}

// TestPath_ChildDoesNotAlias tests that extending a path never mutates the
// original backing array.
func TestPath_ChildDoesNotAlias(t *testing.T) {
	base := Path{FieldStep("a")}
	p1 := base.Child("b")
	p2 := base.Child("c")

	assert.Equal(t, "a.b", p1.String())
	assert.Equal(t, "a.c", p2.String())
	assert.Equal(t, "a", base.String())
}
