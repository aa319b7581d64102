package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoName(t *testing.T) {
	cases := map[string]string{
		"title":       "Title",
		"starScore":   "StarScore",
		"id":          "ID",
		"showId":      "ShowID",
		"showID":      "ShowID",
		"homepageUrl": "HomepageURL",
		"DRAMA":       "Drama",
		"SCI_FI":      "SciFi",
		"HTTP_METHOD": "HTTPMethod",
		"_entities":   "Entities",
		"field1name":  "Field1Name",
		"identity":    "Identity",
		"Show":        "Show",
		"jsonPayload": "JSONPayload",
	}
	for in, expected := range cases {
		assert.Equal(t, expected, goName(in), in)
	}
}

func TestSplitWords(t *testing.T) {
	assert.Equal(t, []string{"HTTP", "Server"}, splitWords("HTTPServer"))
	assert.Equal(t, []string{"Show", "ID"}, splitWords("ShowID"))
	assert.Equal(t, []string{"Field1", "Name"}, splitWords("Field1Name"))
	assert.Equal(t, []string{"Title"}, splitWords("Title"))
}

func TestScope(t *testing.T) {
	s := newScope("types")
	require.NoError(t, s.declare("Show", "Show"))
	assert.EqualError(t, s.declare("Show", "show"), "types: name Show generated for show collides with Show")
	assert.Equal(t, "ShowField", s.member("Show", "Field"))
	assert.Equal(t, "Movie", s.member("Movie", "Field"))
}

func TestParseGoType(t *testing.T) {
	ref, err := parseGoType("time.Time")
	require.NoError(t, err)
	assert.Equal(t, goTypeRef{path: "time", name: "Time"}, ref)

	ref, err = parseGoType("github.com/shopspring/decimal.Decimal")
	require.NoError(t, err)
	assert.Equal(t, goTypeRef{path: "github.com/shopspring/decimal", name: "Decimal"}, ref)

	ref, err = parseGoType(" int64 ")
	require.NoError(t, err)
	assert.Equal(t, goTypeRef{name: "int64"}, ref)

	for _, invalid := range []string{"", ".Time", "time.", "github.com/acme/.Type"} {
		_, err := parseGoType(invalid)
		assert.Error(t, err, invalid)
	}
}
