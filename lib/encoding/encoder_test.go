package encoding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, ""},
		{"plain string", "hello", "urienchello"},
		{"string with spaces", "a b", "urienca%20b"},
		{"object", map[string]any{"a": 1}, "urienc%7B%22a%22%3A1%7D"},
		{"array", []int{1, 2}, "urienc%5B1%2C2%5D"},
		{"bool", true, "urienctrue"},
		{"unserializable", func() {}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.value))
		})
	}
}

func TestEncodeIsAttributeSafe(t *testing.T) {
	enc := Encode(map[string]any{"html": `<b class="x">it's</b>`})
	for _, bad := range []string{"<", ">", `"`, "'"} {
		assert.NotContains(t, enc, bad)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want any
	}{
		{"empty", "", ""},
		{"plain text", "hello", "hello"},
		{"digits", "42", float64(42)},
		{"negative stays text", "-1", "-1"},
		{"decimal stays text", "1.5", "1.5"},
		{"true", "true", true},
		{"false", "false", false},
		{"null", "null", nil},
		{"undefined", "undefined", nil},
		{"encoded object", "urienc%7B%22a%22%3A1%7D", map[string]any{"a": float64(1)}},
		{"raw array", `[1, "2", "true"]`, []any{float64(1), float64(2), true}},
		{"nested", `{"list":["null",{"n":"7"}]}`, map[string]any{"list": []any{nil, map[string]any{"n": float64(7)}}}},
		{"padded object", `  {"a":"x"}  `, map[string]any{"a": "x"}},
		{"malformed object", "{not json}", "{not json}"},
		{"malformed encoded", "urienc%7Bbad", "{bad"},
		{"broken escape", "urienc%zz", "urienc%zz"},
		{"encoded digits", "urienc12", float64(12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	values := []any{
		"hello world",
		"ünïcødé & <tags>",
		true,
		false,
		float64(7),
		[]any{float64(1), "two", map[string]any{"three": float64(3)}},
		map[string]any{
			"name":  "widget",
			"tags":  []any{"a", "b"},
			"inner": map[string]any{"ok": true, "n": 1.25},
		},
	}

	for _, v := range values {
		got := Parse(Encode(v))
		assert.Equal(t, v, got, "round trip of %#v", v)
	}
}

// Only all-digit text parses back as a number, and digit-like or boolean
// strings parse as numbers and booleans, so these values do not survive.
func TestRoundTripLossy(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"decimal", 2.5, "2.5"},
		{"negative decimal", -1.5, "-1.5"},
		{"negative integer", float64(-3), "-3"},
		{"digit string", "123", float64(123)},
		{"boolean string", "true", true},
		{"null string", "null", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(Encode(tt.value)))
		})
	}
}

func TestFingerprintIgnoresMapOrder(t *testing.T) {
	a := map[string]any{}
	b := map[string]any{}
	keys := strings.Split("q w e r t y u i o p", " ")
	for i, k := range keys {
		a[k] = i
	}
	for i := len(keys) - 1; i >= 0; i-- {
		b[keys[i]] = i
	}

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)

	b["q"] = 99
	fc, err := Fingerprint(b)
	require.NoError(t, err)
	assert.NotEqual(t, fa, fc)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "myTitle", Camel(":my-title"))
	assert.Equal(t, "title", Camel(":TITLE"))
	assert.Equal(t, "myTitle", Camel("my-title"))
	assert.Equal(t, "my-title", Kebab("myTitle"))
	assert.Equal(t, ":my-title", PropAttr("myTitle"))
	assert.Equal(t, "@click", ActionAttr("click"))
	assert.Equal(t, "click", EventName("@click"))
	assert.True(t, IsMarker(":title"))
	assert.True(t, IsMarker("@click"))
	assert.False(t, IsMarker("class"))
}
