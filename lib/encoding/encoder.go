// Package encoding converts component values to and from attribute strings.
//
// Attribute values are always strings, so anything richer than plain text
// travels through a small convention: Encode wraps the value in the
// "urienc" marker followed by the percent-encoded value (JSON for anything
// that is not a string), and Parse reverses it, additionally recognising
// bare numbers, booleans and null so hand-written markup like :count="3"
// works too.
package encoding

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Marker prefixes every encoded attribute value.
const Marker = "urienc"

var digitsRe = regexp.MustCompile(`^\d+$`)

// Encode turns v into an attribute-safe string. nil encodes to "". Values
// that cannot be represented as JSON also encode to "".
func Encode(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return Marker + escapeComponent(s)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return Marker + escapeComponent(string(data))
}

// Parse decodes an attribute string into a typed value. It never fails:
// anything it cannot interpret is returned unchanged.
//
// Decoding order: strip and percent-decode the marker, then try JSON for
// bracket or brace delimited text (recursively parsing every element),
// then all-digit numbers, true/false, and undefined/null.
func Parse(raw string) any {
	if raw == "" {
		return raw
	}

	value := raw
	if strings.HasPrefix(value, Marker) {
		decoded, err := url.PathUnescape(value[len(Marker):])
		if err != nil {
			return raw
		}
		value = decoded
	}

	trimmed := strings.TrimSpace(value)
	if isDelimited(trimmed) {
		var structured any
		if err := json.Unmarshal([]byte(trimmed), &structured); err != nil {
			return value
		}
		return ParseValue(structured)
	}

	return parseScalar(value)
}

// ParseValue applies Parse to every string inside an already decoded
// value, descending through slices and maps.
func ParseValue(v any) any {
	switch t := v.(type) {
	case string:
		return Parse(t)
	case []any:
		for i, el := range t {
			t[i] = ParseValue(el)
		}
		return t
	case map[string]any:
		for k, el := range t {
			t[k] = ParseValue(el)
		}
		return t
	default:
		return v
	}
}

func parseScalar(s string) any {
	if digitsRe.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "undefined", "null":
		return nil
	}
	return s
}

func isDelimited(s string) bool {
	return (strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) ||
		(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"))
}

// escapeComponent percent-encodes everything except the unreserved set
// A-Z a-z 0-9 - _ . ! ~ * ( ). The apostrophe is escaped as well so the
// result is safe inside either quote style.
func escapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0x0f])
	}
	return sb.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '(', ')':
		return true
	}
	return false
}
