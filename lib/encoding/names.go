package encoding

import "strings"

// Protocol markers on attribute names.
const (
	PropPrefix   = ":" // :my-title="..." binds the myTitle prop
	ActionPrefix = "@" // @click="save" binds the save method
)

// IsMarker reports whether an attribute name carries a protocol marker.
func IsMarker(name string) bool {
	return strings.HasPrefix(name, PropPrefix) || strings.HasPrefix(name, ActionPrefix)
}

// Camel converts a prop attribute name to its field name:
// ":my-title" becomes "myTitle". The marker is optional.
func Camel(attr string) string {
	parts := strings.Split(strings.Replace(attr, PropPrefix, "", 1), "-")
	var sb strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			sb.WriteString(strings.ToLower(part))
			continue
		}
		sb.WriteString(strings.ToUpper(part[:1]))
		sb.WriteString(strings.ToLower(part[1:]))
	}
	return sb.String()
}

// Kebab converts a field name to its attribute form without the marker:
// "myTitle" becomes "my-title".
func Kebab(name string) string {
	var sb strings.Builder
	for i, r := range name {
		if 'A' <= r && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r + ('a' - 'A'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// PropAttr returns the marked attribute name for a prop field.
func PropAttr(name string) string { return PropPrefix + Kebab(name) }

// ActionAttr returns the marked attribute name for an event binding.
func ActionAttr(event string) string { return ActionPrefix + event }

// EventName strips the action marker: "@click" becomes "click".
func EventName(attr string) string {
	if i := strings.Index(attr, ActionPrefix); i >= 0 {
		return attr[i+len(ActionPrefix):]
	}
	return attr
}
