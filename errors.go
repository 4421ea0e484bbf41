package rhtml

import "errors"

// Sentinel errors for registration and rendering.
var (
	ErrInvalidName       = errors.New("rhtml: invalid component name")
	ErrAlreadyDefined    = errors.New("rhtml: component already defined")
	ErrInvalidDefinition = errors.New("rhtml: invalid component definition")
	ErrNotDefined        = errors.New("rhtml: component not defined")
	ErrMarkupParse       = errors.New("rhtml: markup parse failed")
	ErrTemplate          = errors.New("rhtml: template failed")
)

// IsRegistrationError checks if err came from Define.
func IsRegistrationError(err error) bool {
	return errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrAlreadyDefined) ||
		errors.Is(err, ErrInvalidDefinition)
}

// IsRenderError checks if err is a template or markup failure reported
// during render. Render errors never stop the pipeline; they only mean the
// previous content was kept.
func IsRenderError(err error) bool {
	return errors.Is(err, ErrMarkupParse) || errors.Is(err, ErrTemplate)
}
