package content

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const maxDisplayNameLength = 64

var (
	policy       = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()

	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

// Sanitize removes unsafe HTML from the input while keeping common
// user-generated markup like links and formatting.
func Sanitize(input string) string {
	return policy.Sanitize(input)
}

// SanitizeStrict strips all markup from the input. Used for display names,
// which are rendered as plain text everywhere.
func SanitizeStrict(input string) string {
	return strictPolicy.Sanitize(input)
}

// Render converts markdown message content to HTML and sanitizes the
// result. If rendering fails the sanitized raw input is returned instead.
func Render(input string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(input), &buf); err != nil {
		return Sanitize(input)
	}
	return policy.Sanitize(buf.String())
}

// ValidateDisplayName checks that the display name is non-empty and not
// unreasonably long.
func ValidateDisplayName(name string) error {
	if name == "" {
		return errors.New("display name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxDisplayNameLength {
		return errors.New("display name is too long")
	}
	return nil
}
