package errors

import (
	"slices"
	"strings"
	"unicode"
)

// maxSeriesName bounds series names, which end up in SVG ids and cache keys.
const maxSeriesName = 128

// ValidateSeriesName rejects names that are empty, too long or contain
// control characters.
func ValidateSeriesName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidConfig, "series name cannot be empty")
	}
	if len(name) > maxSeriesName {
		return New(ErrCodeInvalidConfig, "series name too long (max %d characters)", maxSeriesName)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "series name contains invalid control characters")
		}
	}
	return nil
}

// ValidateFormat checks an output format against the supported set.
func ValidateFormat(format string, valid map[string]bool) error {
	if !valid[format] {
		names := make([]string, 0, len(valid))
		for k := range valid {
			names = append(names, k)
		}
		slices.Sort(names)
		return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(names, ", "))
	}
	return nil
}

// ValidateColor accepts "#rgb", "#rrggbb" and "#rrggbbaa" hex colors, or the
// empty string meaning "not painted".
func ValidateColor(c string) error {
	if c == "" {
		return nil
	}
	if !strings.HasPrefix(c, "#") {
		return New(ErrCodeInvalidConfig, "color %q must start with #", c)
	}
	hex := c[1:]
	switch len(hex) {
	case 3, 6, 8:
	default:
		return New(ErrCodeInvalidConfig, "color %q must have 3, 6 or 8 hex digits", c)
	}
	for _, r := range hex {
		if !unicode.Is(unicode.ASCII_Hex_Digit, r) {
			return New(ErrCodeInvalidConfig, "color %q contains non-hex digit %q", c, r)
		}
	}
	return nil
}
