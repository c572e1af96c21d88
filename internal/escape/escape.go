// Package escape implements the XML entity codec: translating between raw
// text and the escaped form that may legally appear in character data and
// attribute values.
package escape

import (
	"fmt"
	"strconv"
	"strings"
)

// Escape replaces '&', '<', '>', '\'' and '"' with their named entities.
// All other characters pass through unchanged.
func Escape(input string) string {
	if !strings.ContainsAny(input, "&<>'\"") {
		return input
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, c := range input {
		switch c {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '\'':
			b.WriteString("&apos;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Unescape replaces named and numeric entities with the characters they
// denote. It fails if an entity is unrecognized, if a numeric reference
// does not name a valid Unicode scalar value, or if a '&' is never
// terminated by a ';' before the input ends.
func Unescape(input string) (string, error) {
	if !strings.ContainsRune(input, '&') {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))

	var ent strings.Builder
	inEntity := false

	for _, c := range input {
		if !inEntity {
			if c != '&' {
				b.WriteRune(c)
			} else {
				ent.Reset()
				ent.WriteByte('&')
				inEntity = true
			}
			continue
		}

		ent.WriteRune(c)
		if c != ';' {
			continue
		}

		r, err := decodeEntity(ent.String())
		if err != nil {
			return "", err
		}
		b.WriteRune(r)
		inEntity = false
	}

	if inEntity {
		return "", fmt.Errorf("unterminated entity %q", ent.String())
	}

	return b.String(), nil
}

// decodeEntity decodes a single entity reference, including the
// surrounding '&' and ';'.
func decodeEntity(ent string) (rune, error) {
	switch ent {
	case "&quot;":
		return '"', nil
	case "&apos;":
		return '\'', nil
	case "&gt;":
		return '>', nil
	case "&lt;":
		return '<', nil
	case "&amp;":
		return '&', nil
	}

	body := ent[1 : len(ent)-1] // strip '&' and ';'

	var (
		val int64
		err error
	)
	switch {
	case strings.HasPrefix(body, "#x") || strings.HasPrefix(body, "#X"):
		val, err = strconv.ParseInt(body[2:], 16, 32)
	case strings.HasPrefix(body, "#"):
		val, err = strconv.ParseInt(body[1:], 10, 32)
	default:
		return 0, fmt.Errorf("invalid entity %q", ent)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid numeric entity %q: %w", ent, err)
	}

	r := rune(val)
	if !validScalar(r) {
		return 0, fmt.Errorf("numeric entity %q is not a valid Unicode scalar value", ent)
	}
	return r, nil
}

// validScalar reports whether r is a valid Unicode scalar value, i.e. not
// a surrogate half and within range.
func validScalar(r rune) bool {
	if r < 0 || r > 0x10FFFF {
		return false
	}
	if r >= 0xD800 && r <= 0xDFFF {
		return false
	}
	return true
}
