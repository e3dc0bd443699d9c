package service

import (
	"strings"
	"unicode"
)

const maxTagRunes = 64

// cleanLine strips control and invisible characters from single-line text
// such as titles, usernames and tags, then trims it.
func cleanLine(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || isInvisible(r) {
			return -1
		}
		return r
	}, s))
}

// cleanText keeps line breaks and tabs but drops every other control
// character; Postgres rejects NUL in text columns.
func cleanText(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

// cleanTags trims each tag, drops empties and duplicates, and caps tag length.
func cleanTags(tags []string) []string {
	if tags == nil {
		return nil
	}

	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = cleanLine(tag)
		if runes := []rune(tag); len(runes) > maxTagRunes {
			tag = string(runes[:maxTagRunes])
		}
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// isInvisible reports zero-width, bidi and other format (Cf) characters.
func isInvisible(r rune) bool {
	return unicode.Is(unicode.Cf, r)
}
