package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// CleanSpace trims s and collapses interior whitespace runs into
// single spaces. Scraped text tends to carry layout newlines.
func CleanSpace(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

// AfterLabel cuts everything up to and including the last occurrence
// of label. When the label is absent the whole fragment is returned
// trimmed.
func AfterLabel(s, label string) string {
	idx := strings.LastIndex(s, label)
	if idx >= 0 {
		s = s[idx+len(label):]
	}
	return strings.TrimSpace(s)
}

// StripToken removes every occurrence of token and trims the result.
func StripToken(s, token string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, token, ""))
}

// AfterToken returns the trimmed remainder after the first occurrence
// of token, or "" when the token is absent.
func AfterToken(s, token string) string {
	_, after, found := strings.Cut(strings.TrimSpace(s), token)
	if !found {
		return ""
	}
	return strings.TrimSpace(after)
}

// UnderscoreKey turns a scraped field label into a record key by
// replacing whitespace runs with single underscores.
func UnderscoreKey(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), "_")
}
