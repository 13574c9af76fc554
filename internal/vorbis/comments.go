// Package vorbis provides Vorbis comment list utilities.
//
// A Vorbis comment is a UTF-8 string in "KEY=VALUE" form. Field names are
// case-insensitive by convention, but some producers rely on an exact,
// case-sensitive prefix; both lookups are offered.
package vorbis

import (
	"fmt"
	"strings"
)

// Split separates a comment into key and value at the first '='.
//
// Returns an error if the comment has no '=' or an empty key.
func Split(comment string) (key, value string, err error) {
	key, value, ok := strings.Cut(comment, "=")
	if !ok {
		return "", "", fmt.Errorf("missing '=' in comment: %s", comment)
	}
	if key == "" {
		return "", "", fmt.Errorf("empty field name in comment: %s", comment)
	}
	return key, value, nil
}

// Prefixed returns the remainder of the first comment that starts with the
// literal prefix key+"=". Matching is case-sensitive.
func Prefixed(comments []string, key string) (string, bool) {
	prefix := key + "="
	for _, c := range comments {
		if rest, ok := strings.CutPrefix(c, prefix); ok {
			return rest, true
		}
	}
	return "", false
}

// Fields groups comments by upper-cased field name, keeping stream order
// within each field. Comments without '=' are skipped.
func Fields(comments []string) map[string][]string {
	out := make(map[string][]string, len(comments))
	for _, c := range comments {
		key, value, err := Split(c)
		if err != nil {
			continue
		}
		key = strings.ToUpper(key)
		out[key] = append(out[key], value)
	}
	return out
}
