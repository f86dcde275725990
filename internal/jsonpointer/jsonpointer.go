// Package jsonpointer parses JSON Pointer fragments into navigation tokens.
package jsonpointer

import (
	"net/url"
	"strconv"
	"strings"
)

// Token is a single navigation step.
//
// A segment consisting entirely of decimal digits addresses a sequence index
// and never matches an object key of the same spelling.
type Token struct {
	Key     string
	Index   int
	IsIndex bool
}

var unescapeReplacer = strings.NewReplacer(
	"~1", "/",
	"~0", "~",
)

func unescape(part string) string {
	// Replacer always allocates, check that unescape is really necessary.
	if !strings.Contains(part, "~1") && !strings.Contains(part, "~0") {
		return part
	}
	return unescapeReplacer.Replace(part)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Parse splits a pointer fragment into tokens. The fragment must carry its
// leading "/"; the empty segment before it is dropped.
func Parse(fragment string) []Token {
	parts := strings.Split(strings.TrimPrefix(fragment, "/"), "/")
	tokens := make([]Token, 0, len(parts))
	for _, part := range parts {
		part = unescape(part)
		// A malformed percent-escape keeps the literal segment: keys
		// containing a bare "%" stay addressable.
		if dec, err := url.PathUnescape(part); err == nil {
			part = dec
		}
		tok := Token{Key: part}
		if isDigits(part) {
			if idx, err := strconv.Atoi(part); err == nil {
				tok.Index, tok.IsIndex = idx, true
			}
		}
		tokens = append(tokens, tok)
	}
	return tokens
}
