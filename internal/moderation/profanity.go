package moderation

import (
	"strings"
	"unicode"
)

// blockedWords is the word list the feedback board rejects. Matching is
// case-insensitive and per-word, so "class" does not trip on "ass".
var blockedWords = map[string]bool{
	"ass":     true,
	"asshole": true,
	"bastard": true,
	"bitch":   true,
	"crap":    true,
	"damn":    true,
	"dick":    true,
	"fuck":    true,
	"fucking": true,
	"idiot":   true,
	"moron":   true,
	"piss":    true,
	"prick":   true,
	"shit":    true,
	"slut":    true,
	"stupid":  true,
	"whore":   true,
}

// Clean reports whether text passes the profanity filter.
func Clean(text string) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	for _, word := range words {
		if blockedWords[word] {
			return false
		}
	}
	return true
}
