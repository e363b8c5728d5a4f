// Package textnorm holds the deterministic text transforms shared by document
// ingestion and chatbot matching.
package textnorm

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var zeroWidth = strings.NewReplacer("\u200b", "", "\u200c", "", "\u200d", "")

// Collapse trims s and replaces every run of whitespace with a single space.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Content is the normalization applied before hashing a document: whitespace
// collapsed and lower-cased.
func Content(s string) string {
	return strings.ToLower(Collapse(s))
}

// Hash returns the hex SHA-256 of the normalized content.
func Hash(s string) string {
	sum := sha256.Sum256([]byte(Content(s)))
	return hex.EncodeToString(sum[:])
}

// Query normalizes chatbot input and keywords: NFKC, case folding, zero-width
// removal, punctuation (including the Devanagari danda) to spaces, and runs of
// whitespace collapsed to one space. Spaces produced by punctuation at either end
// are kept.
func Query(s string) string {
	t := cases.Fold().String(norm.NFKC.String(s))
	t = strings.TrimSpace(t)
	t = zeroWidth.Replace(t)
	t = strings.Map(func(r rune) rune {
		if isQueryPunct(r) {
			return ' '
		}
		return r
	}, t)
	return squeezeSpaces(t)
}

// Compact removes every space, used to tolerate spacing variants.
func Compact(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

func isQueryPunct(r rune) bool {
	switch r {
	case '?', '!', '.', ',', ';', ':', '|', '\u0964', '\u0965':
		return true
	}
	return false
}

func squeezeSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
