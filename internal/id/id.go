// Package id provides prefixed unique identifier generation and
// well-formedness checks.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// nanoidLength is the default NanoID length (21 characters, URL-safe alphabet).
const nanoidLength = 21

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "list-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when you're certain the system entropy is available,
// or when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Valid reports whether s is a well-formed identifier carrying the given
// prefix. Callers use this to reject malformed keys before any store lookup,
// keeping "malformed" distinguishable from "absent".
func Valid(prefix, s string) bool {
	rest, ok := strings.CutPrefix(s, prefix+"-")
	if !ok || len(rest) != nanoidLength {
		return false
	}
	for _, c := range rest {
		if !isNanoidChar(c) {
			return false
		}
	}
	return true
}

// isNanoidChar reports whether c belongs to the default NanoID alphabet.
func isNanoidChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-':
		return true
	default:
		return false
	}
}
