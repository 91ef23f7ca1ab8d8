package entity

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTag returns the form tags are compared in: NFC with surrounding
// whitespace removed. Tags are otherwise case-sensitive.
func NormalizeTag(tag string) string {
	return norm.NFC.String(strings.TrimSpace(tag))
}

func containsTag(tags []string, tag string) bool {
	want := NormalizeTag(tag)
	for _, t := range tags {
		if NormalizeTag(t) == want {
			return true
		}
	}
	return false
}
