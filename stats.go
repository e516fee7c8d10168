package mdpad

import (
	"strings"
	"unicode/utf8"
)

// Stats summarizes a document for status displays.
type Stats struct {
	Lines      int
	Words      int
	Characters int
}

// ComputeStats counts lines (newlines + 1), whitespace-separated words and
// characters (runes).
func ComputeStats(content string) Stats {
	return Stats{
		Lines:      strings.Count(content, "\n") + 1,
		Words:      len(strings.Fields(content)),
		Characters: utf8.RuneCountInString(content),
	}
}
