package agent

import (
	"strings"
	"unicode"
)

// SplitSentences partitions text into sentence-like segments. A segment ends
// at a newline, or at '.', '!' or '?' followed by whitespace or end of text.
func SplitSentences(text string) []string {
	var (
		out []string
		b   strings.Builder
	)
	flush := func() {
		if seg := strings.TrimSpace(b.String()); seg != "" {
			out = append(out, seg)
		}
		b.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' {
			flush()
			continue
		}
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
				flush()
			}
		}
	}
	flush()
	return out
}
