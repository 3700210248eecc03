package parser

import "strings"

// normalizeText prepares raw file text for line-oriented parsing: it drops a
// leading byte-order mark, converts CRLF and bare CR line endings to LF, and
// returns the non-blank lines.
func normalizeText(content string) []string {
	normalized := strings.TrimPrefix(content, "\uFEFF")
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(normalized, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
