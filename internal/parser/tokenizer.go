package parser

import "strings"

// splitLine splits one line into raw fields using a two-state machine
// (unquoted / quoted). A field whose first character is '"' enters quoted
// state with the quote consumed; inside it a doubled quote emits one literal
// quote and a lone quote exits. The delimiter only terminates a field outside
// quoted state. Unquoted fields are trimmed of surrounding whitespace; quoted
// fields keep their whitespace beyond the stripped quotes.
//
// The same function tokenizes the header line and every data line, with the
// delimiter chosen once from the header.
func splitLine(line string, delim rune) []string {
	d := byte(delim)
	fields := make([]string, 0, 8)

	var field strings.Builder
	inQuotes := false
	quoted := false     // field opened with a quote
	fieldStart := true  // no content consumed for the current field yet

	flush := func() {
		value := field.String()
		if !quoted {
			value = strings.TrimSpace(value)
		}
		fields = append(fields, value)
		field.Reset()
		inQuotes = false
		quoted = false
		fieldStart = true
	}

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				field.WriteByte('"')
				i++
			} else {
				if fieldStart {
					quoted = true
				}
				inQuotes = !inQuotes
			}
			fieldStart = false
		case ch == d && !inQuotes:
			flush()
		default:
			field.WriteByte(ch)
			fieldStart = false
		}
	}
	flush()

	return fields
}

// stripQuotes removes one pair of surrounding quote characters plus
// surrounding whitespace. Header cells and option values sometimes arrive
// wrapped in quotes the tokenizer does not own (single quotes, or quotes
// inside an already-quoted field).
func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
