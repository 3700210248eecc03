package parser

// sniffDelimiter inspects the header line and decides whether the file is
// tab-, semicolon-, or comma-separated. Candidates are only counted outside
// quoted regions, using the same doubled-quote escape rule as the tokenizer.
//
// Tabs are rare in legitimate header text, so any tab presence that is not
// outnumbered by another candidate wins outright. Semicolon is chosen only
// when it strictly beats comma, which keeps a stray semicolon inside prose
// from overriding the comma default.
func sniffDelimiter(header string) rune {
	var tabs, commas, semis int
	inQuotes := false

	for i := 0; i < len(header); i++ {
		switch header[i] {
		case '"':
			if inQuotes && i+1 < len(header) && header[i+1] == '"' {
				i++ // escaped quote, stay inside
				continue
			}
			inQuotes = !inQuotes
		case '\t':
			if !inQuotes {
				tabs++
			}
		case ',':
			if !inQuotes {
				commas++
			}
		case ';':
			if !inQuotes {
				semis++
			}
		}
	}

	switch {
	case tabs > 0 && tabs >= commas && tabs >= semis:
		return '\t'
	case semis > commas:
		return ';'
	default:
		return ','
	}
}
