package parser

import "strings"

// dataLines returns the raw data rows of a chunk. Multi-line chunks carry
// their data after the header line; one-line chunks ("DAYS = [ 0 25 ];")
// carry it between the opening bracket and the terminator.
func dataLines(chunk []string) []string {
	if len(chunk) > 1 {
		return chunk[1:]
	}
	return []string{bracketContent(chunk[0])}
}

// bracketContent extracts the text between the last opening bracket and
// the closing bracket of a one-line record.
func bracketContent(line string) string {
	start := strings.LastIndex(line, "[")
	if start < 0 {
		return ""
	}
	content := line[start+1:]
	if end := strings.Index(content, "]"); end >= 0 {
		content = content[:end]
	}
	return strings.TrimSpace(content)
}

// firstToken returns the first whitespace-separated token of a line.
func firstToken(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
