package registry

import "strings"

// SplitFields tokenizes one registry line on commas. Commas between matching double
// quotes are literal; a field wrapped in quotes is unwrapped and its doubled quotes
// are collapsed.
func SplitFields(line string) []string {
	fields := make([]string, 0, 32)
	start := 0
	inQuotes := false

	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				fields = append(fields, unquote(line[start:i]))
				start = i + 1
			}
		}
	}
	return append(fields, unquote(line[start:]))
}

func unquote(field string) string {
	if len(field) >= 2 && field[0] == '"' && field[len(field)-1] == '"' {
		return strings.ReplaceAll(field[1:len(field)-1], `""`, `"`)
	}
	return field
}
