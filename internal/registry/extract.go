package registry

import (
	"regexp"
	"strings"
)

// Extractor pulls one value out of a row, reporting whether it found one
type Extractor func(row Row) (string, bool)

// Extract runs extractors in order and returns the first match
func Extract(row Row, extractors ...Extractor) (string, bool) {
	for _, ex := range extractors {
		if v, ok := ex(row); ok {
			return v, true
		}
	}
	return "", false
}

// AtColumn reads a fixed column and matches when it is non-blank
func AtColumn(index int) Extractor {
	return func(row Row) (string, bool) {
		v := row.get(index)
		return v, v != ""
	}
}

// FieldContaining matches the first field holding every substring
func FieldContaining(subs ...string) Extractor {
	return func(row Row) (string, bool) {
	next:
		for _, f := range row.fields {
			for _, s := range subs {
				if !strings.Contains(f, s) {
					continue next
				}
			}
			return strings.TrimSpace(f), true
		}
		return "", false
	}
}

// FieldMatching matches the first field the pattern accepts
func FieldMatching(re *regexp.Regexp) Extractor {
	return func(row Row) (string, bool) {
		for _, f := range row.fields {
			f = strings.TrimSpace(f)
			if re.MatchString(f) {
				return f, true
			}
		}
		return "", false
	}
}

var phonePattern = regexp.MustCompile(`^\d{2,3}-?\d{3,4}-?\d{4}$`)

// NameExtractors: configured column, then any field naming an animal hospital
func (s Schema) NameExtractors() []Extractor {
	return []Extractor{AtColumn(s.Columns.Name), FieldContaining("동물병원")}
}

// AddressExtractors: road address, lot address, then any field that reads like a city/district address
func (s Schema) AddressExtractors() []Extractor {
	return []Extractor{AtColumn(s.Columns.RoadAddress), AtColumn(s.Columns.LotAddress), FieldContaining("시", "구")}
}

// PhoneExtractors: configured column, then any field shaped like a phone number
func (s Schema) PhoneExtractors() []Extractor {
	return []Extractor{AtColumn(s.Columns.Phone), FieldMatching(phonePattern)}
}
