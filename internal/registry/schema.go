package registry

import (
	"fmt"
	"strings"
	"unicode"
)

// Columns maps each registry field to its 0-based column index
type Columns struct {
	Status       int
	Name         int
	RoadAddress  int
	StatusDetail int
	Phone        int
	X            int
	Y            int
	LotAddress   int
}

// DefaultColumns is the column order of the public animal-hospital export
var DefaultColumns = Columns{
	Status:       4,
	Name:         12,
	RoadAddress:  16,
	StatusDetail: 17,
	Phone:        20,
	X:            21,
	Y:            22,
	LotAddress:   23,
}

// Labels holds the header text expected at each configured column
type Labels struct {
	Status       string
	Name         string
	RoadAddress  string
	StatusDetail string
	Phone        string
	X            string
	Y            string
	LotAddress   string
}

// DefaultLabels matches headers such as "좌표정보(x)" and "좌표정보x(EPSG5174)" alike
var DefaultLabels = Labels{
	Status:       "영업상태명",
	Name:         "사업장명",
	RoadAddress:  "도로명",
	StatusDetail: "상세영업상태명",
	Phone:        "전화",
	X:            "좌표정보x",
	Y:            "좌표정보y",
	LotAddress:   "소재지",
}

const (
	ActiveStatus       = "영업/정상"
	ActiveStatusDetail = "정상"
)

// SchemaMismatchError reports a header that does not carry the expected label at a
// configured offset
type SchemaMismatchError struct {
	Field    string
	Index    int
	Expected string
	Got      string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("registry: header column %d (%s): expected %q, got %q", e.Index, e.Field, e.Expected, e.Got)
}

// Schema binds column offsets and their header labels
type Schema struct {
	Columns Columns
	Labels  Labels
}

// DefaultSchema returns the schema of the public animal-hospital export
func DefaultSchema() Schema {
	return Schema{Columns: DefaultColumns, Labels: DefaultLabels}
}

type column struct {
	field string
	index int
	label string
}

func (s Schema) columns() []column {
	c, l := s.Columns, s.Labels
	return []column{
		{"status", c.Status, l.Status},
		{"name", c.Name, l.Name},
		{"road_address", c.RoadAddress, l.RoadAddress},
		{"status_detail", c.StatusDetail, l.StatusDetail},
		{"phone", c.Phone, l.Phone},
		{"x", c.X, l.X},
		{"y", c.Y, l.Y},
		{"lot_address", c.LotAddress, l.LotAddress},
	}
}

// Validate checks the header row against the expected labels
func (s Schema) Validate(header []string) error {
	for _, col := range s.columns() {
		got := ""
		if col.index >= 0 && col.index < len(header) {
			got = header[col.index]
		}
		if !strings.Contains(normalizeLabel(got), normalizeLabel(col.label)) {
			return &SchemaMismatchError{Field: col.field, Index: col.index, Expected: col.label, Got: got}
		}
	}
	return nil
}

// MinFields is the shortest row that still carries status, name and coordinates
func (s Schema) MinFields() int {
	c := s.Columns
	n := 0
	for _, i := range []int{c.Status, c.Name, c.RoadAddress, c.StatusDetail, c.Phone, c.X, c.Y} {
		if i+1 > n {
			n = i + 1
		}
	}
	return n
}

func normalizeLabel(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// Row gives named access to one tokenized registry line
type Row struct {
	fields []string
	cols   Columns
}

// Row wraps tokenized fields with the schema's column map
func (s Schema) Row(fields []string) Row {
	return Row{fields: fields, cols: s.Columns}
}

func (r Row) get(i int) string {
	if i < 0 || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// Len is the number of tokenized fields
func (r Row) Len() int {
	return len(r.fields)
}

// Fields returns the raw tokenized fields
func (r Row) Fields() []string {
	return r.fields
}

// Status is the business status (영업상태명)
func (r Row) Status() string {
	return r.get(r.cols.Status)
}

// StatusDetail is the detailed business status (상세영업상태명)
func (r Row) StatusDetail() string {
	return r.get(r.cols.StatusDetail)
}

// Name is the business name
func (r Row) Name() string {
	return r.get(r.cols.Name)
}

// Phone is the listed phone number, possibly blank
func (r Row) Phone() string {
	return r.get(r.cols.Phone)
}

// RoadAddress is the road-name address
func (r Row) RoadAddress() string {
	return r.get(r.cols.RoadAddress)
}

// LotAddress is the lot-number address
func (r Row) LotAddress() string {
	return r.get(r.cols.LotAddress)
}

// RawX is the unparsed projected easting
func (r Row) RawX() string {
	return r.get(r.cols.X)
}

// RawY is the unparsed projected northing
func (r Row) RawY() string {
	return r.get(r.cols.Y)
}

// Active reports whether either status column marks normal operation
func (r Row) Active() bool {
	return r.Status() == ActiveStatus || r.StatusDetail() == ActiveStatusDetail
}

// Address prefers the road-name address and falls back to the lot address
func (r Row) Address() string {
	if a := r.RoadAddress(); a != "" {
		return a
	}
	return r.LotAddress()
}
