package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"vet-hospital-api/internal/models"
	"vet-hospital-api/internal/registry"

	"github.com/cespare/xxhash/v2"
)

// DefaultSearchLimit caps keyword search results
const DefaultSearchLimit = 5

// Tally counts rejected rows by reason
type Tally map[registry.Reason]int

// Total sums all rejections
func (t Tally) Total() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}

// String renders the tally in a stable reason order
func (t Tally) String() string {
	reasons := make([]string, 0, len(t))
	for r := range t {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)

	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		parts = append(parts, fmt.Sprintf("%s=%d", r, t[registry.Reason(r)]))
	}
	return strings.Join(parts, " ")
}

// Dataset is the ordered list of accepted hospitals from one registry pass
type Dataset struct {
	Hospitals  []models.Hospital
	Rejections Tally
	// Lines is the number of logical lines read, header included
	Lines int
}

// Assembler collects row outcomes in input order
type Assembler struct {
	hospitals []models.Hospital
	tally     Tally
}

// NewAssembler creates an empty assembler
func NewAssembler() *Assembler {
	return &Assembler{hospitals: []models.Hospital{}, tally: Tally{}}
}

// Add appends an accepted hospital or counts a rejection
func (a *Assembler) Add(o registry.Outcome) {
	if o.Accepted() {
		a.hospitals = append(a.hospitals, o.Hospital)
		return
	}
	a.tally[o.Reason]++
}

// Dataset returns the assembled dataset
func (a *Assembler) Dataset(lines int) *Dataset {
	return &Dataset{Hospitals: a.hospitals, Rejections: a.tally, Lines: lines}
}

// WriteJSON writes the hospitals as an indented JSON array
func (d *Dataset) WriteJSON(w io.Writer) error {
	hospitals := d.Hospitals
	if hospitals == nil {
		hospitals = []models.Hospital{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(hospitals)
}

// Checksum fingerprints the serialized dataset
func (d *Dataset) Checksum() (string, error) {
	var buf bytes.Buffer
	if err := d.WriteJSON(&buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(buf.Bytes())), nil
}

// Special returns the hospitals classified as special, in order
func (d *Dataset) Special() []models.Hospital {
	out := []models.Hospital{}
	for _, h := range d.Hospitals {
		if h.IsSpecial {
			out = append(out, h)
		}
	}
	return out
}

// Search returns hospitals whose name or address contains any keyword, keeping
// input order and stopping after limit matches. limit <= 0 means no cap.
func Search(hospitals []models.Hospital, keywords []string, limit int) []models.Hospital {
	out := []models.Hospital{}
	for _, h := range hospitals {
		if limit > 0 && len(out) >= limit {
			break
		}
		if ContainsAny(h.Name, keywords) || ContainsAny(h.Address, keywords) {
			out = append(out, h)
		}
	}
	return out
}

// ContainsAny reports whether s contains any non-empty keyword
func ContainsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, k) {
			return true
		}
	}
	return false
}
