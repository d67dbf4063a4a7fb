package registry

import (
	"errors"
	"strconv"
	"strings"

	"vet-hospital-api/internal/geodesy"
	"vet-hospital-api/internal/models"
)

// DefaultSpecialKeywords marks hospitals that treat exotic or small animals
var DefaultSpecialKeywords = []string{"특수", "소동물", "이색", "조류", "파충류", "토끼", "햄스터", "고슴도치", "앵무새", "거북이"}

// Reason explains why a row was left out of the dataset
type Reason string

const (
	ReasonShortRow           Reason = "short_row"
	ReasonInactive           Reason = "inactive"
	ReasonBlankName          Reason = "blank_name"
	ReasonBlankAddress       Reason = "blank_address"
	ReasonBadCoordinate      Reason = "bad_coordinate"
	ReasonReprojectionDomain Reason = "reprojection_domain"
	ReasonOutOfBounds        Reason = "out_of_bounds"
)

// Outcome is the per-row result: an accepted hospital, or a rejection reason
type Outcome struct {
	Line     int
	Hospital models.Hospital
	Reason   Reason
	Err      error
}

// Accepted reports whether the row produced a hospital
func (o Outcome) Accepted() bool {
	return o.Reason == ""
}

func rejected(line int, reason Reason, err error) Outcome {
	return Outcome{Line: line, Reason: reason, Err: err}
}

// Reprojector converts projected grid coordinates to WGS-84
type Reprojector interface {
	Reproject(x, y float64) (geodesy.Point, error)
}

// Normalizer turns tokenized registry rows into hospitals
type Normalizer struct {
	schema      Schema
	keywords    []string
	reprojector Reprojector
}

// NewNormalizer creates a normalizer; a nil keyword list selects DefaultSpecialKeywords
func NewNormalizer(schema Schema, keywords []string, reprojector Reprojector) *Normalizer {
	if keywords == nil {
		keywords = DefaultSpecialKeywords
	}
	return &Normalizer{schema: schema, keywords: keywords, reprojector: reprojector}
}

// Normalize maps, filters, reprojects and classifies one row
func (n *Normalizer) Normalize(line int, fields []string) Outcome {
	if len(fields) < n.schema.MinFields() {
		return rejected(line, ReasonShortRow, nil)
	}

	row := n.schema.Row(fields)
	if !row.Active() {
		return rejected(line, ReasonInactive, nil)
	}

	name := row.Name()
	if name == "" {
		return rejected(line, ReasonBlankName, nil)
	}
	address := row.Address()
	if address == "" {
		return rejected(line, ReasonBlankAddress, nil)
	}

	x, err := strconv.ParseFloat(row.RawX(), 64)
	if err != nil {
		return rejected(line, ReasonBadCoordinate, err)
	}
	y, err := strconv.ParseFloat(row.RawY(), 64)
	if err != nil {
		return rejected(line, ReasonBadCoordinate, err)
	}

	pt, err := n.reprojector.Reproject(x, y)
	if err != nil {
		if errors.Is(err, geodesy.ErrOutOfBounds) {
			return rejected(line, ReasonOutOfBounds, err)
		}
		return rejected(line, ReasonReprojectionDomain, err)
	}

	category, special := Classify(name, n.keywords)
	return Outcome{
		Line: line,
		Hospital: models.Hospital{
			Name:       name,
			Phone:      row.Phone(),
			Address:    address,
			ProjectedX: x,
			ProjectedY: y,
			Latitude:   pt.Lat,
			Longitude:  pt.Lng,
			Category:   category,
			IsSpecial:  special,
		},
	}
}

// Classify matches the name against the keyword list; the first hit wins
func Classify(name string, keywords []string) (models.Category, bool) {
	for _, k := range keywords {
		if k != "" && strings.Contains(name, k) {
			return models.CategorySpecial, true
		}
	}
	return models.CategoryGeneral, false
}
