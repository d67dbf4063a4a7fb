package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"vet-hospital-api/internal/dataset"
	"vet-hospital-api/internal/models"
	"vet-hospital-api/internal/registry"

	"github.com/rs/zerolog/log"
)

var (
	// Stopwords are dropped from chat messages before keyword matching
	Stopwords = []string{"병원", "찾아", "알려", "추천", "어디", "있어", "동물", "근처", "주변", "가까운"}

	// AlwaysOpenHints in a hospital name suggest 24h or year-round service
	AlwaysOpenHints = []string{"24", "응급", "365"}
)

const (
	mapSearchURL        = "https://map.kakao.com/link/search/"
	cancelCheckInterval = 256
)

// RegistrySource loads the raw registry export
type RegistrySource interface {
	Load(ctx context.Context) ([]byte, error)
}

// FileSource reads the registry from disk on every request
type FileSource struct {
	Path string
}

func (f FileSource) Load(_ context.Context) ([]byte, error) {
	return os.ReadFile(f.Path)
}

// RecommendOptions bounds a raw registry scan
type RecommendOptions struct {
	Encoding string
	Schema   registry.Schema
	// Limit caps the number of matches returned
	Limit int
	// MaxRows stops the scan after this many data rows; 0 means no cap
	MaxRows int
}

// RecommendService scans the raw registry for active rows mentioning a keyword
type RecommendService struct {
	source RegistrySource
	opts   RecommendOptions
}

// NewRecommendService creates a new recommend service
func NewRecommendService(source RegistrySource, opts RecommendOptions) *RecommendService {
	if opts.Limit <= 0 {
		opts.Limit = dataset.DefaultSearchLimit
	}
	return &RecommendService{source: source, opts: opts}
}

// ExtractKeywords splits a chat message on whitespace and drops stopwords and
// single-character tokens
func ExtractKeywords(message string) []string {
	keywords := []string{}
	for _, w := range strings.Fields(message) {
		if len([]rune(w)) <= 1 || isStopword(w) {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}

func isStopword(w string) bool {
	for _, s := range Stopwords {
		if w == s {
			return true
		}
	}
	return false
}

// Recommend returns up to Limit active registry rows whose line text contains any
// keyword, in file order. A cancelled context aborts the scan with no results.
func (s *RecommendService) Recommend(ctx context.Context, keywords []string) ([]models.Recommendation, error) {
	results := []models.Recommendation{}
	if len(keywords) == 0 {
		return results, nil
	}

	buf, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load registry: %w", err)
	}

	lines, err := registry.Decode(buf, s.opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("service: failed to decode registry: %w", err)
	}

	schema := s.opts.Schema
	for i, line := range lines {
		if i == 0 {
			continue
		}
		if s.opts.MaxRows > 0 && i > s.opts.MaxRows {
			log.Ctx(ctx).Warn().Int("max_rows", s.opts.MaxRows).Msg("registry scan stopped at row cap")
			break
		}
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("service: registry scan aborted: %w", err)
			}
		}
		if len(results) >= s.opts.Limit {
			break
		}

		if !dataset.ContainsAny(line, keywords) {
			continue
		}
		row := schema.Row(registry.SplitFields(strings.TrimSpace(line)))
		if !row.Active() {
			continue
		}
		results = append(results, recommendation(row, schema))
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("service: registry scan aborted: %w", err)
	}
	return results, nil
}

func recommendation(row registry.Row, schema registry.Schema) models.Recommendation {
	name, ok := registry.Extract(row, schema.NameExtractors()...)
	if !ok {
		name = "병원명 확인불가"
	}
	address, ok := registry.Extract(row, schema.AddressExtractors()...)
	if !ok {
		address = "주소 확인불가"
	}
	phone, _ := registry.Extract(row, schema.PhoneExtractors()...)

	return models.Recommendation{
		Name:             name,
		Address:          address,
		Phone:            phone,
		MapLink:          mapSearchURL + componentEscape(name),
		LikelyAlwaysOpen: dataset.ContainsAny(name, AlwaysOpenHints),
	}
}

// componentEscape percent-encodes everything except A-Z a-z 0-9 and - _ . ! ~ * ' ( ),
// the same set a browser's encodeURIComponent leaves alone
func componentEscape(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isComponentSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func isComponentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
