package service

import (
	"context"
	"errors"
	"fmt"

	"vet-hospital-api/internal/dataset"
	"vet-hospital-api/internal/models"
)

// ErrStoreUnavailable is returned by spatial queries when no database is configured
var ErrStoreUnavailable = errors.New("service: hospital store not configured")

// DatasetSource provides the current in-memory dataset
type DatasetSource interface {
	Current() *dataset.Dataset
}

// NearbyRepository answers spatial queries over stored hospitals
type NearbyRepository interface {
	FindNearestHospitals(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]models.NearbyHospital, error)
}

// HospitalService serves the assembled dataset to API callers
type HospitalService struct {
	source       DatasetSource
	repo         NearbyRepository
	limit        int
	radiusMeters float64
}

// NewHospitalService creates a new hospital service; repo may be nil
func NewHospitalService(source DatasetSource, repo NearbyRepository, limit int) *HospitalService {
	if limit <= 0 {
		limit = dataset.DefaultSearchLimit
	}
	return &HospitalService{source: source, repo: repo, limit: limit, radiusMeters: 10000}
}

// List returns every hospital, or only special ones, with the dataset checksum
func (s *HospitalService) List(ctx context.Context, specialOnly bool) ([]models.Hospital, string, error) {
	ds := s.source.Current()
	checksum, err := ds.Checksum()
	if err != nil {
		return nil, "", fmt.Errorf("service: failed to fingerprint dataset: %w", err)
	}

	if specialOnly {
		return ds.Special(), checksum, nil
	}
	hospitals := ds.Hospitals
	if hospitals == nil {
		hospitals = []models.Hospital{}
	}
	return hospitals, checksum, nil
}

// Search returns hospitals whose name or address contains any keyword, capped at
// limit (the configured cap when limit <= 0 or above it)
func (s *HospitalService) Search(ctx context.Context, keywords []string, limit int) ([]models.Hospital, error) {
	if len(keywords) == 0 {
		return nil, fmt.Errorf("service: keywords cannot be empty")
	}
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}
	return dataset.Search(s.source.Current().Hospitals, keywords, limit), nil
}

// Nearby finds stored hospitals closest to the given coordinates
func (s *HospitalService) Nearby(ctx context.Context, lat, lng float64) ([]models.NearbyHospital, error) {
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("service: invalid latitude: %f", lat)
	}
	if lng < -180 || lng > 180 {
		return nil, fmt.Errorf("service: invalid longitude: %f", lng)
	}
	if s.repo == nil {
		return nil, ErrStoreUnavailable
	}

	hospitals, err := s.repo.FindNearestHospitals(ctx, lat, lng, s.radiusMeters, s.limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to find nearby hospitals: %w", err)
	}
	return hospitals, nil
}
