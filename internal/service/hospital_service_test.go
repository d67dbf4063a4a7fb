package service

import (
	"context"
	"fmt"
	"testing"

	"vet-hospital-api/internal/dataset"
	"vet-hospital-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockNearbyRepository is a mock implementation of the NearbyRepository interface
type MockNearbyRepository struct {
	mock.Mock
}

// FindNearestHospitals implements NearbyRepository.
func (m *MockNearbyRepository) FindNearestHospitals(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]models.NearbyHospital, error) {
	args := m.Called(ctx, lat, lng, radiusMeters, limit)
	return args.Get(0).([]models.NearbyHospital), args.Error(1)
}

func memorySource(t *testing.T, hospitals ...models.Hospital) *dataset.MemorySink {
	sink := &dataset.MemorySink{}
	require.NoError(t, sink.Write(context.Background(), &dataset.Dataset{Hospitals: hospitals}))
	return sink
}

func TestHospitalService_List(t *testing.T) {
	source := memorySource(t,
		models.Hospital{Name: "서울동물병원", Category: models.CategoryGeneral},
		models.Hospital{Name: "서울특수동물병원", Category: models.CategorySpecial, IsSpecial: true},
	)
	svc := NewHospitalService(source, nil, 5)

	all, checksum, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.NotEmpty(t, checksum)

	special, sameChecksum, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, special, 1)
	assert.Equal(t, "서울특수동물병원", special[0].Name)
	assert.Equal(t, checksum, sameChecksum)

	empty, _, err := NewHospitalService(&dataset.MemorySink{}, nil, 5).List(context.Background(), false)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestHospitalService_Search(t *testing.T) {
	var hospitals []models.Hospital
	for i := 0; i < 20; i++ {
		hospitals = append(hospitals, models.Hospital{Name: fmt.Sprintf("분당%02d동물병원", i), Address: "경기도 성남시 분당구"})
	}
	svc := NewHospitalService(memorySource(t, hospitals...), nil, 5)

	tests := []struct {
		name        string
		keywords    []string
		limit       int
		expectLen   int
		expectError bool
	}{
		{name: "empty keywords", expectError: true},
		{name: "configured cap", keywords: []string{"분당"}, expectLen: 5},
		{name: "smaller limit", keywords: []string{"분당"}, limit: 2, expectLen: 2},
		{name: "limit above cap", keywords: []string{"분당"}, limit: 50, expectLen: 5},
		{name: "no hits", keywords: []string{"제주"}, expectLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Search(context.Background(), tt.keywords, tt.limit)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, result, tt.expectLen)
		})
	}
}

func TestHospitalService_Nearby(t *testing.T) {
	tests := []struct {
		name         string
		lat          float64
		lng          float64
		mockHospital []models.NearbyHospital
		mockError    error
		expectError  bool
	}{
		{
			name:        "invalid latitude",
			lat:         91,
			lng:         127,
			expectError: true,
		},
		{
			name:        "invalid longitude",
			lat:         37.5,
			lng:         181,
			expectError: true,
		},
		{
			name: "successful search with results",
			lat:  37.5868,
			lng:  126.9988,
			mockHospital: []models.NearbyHospital{
				{Hospital: models.Hospital{ID: 1, Name: "서울동물병원"}, DistanceMeters: 12.5},
			},
		},
		{
			name:        "repository error",
			lat:         37.5868,
			lng:         126.9988,
			mockError:   assert.AnError,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockRepo := new(MockNearbyRepository)
			svc := NewHospitalService(memorySource(t), mockRepo, 5)

			validInput := tt.lat >= -90 && tt.lat <= 90 && tt.lng >= -180 && tt.lng <= 180
			if validInput {
				mockRepo.On("FindNearestHospitals", mock.Anything, tt.lat, tt.lng, 10000.0, 5).Return(tt.mockHospital, tt.mockError)
			}

			// Execute
			result, err := svc.Nearby(context.Background(), tt.lat, tt.lng)

			// Assert
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.mockHospital, result)
			}

			if validInput {
				mockRepo.AssertExpectations(t)
			}
		})
	}

	t.Run("no store configured", func(t *testing.T) {
		_, err := NewHospitalService(memorySource(t), nil, 5).Nearby(context.Background(), 37.5, 127)
		assert.ErrorIs(t, err, ErrStoreUnavailable)
	})
}
