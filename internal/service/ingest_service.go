package service

import (
	"context"
	"fmt"
	"os"

	"vet-hospital-api/internal/dataset"
	"vet-hospital-api/internal/models"
	"vet-hospital-api/internal/pipeline"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Summary describes one completed registry ingestion
type Summary struct {
	RunID      string
	Lines      int
	Valid      int
	Rejections dataset.Tally
	Checksum   string
}

// IngestService runs the registry pipeline over a file and hands the dataset to its sinks
type IngestService struct {
	settings pipeline.Settings
	sinks    []dataset.Sink
}

// NewIngestService creates a new ingest service
func NewIngestService(settings pipeline.Settings, sinks ...dataset.Sink) *IngestService {
	return &IngestService{settings: settings, sinks: sinks}
}

// Ingest reads the registry at path, builds the dataset and writes it to every sink
func (s *IngestService) Ingest(ctx context.Context, path string) (*dataset.Dataset, *Summary, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("service: failed to read registry: %w", err)
	}
	return s.IngestBytes(ctx, buf)
}

// IngestBytes is Ingest over an in-memory registry buffer
func (s *IngestService) IngestBytes(ctx context.Context, buf []byte) (*dataset.Dataset, *Summary, error) {
	runID := uuid.NewString()
	logger := log.With().Str("run_id", runID).Logger()

	ds, err := pipeline.Build(logger.WithContext(ctx), buf, s.settings)
	if err != nil {
		return nil, nil, fmt.Errorf("service: failed to build dataset: %w", err)
	}

	checksum, err := ds.Checksum()
	if err != nil {
		return nil, nil, fmt.Errorf("service: failed to fingerprint dataset: %w", err)
	}

	summary := &Summary{
		RunID:      runID,
		Lines:      ds.Lines,
		Valid:      len(ds.Hospitals),
		Rejections: ds.Rejections,
		Checksum:   checksum,
	}
	logger.Info().
		Int("lines", summary.Lines).
		Int("valid", summary.Valid).
		Int("rejected", ds.Rejections.Total()).
		Str("rejections", ds.Rejections.String()).
		Str("checksum", checksum).
		Msg("registry ingested")

	for _, sink := range s.sinks {
		if err := sink.Write(ctx, ds); err != nil {
			return nil, nil, fmt.Errorf("service: failed to write dataset: %w", err)
		}
	}

	return ds, summary, nil
}

// HospitalStore persists a dataset
type HospitalStore interface {
	CreateSchema(ctx context.Context) error
	ReplaceHospitals(ctx context.Context, hospitals []models.Hospital) (int64, error)
	CountHospitals(ctx context.Context) (int, error)
}

// StoreSink writes datasets to a HospitalStore and verifies the stored row count
type StoreSink struct {
	Store HospitalStore
}

func (s StoreSink) Write(ctx context.Context, ds *dataset.Dataset) error {
	if err := s.Store.CreateSchema(ctx); err != nil {
		return err
	}

	if _, err := s.Store.ReplaceHospitals(ctx, ds.Hospitals); err != nil {
		return err
	}

	count, err := s.Store.CountHospitals(ctx)
	if err != nil {
		return err
	}
	if count != len(ds.Hospitals) {
		return fmt.Errorf("service: record count mismatch: expected %d, got %d", len(ds.Hospitals), count)
	}
	return nil
}
