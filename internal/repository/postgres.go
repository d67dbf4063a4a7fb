package repository

import (
	"context"
	"errors"
	"fmt"

	"vet-hospital-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoHospitalNearby is returned when no hospital lies within the search radius
var ErrNoHospitalNearby = errors.New("repository: no hospital found near coordinates")

const schemaSQL = `
	CREATE EXTENSION IF NOT EXISTS postgis;

	CREATE TABLE IF NOT EXISTS hospitals (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NOT NULL DEFAULT '',
		address VARCHAR(512) NOT NULL,
		category VARCHAR(16) NOT NULL,
		is_special BOOLEAN NOT NULL DEFAULT FALSE,
		projected_x DOUBLE PRECISION NOT NULL,
		projected_y DOUBLE PRECISION NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		geom GEOGRAPHY(POINT, 4326) GENERATED ALWAYS AS (
			ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography
		) STORED
	);
	CREATE INDEX IF NOT EXISTS hospitals_geom_idx ON hospitals USING GIST (geom);
`

var hospitalColumns = []string{"name", "phone", "address", "category", "is_special", "projected_x", "projected_y", "latitude", "longitude"}

// Repository stores the hospital dataset in PostgreSQL/PostGIS
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateSchema creates the hospitals table and its spatial index if missing
func (r *Repository) CreateSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// ReplaceHospitals swaps the table contents for the given dataset in one transaction.
// Ids follow dataset order.
func (r *Repository) ReplaceHospitals(ctx context.Context, hospitals []models.Hospital) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE hospitals RESTART IDENTITY"); err != nil {
		return 0, fmt.Errorf("repository: failed to truncate hospitals: %w", err)
	}

	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"hospitals"},
		hospitalColumns,
		pgx.CopyFromSlice(len(hospitals), func(i int) ([]interface{}, error) {
			h := hospitals[i]
			return []interface{}{h.Name, h.Phone, h.Address, string(h.Category), h.IsSpecial, h.ProjectedX, h.ProjectedY, h.Latitude, h.Longitude}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to copy hospitals: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repository: failed to commit: %w", err)
	}
	return n, nil
}

// CountHospitals returns the number of stored hospitals
func (r *Repository) CountHospitals(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM hospitals").Scan(&count); err != nil {
		return 0, fmt.Errorf("repository: failed to count hospitals: %w", err)
	}
	return count, nil
}

// SearchHospitals returns hospitals whose name or address contains any keyword,
// in import order, up to limit rows
func (r *Repository) SearchHospitals(ctx context.Context, keywords []string, limit int) ([]models.Hospital, error) {
	sql := `
		SELECT id, name, phone, address, category, is_special, projected_x, projected_y, latitude, longitude
		FROM hospitals h
		WHERE EXISTS (
			SELECT 1 FROM unnest($1::text[]) AS k(keyword)
			WHERE k.keyword <> '' AND (strpos(h.name, k.keyword) > 0 OR strpos(h.address, k.keyword) > 0)
		)
		ORDER BY id
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, sql, keywords, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute search query: %w", err)
	}
	defer rows.Close()

	hospitals := []models.Hospital{}
	for rows.Next() {
		var h models.Hospital
		if err := rows.Scan(&h.ID, &h.Name, &h.Phone, &h.Address, &h.Category, &h.IsSpecial, &h.ProjectedX, &h.ProjectedY, &h.Latitude, &h.Longitude); err != nil {
			return nil, fmt.Errorf("repository: failed to scan hospital: %w", err)
		}
		hospitals = append(hospitals, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return hospitals, nil
}

// FindNearestHospitals performs a spatial query for hospitals within radiusMeters,
// nearest first
func (r *Repository) FindNearestHospitals(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]models.NearbyHospital, error) {
	sql := `
		SELECT
			id, name, phone, address, category, is_special, projected_x, projected_y, latitude, longitude,
			ST_Distance(geom, ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography) AS distance
		FROM hospitals
		WHERE ST_DWithin(geom, ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography, $3)
		ORDER BY distance, id
		LIMIT $4
	`

	rows, err := r.db.Query(ctx, sql, lat, lng, radiusMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute spatial query: %w", err)
	}
	defer rows.Close()

	var nearby []models.NearbyHospital
	for rows.Next() {
		var n models.NearbyHospital
		err := rows.Scan(
			&n.ID, &n.Name, &n.Phone, &n.Address, &n.Category, &n.IsSpecial,
			&n.ProjectedX, &n.ProjectedY, &n.Latitude, &n.Longitude, &n.DistanceMeters,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan hospital: %w", err)
		}
		nearby = append(nearby, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	if len(nearby) == 0 {
		return nil, ErrNoHospitalNearby
	}
	return nearby, nil
}
