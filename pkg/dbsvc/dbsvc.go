// Package dbsvc serves the dataset catalog stored in PostgreSQL.
package dbsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sgaunet/dsxplorer/pkg/config"
	"github.com/sgaunet/dsxplorer/pkg/database"
	"github.com/sgaunet/dsxplorer/pkg/dataset"
)

// ErrDatasetNotFound is returned when the catalog has no such dataset.
var ErrDatasetNotFound = errors.New("dataset not found")

// Service provides the catalog operations
type Service struct {
	db      *sql.DB
	queries *database.Queries
	cfg     config.Config
	log     *slog.Logger
}

// NewService creates a new catalog service
func NewService(cfg config.Config, db *sql.DB) *Service {
	return &Service{
		db:      db,
		queries: database.New(db),
		cfg:     cfg,
		log:     slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger for the service
func (s *Service) SetLogger(log *slog.Logger) {
	s.log = log
}

// Ping checks the database connection.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("Ping: %w", err)
	}
	return nil
}

// ListDatasets returns every dataset of the catalog.
func (s *Service) ListDatasets(ctx context.Context) ([]dataset.Dataset, error) {
	rows, err := s.queries.ListDatasets(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListDatasets: %w", err)
	}
	return s.toDatasets(rows), nil
}

// ListDatasetsByType returns the datasets of one type.
func (s *Service) ListDatasetsByType(ctx context.Context, t dataset.Type) ([]dataset.Dataset, error) {
	rows, err := s.queries.ListDatasetsByType(ctx, string(t))
	if err != nil {
		return nil, fmt.Errorf("ListDatasetsByType: %w", err)
	}
	return s.toDatasets(rows), nil
}

// GetDataset returns one dataset.
func (s *Service) GetDataset(ctx context.Context, t dataset.Type, scope, name string) (dataset.Dataset, error) {
	row, err := s.queries.GetDataset(ctx, database.GetDatasetParams{
		Type:  string(t),
		Scope: scope,
		Name:  name,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return dataset.Dataset{}, fmt.Errorf("GetDataset: %s/%s/%s: %w", t, scope, name, ErrDatasetNotFound)
	}
	if err != nil {
		return dataset.Dataset{}, fmt.Errorf("GetDataset: %w", err)
	}
	return toDataset(row), nil
}

// UpdateDescription sets the description of a dataset.
func (s *Service) UpdateDescription(ctx context.Context, t dataset.Type, scope, name, description string) error {
	err := s.queries.UpdateDatasetDescription(ctx, database.UpdateDatasetDescriptionParams{
		Type:        string(t),
		Scope:       scope,
		Name:        name,
		Description: description,
	})
	if err != nil {
		return fmt.Errorf("UpdateDescription: %w", err)
	}
	return nil
}

func (s *Service) toDatasets(rows []database.Dataset) []dataset.Dataset {
	result := make([]dataset.Dataset, 0, len(rows))
	for _, row := range rows {
		ds := toDataset(row)
		if !ds.Type.Known() {
			s.log.Warn("skipping dataset of unknown type",
				slog.String("type", row.Type),
				slog.String("name", row.Name))
			continue
		}
		result = append(result, ds)
	}
	return result
}

func toDataset(row database.Dataset) dataset.Dataset {
	return dataset.Dataset{
		Name:        row.Name,
		Type:        dataset.Type(row.Type),
		Scope:       row.Scope,
		Location:    row.Location,
		Description: row.Description,
	}
}
