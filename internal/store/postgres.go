package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/demoforge/demo-orchestrator/internal/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS demos (
    id              TEXT PRIMARY KEY,
    title           TEXT NOT NULL,
    capabilities    JSONB NOT NULL,
    status          TEXT NOT NULL,
    component_code  TEXT,
    sample_data     JSONB,
    enhancement     JSONB,
    dependencies    JSONB,
    deployment      JSONB,
    cost            JSONB NOT NULL,
    error           TEXT NOT NULL DEFAULT '',
    owner_id        TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL,
    updated_at      TIMESTAMPTZ NOT NULL
)`

// PostgresStore persists demo records in PostgreSQL via pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database and ensures the demos table
// exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create demos table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Create(ctx context.Context, demo *models.Demo) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO demos (id, title, capabilities, status, component_code, sample_data,
		                    enhancement, dependencies, deployment, cost, error, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		demo.ID, demo.Title, demo.Capabilities, demo.Status, demo.ComponentCode,
		demo.SampleData, demo.Enhancement, demo.Dependencies, demo.Deployment, demo.Cost, demo.Error,
		demo.OwnerID, demo.CreatedAt, demo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert demo: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.Demo, error) {
	var demo models.Demo
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, capabilities, status, component_code, sample_data,
		        enhancement, dependencies, deployment, cost, error, owner_id, created_at, updated_at
		 FROM demos WHERE id = $1`, id,
	).Scan(&demo.ID, &demo.Title, &demo.Capabilities, &demo.Status, &demo.ComponentCode,
		&demo.SampleData, &demo.Enhancement, &demo.Dependencies, &demo.Deployment, &demo.Cost, &demo.Error,
		&demo.OwnerID, &demo.CreatedAt, &demo.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &models.NotFoundError{DemoID: id}
		}
		return nil, fmt.Errorf("failed to get demo: %w", err)
	}
	return &demo, nil
}

func (s *PostgresStore) Update(ctx context.Context, demo *models.Demo) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE demos
		 SET title = $1, capabilities = $2, status = $3, component_code = $4, sample_data = $5,
		     enhancement = $6, dependencies = $7, deployment = $8, cost = $9, error = $10, owner_id = $11, updated_at = $12
		 WHERE id = $13`,
		demo.Title, demo.Capabilities, demo.Status, demo.ComponentCode, demo.SampleData,
		demo.Enhancement, demo.Dependencies, demo.Deployment, demo.Cost, demo.Error, demo.OwnerID,
		demo.UpdatedAt, demo.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update demo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &models.NotFoundError{DemoID: demo.ID}
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
