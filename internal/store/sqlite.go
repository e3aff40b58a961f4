package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/demoforge/demo-orchestrator/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS demos (
    id              TEXT PRIMARY KEY,
    title           TEXT NOT NULL,
    capabilities    TEXT NOT NULL,
    status          TEXT NOT NULL,
    component_code  TEXT,
    sample_data     TEXT,
    enhancement     TEXT,
    dependencies    TEXT,
    deployment      TEXT,
    cost            TEXT NOT NULL,
    error           TEXT NOT NULL DEFAULT '',
    owner_id        TEXT NOT NULL DEFAULT '',
    created_at      TEXT NOT NULL,
    updated_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_demos_status ON demos(status);
CREATE INDEX IF NOT EXISTS idx_demos_owner ON demos(owner_id);
`

// SQLiteStore persists demo records in an embedded sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) the database at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running schema migration: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, demo *models.Demo) error {
	row, err := encodeDemoRow(demo)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO demos (id, title, capabilities, status, component_code, sample_data,
		                    enhancement, dependencies, deployment, cost, error, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		demo.ID, demo.Title, row.capabilities, demo.Status, row.componentCode,
		row.sampleData, row.enhancement, row.dependencies, row.deployment, row.cost, demo.Error,
		demo.OwnerID, demo.CreatedAt.UTC().Format(time.RFC3339Nano),
		demo.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting demo: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.Demo, error) {
	var (
		demo                 models.Demo
		row                  demoRow
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, capabilities, status, component_code, sample_data,
		        enhancement, dependencies, deployment, cost, error, owner_id, created_at, updated_at
		 FROM demos WHERE id = ?`, id,
	).Scan(&demo.ID, &demo.Title, &row.capabilities, &demo.Status, &row.componentCode,
		&row.sampleData, &row.enhancement, &row.dependencies, &row.deployment, &row.cost, &demo.Error,
		&demo.OwnerID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{DemoID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("getting demo: %w", err)
	}
	if err := decodeDemoRow(&demo, &row); err != nil {
		return nil, err
	}
	demo.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	demo.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &demo, nil
}

func (s *SQLiteStore) Update(ctx context.Context, demo *models.Demo) error {
	row, err := encodeDemoRow(demo)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE demos
		 SET title = ?, capabilities = ?, status = ?, component_code = ?, sample_data = ?,
		     enhancement = ?, dependencies = ?, deployment = ?, cost = ?, error = ?, owner_id = ?, updated_at = ?
		 WHERE id = ?`,
		demo.Title, row.capabilities, demo.Status, row.componentCode, row.sampleData,
		row.enhancement, row.dependencies, row.deployment, row.cost, demo.Error, demo.OwnerID,
		demo.UpdatedAt.UTC().Format(time.RFC3339Nano), demo.ID,
	)
	if err != nil {
		return fmt.Errorf("updating demo: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return &models.NotFoundError{DemoID: demo.ID}
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLiteStore) Close() error { return s.db.Close() }

// demoRow carries the JSON-encoded columns between the demo struct and the
// database.
type demoRow struct {
	capabilities  string
	componentCode sql.NullString
	sampleData    sql.NullString
	enhancement   sql.NullString
	dependencies  sql.NullString
	deployment    sql.NullString
	cost          string
}

func encodeDemoRow(demo *models.Demo) (*demoRow, error) {
	row := &demoRow{}

	caps, err := json.Marshal(demo.Capabilities)
	if err != nil {
		return nil, fmt.Errorf("encoding capabilities: %w", err)
	}
	row.capabilities = string(caps)

	cost, err := json.Marshal(demo.Cost)
	if err != nil {
		return nil, fmt.Errorf("encoding cost: %w", err)
	}
	row.cost = string(cost)

	if demo.ComponentCode != nil {
		row.componentCode = sql.NullString{String: *demo.ComponentCode, Valid: true}
	}
	if demo.SampleData != nil {
		data, err := json.Marshal(demo.SampleData)
		if err != nil {
			return nil, fmt.Errorf("encoding sample data: %w", err)
		}
		row.sampleData = sql.NullString{String: string(data), Valid: true}
	}
	if demo.Enhancement != nil {
		data, err := json.Marshal(demo.Enhancement)
		if err != nil {
			return nil, fmt.Errorf("encoding enhancement: %w", err)
		}
		row.enhancement = sql.NullString{String: string(data), Valid: true}
	}
	if demo.Dependencies != nil {
		data, err := json.Marshal(demo.Dependencies)
		if err != nil {
			return nil, fmt.Errorf("encoding dependencies: %w", err)
		}
		row.dependencies = sql.NullString{String: string(data), Valid: true}
	}
	if demo.Deployment != nil {
		data, err := json.Marshal(demo.Deployment)
		if err != nil {
			return nil, fmt.Errorf("encoding deployment: %w", err)
		}
		row.deployment = sql.NullString{String: string(data), Valid: true}
	}

	return row, nil
}

func decodeDemoRow(demo *models.Demo, row *demoRow) error {
	if err := json.Unmarshal([]byte(row.capabilities), &demo.Capabilities); err != nil {
		return fmt.Errorf("decoding capabilities: %w", err)
	}
	if err := json.Unmarshal([]byte(row.cost), &demo.Cost); err != nil {
		return fmt.Errorf("decoding cost: %w", err)
	}
	if row.componentCode.Valid {
		code := row.componentCode.String
		demo.ComponentCode = &code
	}
	if row.sampleData.Valid {
		if err := json.Unmarshal([]byte(row.sampleData.String), &demo.SampleData); err != nil {
			return fmt.Errorf("decoding sample data: %w", err)
		}
	}
	if row.enhancement.Valid {
		demo.Enhancement = &models.EnhancedContent{}
		if err := json.Unmarshal([]byte(row.enhancement.String), demo.Enhancement); err != nil {
			return fmt.Errorf("decoding enhancement: %w", err)
		}
	}
	if row.dependencies.Valid {
		demo.Dependencies = &models.DependencyInstallResult{}
		if err := json.Unmarshal([]byte(row.dependencies.String), demo.Dependencies); err != nil {
			return fmt.Errorf("decoding dependencies: %w", err)
		}
	}
	if row.deployment.Valid {
		demo.Deployment = &models.DeploymentResult{}
		if err := json.Unmarshal([]byte(row.deployment.String), demo.Deployment); err != nil {
			return fmt.Errorf("decoding deployment: %w", err)
		}
	}
	return nil
}
