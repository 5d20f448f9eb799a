package fixtures

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mmrzaf/mockgen/internal/domain"
)

type SQLiteRepository struct {
	dbPath string
	db     *sql.DB
}

func NewSQLiteRepository(dbPath string) *SQLiteRepository {
	return &SQLiteRepository{dbPath: dbPath}
}

func (r *SQLiteRepository) Init() error {
	if r.dbPath == "" {
		return errors.New("fixtures db path is required")
	}
	if r.dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(r.dbPath), 0o755); err != nil {
			return fmt.Errorf("create fixtures db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", r.dbPath)
	if err != nil {
		return err
	}
	// go-sqlite3 gives every pooled connection its own :memory: database.
	db.SetMaxOpenConns(1)
	r.db = db

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS fixtures (
		id TEXT PRIMARY KEY,
		schema_id TEXT NOT NULL,
		schema_version TEXT,
		type_expr TEXT NOT NULL,
		element_count INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		config_hash TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`

	if _, err = r.db.Exec(createTableSQL); err != nil {
		return err
	}
	_, err = r.db.Exec(`CREATE INDEX IF NOT EXISTS idx_fixtures_schema_time ON fixtures(schema_id, created_at DESC)`)
	return err
}

func (r *SQLiteRepository) DB() *sql.DB { return r.db }

func (r *SQLiteRepository) Create(f *domain.Fixture) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO fixtures (
			id, schema_id, schema_version, type_expr,
			element_count, seed, config_hash, payload, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		f.ID, f.SchemaID, f.SchemaVersion, f.TypeExpr,
		f.ElementCount, f.Seed, f.ConfigHash, string(f.Payload),
		f.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (r *SQLiteRepository) Get(id string) (*domain.Fixture, error) {
	query := `
		SELECT id, schema_id, schema_version, type_expr,
		       element_count, seed, config_hash, payload, created_at
		FROM fixtures WHERE id = ?
	`

	var f domain.Fixture
	var version sql.NullString
	var payload string
	var createdAtStr string

	err := r.db.QueryRow(query, id).Scan(
		&f.ID, &f.SchemaID, &version, &f.TypeExpr,
		&f.ElementCount, &f.Seed, &f.ConfigHash, &payload, &createdAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	f.SchemaVersion = version.String
	f.Payload = []byte(payload)
	f.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAtStr)
	return &f, nil
}

func (r *SQLiteRepository) List(limit int, schemaID string) ([]*domain.Fixture, error) {
	query := `
		SELECT id, schema_id, schema_version, type_expr,
		       element_count, seed, config_hash, created_at
		FROM fixtures
	`

	args := make([]interface{}, 0)
	if schemaID != "" {
		query += " WHERE schema_id = ?"
		args = append(args, schemaID)
	}

	query += " ORDER BY created_at DESC"

	if limit <= 0 {
		limit = defaultListLimit
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Fixture, 0)
	for rows.Next() {
		var f domain.Fixture
		var version sql.NullString
		var createdAtStr string

		if err := rows.Scan(
			&f.ID, &f.SchemaID, &version, &f.TypeExpr,
			&f.ElementCount, &f.Seed, &f.ConfigHash, &createdAtStr,
		); err != nil {
			return nil, err
		}
		f.SchemaVersion = version.String
		f.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAtStr)
		out = append(out, &f)
	}

	return out, rows.Err()
}

func (r *SQLiteRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM fixtures WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
