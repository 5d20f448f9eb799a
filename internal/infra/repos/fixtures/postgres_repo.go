package fixtures

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/mmrzaf/mockgen/internal/domain"
)

type PostgresRepository struct {
	dsn string
	db  *sql.DB
}

func NewPostgresRepository(dsn string) *PostgresRepository {
	return &PostgresRepository{dsn: strings.TrimSpace(dsn)}
}

func (r *PostgresRepository) Init() error {
	if r.dsn == "" {
		return fmt.Errorf("fixtures db dsn is required")
	}
	db, err := sql.Open("postgres", r.dsn)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return err
	}
	r.db = db
	return r.applyMigrations()
}

func (r *PostgresRepository) DB() *sql.DB { return r.db }

func (r *PostgresRepository) applyMigrations() error {
	if _, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`); err != nil {
		return err
	}
	var cur int
	if err := r.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&cur); err != nil {
		return err
	}

	type mig struct {
		v  int
		up func(*sql.DB) error
	}
	migs := []mig{
		{1, migrateV1FixturesPG},
		{2, migrateV2FixturesIndexPG},
	}

	for _, m := range migs {
		if cur >= m.v {
			continue
		}
		if err := m.up(r.db); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.v, err)
		}
		if _, err := r.db.Exec(`INSERT INTO schema_migrations(version) VALUES ($1)`, m.v); err != nil {
			return err
		}
		cur = m.v
	}
	return nil
}

func migrateV1FixturesPG(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS fixtures (
		id TEXT PRIMARY KEY,
		schema_id TEXT NOT NULL,
		schema_version TEXT,
		type_expr TEXT NOT NULL,
		element_count INTEGER NOT NULL,
		seed BIGINT NOT NULL,
		config_hash TEXT NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`)
	return err
}

func migrateV2FixturesIndexPG(db *sql.DB) error {
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_fixtures_schema_time ON fixtures(schema_id, created_at DESC)`)
	return err
}

func (r *PostgresRepository) Create(f *domain.Fixture) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(`
	INSERT INTO fixtures (
		id, schema_id, schema_version, type_expr,
		element_count, seed, config_hash, payload, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		f.ID, f.SchemaID, f.SchemaVersion, f.TypeExpr,
		f.ElementCount, f.Seed, f.ConfigHash, string(f.Payload), f.CreatedAt,
	)
	return err
}

func (r *PostgresRepository) Get(id string) (*domain.Fixture, error) {
	var f domain.Fixture
	var version sql.NullString
	var payload string

	err := r.db.QueryRow(`
	SELECT id, schema_id, schema_version, type_expr,
		element_count, seed, config_hash, payload, created_at
	FROM fixtures WHERE id = $1`, id).Scan(
		&f.ID, &f.SchemaID, &version, &f.TypeExpr,
		&f.ElementCount, &f.Seed, &f.ConfigHash, &payload, &f.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	f.SchemaVersion = version.String
	f.Payload = []byte(payload)
	return &f, nil
}

func (r *PostgresRepository) List(limit int, schemaID string) ([]*domain.Fixture, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var (
		rows *sql.Rows
		err  error
	)
	if schemaID != "" {
		rows, err = r.db.Query(`
		SELECT id, schema_id, schema_version, type_expr,
			element_count, seed, config_hash, created_at
		FROM fixtures
		WHERE schema_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, schemaID, limit)
	} else {
		rows, err = r.db.Query(`
		SELECT id, schema_id, schema_version, type_expr,
			element_count, seed, config_hash, created_at
		FROM fixtures
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Fixture, 0)
	for rows.Next() {
		var f domain.Fixture
		var version sql.NullString
		if err := rows.Scan(
			&f.ID, &f.SchemaID, &version, &f.TypeExpr,
			&f.ElementCount, &f.Seed, &f.ConfigHash, &f.CreatedAt,
		); err != nil {
			return nil, err
		}
		f.SchemaVersion = version.String
		out = append(out, &f)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM fixtures WHERE id = $1`, id)
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

func (r *PostgresRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
