// Package fixtures persists generated mock payloads so they can be listed and
// fetched again later.
package fixtures

import (
	"errors"
	"strings"

	"github.com/mmrzaf/mockgen/internal/domain"
)

var ErrNotFound = errors.New("fixture not found")

type Repository interface {
	Init() error
	Create(f *domain.Fixture) error
	Get(id string) (*domain.Fixture, error)
	// List omits payloads. An empty schemaID matches every schema.
	List(limit int, schemaID string) ([]*domain.Fixture, error)
	Delete(id string) error
	Close() error
}

// Open picks a backend from the DSN: postgres URLs and key=value connection
// strings go to Postgres, anything else is treated as a SQLite file path.
func Open(dsn string) (Repository, error) {
	dsn = strings.TrimSpace(dsn)
	var repo Repository
	if isPostgresDSN(dsn) {
		repo = NewPostgresRepository(dsn)
	} else {
		repo = NewSQLiteRepository(dsn)
	}
	if err := repo.Init(); err != nil {
		return nil, err
	}
	return repo, nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || isKeywordDSN(dsn)
}

const defaultListLimit = 50
