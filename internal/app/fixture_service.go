package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mmrzaf/mockgen/internal/catalog"
	"github.com/mmrzaf/mockgen/internal/domain"
	"github.com/mmrzaf/mockgen/internal/hashing"
	"github.com/mmrzaf/mockgen/internal/infra/repos/fixtures"
	"github.com/mmrzaf/mockgen/internal/infra/repos/schemas"
	"github.com/mmrzaf/mockgen/internal/logging"
	"github.com/mmrzaf/mockgen/internal/populator"
	"github.com/mmrzaf/mockgen/internal/registry"
	"github.com/mmrzaf/mockgen/internal/validation"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrSchemaNotFound = errors.New("schema not found")
	ErrNoFixtureStore = errors.New("fixture store is not configured")
)

type Options struct {
	// ElementCount applies when neither the request nor the schema sets one.
	ElementCount int
	// MaxDepth of zero leaves recursion unbounded.
	MaxDepth int
}

type FixtureService struct {
	schemaRepo  schemas.Repository
	fixtureRepo fixtures.Repository
	registry    *registry.GeneratorRegistry
	validator   *validation.Validator
	logger      *logging.Logger
	opts        Options
	now         func() time.Time
}

// NewFixtureService accepts a nil fixtureRepo; only saving and fixture
// lookups need one.
func NewFixtureService(
	schemaRepo schemas.Repository,
	fixtureRepo fixtures.Repository,
	genRegistry *registry.GeneratorRegistry,
	logger *logging.Logger,
	opts Options,
) *FixtureService {
	return &FixtureService{
		schemaRepo:  schemaRepo,
		fixtureRepo: fixtureRepo,
		registry:    genRegistry,
		validator:   validation.NewValidator(genRegistry),
		logger:      logger.WithComponent("fixtures"),
		opts:        opts,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type GenerateResult struct {
	Fixture *domain.Fixture `json:"fixture"`
	Value   interface{}     `json:"-"`
	Saved   bool            `json:"saved"`
}

func (s *FixtureService) Generate(req *domain.GenerateRequest) (*GenerateResult, error) {
	if err := s.validator.ValidateGenerateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	schema := req.Schema
	if req.SchemaID != "" {
		loaded, err := s.GetSchema(req.SchemaID)
		if err != nil {
			return nil, err
		}
		schema = loaded
		if err := s.validator.ValidateSchema(schema); err != nil {
			return nil, fmt.Errorf("%w: schema '%s': %w", ErrInvalidRequest, schema.ID, err)
		}
	}

	cat, err := catalog.Build(schema, s.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	typ, err := cat.Resolve(req.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	typeExpr := typ.String()

	seed := int64(0)
	if req.Seed != nil {
		seed = *req.Seed
	} else if schema.Seed != nil {
		seed = *schema.Seed
	} else {
		seed = populator.RandomSeed()
	}

	elementCount := s.opts.ElementCount
	if req.ElementCount != nil {
		elementCount = *req.ElementCount
	} else if schema.ElementCount != nil {
		elementCount = *schema.ElementCount
	}

	pop, err := populator.NewTypePopulator(cat.Registry(), elementCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	pop = pop.WithSeed(seed).WithMaxDepth(s.opts.MaxDepth)

	if typ.IsParameterized() {
		if typ, err = pop.UnpackGenericClass(typ); err != nil {
			return nil, err
		}
	}

	value, err := pop.Populate(typ)
	if err != nil {
		s.logger.Warnw("fixture.populate_failed", map[string]any{
			"schema_id": schemaRef(schema),
			"type":      typeExpr,
			"error":     err,
		})
		return nil, fmt.Errorf("failed to populate %s: %w", typeExpr, err)
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	configHash, err := hashing.HashGenerateConfig(schema, typeExpr, elementCount, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to hash config: %w", err)
	}

	fixture := &domain.Fixture{
		SchemaID:      schemaRef(schema),
		SchemaVersion: schema.Version,
		TypeExpr:      typeExpr,
		ElementCount:  elementCount,
		Seed:          seed,
		ConfigHash:    configHash,
		Payload:       payload,
		CreatedAt:     s.now(),
	}

	result := &GenerateResult{Fixture: fixture, Value: value}
	if req.Save {
		if s.fixtureRepo == nil {
			return nil, ErrNoFixtureStore
		}
		if err := s.fixtureRepo.Create(fixture); err != nil {
			return nil, fmt.Errorf("failed to store fixture: %w", err)
		}
		result.Saved = true
	}

	s.logger.Infow("fixture.generated", map[string]any{
		"fixture_id":    fixture.ID,
		"schema_id":     fixture.SchemaID,
		"type":          typeExpr,
		"element_count": elementCount,
		"seed":          seed,
		"saved":         result.Saved,
		"bytes":         len(payload),
	})

	return result, nil
}

// schemaRef names inline schemas, which usually carry no id.
func schemaRef(schema *domain.Schema) string {
	if schema.ID != "" {
		return schema.ID
	}
	return schema.Name
}

func (s *FixtureService) ListSchemas() ([]*domain.Schema, error) {
	return s.schemaRepo.List()
}

func (s *FixtureService) GetSchema(id string) (*domain.Schema, error) {
	schema, err := s.schemaRepo.Get(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaNotFound, err)
	}
	return schema, nil
}

func (s *FixtureService) ValidateSchema(schema *domain.Schema) error {
	return s.validator.ValidateSchema(schema)
}

func (s *FixtureService) GetFixture(id string) (*domain.Fixture, error) {
	if s.fixtureRepo == nil {
		return nil, ErrNoFixtureStore
	}
	return s.fixtureRepo.Get(id)
}

func (s *FixtureService) ListFixtures(limit int, schemaID string) ([]*domain.Fixture, error) {
	if s.fixtureRepo == nil {
		return nil, ErrNoFixtureStore
	}
	return s.fixtureRepo.List(limit, schemaID)
}

func (s *FixtureService) DeleteFixture(id string) error {
	if s.fixtureRepo == nil {
		return ErrNoFixtureStore
	}
	if err := s.fixtureRepo.Delete(id); err != nil {
		return err
	}
	s.logger.Infow("fixture.deleted", map[string]any{"fixture_id": id})
	return nil
}

type GeneratorInfo struct {
	Primitives []string `json:"primitives" yaml:"primitives"`
	Kinds      []string `json:"kinds" yaml:"kinds"`
}

func (s *FixtureService) Generators() GeneratorInfo {
	return GeneratorInfo{
		Primitives: s.registry.List(),
		Kinds:      s.registry.Kinds(),
	}
}
