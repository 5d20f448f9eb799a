package domain

import (
	"encoding/json"
	"time"
)

type Schema struct {
	ID           string         `json:"id" yaml:"id"`
	Name         string         `json:"name" yaml:"name"`
	Version      string         `json:"version" yaml:"version"`
	Description  string         `json:"description" yaml:"description"`
	Seed         *int64         `json:"seed,omitempty" yaml:"seed,omitempty"`
	ElementCount *int           `json:"element_count,omitempty" yaml:"element_count,omitempty"`
	Primitives   []PrimitiveDef `json:"primitives,omitempty" yaml:"primitives,omitempty"`
	Types        []TypeDef      `json:"types" yaml:"types"`
}

// PrimitiveDef names a parameterized generator so schema fields can refer to
// it like any built-in primitive.
type PrimitiveDef struct {
	Name      string        `json:"name" yaml:"name"`
	Generator GeneratorSpec `json:"generator" yaml:"generator"`
}

type TypeDef struct {
	Name   string     `json:"name" yaml:"name"`
	Fields []FieldDef `json:"fields" yaml:"fields"`
}

type FieldDef struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

type GeneratorSpec struct {
	Type   string                 `json:"type" yaml:"type"`
	Params map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty"`
}

type Fixture struct {
	ID            string          `json:"id" yaml:"id"`
	SchemaID      string          `json:"schema_id" yaml:"schema_id"`
	SchemaVersion string          `json:"schema_version" yaml:"schema_version"`
	TypeExpr      string          `json:"type" yaml:"type"`
	ElementCount  int             `json:"element_count" yaml:"element_count"`
	Seed          int64           `json:"seed" yaml:"seed"`
	ConfigHash    string          `json:"config_hash" yaml:"config_hash"`
	Payload       json.RawMessage `json:"payload,omitempty" yaml:"-"`
	CreatedAt     time.Time       `json:"created_at" yaml:"created_at"`
}

type GenerateRequest struct {
	SchemaID     string  `json:"schema_id,omitempty"`
	Schema       *Schema `json:"schema,omitempty"`
	Type         string  `json:"type"`
	ElementCount *int    `json:"element_count,omitempty"`
	Seed         *int64  `json:"seed,omitempty"`
	Save         bool    `json:"save,omitempty"`
}
