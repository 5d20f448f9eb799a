package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/mmrzaf/mockgen/internal/domain"
)

type generateConfigHashPayload struct {
	SchemaHash   string `json:"schema_hash"`
	Type         string `json:"type"`
	ElementCount int    `json:"element_count"`
	Seed         int64  `json:"seed"`
}

// HashGenerateConfig identifies everything that decides a fixture's payload.
// typeExpr should already be normalized.
func HashGenerateConfig(schema *domain.Schema, typeExpr string, elementCount int, seed int64) (string, error) {
	sh, err := HashSchema(schema)
	if err != nil {
		return "", err
	}

	p := generateConfigHashPayload{
		SchemaHash:   sh,
		Type:         typeExpr,
		ElementCount: elementCount,
		Seed:         seed,
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
