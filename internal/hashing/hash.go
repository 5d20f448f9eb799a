package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/mmrzaf/mockgen/internal/domain"
)

// HashSchema returns a stable digest of schema. Fields that do not change
// generated output, such as the description, are left out.
func HashSchema(schema *domain.Schema) (string, error) {
	canonical := canonicalizeSchema(schema)
	data, err := json.Marshal(canonical)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

func canonicalizeSchema(schema *domain.Schema) map[string]interface{} {
	primitives := make([]map[string]interface{}, len(schema.Primitives))
	for i, prim := range schema.Primitives {
		primitives[i] = map[string]interface{}{
			"name":      prim.Name,
			"generator": canonicalizeGeneratorSpec(prim.Generator),
		}
	}

	types := make([]map[string]interface{}, len(schema.Types))
	for i, td := range schema.Types {
		fields := make([]map[string]interface{}, len(td.Fields))
		for j, fd := range td.Fields {
			fields[j] = map[string]interface{}{
				"name": fd.Name,
				"type": fd.Type,
			}
		}
		types[i] = map[string]interface{}{
			"name":   td.Name,
			"fields": fields,
		}
	}

	result := map[string]interface{}{
		"name":       schema.Name,
		"primitives": primitives,
		"types":      types,
	}
	if schema.ID != "" {
		result["id"] = schema.ID
	}
	if schema.Version != "" {
		result["version"] = schema.Version
	}
	if schema.ElementCount != nil {
		result["element_count"] = *schema.ElementCount
	}
	if schema.Seed != nil {
		result["seed"] = *schema.Seed
	}

	return result
}

func canonicalizeGeneratorSpec(spec domain.GeneratorSpec) map[string]interface{} {
	result := map[string]interface{}{
		"type": spec.Type,
	}
	if len(spec.Params) > 0 {
		result["params"] = canonicalizeParams(spec.Params)
	}
	return result
}

func canonicalizeParams(params map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch val := params[k].(type) {
		case map[string]interface{}:
			result[k] = canonicalizeParams(val)
		default:
			result[k] = val
		}
	}
	return result
}
