package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmrzaf/mockgen/internal/domain"
	"github.com/mmrzaf/mockgen/internal/registry"
	"github.com/mmrzaf/mockgen/internal/typeexpr"
)

type Validator struct {
	genRegistry *registry.GeneratorRegistry
}

func NewValidator(genRegistry *registry.GeneratorRegistry) *Validator {
	return &Validator{genRegistry: genRegistry}
}

// Schema names end up as JSON keys, YAML keys and type expression leaves.
var (
	identRe    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	shapeNames = map[string]struct{}{
		domain.ShapeList:    {},
		domain.ShapeMap:     {},
		domain.ShapeGeneric: {},
	}
)

func IsValidIdentifier(s string) bool {
	return identRe.MatchString(s)
}

func (v *Validator) ValidateSchema(schema *domain.Schema) error {
	if schema.Name == "" {
		return errors.New("schema name is required")
	}
	if len(schema.Types) == 0 && len(schema.Primitives) == 0 {
		return errors.New("schema must declare at least one type or primitive")
	}
	if schema.ElementCount != nil && *schema.ElementCount < 0 {
		return fmt.Errorf("element_count must be >= 0, got %d", *schema.ElementCount)
	}

	primitives := make(map[string]bool)
	for _, prim := range schema.Primitives {
		if err := v.validatePrimitive(&prim, primitives); err != nil {
			return fmt.Errorf("primitive '%s': %w", prim.Name, err)
		}
	}

	typeNames := make(map[string]bool)
	for _, td := range schema.Types {
		if !IsValidIdentifier(td.Name) {
			return fmt.Errorf("invalid type identifier: %s", td.Name)
		}
		if typeNames[td.Name] {
			return fmt.Errorf("duplicate type name: %s", td.Name)
		}
		if primitives[td.Name] || v.genRegistry.Has(td.Name) {
			return fmt.Errorf("type '%s' collides with a primitive", td.Name)
		}
		if _, ok := shapeNames[td.Name]; ok {
			return fmt.Errorf("type '%s' collides with a container shape", td.Name)
		}
		typeNames[td.Name] = true
	}

	graph := make(map[string][]string)
	for _, td := range schema.Types {
		deps, err := v.validateFields(&td, typeNames, primitives)
		if err != nil {
			return fmt.Errorf("type '%s': %w", td.Name, err)
		}
		graph[td.Name] = deps
	}

	if hasCycle(graph) {
		return errors.New("cyclic type references detected")
	}

	return nil
}

func (v *Validator) validatePrimitive(prim *domain.PrimitiveDef, seen map[string]bool) error {
	if !IsValidIdentifier(prim.Name) {
		return fmt.Errorf("invalid primitive identifier: %s", prim.Name)
	}
	if seen[prim.Name] {
		return fmt.Errorf("duplicate primitive name: %s", prim.Name)
	}
	if _, ok := shapeNames[prim.Name]; ok {
		return fmt.Errorf("primitive '%s' collides with a container shape", prim.Name)
	}
	seen[prim.Name] = true

	if prim.Generator.Type == "" {
		return errors.New("generator type is required")
	}
	if _, err := v.genRegistry.Build(prim.Generator); err != nil {
		return fmt.Errorf("generator validation failed: %w", err)
	}
	return nil
}

// validateFields returns the schema types td refers to.
func (v *Validator) validateFields(td *domain.TypeDef, types, primitives map[string]bool) ([]string, error) {
	var deps []string
	fieldNames := make(map[string]bool)
	for _, fd := range td.Fields {
		if !IsValidIdentifier(fd.Name) {
			return nil, fmt.Errorf("invalid field identifier: %s", fd.Name)
		}
		if fieldNames[fd.Name] {
			return nil, fmt.Errorf("duplicate field name: %s", fd.Name)
		}
		fieldNames[fd.Name] = true

		if fd.Type == "" {
			return nil, fmt.Errorf("field '%s': type is required", fd.Name)
		}
		expr, err := typeexpr.Parse(fd.Type)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", fd.Name, err)
		}
		if err := expr.CheckArity(); err != nil {
			return nil, fmt.Errorf("field '%s': %w", fd.Name, err)
		}
		if err := checkFieldShapes(expr); err != nil {
			return nil, fmt.Errorf("field '%s': %w", fd.Name, err)
		}
		for _, name := range expr.Names() {
			switch {
			case types[name]:
				deps = append(deps, name)
			case primitives[name], v.genRegistry.Has(name):
			default:
				return nil, fmt.Errorf("field '%s': unknown type %s", fd.Name, name)
			}
		}
	}
	return deps, nil
}

// checkFieldShapes rejects parameterized types that cannot be populated.
// generic<T> is only meaningful at the top of a request.
func checkFieldShapes(e *typeexpr.Expr) error {
	if len(e.Args) > 0 && e.Name != domain.ShapeList && e.Name != domain.ShapeMap {
		return fmt.Errorf("unsupported parameterized type %s", e)
	}
	for _, a := range e.Args {
		if err := checkFieldShapes(a); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) ValidateGenerateRequest(req *domain.GenerateRequest) error {
	hasSchemaID := req.SchemaID != ""
	hasSchema := req.Schema != nil

	if !hasSchemaID && !hasSchema {
		return errors.New("either schema_id or schema must be provided")
	}
	if hasSchemaID && hasSchema {
		return errors.New("only one of schema_id or schema must be provided")
	}

	if strings.TrimSpace(req.Type) == "" {
		return errors.New("type is required")
	}
	expr, err := typeexpr.Parse(req.Type)
	if err != nil {
		return fmt.Errorf("invalid type: %w", err)
	}
	if err := expr.CheckArity(); err != nil {
		return fmt.Errorf("invalid type: %w", err)
	}

	if req.ElementCount != nil && *req.ElementCount < 0 {
		return fmt.Errorf("element_count must be >= 0, got %d", *req.ElementCount)
	}

	if req.Schema != nil {
		if err := v.ValidateSchema(req.Schema); err != nil {
			return fmt.Errorf("schema validation failed: %w", err)
		}
	}

	return nil
}

func hasCycle(graph map[string][]string) bool {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	for node := range graph {
		if !visited[node] {
			if hasCycleDFS(node, graph, visited, recStack) {
				return true
			}
		}
	}
	return false
}

func hasCycleDFS(node string, graph map[string][]string, visited, recStack map[string]bool) bool {
	visited[node] = true
	recStack[node] = true

	for _, neighbor := range graph[node] {
		if !visited[neighbor] {
			if hasCycleDFS(neighbor, graph, visited, recStack) {
				return true
			}
		} else if recStack[neighbor] {
			return true
		}
	}

	recStack[node] = false
	return false
}
