package validate

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
)

// Schema is a structural description of one node of the context
// document. Unlike a fail-fast validator it collects every violation
// with its dotted field path, so a single pass reports all problems.
type Schema struct {
	Type       string            `json:"type,omitempty"`
	Properties map[string]Schema `json:"properties,omitempty"`
	Required   []string          `json:"required,omitempty"`
	Items      *Schema           `json:"items,omitempty"`
	Enum       []any             `json:"enum,omitempty"`
	MinLength  *int              `json:"minLength,omitempty"`
	Pattern    string            `json:"pattern,omitempty"`
}

// String creates a schema for a string value.
func String() Schema {
	return Schema{Type: "string"}
}

// NonEmptyString creates a schema for a string that must not be empty.
func NonEmptyString() Schema {
	one := 1
	return Schema{Type: "string", MinLength: &one}
}

// Bool creates a schema for a boolean value.
func Bool() Schema {
	return Schema{Type: "boolean"}
}

// Array creates a schema for an array with the given item schema.
func Array(items Schema) Schema {
	return Schema{Type: "array", Items: &items}
}

// Object creates a schema for an object with the given properties and
// required field names.
func Object(properties map[string]Schema, required ...string) Schema {
	return Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// Enum creates a schema restricted to the given values.
func Enum(values ...any) Schema {
	return Schema{Enum: values}
}

// Check validates value against the schema and returns every violation
// found. The path parameter names the root in reported field paths.
func (s Schema) Check(value any, path string) []Problem {
	var problems []Problem
	s.walk(value, path, &problems)
	return problems
}

func (s Schema) walk(value any, path string, problems *[]Problem) {
	if value == nil {
		if s.Type != "" {
			*problems = append(*problems, schemaProblem(path, fmt.Sprintf("expected %s, got nothing", s.Type)))
		}
		return
	}

	if len(s.Enum) > 0 {
		for _, allowed := range s.Enum {
			if reflect.DeepEqual(value, allowed) {
				return
			}
		}
		*problems = append(*problems, schemaProblem(path, fmt.Sprintf("value %v is not one of %v", value, s.Enum)))
		return
	}

	switch s.Type {
	case "string":
		s.walkString(value, path, problems)
	case "boolean":
		if _, ok := value.(bool); !ok {
			*problems = append(*problems, schemaProblem(path, fmt.Sprintf("expected boolean, got %T", value)))
		}
	case "array":
		s.walkArray(value, path, problems)
	case "object":
		s.walkObject(value, path, problems)
	}
}

func (s Schema) walkString(value any, path string, problems *[]Problem) {
	str, ok := value.(string)
	if !ok {
		*problems = append(*problems, schemaProblem(path, fmt.Sprintf("expected string, got %T", value)))
		return
	}
	if s.MinLength != nil && len(str) < *s.MinLength {
		*problems = append(*problems, schemaProblem(path, fmt.Sprintf("string length %d is less than minimum %d", len(str), *s.MinLength)))
	}
	if s.Pattern != "" {
		matched, err := regexp.MatchString(s.Pattern, str)
		if err == nil && !matched {
			*problems = append(*problems, schemaProblem(path, fmt.Sprintf("string does not match pattern %s", s.Pattern)))
		}
	}
}

func (s Schema) walkArray(value any, path string, problems *[]Problem) {
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		*problems = append(*problems, schemaProblem(path, fmt.Sprintf("expected array, got %T", value)))
		return
	}
	if s.Items == nil {
		return
	}
	for i := 0; i < v.Len(); i++ {
		s.Items.walk(v.Index(i).Interface(), fmt.Sprintf("%s[%d]", path, i), problems)
	}
}

func (s Schema) walkObject(value any, path string, problems *[]Problem) {
	objMap, ok := value.(map[string]any)
	if !ok {
		// Structs arrive through their JSON shape.
		data, err := json.Marshal(value)
		if err != nil {
			*problems = append(*problems, schemaProblem(path, fmt.Sprintf("expected object, got %T", value)))
			return
		}
		if err := json.Unmarshal(data, &objMap); err != nil {
			*problems = append(*problems, schemaProblem(path, fmt.Sprintf("expected object, got %T", value)))
			return
		}
	}

	for _, req := range s.Required {
		if _, exists := objMap[req]; !exists {
			*problems = append(*problems, schemaProblem(joinPath(path, req), "required field is missing"))
		}
	}

	for key, val := range objMap {
		propSchema, exists := s.Properties[key]
		if !exists {
			continue
		}
		propSchema.walk(val, joinPath(path, key), problems)
	}
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}
