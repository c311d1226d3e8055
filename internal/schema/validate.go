package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ValidationError pinpoints where a value stopped matching its schema.
type ValidationError struct {
	Path     string // e.g. "$[2].durationJP"
	Message  string
	Expected string
	Actual   string
}

func (e *ValidationError) Error() string {
	if e.Expected != "" || e.Actual != "" {
		return fmt.Sprintf("%s: %s (expected %s, got %s)", e.Path, e.Message, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validator checks decoded JSON against a Schema.
type Validator struct {
	schema Schema
}

// NewValidator creates a Validator for s.
func NewValidator(s Schema) *Validator {
	return &Validator{schema: s}
}

// Validate parses data into an untyped value and returns the first
// conformance violation, or nil.
func (v *Validator) Validate(data []byte) error {
	_, err := v.Decode(data)
	return err
}

// Decode parses data into an untyped value and checks it. The returned value
// is only meaningful when err is nil.
func (v *Validator) Decode(data []byte) (any, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, &ValidationError{Path: "$", Message: "invalid JSON: " + err.Error()}
	}
	if errs := v.ValidateValue(parsed); len(errs) > 0 {
		return nil, &errs[0]
	}
	return parsed, nil
}

// ValidateValue walks an already-decoded value and returns every violation.
func (v *Validator) ValidateValue(value any) []ValidationError {
	return validate(value, v.schema, "$")
}

func validate(value any, s Schema, path string) []ValidationError {
	actual := kindOf(value)
	if !compatible(s.Type, actual, value) {
		return []ValidationError{{
			Path:     path,
			Message:  "type mismatch",
			Expected: string(s.Type),
			Actual:   actual,
		}}
	}

	var errs []ValidationError
	switch s.Type {
	case KindObject:
		obj := value.(map[string]any)
		for _, name := range s.Required {
			if _, ok := obj[name]; !ok {
				errs = append(errs, ValidationError{
					Path:    path + "." + name,
					Message: "required field is missing",
				})
			}
		}
		for _, name := range s.PropertyOrder() {
			fv, ok := obj[name]
			if !ok {
				continue
			}
			errs = append(errs, validate(fv, s.Properties[name], path+"."+name)...)
		}
	case KindArray:
		if s.Items == nil {
			break
		}
		for i, item := range value.([]any) {
			errs = append(errs, validate(item, *s.Items, fmt.Sprintf("%s[%d]", path, i))...)
		}
	case KindString:
		if len(s.Enum) > 0 && !contains(s.Enum, value.(string)) {
			errs = append(errs, ValidationError{
				Path:     path,
				Message:  "value not in enum",
				Expected: strings.Join(s.Enum, "|"),
				Actual:   value.(string),
			})
		}
	}
	return errs
}

func kindOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return string(KindBoolean)
	case float64:
		return string(KindNumber)
	case string:
		return string(KindString)
	case []any:
		return string(KindArray)
	case map[string]any:
		return string(KindObject)
	default:
		return fmt.Sprintf("%T", value)
	}
}

func compatible(want Kind, actual string, value any) bool {
	switch want {
	case "":
		return true
	case KindInteger:
		f, ok := value.(float64)
		return ok && f == math.Trunc(f) && !math.IsInf(f, 0)
	default:
		return string(want) == actual
	}
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
