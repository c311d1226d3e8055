// Package schema declares the structured-output shapes sent to the model and
// checks that a reply actually conforms to them before it is decoded.
package schema

import "strings"

// Kind is a JSON value kind.
type Kind string

const (
	KindArray   Kind = "array"
	KindObject  Kind = "object"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
)

// Schema is a small draft-07 subset: enough to describe arrays of flat
// records with typed, required fields.
type Schema struct {
	Type        Kind              `json:"type"`
	Description string            `json:"description,omitempty"`
	Properties  map[string]Schema `json:"properties,omitempty"`
	Required    []string          `json:"required,omitempty"`
	Items       *Schema           `json:"items,omitempty"`
	Enum        []string          `json:"enum,omitempty"`

	// order keeps the declaration order of Properties.
	order []string
}

// Property is a named field used when building an object schema.
type Property struct {
	Name   string
	Schema Schema
}

// Prop pairs a field name with its schema.
func Prop(name string, s Schema) Property {
	return Property{Name: name, Schema: s}
}

// Object builds a strict object schema: every property is required and the
// declaration order is preserved.
func Object(props ...Property) Schema {
	s := Schema{
		Type:       KindObject,
		Properties: make(map[string]Schema, len(props)),
		Required:   make([]string, 0, len(props)),
		order:      make([]string, 0, len(props)),
	}
	for _, p := range props {
		s.Properties[p.Name] = p.Schema
		s.Required = append(s.Required, p.Name)
		s.order = append(s.order, p.Name)
	}
	return s
}

// Array builds an array schema with the given item schema.
func Array(items Schema) Schema {
	return Schema{Type: KindArray, Items: &items}
}

func String(description string) Schema {
	return Schema{Type: KindString, Description: description}
}

func Number(description string) Schema {
	return Schema{Type: KindNumber, Description: description}
}

func Integer(description string) Schema {
	return Schema{Type: KindInteger, Description: description}
}

// StringArray is an array of strings.
func StringArray(description string) Schema {
	s := Array(String(""))
	s.Description = description
	return s
}

// WithDescription returns a copy of s with the description replaced.
func (s Schema) WithDescription(d string) Schema {
	s.Description = d
	return s
}

// WithEnum restricts a string schema to the given values.
func (s Schema) WithEnum(values ...string) Schema {
	s.Enum = values
	return s
}

// PropertyOrder returns property names in declaration order. Schemas built
// as struct literals have no recorded order and fall back to Required.
func (s Schema) PropertyOrder() []string {
	if len(s.order) > 0 {
		return s.order
	}
	return s.Required
}

// FieldNames lists the item field names of an array-of-objects schema, in
// order. Used when a back end needs the shape spelled out in the prompt.
func (s Schema) FieldNames() []string {
	if s.Type == KindArray && s.Items != nil {
		return s.Items.PropertyOrder()
	}
	return s.PropertyOrder()
}

// Describe renders a one-line human description such as
// `array of {id: string, sequence: number}`.
func (s Schema) Describe() string {
	switch s.Type {
	case KindArray:
		if s.Items == nil {
			return "array"
		}
		return "array of " + s.Items.Describe()
	case KindObject:
		parts := make([]string, 0, len(s.Properties))
		for _, name := range s.PropertyOrder() {
			parts = append(parts, name+": "+s.Properties[name].Describe())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return string(s.Type)
	}
}
