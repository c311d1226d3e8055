package schema

import "strings"

// Map renders s as a plain JSON-schema document, suitable for back ends
// that accept JSON schema directly (Ollama's "format" field).
func (s Schema) Map() map[string]any {
	m := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		m["enum"] = s.Enum
	}
	if s.Items != nil {
		m["items"] = s.Items.Map()
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = p.Map()
		}
		m["properties"] = props
		m["required"] = s.Required
	}
	return m
}

// ToGemini renders s in the Gemini responseSchema dialect: upper-case type
// names and an explicit propertyOrdering so the model emits fields in the
// declared order.
func (s Schema) ToGemini() map[string]any {
	m := map[string]any{"type": strings.ToUpper(string(s.Type))}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		m["format"] = "enum"
		m["enum"] = s.Enum
	}
	if s.Items != nil {
		m["items"] = s.Items.ToGemini()
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = p.ToGemini()
		}
		m["properties"] = props
		m["required"] = s.Required
		m["propertyOrdering"] = s.PropertyOrder()
	}
	return m
}
