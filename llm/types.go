package llm

// Part is one piece of user content: either text or inline binary data.
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

// TextPart returns a text part.
func TextPart(text string) Part { return Part{Text: text} }

// InlinePart returns a binary part such as audio.
func InlinePart(data []byte, mimeType string) Part {
	return Part{Data: data, MIMEType: mimeType}
}

// IsInline reports whether p carries binary data.
func (p Part) IsInline() bool { return p.Data != nil }

// Property is one string property of a response schema.
type Property struct {
	Name        string
	Description string
}

// Schema describes a JSON object response whose properties are all strings.
type Schema struct {
	Name       string
	Properties []Property
	Required   []string
}

// JSONSchema renders s as a JSON Schema document.
func (s *Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Properties))
	for _, p := range s.Properties {
		props[p.Name] = map[string]any{
			"type":        "string",
			"description": p.Description,
		}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             s.Required,
		"additionalProperties": false,
	}
}

// Request is one generation call.
type Request struct {
	// Model overrides the backend's default model.
	Model             string
	SystemInstruction string
	Parts             []Part
	// Schema constrains the response to a JSON object. Nil means free text.
	Schema      *Schema
	Temperature float32
	// ResponseMIMEType is e.g. "application/json".
	ResponseMIMEType string
}

// HasInline reports whether any part carries binary data.
func (r Request) HasInline() bool {
	for _, p := range r.Parts {
		if p.IsInline() {
			return true
		}
	}
	return false
}
