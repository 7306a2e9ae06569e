package entity

// SchemaField describes one input parameter of a synthesized tool.
type SchemaField struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// ToolBinding carries the page-level target a tool resolves at execution
// time. Selectors are best-effort: tools re-resolve them instead of caching
// DOM references.
type ToolBinding struct {
	Selector string `json:"selector,omitempty"`
	Element  string `json:"element,omitempty"`
	Href     string `json:"href,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// ToolDescriptor is a named, schema-described automation primitive. Action
// names the generic implementation the tool maps to (click, fill_form,
// navigate, login, ...). Never mutated after synthesis.
type ToolDescriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Schema      map[string]SchemaField `json:"schema"`
	Action      string                 `json:"action"`
	Binding     *ToolBinding           `json:"binding,omitempty"`
}

type ToolSet struct {
	Site  string           `json:"site"`
	Tools []ToolDescriptor `json:"tools"`
}

func (s *ToolSet) Count() int {
	return len(s.Tools)
}
