package loam

import "github.com/aretw0/rail/pkg/ports"

// ModelMetadata is the frontmatter of a model document. The document body,
// when present, is the model description.
type ModelMetadata struct {
	Name   string          `json:"name" mapstructure:"name"`
	Format string          `json:"format,omitempty" mapstructure:"format"`
	Fields []FieldMetadata `json:"fields" mapstructure:"fields"`
}

// FieldMetadata is one entry of the fields list.
type FieldMetadata struct {
	Name        string `json:"name" mapstructure:"name"`
	Type        string `json:"type" mapstructure:"type"`
	Description string `json:"description,omitempty" mapstructure:"description"`
	Format      string `json:"format,omitempty" mapstructure:"format"`
}

func toModel(id string, meta ModelMetadata, content string) *ports.Model {
	name := meta.Name
	if name == "" {
		name = trimExtension(id)
	}
	m := &ports.Model{
		Name:        name,
		Description: content,
		Directive:   meta.Format,
		Fields:      make([]ports.ModelField, 0, len(meta.Fields)),
	}
	for _, f := range meta.Fields {
		m.Fields = append(m.Fields, ports.ModelField{
			Name:        f.Name,
			Type:        f.Type,
			Description: f.Description,
			Directive:   f.Format,
		})
	}
	return m
}

func fromModel(m *ports.Model) ModelMetadata {
	meta := ModelMetadata{Name: m.Name, Format: m.Directive}
	for _, f := range m.Fields {
		meta.Fields = append(meta.Fields, FieldMetadata{
			Name:        f.Name,
			Type:        f.Type,
			Description: f.Description,
			Format:      f.Directive,
		})
	}
	return meta
}
