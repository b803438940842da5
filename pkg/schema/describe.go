package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Description is a serializable view of a schema node.
type Description struct {
	Tag          string        `json:"tag"`
	Name         string        `json:"name,omitempty"`
	Description  string        `json:"description,omitempty"`
	Format       string        `json:"format,omitempty"`
	Unregistered []string      `json:"unregistered,omitempty"`
	TimeFormat   string        `json:"time_format,omitempty"`
	Model        string        `json:"model,omitempty"`
	Children     []Description `json:"children,omitempty"`
}

// Describe returns the description of n and its subtree.
func Describe(n *Node) Description {
	d := Description{
		Tag:          n.tag,
		Name:         n.name,
		Description:  n.description,
		Format:       n.Directive(false),
		Unregistered: n.Unregistered(),
		TimeFormat:   n.timeFormat,
		Model:        n.model,
	}
	for _, c := range n.children {
		d.Children = append(d.Children, Describe(c))
	}
	return d
}

// MarshalJSON serializes the node as its Description.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	return json.Marshal(Describe(n))
}

// MarshalJSON serializes the schema root.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return s.root.MarshalJSON()
}

// Markdown renders the schema as a nested markdown list, one line per field,
// suitable for documentation or prompts.
func (s *Schema) Markdown(withKeywords bool) string {
	var b strings.Builder
	b.WriteString("# Output schema\n\n")
	if s.root.description != "" {
		b.WriteString(s.root.description + "\n\n")
	}
	if len(s.root.children) == 0 {
		b.WriteString("_No fields declared._\n")
		return b.String()
	}
	for _, c := range s.root.children {
		writeMarkdown(&b, c, 0, withKeywords)
	}
	return b.String()
}

func writeMarkdown(b *strings.Builder, n *Node, depth int, withKeywords bool) {
	b.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(b, "- `%s` (%s", n.name, n.tag)
	if n.timeFormat != "" {
		fmt.Fprintf(b, ", `%s`", n.timeFormat)
	}
	if n.model != "" {
		fmt.Fprintf(b, ", model `%s`", n.model)
	}
	b.WriteString(")")
	if n.description != "" {
		b.WriteString(": " + n.description)
	}
	if d := n.Directive(withKeywords); d != "" {
		fmt.Fprintf(b, " [format: `%s`]", d)
	}
	b.WriteString("\n")
	for _, c := range n.children {
		writeMarkdown(b, c, depth+1, withKeywords)
	}
}
