package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/rail/pkg/schema"
)

// FailureOverlay marks the node where a validation failed.
type FailureOverlay struct {
	// Path of the failing value, as reported by schema.PathError
	// (e.g. "items[2].name").
	Path string
}

// GenerateMermaid produces a Mermaid flowchart of a schema tree.
// It applies semantic styling:
// - Object/Model: ((Circle))
// - List: [[Subroutine]]
// - Choice: {Rhombus}
// - Case: [/Parallelogram/]
// - Scalar: [Rectangle]
// Edges from a parent are labelled with the child's validators.
func GenerateMermaid(root *schema.Node, overlay *FailureOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	writeNode(&sb, root, "root", "output")

	if overlay != nil && overlay.Path != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s failed;\n", nodeID(schemaPath(overlay.Path))))
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, n *schema.Node, id, label string) {
	opener, closer := "[", "]"
	switch n.Kind() {
	case schema.KindObject, schema.KindModel:
		opener, closer = "((", "))"
	case schema.KindList:
		opener, closer = "[[", "]]"
	case schema.KindChoice:
		opener, closer = "{", "}"
	case schema.KindCase:
		opener, closer = "[/", "/]"
	}

	text := fmt.Sprintf("%s: %s", label, n.Tag())
	if n.Model() != "" {
		text += " <br/> " + n.Model()
	}
	sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, escape(text), closer))

	for _, c := range n.Children() {
		childID := id + "_" + sanitizeMermaidID(c.Name())
		arrow := "-->"
		if d := c.Directive(false); d != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", escape(d))
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", id, arrow, childID))
		writeNode(sb, c, childID, c.Name())
	}
}

// schemaPath maps a value path to the schema path that validated it: list
// positions all share the item node.
func schemaPath(valuePath string) []string {
	var parts []string
	for _, seg := range strings.Split(valuePath, ".") {
		name, rest, indexed := strings.Cut(seg, "[")
		if name != "" {
			parts = append(parts, name)
		}
		for indexed {
			parts = append(parts, "item")
			_, rest, indexed = strings.Cut(rest, "[")
		}
	}
	return parts
}

func nodeID(parts []string) string {
	id := "root"
	for _, p := range parts {
		id += "_" + sanitizeMermaidID(p)
	}
	return id
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
