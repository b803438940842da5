package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer_Plain(t *testing.T) {
	if IsTerminal() {
		t.Skip("stdout is a terminal")
	}

	render := NewRenderer()
	out, err := render("# Output schema\n\n- `name` (string)\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Output schema")
	assert.Contains(t, out, "name")
	assert.NotContains(t, out, "\x1b[", "notty style has no escape codes")
}

func TestPrintBanner_NotTerminal(t *testing.T) {
	if IsTerminal() {
		t.Skip("stdout is a terminal")
	}
	var buf bytes.Buffer
	PrintBanner(&buf, "0.0.0")
	assert.Empty(t, buf.String())
}

func TestStatus(t *testing.T) {
	assert.Contains(t, Status(true), "ok")
	assert.Contains(t, Status(false), "fail")
}
