package markup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `<rail version="0.1">
<output>
    <object name="profile" description="A user">
        <string name="name" format="two-words" on-fail-two-words="fix"/>
        <list name="tags">
            <string format="lower-case"/>
        </list>
    </object>
</output>
</rail>`

func TestParse(t *testing.T) {
	root, err := ParseString(doc)
	require.NoError(t, err)

	assert.Equal(t, "rail", root.Tag)
	assert.Equal(t, "0.1", root.AttrOr("version", ""))

	out := root.Child("output")
	require.NotNil(t, out)
	require.Len(t, out.Children, 1)

	profile := out.Children[0]
	assert.Equal(t, "object", profile.Tag)
	assert.Equal(t, 3, profile.Line)

	name := profile.Children[0]
	require.Len(t, name.Attrs, 3)
	assert.Equal(t, []Attr{
		{Name: "name", Value: "name"},
		{Name: "format", Value: "two-words"},
		{Name: "on-fail-two-words", Value: "fix"},
	}, name.Attrs, "attribute order must follow the document")

	_, ok := name.Attr("description")
	assert.False(t, ok)
	assert.Equal(t, "fallback", name.AttrOr("description", "fallback"))

	tags := profile.Child("list")
	require.NotNil(t, tags)
	require.Len(t, tags.Children, 1)
	assert.Equal(t, "lower-case", tags.Children[0].AttrOr("format", ""))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"unclosed", "<output><string name='a'></output>"},
		{"two roots", "<a/><b/>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.doc)
			assert.Error(t, err)
		})
	}

	_, err := ParseString("  ")
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.rail")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	root, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "rail", root.Tag)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.rail"))
	assert.Error(t, err)
}
