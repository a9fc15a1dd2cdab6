package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestGetString(t *testing.T) {
	c, err := New("en")
	require.NoError(t, err)

	tests := []struct {
		name   string
		key    string
		params Params
		want   string
	}{
		{"plain", "undo.empty", nil, "Nothing to undo"},
		{"placeholder", "result.processed", Params{"count": 3}, "Processed 3 cell(s)"},
		{"two placeholders", "undo.partial", Params{"description": "Extract segment 2", "failed": 1}, "Undid: Extract segment 2 (1 cell(s) could not be restored)"},
		{"missing key returns key", "no.such.key", nil, "no.such.key"},
		{"unknown placeholder kept", "operation.extract_segment", nil, "Extract segment {segment}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.GetString(tt.key, tt.params))
		})
	}
}

func TestLocaleMatching(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
	}{
		{"en", language.English},
		{"es", language.Spanish},
		{"es_MX", language.Spanish},
		{"fr", language.English},
		{"not a locale", language.English},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			c, err := New(tt.locale)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Language())
		})
	}
}

func TestSpanishCatalogCoversEnglishKeys(t *testing.T) {
	en, err := New("en")
	require.NoError(t, err)
	es, err := New("es")
	require.NoError(t, err)
	assert.Equal(t, en.Keys(), es.Keys())
	assert.Equal(t, "Nada que deshacer", es.GetString("undo.empty", nil))
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yaml"), []byte("undo.empty: \"Stack is empty\"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "de.yaml"), []byte("undo.empty: \"Nichts rückgängig zu machen\"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(": : :"), 0644))

	c, err := New("en", WithOverrideDir(dir))
	require.NoError(t, err)
	assert.Equal(t, "Stack is empty", c.GetString("undo.empty", nil))
	assert.Equal(t, "Copied to clipboard", c.GetString("status.copied", nil))

	de, err := New("de-AT", WithOverrideDir(dir))
	require.NoError(t, err)
	assert.Equal(t, language.German, de.Language())
	assert.Equal(t, "Nichts rückgängig zu machen", de.GetString("undo.empty", nil))
	assert.Equal(t, "Copied to clipboard", de.GetString("status.copied", nil), "falls back to English")
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.yaml")
	require.NoError(t, os.WriteFile(path, []byte("undo.empty: \"first\"\n"), 0644))

	c, err := New("en", WithOverrideDir(dir))
	require.NoError(t, err)
	assert.Equal(t, "first", c.GetString("undo.empty", nil))

	require.NoError(t, os.WriteFile(path, []byte("undo.empty: \"second\"\n"), 0644))
	require.NoError(t, c.Reload())
	assert.Equal(t, "second", c.GetString("undo.empty", nil))
}
