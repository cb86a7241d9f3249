package localization_test

import (
	"os"
	"path/filepath"
	"testing"

	"whodidit/backend/internal/localization"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedTranslations(t *testing.T) {
	l, err := localization.NewLocalizer("", "en")
	require.NoError(t, err)

	assert.Equal(t, "Not found.", l.GetString("en", "error.not_found"))
	assert.Equal(t, "Не знайдено.", l.GetString("uk", "error.not_found"))
	// unknown language falls back to English, unknown key to itself
	assert.Equal(t, "Not found.", l.GetString("de", "error.not_found"))
	assert.Equal(t, "no.such.key", l.GetString("uk", "no.such.key"))

	assert.Equal(t, "✉️ New contact message m-1: hello", l.Format("en", "notify.contact_submitted", "m-1", "hello"))
}

func TestMatch(t *testing.T) {
	l, err := localization.NewLocalizer("", "en")
	require.NoError(t, err)

	assert.Equal(t, "uk", l.Match("uk-UA,uk;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", l.Match("en-US"))
	assert.Equal(t, "en", l.Match("ja"))
	assert.Equal(t, "en", l.Match(""))
}

func TestNewLocalizer_FromDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"hello":"Hello"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	l, err := localization.NewLocalizer(dir, "en")
	require.NoError(t, err)
	assert.Equal(t, "Hello", l.GetString("en", "hello"))

	_, err = localization.NewLocalizer(dir, "uk")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{broken`), 0o644))
	_, err = localization.NewLocalizer(dir, "en")
	assert.Error(t, err)
}
