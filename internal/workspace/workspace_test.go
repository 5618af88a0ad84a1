package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/richtext-cli/internal/config"
	"github.com/open-cli-collective/richtext-cli/pkg/editor"
)

type staticFonts []string

func (f staticFonts) AvailableFonts() []string { return f }

func testOptions() Options {
	return Options{
		Clipboard: &editor.MemoryClipboard{},
		Fonts:     staticFonts{"Go", "Go Mono"},
	}
}

func TestOpen_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>hi</p>"), 0644))

	ws, err := Open(context.Background(), path, nil, testOptions())
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", ws.Doc.Content())
	assert.False(t, ws.Doc.Readonly())

	names := ws.Toolbar.Choices(editor.ActFontName)
	assert.Equal(t, []editor.Choice{{Name: "Font Name", Value: editor.Unset}, {Name: "Go", Value: "Go"}, {Name: "Go Mono", Value: "Go Mono"}}, names)
}

func TestOpen_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.html")

	_, err := Open(context.Background(), path, nil, testOptions())
	require.Error(t, err)

	opts := testOptions()
	opts.AllowMissing = true
	ws, err := Open(context.Background(), path, nil, opts)
	require.NoError(t, err)
	assert.Equal(t, "", ws.Doc.Content())
}

func TestOpen_ConfigFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>hi</p>"), 0644))

	lock := false
	cfg := &config.Config{Readonly: true, ExclusiveMenus: true, LockAspectRatio: &lock}
	ws, err := Open(context.Background(), path, cfg, testOptions())
	require.NoError(t, err)

	assert.True(t, ws.Doc.Readonly())
	assert.True(t, ws.Toolbar.Menus().Exclusive())
	ws.Toolbar.ImageDialog().Open()
	assert.False(t, ws.Toolbar.ImageDialog().Draft().Locked)

	off := false
	opts := testOptions()
	opts.Readonly = &off
	ws, err = Open(context.Background(), path, cfg, opts)
	require.NoError(t, err)
	assert.False(t, ws.Doc.Readonly())
}

func TestWorkspace_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("plain text\n"), 0644))

	ws, err := Open(context.Background(), path, nil, testOptions())
	require.NoError(t, err)

	require.NoError(t, ws.Save(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "plain text\n", string(data))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file is empty config", func(t *testing.T) {
		t.Setenv("RTE_DEFAULT_FORMAT", "")
		cfg, err := LoadConfig(filepath.Join(dir, "missing.yml"))
		require.NoError(t, err)
		assert.Equal(t, "html", cfg.Format())
	})

	t.Run("invalid config", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yml")
		require.NoError(t, (&config.Config{DefaultFormat: "rtf"}).Save(path))

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rte init")
	})
}
