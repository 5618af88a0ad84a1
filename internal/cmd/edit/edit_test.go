package edit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/richtext-cli/internal/config"
	"github.com/open-cli-collective/richtext-cli/pkg/editor"
)

type noFonts struct{}

func (noFonts) AvailableFonts() []string { return nil }

func testOptions(t *testing.T) *editOptions {
	t.Helper()
	opts := &editOptions{configPath: filepath.Join(t.TempDir(), "config.yml")}
	opts.wsOpts.Clipboard = &editor.MemoryClipboard{}
	opts.wsOpts.Fonts = noFonts{}
	return opts
}

func TestRunEdit_LoadsDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>hi</p>"), 0644))

	var gotName, gotContent string
	run := func(_ context.Context, tb *editor.Toolbar, name string) error {
		gotName = name
		gotContent = tb.Document().Content()
		return nil
	}

	require.NoError(t, runEdit(context.Background(), path, testOptions(t), run))
	assert.Equal(t, "notes.html", gotName)
	assert.Equal(t, "<p>hi</p>", gotContent)
}

func TestRunEdit_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.md")

	called := false
	run := func(_ context.Context, tb *editor.Toolbar, _ string) error {
		called = true
		assert.Equal(t, "", tb.Document().Content())
		return nil
	}

	require.NoError(t, runEdit(context.Background(), path, testOptions(t), run))
	assert.True(t, called)
}

func TestRunEdit_Readonly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>hi</p>"), 0644))

	opts := testOptions(t)
	require.NoError(t, (&config.Config{Readonly: true}).Save(opts.configPath))

	var readonly bool
	run := func(_ context.Context, tb *editor.Toolbar, _ string) error {
		readonly = tb.Document().Readonly()
		return nil
	}
	require.NoError(t, runEdit(context.Background(), path, opts, run))
	assert.True(t, readonly, "config readonly applies")

	off := false
	opts.wsOpts.Readonly = &off
	require.NoError(t, runEdit(context.Background(), path, opts, run))
	assert.False(t, readonly, "flag overrides config")
}

func TestRunEdit_Errors(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		opts := testOptions(t)
		require.NoError(t, (&config.Config{DefaultFormat: "rtf"}).Save(opts.configPath))

		err := runEdit(context.Background(), "x.html", opts, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})

	t.Run("session error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "x.html")
		err := runEdit(context.Background(), path, testOptions(t), func(context.Context, *editor.Toolbar, string) error {
			return errors.New("terminal gone")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "terminal gone")
	})
}
