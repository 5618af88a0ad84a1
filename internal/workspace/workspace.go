// Package workspace assembles an editable document from configuration: the
// engine, its toolbar, and the filesystem, clipboard, font and probe
// collaborators behind it.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/open-cli-collective/richtext-cli/internal/clipboard"
	"github.com/open-cli-collective/richtext-cli/internal/config"
	"github.com/open-cli-collective/richtext-cli/internal/fileio"
	"github.com/open-cli-collective/richtext-cli/internal/fonts"
	"github.com/open-cli-collective/richtext-cli/internal/logging/events"
	"github.com/open-cli-collective/richtext-cli/internal/probe"
	"github.com/open-cli-collective/richtext-cli/pkg/editor"
)

// Options tune how a workspace is opened.
type Options struct {
	// AllowMissing starts from an empty document when the file does not
	// exist yet.
	AllowMissing bool
	// Readonly overrides the configured readonly flag when set.
	Readonly *bool
	// Clipboard replaces the system clipboard, e.g. in tests.
	Clipboard editor.Clipboard
	// Prober replaces the network prober.
	Prober editor.Prober
	// Fonts replaces the font directory scan.
	Fonts editor.FontSource
}

// Workspace is one document bound to a file.
type Workspace struct {
	Path    string
	Files   *fileio.Local
	Doc     *editor.Document
	Toolbar *editor.Toolbar
}

// LoadConfig reads the config at path (the default path when empty),
// applies environment overrides, and validates the result.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w (run 'rte init' to configure)", err)
	}
	return cfg, nil
}

// Open loads path into a new workspace configured by cfg.
func Open(ctx context.Context, path string, cfg *config.Config, opts Options) (*Workspace, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	readonly := cfg.Readonly
	if opts.Readonly != nil {
		readonly = *opts.Readonly
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = clipboard.New()
	}
	prober := opts.Prober
	if prober == nil {
		prober = probe.New(cfg.ProbeTimeoutDuration())
	}
	fontSource := opts.Fonts
	if fontSource == nil {
		fontSource = fonts.New(cfg.FontDirs, cfg.FallbackFonts)
	}

	files := fileio.NewLocal(path)
	doc := editor.NewDocument(
		editor.WithReadonly(readonly),
		editor.WithClipboard(clip),
		editor.WithTracer(events.Editor),
	)

	content, err := files.OpenFile(ctx)
	switch {
	case err == nil:
		doc.Load(content)
	case opts.AllowMissing && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	tb := editor.NewToolbar(doc,
		editor.WithFiles(files),
		editor.WithFonts(fontSource),
		editor.WithProber(prober),
		editor.WithExclusiveMenus(cfg.ExclusiveMenus),
		editor.WithRatioLock(cfg.RatioLock()),
	)
	return &Workspace{Path: path, Files: files, Doc: doc, Toolbar: tb}, nil
}

// Save writes the document back to its file.
func (w *Workspace) Save(ctx context.Context) error {
	return w.Files.SaveFile(ctx, w.Doc.Export())
}
