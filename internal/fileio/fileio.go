// Package fileio reads and writes documents on the local filesystem.
package fileio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/open-cli-collective/richtext-cli/internal/logging/events"
	"github.com/open-cli-collective/richtext-cli/pkg/editor"
	"github.com/open-cli-collective/richtext-cli/pkg/markup"
	"github.com/open-cli-collective/richtext-cli/pkg/md"
)

// Formats understood by Local.
const (
	FormatHTML     = "html"
	FormatMarkdown = "md"
)

// Local is an editor.FileAccess bound to one path. Markdown files are
// converted on the way in and out.
type Local struct {
	Path string
	// Format forces html or md. Empty detects it from the extension.
	Format string
}

var _ editor.FileAccess = (*Local)(nil)

// NewLocal returns a Local for path with format detection.
func NewLocal(path string) *Local {
	return &Local{Path: path}
}

// DetectFormat returns the document format implied by path.
func DetectFormat(path string) string {
	if md.IsMarkdownPath(path) {
		return FormatMarkdown
	}
	return FormatHTML
}

func (l *Local) format() string {
	if l.Format != "" {
		return l.Format
	}
	return DetectFormat(l.Path)
}

// OpenFile reads the document. Markdown is rendered to markup first.
func (l *Local) OpenFile(ctx context.Context) (string, error) {
	if l.Path == "" {
		return "", editor.ErrCanceled
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(l.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	format := l.format()
	events.File.Open(l.Path, format, len(data))

	if format != FormatMarkdown {
		return string(data), nil
	}
	fragment, err := md.ToHTML(data)
	if err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return markup.Shell(fragment), nil
}

// SaveFile writes a full document payload. For markdown paths only the body
// is converted and written.
func (l *Local) SaveFile(ctx context.Context, content string) error {
	if l.Path == "" {
		return editor.ErrCanceled
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	format := l.format()
	out := content
	if format == FormatMarkdown {
		converted, err := ToMarkdown(content)
		if err != nil {
			return err
		}
		out = converted + "\n"
	}

	if dir := filepath.Dir(l.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(l.Path, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	events.File.Save(l.Path, format, len(out))
	return nil
}

// ToMarkdown converts a full document payload to markdown, keeping named
// anchors as placeholders.
func ToMarkdown(payload string) (string, error) {
	fragment, err := BodyFragment(payload)
	if err != nil {
		return "", err
	}
	out, err := md.FromHTMLWithOptions(fragment, md.ConvertOptions{KeepAnchors: true})
	if err != nil {
		return "", fmt.Errorf("failed to convert to markdown: %w", err)
	}
	return out, nil
}

// BodyFragment returns the inner markup of a payload's body.
func BodyFragment(payload string) (string, error) {
	body, err := markup.ParseBody(payload)
	if err != nil {
		return "", err
	}
	if body == nil {
		return "", nil
	}
	return strings.TrimSpace(markup.Render(body)), nil
}

// Load opens path into a new document.
func Load(ctx context.Context, path string, opts ...editor.Option) (*editor.Document, error) {
	content, err := NewLocal(path).OpenFile(ctx)
	if err != nil {
		return nil, err
	}
	doc := editor.NewDocument(opts...)
	doc.Load(content)
	return doc, nil
}

// Save writes doc to path in the fixed shell, or as markdown.
func Save(ctx context.Context, path string, doc *editor.Document) error {
	return NewLocal(path).SaveFile(ctx, doc.Export())
}
