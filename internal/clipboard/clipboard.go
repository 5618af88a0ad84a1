// Package clipboard connects cut, copy and paste to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/open-cli-collective/richtext-cli/pkg/editor"
)

// System implements editor.Clipboard with the OS clipboard.
type System struct{}

var _ editor.Clipboard = System{}

// ReadText returns the clipboard text.
func (System) ReadText() (string, error) {
	s, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return s, nil
}

// WriteText replaces the clipboard text.
func (System) WriteText(s string) error {
	if err := clipboard.WriteAll(s); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// Available reports whether a system clipboard utility is present.
func Available() bool {
	return !clipboard.Unsupported
}

// New returns the system clipboard when one is available and an in-process
// clipboard otherwise.
func New() editor.Clipboard {
	if Available() {
		return System{}
	}
	return &editor.MemoryClipboard{}
}
