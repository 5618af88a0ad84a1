// Package fonts enumerates installed font families for the font selector.
package fonts

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font/sfnt"
)

// Fallback is offered when no font files can be read.
var Fallback = []string{
	"Arial",
	"Courier New",
	"Georgia",
	"Tahoma",
	"Times New Roman",
	"Trebuchet MS",
	"Verdana",
}

// Source implements editor.FontSource over font files on disk. Directories
// are scanned once, on first use.
type Source struct {
	dirs     []string
	fallback []string

	once  sync.Once
	fonts []string
}

// New creates a source scanning dirs. Nil dirs means the platform defaults;
// nil fallback means Fallback.
func New(dirs, fallback []string) *Source {
	if dirs == nil {
		dirs = DefaultDirs()
	}
	if fallback == nil {
		fallback = Fallback
	}
	return &Source{dirs: dirs, fallback: fallback}
}

// AvailableFonts returns the sorted family names found, or the fallback
// list when none were.
func (s *Source) AvailableFonts() []string {
	s.once.Do(func() {
		s.fonts = scan(s.dirs)
		if len(s.fonts) == 0 {
			s.fonts = append([]string(nil), s.fallback...)
		}
	})
	return append([]string(nil), s.fonts...)
}

// DefaultDirs returns the usual font directories for the platform.
func DefaultDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return []string{"/System/Library/Fonts", "/Library/Fonts", filepath.Join(home, "Library", "Fonts")}
	case "windows":
		return []string{filepath.Join(os.Getenv("WINDIR"), "Fonts")}
	default:
		return []string{"/usr/share/fonts", "/usr/local/share/fonts", filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts")}
	}
}

func scan(dirs []string) []string {
	seen := map[string]bool{}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			for _, name := range familyNames(path) {
				seen[name] = true
			}
			return nil
		})
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// familyNames reads the family names of a font file. Unreadable files yield
// nothing.
func familyNames(path string) []string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".ttf" && ext != ".otf" && ext != ".ttc" && ext != ".otc" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var fonts []*sfnt.Font
	if ext == ".ttc" || ext == ".otc" {
		c, err := sfnt.ParseCollection(data)
		if err != nil {
			return nil
		}
		for i := 0; i < c.NumFonts(); i++ {
			if f, err := c.Font(i); err == nil {
				fonts = append(fonts, f)
			}
		}
	} else {
		f, err := sfnt.Parse(data)
		if err != nil {
			return nil
		}
		fonts = append(fonts, f)
	}

	var names []string
	var buf sfnt.Buffer
	for _, f := range fonts {
		name, err := f.Name(&buf, sfnt.NameIDFamily)
		if err == nil && strings.TrimSpace(name) != "" {
			names = append(names, strings.TrimSpace(name))
		}
	}
	return names
}
