package editor

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// openingTag matches any tag token in literal text; closing tags are
// filtered out afterwards.
var openingTag = regexp.MustCompile(`<[^>]+>`)

// FormatSet is the set of lowercase tag names active at a selection.
type FormatSet map[string]struct{}

// NewFormatSet builds a set from tag names.
func NewFormatSet(tags ...string) FormatSet {
	s := make(FormatSet, len(tags))
	for _, t := range tags {
		s[strings.ToLower(t)] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s FormatSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Sorted returns the tags in lexical order.
func (s FormatSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ActiveFormats computes the formatting tags applicable at sel.
//
// Range selections walk the base node's ancestor chain up to root. Anything
// else falls back to scanning the selected text for opening-tag tokens, a
// deliberately loose approximation that only feeds toolbar highlighting.
// The root tag is never part of the result.
func ActiveFormats(sel *Selection, root *html.Node) FormatSet {
	set := FormatSet{}
	if sel == nil {
		return set
	}
	if sel.IsRange() {
		for _, tag := range sel.AncestorPath(root) {
			set[tag] = struct{}{}
		}
		return set
	}
	for _, tag := range scanTags(sel.Text()) {
		set[tag] = struct{}{}
	}
	// Text scans cannot tell the root apart from a nested element of the
	// same name; the root tag is dropped by name.
	if root != nil && root.Type == html.ElementNode {
		delete(set, root.Data)
	}
	return set
}

// scanTags extracts tag names from opening-tag tokens in s.
func scanTags(s string) []string {
	var tags []string
	for _, tok := range openingTag.FindAllString(s, -1) {
		if strings.HasPrefix(tok, "</") || strings.HasPrefix(tok, "<!") || strings.HasPrefix(tok, "<?") {
			continue
		}
		name := strings.Trim(tok, "<>")
		if i := strings.IndexAny(name, " \t\n/"); i >= 0 {
			name = name[:i]
		}
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			tags = append(tags, name)
		}
	}
	return tags
}
