package editor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/open-cli-collective/richtext-cli/pkg/markup"
)

func newDoc(t *testing.T, fragment string, opts ...Option) *Document {
	t.Helper()
	d := NewDocument(opts...)
	d.Load(fragment)
	return d
}

func nodeAt(t *testing.T, d *Document, path string) *html.Node {
	t.Helper()
	p, err := markup.ParsePath(path)
	require.NoError(t, err)
	n, err := markup.GetNode(d.Root(), p)
	require.NoError(t, err)
	return n
}

func selectText(t *testing.T, d *Document, path string, from, to int) {
	t.Helper()
	n := nodeAt(t, d, path)
	require.Equal(t, html.TextNode, n.Type, "path %s is not a text node", path)
	d.Select(Range(n, from, n, to))
}

type call struct {
	name  string
	value []string
}

type recordingSubstrate struct {
	calls  []call
	result bool
}

func (r *recordingSubstrate) ExecCommand(name string, value ...string) bool {
	r.calls = append(r.calls, call{name: name, value: value})
	return r.result
}

type recordingTracer struct {
	events []string
}

func (r *recordingTracer) Trace(event string, _ map[string]interface{}) {
	r.events = append(r.events, event)
}
