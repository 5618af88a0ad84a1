package script

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/richtext-cli/pkg/editor"
)

func newToolbar(t *testing.T, fragment string, opts ...editor.Option) *editor.Toolbar {
	t.Helper()
	doc := editor.NewDocument(opts...)
	doc.Load(fragment)
	return editor.NewToolbar(doc)
}

func mustParse(t *testing.T, src string) *Script {
	t.Helper()
	s, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	return s
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		steps   int
		wantErr string
	}{
		{name: "empty", src: "", steps: 0},
		{name: "steps", src: "steps:\n  - select: {path: \"0,0\"}\n  - exec: bold\n", steps: 2},
		{name: "unknown key", src: "steps:\n  - bogus: 1\n", wantErr: "failed to parse script"},
		{name: "two ops", src: "steps:\n  - exec: bold\n    toggle: true\n", wantErr: "step 1: expected exactly one operation, got 2"},
		{name: "no op", src: "steps:\n  - {}\n", wantErr: "got 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse(strings.NewReader(tt.src))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, s.Steps, tt.steps)
		})
	}
}

func TestStep_Op(t *testing.T) {
	v := "x"
	tests := []struct {
		step Step
		want string
	}{
		{Step{Select: &Selector{}}, "select"},
		{Step{Exec: "bold"}, "exec:bold"},
		{Step{Action: "source"}, "action:source"},
		{Step{Choose: "fontsize"}, "choose:fontsize"},
		{Step{Link: &v}, "link"},
		{Step{Anchor: &v}, "anchor"},
		{Step{Image: &MediaStep{}}, "image"},
		{Step{Media: &MediaStep{}}, "media"},
		{Step{Toggle: true}, "toggle"},
		{Step{Source: &v}, "source"},
		{Step{Input: &v}, "input"},
		{Step{Enter: true}, "enter"},
		{Step{Expect: &Expect{}}, "expect"},
		{Step{}, "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.step.Op())
		})
	}
}

func TestRunner_FormattingSession(t *testing.T) {
	tb := newToolbar(t, "<p>abc</p>")
	s := mustParse(t, `
steps:
  - select: {path: "0,0", offset: 0, focus_path: "0,0", focus_offset: 3}
  - exec: bold
  - expect: {formats: [b, p], content: "<p><b>abc</b></p>"}
  - exec: undo
  - expect: {content: "<p>abc</p>"}
`)

	results, err := NewRunner(tb).Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, results, 5)
	for _, r := range results {
		assert.True(t, r.Applied, r.Op)
	}
}

func TestRunner_DeclinedStepsAreRecorded(t *testing.T) {
	tb := newToolbar(t, "<p>abc</p>")
	s := mustParse(t, `
steps:
  - exec: bold
  - choose: forecolor
    value: red
  - link: "javascript:alert(1)"
`)

	results, err := NewRunner(tb).Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []Result{
		{Index: 1, Op: "exec:bold", Applied: false},
		{Index: 2, Op: "choose:forecolor", Applied: false},
		{Index: 3, Op: "link", Applied: false},
	}, results)
	assert.Equal(t, "<p>abc</p>", tb.Document().Content())
}

func TestRunner_LinkAndAnchor(t *testing.T) {
	tb := newToolbar(t, "<p>abc</p>")
	s := mustParse(t, `
steps:
  - select: {path: "0,0", offset: 0, focus_path: "0,0", focus_offset: 3}
  - link: https://example.com
  - expect: {contains: '<a href="https://example.com">abc</a>'}
  - select: {path: "0", offset: 0}
  - anchor: top
  - expect: {contains: '<a name="top"></a>'}
`)

	_, err := NewRunner(tb).Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, tb.LinkPrompt().IsOpen())
	assert.False(t, tb.AnchorPrompt().IsOpen())
}

func TestRunner_Image(t *testing.T) {
	tb := newToolbar(t, "<p>ab</p>")
	s := mustParse(t, `
steps:
  - select: {path: "0,0", offset: 1}
  - image: {src: x.png, alt: cat, width: "10", height: "20"}
`)

	results, err := NewRunner(tb).Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, results[1].Applied)
	assert.Equal(t, `<p>a<img src="x.png" alt="cat" width="10" height="20"/>b</p>`, tb.Document().Content())
	assert.False(t, tb.ImageDialog().IsOpen())
}

func TestRunner_MediaWithoutSourceIsCanceled(t *testing.T) {
	tb := newToolbar(t, "<p>ab</p>")
	s := mustParse(t, "steps:\n  - media: {src: \"\"}\n")

	results, err := NewRunner(tb).Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, results[0].Applied)
	assert.False(t, tb.MediaDialog().IsOpen())
}

func TestRunner_SourceRoundTrip(t *testing.T) {
	tb := newToolbar(t, "<p>abc</p>")
	s := mustParse(t, `
steps:
  - toggle: true
  - expect: {mode: source}
  - source: "<h1>new</h1>"
  - exec: bold
  - toggle: true
  - expect: {mode: wysiwyg, content: "<h1>new</h1>"}
`)

	results, err := NewRunner(tb).Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, results[3].Applied, "commands are inert in source mode")
}

func TestRunner_InputAndEnter(t *testing.T) {
	tb := newToolbar(t, "<p>abc</p>")
	s := mustParse(t, `
steps:
  - input: "<p></p>"
  - select: {path: "0", offset: 0}
  - enter: true
  - expect: {content: "<p><br/></p>"}
`)

	results, err := NewRunner(tb).Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, results[2].Applied)
}

func TestRunner_Readonly(t *testing.T) {
	tb := newToolbar(t, "<p>abc</p>", editor.WithReadonly(true))
	s := mustParse(t, "steps:\n  - input: \"<p>x</p>\"\n  - action: bold\n")

	results, err := NewRunner(tb).Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, results[0].Applied)
	assert.False(t, results[1].Applied)
	assert.Equal(t, "<p>abc</p>", tb.Document().Content())
}

func TestRunner_ExpectationFailure(t *testing.T) {
	tb := newToolbar(t, "<p>abc</p>")
	s := mustParse(t, "steps:\n  - expect: {contains: \"<b>\"}\n  - exec: bold\n")

	results, err := NewRunner(tb).Run(context.Background(), s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpectation)
	assert.Contains(t, err.Error(), "step 1 (expect)")
	assert.Empty(t, results)
}

func TestRunner_FormatsDiff(t *testing.T) {
	tb := newToolbar(t, "<p><i>abc</i></p>")
	s := mustParse(t, `
steps:
  - select: {path: "0,0,0", offset: 0, focus_path: "0,0,0", focus_offset: 3}
  - expect: {formats: [b, p]}
`)

	_, err := NewRunner(tb).Run(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "active formats mismatch")
	assert.Contains(t, err.Error(), `"i"`)
}

func TestRunner_BadSelector(t *testing.T) {
	tb := newToolbar(t, "<p>abc</p>")
	s := mustParse(t, "steps:\n  - select: {path: \"5,0\"}\n")

	_, err := NewRunner(tb).Run(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no node at")
}

func TestRunner_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(newToolbar(t, "<p>abc</p>")).Run(ctx, mustParse(t, "steps:\n  - exec: bold\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSelector_Resolve(t *testing.T) {
	doc := editor.NewDocument()
	doc.Load("<p>abc</p>")

	sel, err := Selector{Path: "0,0", Offset: 1}.Resolve(doc)
	require.NoError(t, err)
	assert.Equal(t, editor.KindCaret, sel.Kind())

	focus := "0,0"
	sel, err = Selector{Path: "0,0", FocusPath: &focus, FocusOffset: 2}.Resolve(doc)
	require.NoError(t, err)
	assert.Equal(t, editor.KindRange, sel.Kind())
	assert.Equal(t, "ab", sel.Text())

	sel, err = Selector{Text: "<b>x</b>"}.Resolve(doc)
	require.NoError(t, err)
	assert.Equal(t, editor.KindText, sel.Kind())

	_, err = Selector{Path: "a"}.Resolve(doc)
	assert.Error(t, err)
}
