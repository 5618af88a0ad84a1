package editor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/richtext-cli/pkg/markup"
)

func TestDocument_ToggleViewRoundTrip(t *testing.T) {
	d := newDoc(t, "<p>hi</p>")
	require.Equal(t, ModeWysiwyg, d.Mode())

	assert.Equal(t, ModeSource, d.ToggleView())
	assert.Equal(t, "<p>hi</p>", d.Source())

	require.True(t, d.SetSource("<p>bye</p>"))
	assert.Equal(t, "<p>hi</p>", d.Content(), "source edits stay buffered")

	assert.Equal(t, ModeWysiwyg, d.ToggleView())
	assert.Equal(t, "<p>bye</p>", d.Content())
}

func TestDocument_SourceStripsTemplateMarkers(t *testing.T) {
	d := newDoc(t, "<p>a<!--?lit$123$-->b<!--?impl$7$--></p>")
	d.ToggleView()

	assert.Equal(t, "<p>ab</p>", d.Source())
	assert.NotContains(t, d.Source(), "<!--?")
}

func TestDocument_EmptySourceClearsTree(t *testing.T) {
	d := newDoc(t, "<p>hi</p>")
	d.ToggleView()
	d.SetSource("")
	d.ToggleView()

	assert.Equal(t, "", d.Content())
}

func TestDocument_SetSourceOutsideSourceMode(t *testing.T) {
	d := newDoc(t, "<p>hi</p>")
	assert.False(t, d.SetSource("<p>bye</p>"))
	assert.Equal(t, "", d.Source())
}

func TestDocument_ParseSerializeRoundTrip(t *testing.T) {
	fragments := []string{
		"<p>plain</p>",
		`<p style="text-align: center;">a <b>b</b> <i>c</i></p>`,
		"<ul><li>one</li><li>two <u>three</u></li></ul>",
		`<blockquote><p><a href="https://x.io">x</a></p></blockquote>`,
		`<p><img src="x.png" alt="cat" width="10" height="20"/></p>`,
	}
	for _, frag := range fragments {
		t.Run(frag, func(t *testing.T) {
			d := newDoc(t, frag)
			before := markup.OutlineOf(d.Root())

			again := newDoc(t, d.Content())
			if diff := cmp.Diff(before, markup.OutlineOf(again.Root())); diff != "" {
				t.Errorf("tree changed after round trip (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDocument_LoadInSourceModeRefreshesBuffer(t *testing.T) {
	d := newDoc(t, "<p>old</p>")
	d.ToggleView()

	d.Load("<!DOCTYPE html><html><body><p>new</p></body></html>")
	assert.Equal(t, "<p>new</p>", d.Source())

	d.ToggleView()
	assert.Equal(t, "<p>new</p>", d.Content())
}

func TestDocument_LoadResetsHistoryAndSelection(t *testing.T) {
	d := newDoc(t, "<p>abc</p>")
	selectText(t, d, "0,0", 0, 3)
	require.True(t, d.Substrate().ExecCommand(CmdBold))

	d.Load("<p>fresh</p>")
	assert.Nil(t, d.Selection())
	assert.False(t, d.Substrate().ExecCommand(CmdUndo))
	assert.Equal(t, "<p>fresh</p>", d.Content())
}

func TestDocument_Mount(t *testing.T) {
	d := NewDocument()

	assert.False(t, d.Mount("   \n"), "blank templates are ignored")
	assert.True(t, d.Mount("<p>seed</p>"))
	assert.False(t, d.Mount("<p>again</p>"))
	assert.Equal(t, "<p>seed</p>", d.Content())
}

func TestDocument_Input(t *testing.T) {
	d := newDoc(t, "<p>before</p>")

	d.Input("<p>after</p>")
	assert.Equal(t, "<p>after</p>", d.Content())

	require.True(t, d.Substrate().ExecCommand(CmdUndo))
	assert.Equal(t, "<p>before</p>", d.Content())
}

func TestDocument_InputIgnoredWhenReadonly(t *testing.T) {
	d := newDoc(t, "<p>before</p>", WithReadonly(true))
	d.Input("<p>after</p>")
	assert.Equal(t, "<p>before</p>", d.Content())
}

func TestDocument_Export(t *testing.T) {
	d := newDoc(t, "<p>hi</p>")
	want := "<!DOCTYPE html>\n" +
		"<html lang=\"en\">\n" +
		"  <head><meta charset=\"UTF-8\" /><title>Document</title></head>\n" +
		"  <body><p>hi</p></body>\n" +
		"</html>"
	assert.Equal(t, want, d.Export())
}

func TestDocument_Events(t *testing.T) {
	d := newDoc(t, "<p>hi</p>")
	var got []EventType
	unsubscribe := d.Subscribe(func(e Event) { got = append(got, e.Type) })

	d.Select(Caret(d.Root(), 0))
	d.ToggleView()
	d.ToggleView()
	unsubscribe()
	d.Select(nil)

	assert.Equal(t, []EventType{
		EventSelectionChanged,
		EventViewModeToggled,
		EventSelectionChanged,
		EventContentChanged,
		EventViewModeToggled,
	}, got)
}

func TestDocument_SelectionReplacedWholesale(t *testing.T) {
	d := newDoc(t, "<p>hi</p>")
	first := Caret(d.Root(), 0)
	second := Caret(d.Root(), 1)

	d.Select(first)
	d.Select(second)
	assert.Same(t, second, d.Selection())
}

func TestDocument_HandleEnter(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		path     string
		handled  bool
		want     string
	}{
		{
			name:     "empty paragraph",
			fragment: "<p></p>",
			path:     "0",
			handled:  true,
			want:     "<p><br/></p>",
		},
		{
			name:     "paragraph with text",
			fragment: "<p>text</p>",
			path:     "0",
			want:     "<p>text</p>",
		},
		{
			name:     "empty heading",
			fragment: "<h1></h1>",
			path:     "0",
			want:     "<h1></h1>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDoc(t, tt.fragment)
			d.Select(Caret(nodeAt(t, d, tt.path), 0))

			assert.Equal(t, tt.handled, d.HandleEnter())
			assert.Equal(t, tt.want, d.Content())
		})
	}
}

func TestDocument_HandleEnterWithoutSelection(t *testing.T) {
	d := newDoc(t, "<p></p>")
	assert.False(t, d.HandleEnter())
}

func TestDocument_TracesRejectedCommands(t *testing.T) {
	tracer := &recordingTracer{}
	d := newDoc(t, "<p>hi</p>", WithTracer(tracer), WithReadonly(true))
	selectText(t, d, "0,0", 0, 2)

	d.Substrate().ExecCommand(CmdBold)
	assert.Contains(t, tracer.events, "editor.command.inert")
}
