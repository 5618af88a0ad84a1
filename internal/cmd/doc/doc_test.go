package doc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/richtext-cli/internal/script"
	"github.com/open-cli-collective/richtext-cli/internal/workspace"
	"github.com/open-cli-collective/richtext-cli/pkg/editor"
)

type staticFonts []string

func (f staticFonts) AvailableFonts() []string { return f }

type sizeProber struct{ size editor.Size }

func (p sizeProber) Probe(context.Context, string) (editor.Size, error) { return p.size, nil }

// writeDoc writes content to a file in a temp dir and opens it.
func writeDoc(t *testing.T, name, content string) *workspace.Workspace {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	ws, err := workspace.Open(context.Background(), path, nil, workspace.Options{
		Clipboard: &editor.MemoryClipboard{},
		Fonts:     staticFonts{"Go"},
		Prober:    sizeProber{size: editor.Size{Width: 200, Height: 100}},
	})
	require.NoError(t, err)
	return ws
}

func global(out *bytes.Buffer) globalOptions {
	return globalOptions{noColor: true, out: out}
}

// reload reads the saved file back through a fresh workspace.
func reload(t *testing.T, path string) string {
	t.Helper()
	ws, err := workspace.Open(context.Background(), path, nil, workspace.Options{Clipboard: &editor.MemoryClipboard{}, Fonts: staticFonts{}})
	require.NoError(t, err)
	return ws.Doc.Content()
}

func TestRunNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.html")
	var out bytes.Buffer
	opts := &newOptions{globalOptions: global(&out), content: "<h1>Notes</h1>"}

	require.NoError(t, runNew(context.Background(), path, opts))
	assert.Contains(t, out.String(), "Created")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
	assert.Contains(t, string(data), "<body><h1>Notes</h1></body>")
}

func TestRunNew_Exists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("keep me\n"), 0644))
	var out bytes.Buffer

	err := runNew(context.Background(), path, &newOptions{globalOptions: global(&out)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, runNew(context.Background(), path, &newOptions{globalOptions: global(&out), force: true}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\n", string(data))
}

func TestRunShow(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		markdown bool
		want     string
	}{
		{name: "markup", want: "<p>hello <b>world</b></p>\n"},
		{name: "markdown", markdown: true, want: "hello **world**\n"},
		{name: "json", output: "json", want: `"format": "html"`},
		{name: "json markdown", output: "json", markdown: true, want: `"content": "hello **world**"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := writeDoc(t, "doc.html", "<p>hello <b>world</b></p>")
			var out bytes.Buffer
			opts := &showOptions{globalOptions: global(&out), markdown: tt.markdown}
			opts.output = tt.output

			require.NoError(t, runShow(context.Background(), ws.Path, opts, ws))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestRunShow_Info(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<h1>Café</h1><p>hello <b>world</b></p>")
	var out bytes.Buffer
	opts := &showOptions{globalOptions: global(&out), info: true}
	opts.output = "plain"

	require.NoError(t, runShow(context.Background(), ws.Path, opts, ws))
	assert.Equal(t, "Path\t"+ws.Path+"\n"+
		"Format\thtml\n"+
		"Blocks\t2\n"+
		"Characters\t15\n"+
		"Elements\tb, h1, p\n"+
		"Readonly\tno\n", out.String())
}

func TestRunShow_InfoJSON(t *testing.T) {
	ws := writeDoc(t, "doc.md", "# Title\n\nbody\n")
	var out bytes.Buffer
	opts := &showOptions{globalOptions: global(&out), info: true}
	opts.output = "json"

	require.NoError(t, runShow(context.Background(), ws.Path, opts, ws))
	var got map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "md", got["format"])
	assert.Equal(t, "2", got["blocks"])
}

func TestRunShow_InvalidOutput(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<p>x</p>")
	opts := &showOptions{globalOptions: globalOptions{output: "yaml"}}

	err := runShow(context.Background(), ws.Path, opts, ws)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestRunFormats(t *testing.T) {
	tests := []struct {
		name string
		sel  selectorFlags
		want string
	}{
		{name: "whole document", want: "p\n"},
		{name: "range inside bold", sel: selectorFlags{path: "0,1,0", focusPath: "0,1,0", focusOffset: 5}, want: "b\np\n"},
		{name: "caret", sel: selectorFlags{path: "0,1,0", offset: 2}, want: ""},
		{name: "text only", sel: selectorFlags{text: "<i>x</i> and <u>y</u>"}, want: "i\nu\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := writeDoc(t, "doc.html", "<p>hello <b>world</b></p>")
			var out bytes.Buffer
			opts := &formatsOptions{globalOptions: global(&out), sel: tt.sel}

			require.NoError(t, runFormats(context.Background(), ws.Path, opts, ws))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRunFormats_JSON(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<p>hello</p>")
	var out bytes.Buffer
	opts := &formatsOptions{globalOptions: global(&out), sel: selectorFlags{path: "0,0", offset: 1}}
	opts.output = "json"

	require.NoError(t, runFormats(context.Background(), ws.Path, opts, ws))
	assert.Equal(t, "[]\n", out.String())
}

func TestRunFormats_BadPath(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<p>hello</p>")
	opts := &formatsOptions{sel: selectorFlags{path: "4,2"}}

	err := runFormats(context.Background(), ws.Path, opts, ws)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no node at "4,2"`)
}

func TestRunExec(t *testing.T) {
	tests := []struct {
		name    string
		command string
		value   string
		sel     selectorFlags
		want    string
	}{
		{name: "bold everything", command: "bold", want: "<p><b>hello world</b></p>"},
		{name: "case insensitive", command: "Italic", sel: selectorFlags{path: "0,0", focusPath: "0,0", focusOffset: 5}, want: "<p><i>hello</i> world</p>"},
		{name: "format block", command: "formatBlock", value: "h2", want: "<h2>hello world</h2>"},
		{name: "unset clears formatting", command: "fontname", value: editor.Unset, want: "<p>hello world</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := writeDoc(t, "doc.html", "<p>hello world</p>")
			var out bytes.Buffer
			opts := &execOptions{globalOptions: global(&out), sel: tt.sel}

			require.NoError(t, runExec(context.Background(), ws.Path, tt.command, tt.value, opts, ws))
			assert.Equal(t, tt.want, reload(t, ws.Path))
		})
	}
}

func TestRunExec_OffsetInsideCharacter(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<p>héllo</p>")
	var out bytes.Buffer
	opts := &execOptions{globalOptions: global(&out), sel: selectorFlags{path: "0,0", focusPath: "0,0", focusOffset: 2}}

	require.NoError(t, runExec(context.Background(), ws.Path, "bold", "", opts, ws))
	assert.Equal(t, "<p><b>h</b>éllo</p>", reload(t, ws.Path))
}

func TestRunExec_NotApplied(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<p>hello</p>")
	before, err := os.ReadFile(ws.Path)
	require.NoError(t, err)
	var out bytes.Buffer
	opts := &execOptions{globalOptions: global(&out), sel: selectorFlags{path: "0,0", offset: 2}}

	require.NoError(t, runExec(context.Background(), ws.Path, "bold", "", opts, ws))
	assert.Contains(t, out.String(), "was not applied")

	after, err := os.ReadFile(ws.Path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestRunExec_UnknownCommand(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<p>hello</p>")

	err := runExec(context.Background(), ws.Path, "strikethrough", "", &execOptions{}, ws)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRunExec_DryRun(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<p>hello</p>")
	var out bytes.Buffer
	opts := &execOptions{globalOptions: global(&out), dryRun: true}

	require.NoError(t, runExec(context.Background(), ws.Path, "underline", "", opts, ws))
	assert.Equal(t, "<p><u>hello</u></p>\n", out.String())
	assert.Equal(t, "<p>hello</p>", reload(t, ws.Path))
}

func TestRunExec_Markdown(t *testing.T) {
	ws := writeDoc(t, "doc.md", "hello\n")
	var out bytes.Buffer

	require.NoError(t, runExec(context.Background(), ws.Path, "bold", "", &execOptions{globalOptions: global(&out)}, ws))

	data, err := os.ReadFile(ws.Path)
	require.NoError(t, err)
	assert.Equal(t, "**hello**\n", string(data))
}

func TestRunPrompted_Link(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		ask     askFunc
		want    string
		warning bool
	}{
		{
			name: "argument",
			args: []string{"https://example.com"},
			want: `<p><a href="https://example.com">hello</a></p>`,
		},
		{
			name: "prompted",
			ask:  func(title, initial string) (string, error) { return initial + "example.org", nil },
			want: `<p><a href="https://example.org">hello</a></p>`,
		},
		{
			name:    "rejected scheme",
			args:    []string{"javascript:alert(1)"},
			want:    "<p>hello</p>",
			warning: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := writeDoc(t, "doc.html", "<p>hello</p>")
			var out bytes.Buffer
			opts := &promptOptions{globalOptions: global(&out), ask: tt.ask}

			require.NoError(t, runPrompted(context.Background(), "link", append([]string{ws.Path}, tt.args...), opts, ws))
			assert.Equal(t, tt.want, reload(t, ws.Path))
			if tt.warning {
				assert.Contains(t, out.String(), "was not applied")
			}
		})
	}
}

func TestRunPrompted_AskError(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<p>hello</p>")
	opts := &promptOptions{ask: func(string, string) (string, error) { return "", errors.New("user aborted") }}

	err := runPrompted(context.Background(), "link", []string{ws.Path}, opts, ws)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user aborted")
}

func TestRunPrompted_Anchor(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<p>hello</p>")
	var out bytes.Buffer
	opts := &promptOptions{globalOptions: global(&out)}

	require.NoError(t, runPrompted(context.Background(), "anchor", []string{ws.Path, "end"}, opts, ws))
	assert.Equal(t, `<p>hello<a name="end"></a></p>`, reload(t, ws.Path))
}

func TestRunPrompted_BlankAnchor(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<p>hello</p>")
	var out bytes.Buffer
	opts := &promptOptions{globalOptions: global(&out)}

	require.NoError(t, runPrompted(context.Background(), "anchor", []string{ws.Path, "  "}, opts, ws))
	assert.Contains(t, out.String(), "was not applied")
}

func TestRunMedia(t *testing.T) {
	tests := []struct {
		name string
		kind string
		opts mediaOptions
		want string
	}{
		{
			name: "image at end",
			kind: "image",
			opts: mediaOptions{step: mediaStep("x.png", "cat", "10", "20", true)},
			want: `<p>ab<img src="x.png" alt="cat" width="10" height="20"/></p>`,
		},
		{
			name: "image at caret",
			kind: "image",
			opts: mediaOptions{sel: selectorFlags{path: "0,0", offset: 1}, step: mediaStep("x.png", "", "10", "20", true)},
			want: `<p>a<img src="x.png" alt="" width="10" height="20"/>b</p>`,
		},
		{
			name: "probed ratio derives height",
			kind: "image",
			opts: mediaOptions{step: mediaStep("https://example.com/x.png", "", "100", "", false)},
			want: `<p>ab<img src="https://example.com/x.png" alt="" width="100" height="50"/></p>`,
		},
		{
			name: "media",
			kind: "media",
			opts: mediaOptions{step: mediaStep("clip.mp4", "", "640", "360", true)},
			want: `<p>ab<video src="clip.mp4" width="640" height="360" controls=""></video></p>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := writeDoc(t, "doc.html", "<p>ab</p>")
			var out bytes.Buffer
			opts := tt.opts
			opts.globalOptions = global(&out)

			require.NoError(t, runMedia(context.Background(), tt.kind, ws.Path, &opts, ws))
			assert.Equal(t, tt.want, reload(t, ws.Path))
		})
	}
}

func TestRunMedia_MissingSource(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<p>ab</p>")
	var out bytes.Buffer
	opts := &mediaOptions{globalOptions: global(&out)}

	require.NoError(t, runMedia(context.Background(), "image", ws.Path, opts, ws))
	assert.Contains(t, out.String(), "was not applied")
	assert.Equal(t, "<p>ab</p>", reload(t, ws.Path))
}

func TestRunSource(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<p>old</p>")
	var out bytes.Buffer
	var seen string
	opts := &sourceOptions{globalOptions: global(&out), edit: func(initial string) (string, error) {
		seen = initial
		return "<h1>new</h1>", nil
	}}

	require.NoError(t, runSource(context.Background(), ws.Path, opts, ws))
	assert.Equal(t, "<p>old</p>", seen)
	assert.Equal(t, editor.ModeWysiwyg, ws.Doc.Mode())
	assert.Equal(t, "<h1>new</h1>", reload(t, ws.Path))
}

func TestRunSource_Unchanged(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<p>old</p>")
	var out bytes.Buffer
	opts := &sourceOptions{globalOptions: global(&out), edit: func(initial string) (string, error) {
		return initial + "\n", nil
	}}

	require.NoError(t, runSource(context.Background(), ws.Path, opts, ws))
	assert.Contains(t, out.String(), "No changes made")
	assert.Equal(t, editor.ModeWysiwyg, ws.Doc.Mode())
}

func TestRunSource_EditorError(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<p>old</p>")
	opts := &sourceOptions{edit: func(string) (string, error) { return "", errors.New("editor failed: exit status 1") }}

	err := runSource(context.Background(), ws.Path, opts, ws)
	require.Error(t, err)
	assert.Equal(t, editor.ModeWysiwyg, ws.Doc.Mode())
	assert.Equal(t, "<p>old</p>", ws.Doc.Content())
}

func TestRunSource_Readonly(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<p>old</p>")
	ws.Doc.SetReadonly(true)

	err := runSource(context.Background(), ws.Path, &sourceOptions{}, ws)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "readonly")
}

func TestRunExport(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<h1>Title</h1><p>body</p>")
	target := filepath.Join(t.TempDir(), "out", "doc.md")
	var out bytes.Buffer
	opts := &exportOptions{globalOptions: global(&out), to: target}

	require.NoError(t, runExport(context.Background(), ws.Path, opts, ws))
	assert.Contains(t, out.String(), "(md)")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nbody\n", string(data))
}

func TestRunExport_RequiresTarget(t *testing.T) {
	ws := writeDoc(t, "doc.html", "<p>x</p>")

	err := runExport(context.Background(), ws.Path, &exportOptions{}, ws)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--to")
}

func TestNewCmdDoc(t *testing.T) {
	cmd := NewCmdDoc()

	assert.Equal(t, "doc", cmd.Use)
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"new", "show", "formats", "exec", "link", "anchor", "image", "media", "source", "export"}, names)
}

func mediaStep(src, alt, width, height string, noLock bool) script.MediaStep {
	return script.MediaStep{Src: src, Alt: alt, Width: width, Height: height, NoLock: noLock}
}
