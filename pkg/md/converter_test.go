package md

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "basic paragraph",
			input:    "Hello world",
			expected: "<p>Hello world</p>\n",
		},
		{
			name:     "multiple paragraphs",
			input:    "First paragraph.\n\nSecond paragraph.",
			expected: "<p>First paragraph.</p>\n<p>Second paragraph.</p>\n",
		},
		{
			name:     "h1 header",
			input:    "# Title",
			expected: "<h1>Title</h1>\n",
		},
		{
			name:     "bold and italic",
			input:    "**bold** and *italic*",
			expected: "<p><strong>bold</strong> and <em>italic</em></p>\n",
		},
		{
			name:     "strikethrough",
			input:    "~~gone~~",
			expected: "<p><del>gone</del></p>\n",
		},
		{
			name:     "unordered list",
			input:    "- Item 1\n- Item 2",
			expected: "<ul>\n<li>Item 1</li>\n<li>Item 2</li>\n</ul>\n",
		},
		{
			name:     "ordered list",
			input:    "1. First\n2. Second",
			expected: "<ol>\n<li>First</li>\n<li>Second</li>\n</ol>\n",
		},
		{
			name:     "link",
			input:    "[Google](https://google.com)",
			expected: "<p><a href=\"https://google.com\">Google</a></p>\n",
		},
		{
			name:     "blockquote",
			input:    "> This is a quote",
			expected: "<blockquote>\n<p>This is a quote</p>\n</blockquote>\n",
		},
		{
			name:     "inline html passes through",
			input:    `Some <u>underlined</u> text`,
			expected: "<p>Some <u>underlined</u> text</p>\n",
		},
		{
			name:     "anchor placeholder",
			input:    "[ANCHOR:intro] Start here",
			expected: "<p><a name=\"intro\"></a> Start here</p>\n",
		},
		{
			name:     "simple table",
			input:    "| A | B |\n|---|---|\n| 1 | 2 |",
			expected: "<table>\n<thead>\n<tr>\n<th>A</th>\n<th>B</th>\n</tr>\n</thead>\n<tbody>\n<tr>\n<td>1</td>\n<td>2</td>\n</tr>\n</tbody>\n</table>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ToHTML([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestToHTML_ComplexDocument(t *testing.T) {
	input := `# Project README

This is the **introduction** to the project.

## Features

- Feature one
- Feature two

` + "```go" + `
func hello() {}
` + "```" + `

For more info, see [the docs](https://example.com).
`

	result, err := ToHTML([]byte(input))
	require.NoError(t, err)

	assert.Contains(t, result, "<h1>Project README</h1>")
	assert.Contains(t, result, "<strong>introduction</strong>")
	assert.Contains(t, result, "<li>Feature one</li>")
	assert.Contains(t, result, "language-go")
	assert.Contains(t, result, `<a href="https://example.com">the docs</a>`)
}

func TestIsMarkdownPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "notes.md", want: true},
		{path: "NOTES.MD", want: true},
		{path: "dir/readme.markdown", want: true},
		{path: "page.html"},
		{path: "md"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMarkdownPath(tt.path))
		})
	}
}
