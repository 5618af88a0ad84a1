// Package script runs scripted editing sessions against a document through
// the toolbar, the same path interactive edits take.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/richtext-cli/internal/logging/events"
	"github.com/open-cli-collective/richtext-cli/pkg/editor"
)

// Script is a sequence of editing steps.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step is one scripted operation. Exactly one operation field is set.
type Step struct {
	Select *Selector `yaml:"select,omitempty"`
	Exec   string    `yaml:"exec,omitempty"`
	Action string    `yaml:"action,omitempty"`
	Choose string    `yaml:"choose,omitempty"`
	// Value is the argument to Exec or Choose.
	Value  *string    `yaml:"value,omitempty"`
	Link   *string    `yaml:"link,omitempty"`
	Anchor *string    `yaml:"anchor,omitempty"`
	Image  *MediaStep `yaml:"image,omitempty"`
	Media  *MediaStep `yaml:"media,omitempty"`
	Toggle bool       `yaml:"toggle,omitempty"`
	Source *string    `yaml:"source,omitempty"`
	Input  *string    `yaml:"input,omitempty"`
	Enter  bool       `yaml:"enter,omitempty"`
	Expect *Expect    `yaml:"expect,omitempty"`
}

// MediaStep fills an image or media dialog and inserts it.
type MediaStep struct {
	Src    string `yaml:"src"`
	Alt    string `yaml:"alt,omitempty"`
	Width  string `yaml:"width,omitempty"`
	Height string `yaml:"height,omitempty"`
	NoLock bool   `yaml:"no_lock,omitempty"`
}

// Expect asserts on the document state. A failed expectation stops the run.
type Expect struct {
	Formats  *[]string `yaml:"formats,omitempty"`
	Contains string    `yaml:"contains,omitempty"`
	Content  *string   `yaml:"content,omitempty"`
	Mode     string    `yaml:"mode,omitempty"`
}

// Result records the outcome of one step.
type Result struct {
	Index   int    `json:"index"`
	Op      string `json:"op"`
	Applied bool   `json:"applied"`
}

// ErrExpectation is wrapped by every failed expect step.
var ErrExpectation = errors.New("expectation failed")

// Parse decodes a YAML script. Unknown keys are rejected.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil
		}
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, step := range s.Steps {
		if n := step.ops(); n != 1 {
			return nil, fmt.Errorf("step %d: expected exactly one operation, got %d", i+1, n)
		}
	}
	return &s, nil
}

// ParseFile reads a YAML script from path.
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func (s Step) ops() int {
	n := 0
	for _, set := range []bool{
		s.Select != nil, s.Exec != "", s.Action != "", s.Choose != "",
		s.Link != nil, s.Anchor != nil, s.Image != nil, s.Media != nil,
		s.Toggle, s.Source != nil, s.Input != nil, s.Enter, s.Expect != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// Op names the step's operation.
func (s Step) Op() string {
	switch {
	case s.Select != nil:
		return "select"
	case s.Exec != "":
		return "exec:" + s.Exec
	case s.Action != "":
		return "action:" + s.Action
	case s.Choose != "":
		return "choose:" + s.Choose
	case s.Link != nil:
		return "link"
	case s.Anchor != nil:
		return "anchor"
	case s.Image != nil:
		return "image"
	case s.Media != nil:
		return "media"
	case s.Toggle:
		return "toggle"
	case s.Source != nil:
		return "source"
	case s.Input != nil:
		return "input"
	case s.Enter:
		return "enter"
	case s.Expect != nil:
		return "expect"
	}
	return "empty"
}

// Runner applies scripts to the toolbar's document.
type Runner struct {
	tb *editor.Toolbar
}

// NewRunner creates a runner over tb.
func NewRunner(tb *editor.Toolbar) *Runner {
	return &Runner{tb: tb}
}

// Run applies every step in order. Steps the engine declines are recorded
// as not applied; only bad selectors, file errors and failed expectations
// stop the run.
func (r *Runner) Run(ctx context.Context, s *Script) ([]Result, error) {
	results := make([]Result, 0, len(s.Steps))
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		applied, err := r.step(ctx, step)
		events.Script.Step(i+1, step.Op(), applied)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, step.Op(), err)
		}
		results = append(results, Result{Index: i + 1, Op: step.Op(), Applied: applied})
	}
	return results, nil
}

func (r *Runner) step(ctx context.Context, s Step) (bool, error) {
	doc := r.tb.Document()
	switch {
	case s.Select != nil:
		sel, err := s.Select.Resolve(doc)
		if err != nil {
			return false, err
		}
		doc.Select(sel)
		return true, nil
	case s.Exec != "":
		if s.Value != nil {
			return r.tb.Dispatcher().Dispatch(s.Exec, *s.Value), nil
		}
		return r.tb.Dispatcher().Dispatch(s.Exec), nil
	case s.Action != "":
		return r.tb.Invoke(ctx, editor.ActionID(s.Action))
	case s.Choose != "":
		value := ""
		if s.Value != nil {
			value = *s.Value
		}
		return r.tb.Choose(editor.ActionID(s.Choose), value), nil
	case s.Link != nil:
		return r.prompt(ctx, editor.ActLink, r.tb.LinkPrompt(), *s.Link)
	case s.Anchor != nil:
		return r.prompt(ctx, editor.ActAnchor, r.tb.AnchorPrompt(), *s.Anchor)
	case s.Image != nil:
		return r.media(ctx, editor.ActImage, r.tb.ImageDialog(), *s.Image)
	case s.Media != nil:
		return r.media(ctx, editor.ActMedia, r.tb.MediaDialog(), *s.Media)
	case s.Toggle:
		doc.ToggleView()
		return true, nil
	case s.Source != nil:
		return doc.SetSource(*s.Source), nil
	case s.Input != nil:
		if doc.Mode() != editor.ModeWysiwyg || doc.Readonly() {
			return false, nil
		}
		doc.Input(*s.Input)
		return true, nil
	case s.Enter:
		return doc.HandleEnter(), nil
	case s.Expect != nil:
		return true, check(doc, *s.Expect)
	}
	return false, nil
}

func (r *Runner) prompt(ctx context.Context, id editor.ActionID, p *editor.Prompt, value string) (bool, error) {
	if _, err := r.tb.Invoke(ctx, id); err != nil {
		return false, err
	}
	if !p.IsOpen() {
		return false, nil
	}
	return p.Submit(value), nil
}

func (r *Runner) media(ctx context.Context, id editor.ActionID, m *editor.MediaDialog, step MediaStep) (bool, error) {
	if _, err := r.tb.Invoke(ctx, id); err != nil {
		return false, err
	}
	if !m.IsOpen() {
		return false, nil
	}
	if step.NoLock && m.Draft().Locked {
		m.ToggleLock()
	}
	m.SetURL(ctx, step.Src)
	m.Wait()
	m.SetAlt(step.Alt)
	if step.Width != "" {
		m.SetWidth(step.Width)
	}
	if step.Height != "" {
		m.SetHeight(step.Height)
	}
	if !m.Insert() {
		m.Cancel()
		return false, nil
	}
	return true, nil
}

func check(doc *editor.Document, e Expect) error {
	if e.Formats != nil {
		got := doc.ActiveFormats().Sorted()
		want := editor.NewFormatSet(*e.Formats...).Sorted()
		if diff := cmp.Diff(want, got); diff != "" {
			return fmt.Errorf("%w: active formats mismatch (-want +got):\n%s", ErrExpectation, diff)
		}
	}
	if e.Content != nil && doc.Content() != *e.Content {
		return fmt.Errorf("%w: content is %q, want %q", ErrExpectation, doc.Content(), *e.Content)
	}
	if e.Contains != "" && !strings.Contains(doc.Content(), e.Contains) {
		return fmt.Errorf("%w: content %q does not contain %q", ErrExpectation, doc.Content(), e.Contains)
	}
	if e.Mode != "" && doc.Mode().String() != e.Mode {
		return fmt.Errorf("%w: mode is %s, want %s", ErrExpectation, doc.Mode(), e.Mode)
	}
	return nil
}
