package editor

import (
	"context"
	"fmt"
	stdhtml "html"
	"math"
	"strconv"
	"strings"
	"sync"
)

// DialogKind identifies a media insertion dialog.
type DialogKind int

const (
	DialogImage DialogKind = iota
	DialogMedia
)

func (k DialogKind) String() string {
	if k == DialogMedia {
		return "media"
	}
	return "image"
}

// Size is a natural pixel size.
type Size struct {
	Width  int
	Height int
}

// Prober resolves the natural size of the resource at url.
type Prober interface {
	Probe(ctx context.Context, url string) (Size, error)
}

// probeSchemes are the URL prefixes worth probing.
var probeSchemes = []string{"http://", "https://", "data:", "file://"}

// MediaDraft is the form state of an in-flight insertion. Dimensions are
// kept as typed so they can be emitted verbatim.
type MediaDraft struct {
	URL    string
	Alt    string
	Width  string
	Height string
	Locked bool
	// Natural size and ratio are known once a probe succeeds.
	NaturalWidth  int
	NaturalHeight int
	Ratio         float64
}

// HasRatio reports whether a natural aspect ratio has been captured.
func (d MediaDraft) HasRatio() bool { return d.Ratio > 0 }

// MediaOption configures a MediaDialog.
type MediaOption func(*MediaDialog)

// WithLockDefault sets the ratio-lock state a freshly opened draft starts in.
func WithLockDefault(locked bool) MediaOption {
	return func(m *MediaDialog) { m.lockDefault = locked }
}

// WithMediaTracer routes dialog traces to t.
func WithMediaTracer(t Tracer) MediaOption {
	return func(m *MediaDialog) {
		if t != nil {
			m.tracer = t
		}
	}
}

// MediaDialog drives one image or media insertion flow:
// Closed -> Open -> field edits -> Cancel or Insert -> Closed.
//
// URL edits start an asynchronous probe. A newer edit cancels the previous
// probe, and results that arrive for an outdated edit or a closed dialog
// are dropped.
type MediaDialog struct {
	kind        DialogKind
	dispatcher  *Dispatcher
	prober      Prober
	tracer      Tracer
	lockDefault bool

	mu     sync.Mutex
	open   bool
	draft  MediaDraft
	gen    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMediaDialog creates a closed dialog. A nil prober disables probing.
func NewMediaDialog(kind DialogKind, d *Dispatcher, p Prober, opts ...MediaOption) *MediaDialog {
	m := &MediaDialog{
		kind:        kind,
		dispatcher:  d,
		prober:      p,
		tracer:      nopTracer{},
		lockDefault: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Kind returns which dialog this is.
func (m *MediaDialog) Kind() DialogKind { return m.kind }

// IsOpen reports whether the dialog is showing.
func (m *MediaDialog) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Draft returns a copy of the current form state.
func (m *MediaDialog) Draft() MediaDraft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// Open shows the dialog with a fresh draft.
func (m *MediaDialog) Open() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopProbe()
	m.draft = MediaDraft{Locked: m.lockDefault}
	m.open = true
}

// Cancel discards the draft and closes the dialog.
func (m *MediaDialog) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.close()
}

// close must be called with mu held.
func (m *MediaDialog) close() {
	m.stopProbe()
	m.draft = MediaDraft{}
	m.open = false
}

// stopProbe cancels the in-flight probe and invalidates its result. It must
// be called with mu held.
func (m *MediaDialog) stopProbe() {
	m.gen++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// SetURL records the source URL and, for probeable schemes, starts a probe
// for the natural size.
func (m *MediaDialog) SetURL(ctx context.Context, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return
	}
	m.draft.URL = url
	m.stopProbe()
	if m.prober == nil || !probeable(url) {
		return
	}

	gen := m.gen
	pctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		size, err := m.prober.Probe(pctx, url)
		m.applyProbe(gen, url, size, err)
	}()
}

func probeable(url string) bool {
	lower := strings.ToLower(url)
	for _, scheme := range probeSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

func (m *MediaDialog) applyProbe(gen uint64, url string, size Size, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case gen != m.gen || !m.open:
		m.tracer.Trace("media.probe.stale", map[string]interface{}{"dialog": m.kind.String(), "url": url})
		return
	case err != nil:
		m.tracer.Trace("media.probe.failed", map[string]interface{}{"dialog": m.kind.String(), "url": url, "error": err.Error()})
		return
	case size.Width <= 0 || size.Height <= 0:
		return
	}
	m.draft.NaturalWidth = size.Width
	m.draft.NaturalHeight = size.Height
	m.draft.Ratio = float64(size.Width) / float64(size.Height)
	m.draft.Width = strconv.Itoa(size.Width)
	m.draft.Height = strconv.Itoa(size.Height)
	m.tracer.Trace("media.probe", map[string]interface{}{"dialog": m.kind.String(), "url": url, "width": size.Width, "height": size.Height})
}

// Wait blocks until every started probe has finished.
func (m *MediaDialog) Wait() {
	m.wg.Wait()
}

// SetAlt records the alternative text.
func (m *MediaDialog) SetAlt(alt string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open {
		m.draft.Alt = alt
	}
}

// SetWidth records the width and, under ratio lock, recomputes the height.
// Input that is not a number leaves the height untouched.
func (m *MediaDialog) SetWidth(width string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return
	}
	m.draft.Width = width
	if !m.draft.Locked || !m.draft.HasRatio() {
		return
	}
	if w, ok := parseDimension(width); ok {
		m.draft.Height = strconv.Itoa(int(math.Round(w / m.draft.Ratio)))
	}
}

// SetHeight records the height and, under ratio lock, recomputes the width.
func (m *MediaDialog) SetHeight(height string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return
	}
	m.draft.Height = height
	if !m.draft.Locked || !m.draft.HasRatio() {
		return
	}
	if h, ok := parseDimension(height); ok {
		m.draft.Width = strconv.Itoa(int(math.Round(h * m.draft.Ratio)))
	}
}

func parseDimension(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ToggleLock flips ratio lock. Dimensions that already diverge stay as they are.
func (m *MediaDialog) ToggleLock() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return m.draft.Locked
	}
	m.draft.Locked = !m.draft.Locked
	return m.draft.Locked
}

// Insert dispatches the element built from the draft and closes the
// dialog. Without a URL nothing happens and the dialog stays open. Once a
// URL is set the dialog closes and the draft is discarded even when the
// document refuses the insertion, e.g. because nothing is selected; the
// result reports whether the element landed.
func (m *MediaDialog) Insert() bool {
	m.mu.Lock()
	if !m.open || strings.TrimSpace(m.draft.URL) == "" {
		m.mu.Unlock()
		m.tracer.Trace("media.insert.rejected", map[string]interface{}{"dialog": m.kind.String()})
		return false
	}
	var fragment string
	if m.kind == DialogMedia {
		fragment = MediaMarkup(m.draft)
	} else {
		fragment = ImageMarkup(m.draft)
	}
	m.close()
	m.mu.Unlock()

	return m.dispatcher.Dispatch(CmdInsertHTML, fragment)
}

// ImageMarkup builds the <img> fragment for a draft. Empty fields become
// empty attributes.
func ImageMarkup(d MediaDraft) string {
	return fmt.Sprintf(`<img src="%s" alt="%s" width="%s" height="%s">`,
		stdhtml.EscapeString(d.URL), stdhtml.EscapeString(d.Alt),
		stdhtml.EscapeString(d.Width), stdhtml.EscapeString(d.Height))
}

// MediaMarkup builds the <video> fragment for a draft.
func MediaMarkup(d MediaDraft) string {
	return fmt.Sprintf(`<video src="%s" width="%s" height="%s" controls></video>`,
		stdhtml.EscapeString(d.URL), stdhtml.EscapeString(d.Width), stdhtml.EscapeString(d.Height))
}
