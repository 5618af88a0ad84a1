// Package probe resolves the natural pixel size of images referenced by
// http(s), data and file URLs.
package probe

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/open-cli-collective/richtext-cli/internal/logging/events"
	"github.com/open-cli-collective/richtext-cli/pkg/editor"
)

// ErrUnsupportedScheme is returned for URLs that cannot be probed.
var ErrUnsupportedScheme = errors.New("unsupported url scheme")

// Prober implements editor.Prober.
type Prober struct {
	client *client
}

var _ editor.Prober = (*Prober)(nil)

// New creates a prober whose remote fetches time out after timeout.
func New(timeout time.Duration) *Prober {
	return &Prober{client: newClient(timeout)}
}

// Probe decodes just enough of the resource at rawURL to learn its size.
func (p *Prober) Probe(ctx context.Context, rawURL string) (editor.Size, error) {
	events.Probe.Fetch(rawURL)
	size, format, err := p.probe(ctx, rawURL)
	events.Probe.Result(rawURL, format, size.Width, size.Height, err)
	return size, err
}

func (p *Prober) probe(ctx context.Context, rawURL string) (editor.Size, string, error) {
	r, err := p.open(ctx, rawURL)
	if err != nil {
		return editor.Size{}, "", err
	}
	defer r.Close()

	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return editor.Size{}, "", fmt.Errorf("failed to decode %s: %w", rawURL, err)
	}
	return editor.Size{Width: cfg.Width, Height: cfg.Height}, format, nil
}

func (p *Prober) open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return p.client.get(ctx, rawURL)
	case strings.HasPrefix(lower, "data:"):
		data, err := decodeDataURL(rawURL)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	case strings.HasPrefix(lower, "file://"):
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid file url: %w", err)
		}
		f, err := os.Open(u.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", u.Path, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, rawURL)
	}
}

// decodeDataURL returns the payload of a data: URL.
func decodeDataURL(raw string) ([]byte, error) {
	header, payload, ok := strings.Cut(raw[len("data:"):], ",")
	if !ok {
		return nil, errors.New("malformed data url")
	}
	if strings.HasSuffix(strings.ToLower(header), ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode data url: %w", err)
		}
		return data, nil
	}
	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data url: %w", err)
	}
	return []byte(data), nil
}
