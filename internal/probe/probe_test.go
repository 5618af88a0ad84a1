package probe

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/open-cli-collective/richtext-cli/pkg/editor"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestProbe_HTTP(t *testing.T) {
	body := encodePNG(t, 200, 100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Contains(t, r.Header.Get("Accept"), "image/*")
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer server.Close()

	size, err := New(time.Second).Probe(context.Background(), server.URL+"/a.png")
	require.NoError(t, err)
	assert.Equal(t, editor.Size{Width: 200, Height: 100}, size)
}

func TestProbe_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := New(time.Second).Probe(context.Background(), server.URL+"/missing.png")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestProbe_Canceled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(time.Second).Probe(ctx, server.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProbe_NotAnImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>nope</html>"))
	}))
	defer server.Close()

	_, err := New(time.Second).Probe(context.Background(), server.URL)
	assert.ErrorIs(t, err, image.ErrFormat)
}

func TestProbe_DataURL(t *testing.T) {
	url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodePNG(t, 3, 7))

	size, err := New(0).Probe(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, editor.Size{Width: 3, Height: 7}, size)
}

func TestProbe_MalformedDataURL(t *testing.T) {
	_, err := New(0).Probe(context.Background(), "data:image/png;base64")
	assert.Error(t, err)

	_, err = New(0).Probe(context.Background(), "data:image/png;base64,!!!")
	assert.Error(t, err)
}

func TestProbe_FileURL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, image.NewGray(image.Rect(0, 0, 64, 48))))
	path := filepath.Join(t.TempDir(), "pic.bmp")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	size, err := New(0).Probe(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, editor.Size{Width: 64, Height: 48}, size)
}

func TestProbe_MissingFile(t *testing.T) {
	_, err := New(0).Probe(context.Background(), "file:///definitely/not/here.png")
	assert.Error(t, err)
}

func TestProbe_UnsupportedScheme(t *testing.T) {
	_, err := New(0).Probe(context.Background(), "ftp://example.com/a.png")
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestProbe_FeedsMediaDialog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(encodePNG(t, 200, 100))
	}))
	defer server.Close()

	d := editor.NewDocument()
	dialog := editor.NewMediaDialog(editor.DialogImage, editor.NewDispatcher(d.Substrate(), nil), New(time.Second))
	dialog.Open()
	dialog.SetURL(context.Background(), server.URL+"/a.png")
	dialog.Wait()

	dialog.SetWidth("150")
	assert.Equal(t, "75", dialog.Draft().Height)
}
