package httpclient_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	// Packages
	httpclient "github.com/mutablelogic/go-upload/pkg/httpclient"
	schema "github.com/mutablelogic/go-upload/pkg/schema"
	require "github.com/stretchr/testify/require"
)

///////////////////////////////////////////////////////////////////////////////
// FAKE BACKEND

// request is what the fake backend saw for one call
type request struct {
	Path        string
	Auth        string
	Fields      map[string]string
	Field       string // name of the file part
	Filename    string
	ContentType string
	Data        []byte
	JSON        map[string]string
}

// backend reassembles chunked uploads and records every request. Set the
// hooks to change the response for a path.
type backend struct {
	mu       sync.Mutex
	requests []request
	chunks   map[string]map[int][]byte
	hooks    map[string]http.HandlerFunc
}

func newBackend() *backend {
	return &backend{
		chunks: make(map[string]map[int][]byte),
		hooks:  make(map[string]http.HandlerFunc),
	}
}

func newTestServer(t *testing.T, b *backend, opts ...httpclient.Opt) (*httpclient.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	c, err := httpclient.New(srv.URL, opts...)
	require.NoError(t, err)
	return c, srv
}

func (b *backend) hook(path string, fn http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks[path] = fn
}

func (b *backend) Requests() []request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]request(nil), b.requests...)
}

func (b *backend) Paths() []string {
	var paths []string
	for _, r := range b.Requests() {
		paths = append(paths, r.Path)
	}
	return paths
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := request{Path: r.URL.Path, Auth: r.Header.Get("Authorization")}
	if r.Method == http.MethodPost {
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			if err := json.NewDecoder(r.Body).Decode(&req.JSON); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		} else if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		} else {
			req.Fields = make(map[string]string)
			for k, v := range r.MultipartForm.Value {
				req.Fields[k] = v[0]
			}
			for field, files := range r.MultipartForm.File {
				f, err := files[0].Open()
				if err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				req.Data, _ = io.ReadAll(f)
				f.Close()
				req.Field = field
				req.Filename = files[0].Filename
				req.ContentType = files[0].Header.Get("Content-Type")
			}
		}
	}

	b.mu.Lock()
	b.requests = append(b.requests, req)
	hook := b.hooks[r.URL.Path]
	b.mu.Unlock()
	if hook != nil {
		hook(w, r)
		return
	}

	switch r.URL.Path {
	case schema.UploadMultiplePath:
		writeJSON(w, map[string]any{
			"files": []any{map[string]any{"url": "https://cdn.example.com/" + req.Filename, "type": req.ContentType}},
		})
	case schema.UploadChunkPath:
		index, _ := strconv.Atoi(req.Fields[schema.FieldChunkIndex])
		b.mu.Lock()
		if b.chunks[req.Fields[schema.FieldUploadId]] == nil {
			b.chunks[req.Fields[schema.FieldUploadId]] = make(map[int][]byte)
		}
		b.chunks[req.Fields[schema.FieldUploadId]][index] = req.Data
		b.mu.Unlock()
		writeJSON(w, map[string]any{"ok": true})
	case schema.UploadFinalizePath:
		writeJSON(w, map[string]any{
			"file": map[string]any{"filePath": "/media/" + req.JSON["fileName"], "fileType": req.JSON["fileType"]},
		})
	case schema.CountsPath:
		writeJSON(w, schema.Counts{Notifications: 2, Messages: 5, Orders: 1})
	default:
		http.NotFound(w, r)
	}
}

// Assembled returns the reassembled bytes for a chunked upload
func (b *backend) Assembled(token string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	var data []byte
	for i := 0; i < len(b.chunks[token]); i++ {
		data = append(data, b.chunks[token][i]...)
	}
	return data
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeStatus(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func TestNew(t *testing.T) {
	_, err := httpclient.New("ftp://example.com")
	require.ErrorIs(t, err, schema.ErrBadParameter)

	_, err = httpclient.New("http://example.com", httpclient.WithTimeouts(-1, 0))
	require.ErrorIs(t, err, schema.ErrBadParameter)

	c, err := httpclient.New("http://example.com/base")
	require.NoError(t, err)
	require.NotNil(t, c)
}
