package testutils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"imgbench/pkg/types"
)

// Upload is one request received by FakeServer's save endpoint.
type Upload struct {
	Filename  string
	Data      []byte
	RequestID string
}

// FakeServer imitates the image server's two endpoints.
type FakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	images   []types.RemoteImage
	uploads  []Upload
	ack      string
	listBody string
	status   int
	hits     int
}

// NewFakeServer starts a server answering POST /image-save and GET /images.
func NewFakeServer(t *testing.T) *FakeServer {
	t.Helper()
	fs := &FakeServer{
		ack:    `{"message":"saved"}`,
		status: http.StatusOK,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/image-save", fs.handleSave)
	mux.HandleFunc("/images", fs.handleList)
	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func (fs *FakeServer) handleSave(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.hits++

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, _ := io.ReadAll(file)
	fs.uploads = append(fs.uploads, Upload{
		Filename:  header.Filename,
		Data:      data,
		RequestID: r.Header.Get("X-Request-ID"),
	})
	fs.images = append(fs.images, types.RemoteImage{Name: header.Filename, Path: "/imgs/" + header.Filename})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(fs.status)
	io.WriteString(w, fs.ack)
}

func (fs *FakeServer) handleList(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.hits++

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(fs.status)
	if fs.listBody != "" {
		io.WriteString(w, fs.listBody)
		return
	}
	images := fs.images
	if images == nil {
		images = []types.RemoteImage{}
	}
	json.NewEncoder(w).Encode(images)
}

// SetImages replaces the listing served by GET /images.
func (fs *FakeServer) SetImages(images ...types.RemoteImage) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.images = images
	fs.listBody = ""
}

// SetAck sets the raw body returned by the save endpoint.
func (fs *FakeServer) SetAck(body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.ack = body
}

// SetListBody makes GET /images return body verbatim.
func (fs *FakeServer) SetListBody(body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.listBody = body
}

// SetStatus sets the status code of every response.
func (fs *FakeServer) SetStatus(status int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.status = status
}

// Uploads returns a copy of the received uploads.
func (fs *FakeServer) Uploads() []Upload {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]Upload(nil), fs.uploads...)
}

// Hits counts requests to either endpoint.
func (fs *FakeServer) Hits() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.hits
}

// UnreachableURL returns a base URL nothing listens on.
func UnreachableURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}
