// Package workbench holds the image workbench state and the operations that
// mutate it: picking a local image, rendering its preview, uploading it,
// refreshing the remote gallery, selecting an entry and toggling the viewer.
//
// Every operation does its I/O without holding the lock and commits the
// result afterwards, so readers only ever see whole states via Snapshot.
package workbench

import (
	"context"
	"sync"

	"imgbench/internal/client"
	"imgbench/internal/config"
	"imgbench/internal/log"
	"imgbench/pkg/types"
)

// Transport is the remote half of the workbench.
type Transport interface {
	Save(ctx context.Context, file types.LocalImage) (client.Ack, error)
	List(ctx context.Context) ([]types.RemoteImage, error)
	ResolveImageURL(path string) string
}

// State is a point-in-time copy of the workbench.
type State struct {
	SelectedFile *types.LocalImage
	Preview      string
	PreviewInfo  types.ImageInfo
	Images       []types.RemoteImage
	SelectedPath string
	ViewerOpen   bool
	Uploading    bool
	LastAck      client.Ack
}

// HasPreview reports whether the selected file finished rendering.
func (s State) HasPreview() bool {
	return s.Preview != ""
}

// Workbench owns the state shared by the front-ends.
type Workbench struct {
	transport Transport
	accept    *acceptFilter
	render    func(context.Context, types.LocalImage) (string, error)

	mu         sync.RWMutex
	state      State
	generation uint64
}

// New creates a workbench using a client built from cfg.
func New(cfg *config.Config) (*Workbench, error) {
	return NewWithTransport(cfg, client.New(cfg))
}

// NewWithTransport creates a workbench on top of an existing transport.
func NewWithTransport(cfg *config.Config, t Transport) (*Workbench, error) {
	accept, err := newAcceptFilter(cfg.Picker.Accept)
	if err != nil {
		return nil, err
	}
	return &Workbench{
		transport: t,
		accept:    accept,
		render:    RenderPreview,
	}, nil
}

// Snapshot returns a deep copy of the current state.
func (w *Workbench) Snapshot() State {
	w.mu.RLock()
	defer w.mu.RUnlock()

	s := w.state
	if s.SelectedFile != nil {
		f := *s.SelectedFile
		s.SelectedFile = &f
	}
	s.Images = append([]types.RemoteImage(nil), w.state.Images...)
	return s
}

// SelectedFile returns the picked file, if any.
func (w *Workbench) SelectedFile() (types.LocalImage, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.state.SelectedFile == nil {
		return types.LocalImage{}, false
	}
	return *w.state.SelectedFile, true
}

func (w *Workbench) logger() *log.Logger {
	return log.LogWithFields(log.F("component", "workbench"))
}
