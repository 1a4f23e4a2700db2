package workbench

import (
	"context"

	"imgbench/internal/client"
	"imgbench/internal/errors"
	"imgbench/internal/log"
	"imgbench/pkg/types"
)

// Upload sends the selected file to the save endpoint. It fails with
// ErrNoFileSelected before any request is built, and with ErrUploadInFlight
// while a previous upload is still running. The selected file is never
// changed by an upload, so a failed one can simply be retried.
func (w *Workbench) Upload(ctx context.Context) (client.Ack, error) {
	w.mu.Lock()
	if w.state.SelectedFile == nil {
		w.mu.Unlock()
		return client.Ack{}, errors.ErrNoFileSelected
	}
	if w.state.Uploading {
		w.mu.Unlock()
		return client.Ack{}, errors.ErrUploadInFlight
	}
	file := *w.state.SelectedFile
	w.state.Uploading = true
	w.mu.Unlock()

	return w.send(ctx, file)
}

// UploadPath picks path and uploads it under one in-flight claim, so a pick
// made elsewhere while the request runs cannot change what gets sent. The
// returned image is the one that was uploaded. When another upload is in
// flight nothing is picked and ErrUploadInFlight is returned.
func (w *Workbench) UploadPath(ctx context.Context, path string) (types.LocalImage, client.Ack, error) {
	file, err := w.inspect(path)
	if err != nil {
		w.logger().With(log.F("path", path), log.F("error", err)).Warn("pick rejected")
		w.mu.Lock()
		w.replaceSelection(nil)
		w.mu.Unlock()
		return types.LocalImage{}, client.Ack{}, err
	}

	w.mu.Lock()
	if w.state.Uploading {
		w.mu.Unlock()
		return types.LocalImage{}, client.Ack{}, errors.ErrUploadInFlight
	}
	w.replaceSelection(&file)
	w.state.Uploading = true
	w.mu.Unlock()

	w.logger().With(log.F("path", file.Path), log.F("media_type", file.MediaType)).Info("image picked")
	ack, err := w.send(ctx, file)
	return file, ack, err
}

// send performs the request for a claimed upload and releases the claim.
func (w *Workbench) send(ctx context.Context, file types.LocalImage) (client.Ack, error) {
	logger := w.logger().With(log.F("path", file.Path), log.F("size", file.Size))
	logger.Info("uploading image")

	ack, err := w.transport.Save(ctx, file)

	w.mu.Lock()
	w.state.Uploading = false
	if err == nil {
		w.state.LastAck = ack
	}
	w.mu.Unlock()

	if err != nil {
		logger.With(log.F("error", err), log.F("kind", errors.KindOf(err).String())).Error("upload failed")
		return client.Ack{}, err
	}
	logger.With(log.F("ack", ack.Raw())).Info("upload acknowledged")
	return ack, nil
}

// Uploading reports whether an upload is in flight; front-ends disable
// their save control while it is true.
func (w *Workbench) Uploading() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state.Uploading
}
