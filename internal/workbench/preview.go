package workbench

import (
	"context"
	"encoding/base64"
	"io"
	"os"
	"strings"

	"imgbench/internal/analysis"
	"imgbench/internal/errors"
	"imgbench/internal/log"
	"imgbench/pkg/types"
)

// RenderPreview reads file and encodes it as a data URL.
func RenderPreview(ctx context.Context, file types.LocalImage) (string, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return "", errors.NewFileError("cannot read image", file.Path, errors.PreviewFailed, err)
	}
	defer f.Close()

	var sb strings.Builder
	sb.WriteString("data:")
	sb.WriteString(file.MediaType)
	sb.WriteString(";base64,")

	enc := base64.NewEncoder(base64.StdEncoding, &sb)
	if _, err := io.Copy(enc, contextReader{ctx: ctx, r: f}); err != nil {
		return "", errors.NewFileError("cannot read image", file.Path, errors.PreviewFailed, err)
	}
	if err := enc.Close(); err != nil {
		return "", errors.NewFileError("cannot encode image", file.Path, errors.PreviewFailed, err)
	}
	return sb.String(), nil
}

// DecodePreview reverses RenderPreview, returning the media type and bytes.
func DecodePreview(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, errors.New("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data URL")
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return mediaType, []byte(payload), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Wrap(err, "malformed data URL")
	}
	return mediaType, data, nil
}

// LoadPreview renders the selected file and stores the result if that file
// is still selected. A read failure is returned as a PreviewFailed warning
// and the preview stays unset; a result for a replaced file is dropped with
// ErrStalePreview.
func (w *Workbench) LoadPreview(ctx context.Context) (string, error) {
	w.mu.RLock()
	gen := w.generation
	var file types.LocalImage
	selected := w.state.SelectedFile != nil
	if selected {
		file = *w.state.SelectedFile
	}
	w.mu.RUnlock()

	if !selected {
		return "", errors.ErrNoFileSelected
	}

	preview, err := w.render(ctx, file)
	if err != nil {
		w.logger().With(log.F("path", file.Path), log.F("error", err)).Warn("preview failed")
		return "", err
	}

	var info types.ImageInfo
	if _, data, err := DecodePreview(preview); err == nil {
		info = analysis.Describe(data)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		return "", errors.ErrStalePreview
	}
	w.state.Preview = preview
	w.state.PreviewInfo = info
	return preview, nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
