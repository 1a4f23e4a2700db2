package workbench

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"imgbench/internal/errors"
	"imgbench/internal/log"
	"imgbench/pkg/types"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gobwas/glob"
)

// Picker asks the user for a file. Implementations return ErrPickCancelled
// when the user dismisses the dialog.
type Picker interface {
	Pick(ctx context.Context) (string, error)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(ctx context.Context) (string, error)

func (f PickerFunc) Pick(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticPicker always picks the same path; the CLI uses it for its argument.
type StaticPicker string

func (p StaticPicker) Pick(context.Context) (string, error) {
	if p == "" {
		return "", errors.ErrPickCancelled
	}
	return string(p), nil
}

// PickFile runs picker and selects whatever it returns. A cancelled pick
// yields (nil, nil) and leaves the state untouched.
func (w *Workbench) PickFile(ctx context.Context, picker Picker) (*types.LocalImage, error) {
	path, err := picker.Pick(ctx)
	if errors.Is(err, errors.ErrPickCancelled) {
		w.logger().Debug("pick cancelled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	file, err := w.PickPath(path)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// PickPath validates path as an image and makes it the selected file.
// The previous preview is discarded either way: a rejected pick leaves no
// file selected. Only a cancelled pick (see PickFile) keeps the old one.
func (w *Workbench) PickPath(path string) (types.LocalImage, error) {
	file, err := w.inspect(path)
	if err != nil {
		w.logger().With(log.F("path", path), log.F("error", err)).Warn("pick rejected")
		w.mu.Lock()
		w.replaceSelection(nil)
		w.mu.Unlock()
		return types.LocalImage{}, err
	}

	w.mu.Lock()
	w.replaceSelection(&file)
	w.mu.Unlock()

	w.logger().With(log.F("path", file.Path), log.F("media_type", file.MediaType)).Info("image picked")
	return file, nil
}

// replaceSelection must be called with w.mu held.
func (w *Workbench) replaceSelection(file *types.LocalImage) {
	w.generation++
	w.state.SelectedFile = file
	w.state.Preview = ""
	w.state.PreviewInfo = types.ImageInfo{}
}

// Accepts reports whether a file name passes the configured accept globs.
// Pickers use it to filter their listings.
func (w *Workbench) Accepts(name string) bool {
	return w.accept.Match(name)
}

func (w *Workbench) inspect(path string) (types.LocalImage, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return types.LocalImage{}, errors.NewFileError("invalid file path", path, errors.InvalidPath, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return types.LocalImage{}, errors.NewFileError("file not found", abs, errors.FileNotFound, err)
		}
		return types.LocalImage{}, errors.NewFileError("file access denied", abs, errors.FileAccessDenied, err)
	}
	if info.IsDir() {
		return types.LocalImage{}, errors.NewFileError("is a directory", abs, errors.InvalidPath, nil)
	}

	name := filepath.Base(abs)
	if !w.accept.Match(name) {
		return types.LocalImage{}, errors.NewFileError("does not match accepted patterns", abs, errors.NotAnImage, nil)
	}

	mediaType, err := DetectMediaType(abs)
	if err != nil {
		return types.LocalImage{}, err
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return types.LocalImage{}, errors.NewFileError("not an image ("+mediaType+")", abs, errors.NotAnImage, nil)
	}

	return types.LocalImage{
		Path:      abs,
		Name:      name,
		MediaType: mediaType,
		Size:      info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

// DetectMediaType sniffs the file content, falling back to the extension
// when the content only looks like text (an SVG without its xml prolog,
// for instance).
func DetectMediaType(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", errors.NewFileError("cannot read file", path, errors.FileAccessDenied, err)
	}
	sniffed := strings.SplitN(mt.String(), ";", 2)[0]
	if strings.HasPrefix(sniffed, "image/") || !strings.HasPrefix(sniffed, "text/") {
		return sniffed, nil
	}

	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil && strings.HasPrefix(mediaType, "image/") {
			return mediaType, nil
		}
	}
	return sniffed, nil
}

type acceptFilter struct {
	globs []glob.Glob
}

func newAcceptFilter(patterns []string) (*acceptFilter, error) {
	f := &acceptFilter{}
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, errors.NewConfigError("invalid accept pattern", p, errors.InvalidConfig, err)
		}
		f.globs = append(f.globs, g)
	}
	return f, nil
}

// Match is case-insensitive; no patterns accepts everything.
func (f *acceptFilter) Match(name string) bool {
	if len(f.globs) == 0 {
		return true
	}
	name = strings.ToLower(name)
	for _, g := range f.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
