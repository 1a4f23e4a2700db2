//go:build !nogui

package gui

import (
	"context"
	"sync"

	"imgbench/internal/config"
	"imgbench/internal/errors"
	"imgbench/internal/log"
	"imgbench/internal/watch"
	"imgbench/internal/workbench"
	"imgbench/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// App is the desktop front-end of the workbench.
type App struct {
	ctx        context.Context
	cfg        *config.Config
	bench      *workbench.Workbench
	fyneApp    fyne.App
	mainWindow fyne.Window

	preview    *canvas.Image
	fileLabel  *widget.Label
	statusBar  *widget.Label
	saveButton *widget.Button
	watchBtn   *widget.Button
	gallery    *widget.List

	mu     sync.Mutex
	images []types.RemoteImage
	daemon *watch.Daemon
}

// IsGUIAvailable reports whether this build includes the GUI.
func IsGUIAvailable() bool {
	return true
}

// Run opens the main window and blocks until it is closed.
func Run(ctx context.Context, cfg *config.Config, bench *workbench.Workbench) error {
	a := NewApp(ctx, cfg, bench, app.NewWithID("io.github.imgbench"))
	a.mainWindow.ShowAndRun()
	a.stopWatch()
	return nil
}

// NewApp builds the main window on fyneApp without showing it.
func NewApp(ctx context.Context, cfg *config.Config, bench *workbench.Workbench, fyneApp fyne.App) *App {
	a := &App{
		ctx:     ctx,
		cfg:     cfg,
		bench:   bench,
		fyneApp: fyneApp,
	}
	a.setupMainWindow()
	go a.refresh()
	return a
}

// Window returns the main window.
func (a *App) Window() fyne.Window {
	return a.mainWindow
}

func (a *App) setupMainWindow() {
	a.mainWindow = a.fyneApp.NewWindow(windowTitle)

	a.preview = canvas.NewImageFromResource(nil)
	a.preview.FillMode = canvas.ImageFillContain
	a.preview.SetMinSize(fyne.NewSize(360, 300))

	a.fileLabel = widget.NewLabel(noFileText)
	a.fileLabel.Alignment = fyne.TextAlignCenter
	a.statusBar = widget.NewLabel("")

	openButton := widget.NewButton("Open image", a.showOpenDialog)
	a.saveButton = widget.NewButton("Save image", func() { go a.save() })
	a.saveButton.Importance = widget.HighImportance

	left := container.NewBorder(nil,
		container.NewVBox(a.fileLabel, container.NewGridWithColumns(2, openButton, a.saveButton)),
		nil, nil,
		a.preview,
	)

	a.gallery = widget.NewList(
		func() int {
			a.mu.Lock()
			defer a.mu.Unlock()
			return len(a.images)
		},
		func() fyne.CanvasObject { return widget.NewLabel("image.png") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			a.mu.Lock()
			defer a.mu.Unlock()
			if id < len(a.images) {
				obj.(*widget.Label).SetText(galleryLabel(a.images[id], a.bench.SelectedPath()))
			}
		},
	)
	a.gallery.OnSelected = a.selectImage

	refreshButton := widget.NewButton("Refresh", func() { go a.refresh() })
	viewButton := widget.NewButton("View", a.openViewer)
	tools := []fyne.CanvasObject{refreshButton, viewButton}
	if len(a.cfg.Watch.Directories) > 0 {
		a.watchBtn = widget.NewButton("Start watching", a.toggleWatch)
		tools = append(tools, a.watchBtn)
	}

	right := container.NewBorder(
		widget.NewLabelWithStyle("Gallery", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(len(tools), tools...),
		nil, nil,
		a.gallery,
	)

	split := container.NewHSplit(left, right)
	split.Offset = 0.6

	a.mainWindow.SetContent(container.NewBorder(nil, a.statusBar, nil, nil, split))
	a.mainWindow.Resize(fyne.NewSize(900, 600))
	a.updateStatus()
}

func (a *App) showOpenDialog() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.showError(err)
			return
		}
		if reader == nil {
			// Cancelled.
			return
		}
		path := reader.URI().Path()
		reader.Close()
		go a.pick(path)
	}, a.mainWindow)
	d.SetFilter(acceptFilter{bench: a.bench})
	if a.cfg.Picker.StartDir != "" {
		if dir, err := storage.ListerForURI(storage.NewFileURI(a.cfg.Picker.StartDir)); err == nil {
			d.SetLocation(dir)
		}
	}
	d.Show()
}

// acceptFilter limits the open dialog to names the workbench accepts.
type acceptFilter struct {
	bench *workbench.Workbench
}

func (f acceptFilter) Matches(uri fyne.URI) bool {
	return f.bench.Accepts(uri.Name())
}

func (a *App) pick(path string) {
	file, err := a.bench.PickPath(path)
	if err != nil {
		a.fileLabel.SetText(noFileText)
		a.preview.Resource = nil
		a.preview.Refresh()
		a.showError(err)
		return
	}
	a.fileLabel.SetText(file.Name)
	a.preview.Resource = nil
	a.preview.Refresh()
	a.loadPreview()
}

func (a *App) loadPreview() {
	preview, err := a.bench.LoadPreview(a.ctx)
	if errors.Is(err, errors.ErrStalePreview) {
		return
	}
	if err != nil {
		a.showError(err)
		return
	}
	_, data, err := workbench.DecodePreview(preview)
	if err != nil {
		a.showError(err)
		return
	}

	s := a.bench.Snapshot()
	a.preview.Resource = fyne.NewStaticResource(s.SelectedFile.Name, data)
	a.preview.Refresh()
	a.fileLabel.SetText(fileSummary(s))
}

func (a *App) save() {
	a.saveButton.Disable()
	a.updateStatus()
	ack, err := a.bench.Upload(a.ctx)
	a.saveButton.Enable()
	a.updateStatus()
	if err != nil {
		a.showError(err)
		return
	}
	dialog.ShowInformation("Saved", ack.String(), a.mainWindow)
}

func (a *App) refresh() {
	images, err := a.bench.Refresh(a.ctx)
	if err != nil {
		a.showError(err)
		return
	}
	a.mu.Lock()
	a.images = images
	a.mu.Unlock()

	a.gallery.UnselectAll()
	if sel := a.bench.SelectedPath(); sel != "" {
		for i, img := range images {
			if img.Path == sel {
				a.gallery.Select(i)
				break
			}
		}
	}
	a.gallery.Refresh()
	a.updateStatus()
}

func (a *App) selectImage(id widget.ListItemID) {
	a.mu.Lock()
	if id < 0 || id >= len(a.images) {
		a.mu.Unlock()
		return
	}
	path := a.images[id].Path
	a.mu.Unlock()

	a.bench.Select(path)
	a.gallery.Refresh()
	a.updateStatus()
}

func (a *App) openViewer() {
	if err := a.bench.OpenViewer(); err != nil {
		a.showError(err)
		return
	}
	src, ok := a.bench.ViewerSource()
	if !ok {
		return
	}
	entry, _ := a.bench.Entry(a.bench.SelectedPath())

	var content fyne.CanvasObject
	if uri, err := storage.ParseURI(src); err == nil {
		img := canvas.NewImageFromURI(uri)
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(480, 360))
		content = container.NewBorder(nil, widget.NewLabel(src), nil, nil, img)
	} else {
		content = widget.NewLabel(src)
	}

	d := dialog.NewCustom(entry.Name, "Close", content, a.mainWindow)
	d.SetOnClosed(a.bench.CloseViewer)
	d.Show()
}

func (a *App) toggleWatch() {
	a.mu.Lock()
	running := a.daemon != nil
	a.mu.Unlock()
	if running {
		a.stopWatch()
		a.watchBtn.SetText("Start watching")
		return
	}

	d, err := watch.NewDaemon(a.cfg, a.bench)
	if err != nil {
		a.showError(err)
		return
	}
	d.SetCallback(a.onWatchResult)
	if err := d.Start(a.ctx); err != nil {
		a.showError(err)
		return
	}
	a.mu.Lock()
	a.daemon = d
	a.mu.Unlock()
	a.watchBtn.SetText("Stop watching")
}

func (a *App) stopWatch() {
	a.mu.Lock()
	d := a.daemon
	a.daemon = nil
	a.mu.Unlock()
	if d != nil {
		d.Stop()
	}
}

func (a *App) onWatchResult(r watch.Result) {
	if r.Err != nil {
		log.LogWithFields(log.F("path", r.Path), log.F("error", r.Err)).Warn("watched file not handled")
		a.statusBar.SetText(errors.UserMessage(r.Err))
		return
	}
	if file, ok := a.bench.SelectedFile(); ok {
		a.fileLabel.SetText(file.Name)
	}
	a.loadPreview()
	if r.Uploaded {
		a.refresh()
	}
}

func (a *App) updateStatus() {
	a.statusBar.SetText(statusText(a.bench.Snapshot()))
}

func (a *App) showError(err error) {
	log.LogWithFields(log.F("component", "gui"), log.F("error", err)).Warn("showing error dialog")
	dialog.ShowInformation(dialogTitle(err), errors.UserMessage(err), a.mainWindow)
}
