package tui

import (
	"context"
	"fmt"
	"path/filepath"

	"imgbench/internal/config"
	"imgbench/internal/errors"
	"imgbench/internal/log"
	"imgbench/internal/tui/common"
	"imgbench/internal/tui/components"
	"imgbench/internal/tui/messages"
	"imgbench/internal/tui/styles"
	"imgbench/internal/tui/views"
	"imgbench/internal/workbench"
	"imgbench/pkg/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the bubbletea model of the workbench TUI. All workbench state
// lives in the workbench; the model only keeps what the screen needs.
type Model struct {
	ctx   context.Context
	cfg   *config.Config
	bench *workbench.Workbench

	keys     types.KeyMap
	help     help.Model
	mode     types.Mode
	prevMode types.Mode // where an overlay returns to

	picker   filepicker.Model
	preview  *components.PreviewPane
	gallery  *components.Gallery
	status   *components.StatusBar
	alert    string
	busy     int
	helpDoc  string
	helpSize int

	width  int
	height int
}

// New creates the model. ctx bounds every request the model starts.
func New(ctx context.Context, cfg *config.Config, bench *workbench.Workbench) *Model {
	styles.Apply(cfg)
	return &Model{
		ctx:     ctx,
		cfg:     cfg,
		bench:   bench,
		keys:    types.DefaultKeyMap(),
		help:    help.New(),
		mode:    types.Normal,
		preview: components.NewPreviewPane(),
		gallery: components.NewGallery(),
		status:  components.NewStatusBar(),
	}
}

// Init implements tea.Model. The gallery is fetched once on start.
func (m *Model) Init() tea.Cmd {
	return m.startRefresh()
}

// View implements tea.Model
func (m *Model) View() string {
	p := views.Panes{
		Preview: m.preview,
		Gallery: m.gallery,
		Status:  m.status,
		KeyHelp: m.help.View(m.keys),
	}
	if m.mode == types.Picking {
		p.Picker = m.picker.View()
	}
	if m.mode == types.Help {
		p.Help = m.helpView()
	}
	return views.RenderMainView(m, p)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.mode == types.Picking {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case messages.PickedMsg:
		return m.handlePicked(msg)

	case messages.PreviewMsg:
		return m.handlePreview(msg)

	case messages.UploadDoneMsg:
		return m.handleUploadDone(msg)

	case messages.RefreshDoneMsg:
		return m.handleRefreshDone(msg)

	case messages.WatchMsg:
		return m.handleWatch(msg)

	case messages.ErrorMsg:
		return m, m.showAlert(errors.UserMessage(msg.Err))
	}

	// Spinner ticks and filepicker directory reads.
	var cmds []tea.Cmd
	if cmd := m.status.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.mode == types.Picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case types.Picking:
		return m.handlePickingKeys(msg)
	case types.Filter:
		return m.handleFilterKeys(msg)
	case types.Viewer:
		if key.Matches(msg, m.keys.Close) {
			m.bench.CloseViewer()
			m.mode = types.Gallery
		}
		return m, nil
	case types.Alert:
		if key.Matches(msg, m.keys.Dismiss) {
			m.alert = ""
			m.mode = m.prevMode
		}
		return m, nil
	case types.Help:
		if key.Matches(msg, m.keys.Help, m.keys.Close) {
			m.mode = m.prevMode
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.prevMode = m.mode
		m.mode = types.Help
		return m, nil
	case key.Matches(msg, m.keys.Pick):
		return m, m.openPicker()
	case key.Matches(msg, m.keys.Save):
		return m, m.startUpload()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.startRefresh()
	case key.Matches(msg, m.keys.SwitchPane):
		if m.mode == types.Gallery {
			m.mode = types.Normal
		} else {
			m.mode = types.Gallery
		}
		return m, nil
	}

	if m.mode == types.Gallery {
		return m.handleGalleryKeys(msg)
	}
	return m, nil
}

func (m *Model) handleGalleryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.gallery.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.gallery.MoveCursor(1)
	case key.Matches(msg, m.keys.Filter):
		m.mode = types.Filter
		return m, m.gallery.FocusFilter()
	case key.Matches(msg, m.keys.Select):
		m.selectCurrent()
	case key.Matches(msg, m.keys.View):
		if err := m.bench.OpenViewer(); err != nil {
			return m, m.showAlert(errors.UserMessage(err))
		}
		m.mode = types.Viewer
	case key.Matches(msg, m.keys.Close):
		m.mode = types.Normal
	}
	return m, nil
}

func (m *Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.gallery.ClearFilter()
		m.mode = types.Gallery
		return m, nil
	case tea.KeyEnter:
		m.gallery.BlurFilter()
		m.mode = types.Gallery
		return m, nil
	}
	return m, m.gallery.UpdateFilter(msg)
}

func (m *Model) handlePickingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		// Cancelling a pick leaves the workbench untouched.
		m.mode = types.Normal
		m.status.SetText("Pick cancelled", common.StatusInfo)
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m, pickCmd(m.bench, path)
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		return m, m.showAlert(fmt.Sprintf("%s: %s", filepath.Base(path), errors.UserMessage(errors.ErrNotAnImage)))
	}
	return m, cmd
}

func (m *Model) handlePicked(msg messages.PickedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.mode = types.Normal
		return m, m.showAlert(errors.UserMessage(msg.Err))
	}
	m.mode = types.Normal
	m.status.SetText("Picked "+msg.File.Name, common.StatusInfo)
	return m, previewCmd(m.ctx, m.bench)
}

func (m *Model) handlePreview(msg messages.PreviewMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.Err, errors.ErrStalePreview):
		// A newer pick is already rendering.
	case msg.Err != nil:
		m.status.SetText(errors.UserMessage(msg.Err), common.StatusError)
	default:
		m.status.SetText("Preview ready", common.StatusInfo)
	}
	return m, nil
}

func (m *Model) handleUploadDone(msg messages.UploadDoneMsg) (tea.Model, tea.Cmd) {
	cmd := m.done()
	if msg.Err != nil {
		m.status.SetText("Upload failed", common.StatusError)
		return m, tea.Batch(cmd, m.showAlert(errors.UserMessage(msg.Err)))
	}
	m.status.SetText("Image saved", common.StatusSuccess)
	return m, tea.Batch(cmd, m.showAlert(msg.Ack.String()))
}

func (m *Model) handleRefreshDone(msg messages.RefreshDoneMsg) (tea.Model, tea.Cmd) {
	cmd := m.done()
	if msg.Err != nil {
		m.status.SetText("Refresh failed", common.StatusError)
		return m, tea.Batch(cmd, m.showAlert(errors.UserMessage(msg.Err)))
	}
	m.gallery.SetImages(msg.Images)
	m.gallery.SetSelected(m.bench.SelectedPath())
	if m.mode == types.Viewer && !m.bench.ViewerOpen() {
		m.mode = types.Gallery
	}
	m.status.SetText(fmt.Sprintf("%d images on the server", len(msg.Images)), common.StatusInfo)
	return m, cmd
}

func (m *Model) handleWatch(msg messages.WatchMsg) (tea.Model, tea.Cmd) {
	r := msg.Result
	name := filepath.Base(r.Path)
	switch {
	case r.Err != nil:
		m.status.SetText(name+": "+errors.UserMessage(r.Err), common.StatusError)
		return m, nil
	case r.Uploaded:
		m.status.SetText("Watched "+name+" saved", common.StatusSuccess)
		return m, tea.Batch(previewCmd(m.ctx, m.bench), m.startRefresh())
	default:
		m.status.SetText("Watched "+name+" picked", common.StatusInfo)
		return m, previewCmd(m.ctx, m.bench)
	}
}

func (m *Model) openPicker() tea.Cmd {
	fp := filepicker.New()
	fp.CurrentDirectory = m.cfg.Picker.StartDir
	fp.ShowHidden = m.cfg.Picker.ShowHidden
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.AutoHeight = false
	fp.Height = max(5, m.height-10)
	m.picker = fp
	m.mode = types.Picking
	return m.picker.Init()
}

func (m *Model) startUpload() tea.Cmd {
	if m.bench.Uploading() {
		m.status.SetText(errors.UserMessage(errors.ErrUploadInFlight), common.StatusInfo)
		return nil
	}
	return tea.Batch(m.begin("Uploading..."), uploadCmd(m.ctx, m.bench))
}

func (m *Model) startRefresh() tea.Cmd {
	return tea.Batch(m.begin("Refreshing gallery..."), refreshCmd(m.ctx, m.bench))
}

func (m *Model) selectCurrent() {
	entry, ok := m.gallery.Current()
	if !ok {
		return
	}
	if m.bench.Select(entry.Path) {
		m.gallery.SetSelected(entry.Path)
		m.status.SetText("Selected "+entry.Name, common.StatusInfo)
	}
}

func (m *Model) begin(text string) tea.Cmd {
	m.busy++
	m.status.SetText(text, common.StatusInfo)
	return m.status.SetLoading(true)
}

func (m *Model) done() tea.Cmd {
	if m.busy > 0 {
		m.busy--
	}
	return m.status.SetLoading(m.busy > 0)
}

func (m *Model) showAlert(text string) tea.Cmd {
	log.LogWithFields(log.F("component", "tui"), log.F("alert", text)).Debug("showing alert")
	if m.mode != types.Alert {
		m.prevMode = m.mode
	}
	m.alert = text
	m.mode = types.Alert
	return nil
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	paneWidth := max(20, (width-6)/2-4)
	m.preview.SetSize(paneWidth, max(4, (height-14)/2))
	m.gallery.SetHeight(max(3, height-14))
}

func (m *Model) helpView() string {
	if m.helpDoc == "" || m.helpSize != m.width {
		style := "dark"
		if m.cfg.Theme.Name == "light" {
			style = "light"
		}
		m.helpDoc = views.RenderHelp(m.keys, min(m.width, 80)-8, style)
		m.helpSize = m.width
	}
	return m.helpDoc
}

// Getters used by the views.

func (m *Model) Mode() types.Mode {
	return m.mode
}

func (m *Model) State() workbench.State {
	return m.bench.Snapshot()
}

func (m *Model) ViewerSource() (string, bool) {
	return m.bench.ViewerSource()
}

func (m *Model) Width() int {
	return m.width
}

func (m *Model) Height() int {
	return m.height
}

func (m *Model) AlertText() string {
	return m.alert
}

func (m *Model) ShowHelp() bool {
	return m.mode == types.Help
}

// Gallery exposes the gallery component for tests.
func (m *Model) Gallery() *components.Gallery {
	return m.gallery
}

// StatusText returns the current status line text.
func (m *Model) StatusText() string {
	return m.status.Text()
}
