package components

import (
	"imgbench/internal/tui/common"
	"imgbench/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// StatusBar is the one-line status shown under the panes. While loading it
// animates a spinner in front of the text.
type StatusBar struct {
	text    string
	kind    common.StatusKind
	spinner spinner.Model
	loading bool
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Theme.Info

	return &StatusBar{spinner: s}
}

// SetLoading starts or stops the spinner; the returned command drives it.
func (s *StatusBar) SetLoading(loading bool) tea.Cmd {
	s.loading = loading
	if loading {
		return s.spinner.Tick
	}
	return nil
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

func (s *StatusBar) SetText(text string, kind common.StatusKind) {
	s.text = text
	s.kind = kind
}

func (s *StatusBar) Text() string {
	return s.text
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if !s.loading {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

func (s *StatusBar) View() string {
	if s.text == "" && !s.loading {
		return ""
	}

	style := styles.Theme.Info
	switch s.kind {
	case common.StatusSuccess:
		style = styles.Theme.Success
	case common.StatusError:
		style = styles.Theme.Error
	}

	if s.loading {
		return s.spinner.View() + " " + style.Render(s.text)
	}
	return style.Render(s.text)
}
