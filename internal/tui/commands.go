package tui

import (
	"context"

	"imgbench/internal/tui/messages"
	"imgbench/internal/workbench"

	tea "github.com/charmbracelet/bubbletea"
)

// Each command runs one workbench operation off the update loop and
// reports back with a message.

func pickCmd(wb *workbench.Workbench, path string) tea.Cmd {
	return func() tea.Msg {
		file, err := wb.PickPath(path)
		return messages.PickedMsg{File: file, Err: err}
	}
}

func previewCmd(ctx context.Context, wb *workbench.Workbench) tea.Cmd {
	return func() tea.Msg {
		preview, err := wb.LoadPreview(ctx)
		return messages.PreviewMsg{Preview: preview, Err: err}
	}
}

func uploadCmd(ctx context.Context, wb *workbench.Workbench) tea.Cmd {
	return func() tea.Msg {
		ack, err := wb.Upload(ctx)
		return messages.UploadDoneMsg{Ack: ack, Err: err}
	}
}

func refreshCmd(ctx context.Context, wb *workbench.Workbench) tea.Cmd {
	return func() tea.Msg {
		images, err := wb.Refresh(ctx)
		return messages.RefreshDoneMsg{Images: images, Err: err}
	}
}
