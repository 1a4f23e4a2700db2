package messages

import (
	"imgbench/internal/client"
	"imgbench/internal/watch"
	"imgbench/pkg/types"
)

// ErrorMsg carries a failure that has no more specific message.
type ErrorMsg struct {
	Err error
}

// PickedMsg reports the outcome of choosing a local file.
type PickedMsg struct {
	File types.LocalImage
	Err  error
}

// PreviewMsg reports a finished (or failed, or stale) preview render.
type PreviewMsg struct {
	Preview string
	Err     error
}

// UploadDoneMsg reports the end of an upload.
type UploadDoneMsg struct {
	Ack client.Ack
	Err error
}

// RefreshDoneMsg reports the end of a gallery refresh.
type RefreshDoneMsg struct {
	Images []types.RemoteImage
	Err    error
}

// WatchMsg reports an image handled by the watch daemon while the TUI runs.
type WatchMsg struct {
	Result watch.Result
}
