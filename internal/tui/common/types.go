package common

import (
	"imgbench/internal/workbench"
	"imgbench/pkg/types"
)

// StatusKind colours the status line.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Mode() types.Mode
	State() workbench.State
	ViewerSource() (string, bool)
	Width() int
	Height() int
	AlertText() string
	ShowHelp() bool
}
