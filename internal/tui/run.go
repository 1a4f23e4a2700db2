package tui

import (
	"context"

	"imgbench/internal/config"
	"imgbench/internal/log"
	"imgbench/internal/tui/messages"
	"imgbench/internal/watch"
	"imgbench/internal/workbench"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI and blocks until the user quits. When watch
// directories are configured a watch daemon feeds the same workbench.
func Run(ctx context.Context, cfg *config.Config, bench *workbench.Workbench) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(ctx, cfg, bench), tea.WithAltScreen(), tea.WithContext(ctx))

	if len(cfg.Watch.Directories) > 0 {
		d, err := watch.NewDaemon(cfg, bench)
		if err != nil {
			return err
		}
		d.SetCallback(func(r watch.Result) { p.Send(messages.WatchMsg{Result: r}) })
		if err := d.Start(ctx); err != nil {
			return err
		}
		defer d.Stop()
	}

	log.Info("Starting TUI")
	_, err := p.Run()
	return err
}
