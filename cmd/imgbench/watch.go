package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"imgbench/internal/errors"
	"imgbench/internal/watch"

	"github.com/spf13/cobra"
)

func newWatchCmd(opts *options) *cobra.Command {
	var (
		dirs     []string
		noUpload bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Upload images as they appear in watched directories",
		Long: `Watch the configured directories (plus any given with --dir) and upload
every new image once it has stopped changing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			for _, d := range dirs {
				abs, err := filepath.Abs(d)
				if err != nil {
					return err
				}
				cfg.Watch.Directories = append(cfg.Watch.Directories, abs)
			}
			if noUpload {
				cfg.Watch.AutoUpload = false
			}

			wb, err := opts.workbench()
			if err != nil {
				return err
			}
			daemon, err := watch.NewDaemon(cfg, wb)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			daemon.SetCallback(func(r watch.Result) {
				name := filepath.Base(r.Path)
				switch {
				case r.Err != nil:
					fmt.Fprintln(out, errorText(name+": "+errors.UserMessage(r.Err)))
				case r.Uploaded:
					fmt.Fprintln(out, successText(name+": "+r.Ack.String()))
				default:
					fmt.Fprintln(out, infoText(name+": picked"))
				}
			})

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := daemon.Start(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, infoText("Watching:"))
			for _, d := range daemon.Status().WatchDirectories {
				fmt.Fprintf(out, "  - %s\n", d)
			}
			fmt.Fprintln(out, infoText("Press Ctrl+C to stop."))

			<-ctx.Done()
			daemon.Stop()

			status := daemon.Status()
			fmt.Fprintf(out, "Uploaded %d, failed %d\n", status.FilesUploaded, status.Failures)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&dirs, "dir", "d", nil, "additional directory to watch (repeatable)")
	cmd.Flags().BoolVar(&noUpload, "no-upload", false, "only pick new images, do not upload them")
	return cmd
}
