package main

import (
	"context"
	"fmt"
	"io"

	"imgbench/internal/errors"
	"imgbench/internal/workbench"
	"imgbench/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newUploadCmd(opts *options) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Save a local image to the server",
		Long:  `Pick the given file, render its preview and upload it to the save endpoint, printing the server's acknowledgement.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			out := cmd.OutOrStdout()

			wb, err := opts.workbench()
			if err != nil {
				return err
			}
			file, err := wb.PickFile(ctx, workbench.StaticPicker(args[0]))
			if err != nil {
				return err
			}
			if file == nil {
				return errors.ErrNoFileSelected
			}

			fmt.Fprintln(out, infoText("Uploading "+describeUpload(ctx, wb, out, *file)))

			ack, err := wb.Upload(ctx)
			if err != nil {
				return err
			}
			if raw {
				fmt.Fprintln(out, ack.Raw())
				return nil
			}
			fmt.Fprintln(out, successText("Saved: "+ack.String()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the raw acknowledgement body")
	return cmd
}

// describeUpload renders the preview of the picked file and returns its
// caption. A preview failure is reported on out; the upload goes ahead.
func describeUpload(ctx context.Context, wb *workbench.Workbench, out io.Writer, file types.LocalImage) string {
	line := fmt.Sprintf("%s (%s, %s)", file.Name, file.MediaType, humanize.Bytes(uint64(file.Size)))

	_, err := wb.LoadPreview(ctx)
	switch {
	case errors.Is(err, errors.ErrStalePreview):
	case err != nil:
		fmt.Fprintln(out, warnText("Warning: "+errors.UserMessage(err)))
	default:
		info := wb.Snapshot().PreviewInfo
		if info.Width > 0 {
			line += " " + info.Dimensions()
		}
		if info.Camera != "" {
			line += ", " + info.Camera
		}
	}
	return line
}
