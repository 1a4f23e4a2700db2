package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"imgbench/internal/errors"

	"github.com/spf13/cobra"
)

func newListCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the images stored on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.workbench()
			if err != nil {
				return err
			}
			images, err := wb.Refresh(commandContext(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(images)
			}
			if len(images) == 0 {
				fmt.Fprintln(out, infoText("No images on the server."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, headerText("NAME")+"\t"+headerText("PATH"))
			for _, img := range images {
				fmt.Fprintf(w, "%s\t%s\n", img.Name, img.Path)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the listing as JSON")
	return cmd
}

func newViewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "view <path>",
		Short: "Resolve a gallery path to the URL the viewer would load",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := opts.workbench()
			if err != nil {
				return err
			}
			if _, err := wb.Refresh(commandContext(cmd)); err != nil {
				return err
			}
			if !wb.Select(args[0]) {
				return errors.NewKind(errors.NoSelection, fmt.Sprintf("%s is not in the gallery", args[0]), nil)
			}
			if err := wb.OpenViewer(); err != nil {
				return err
			}
			defer wb.CloseViewer()

			src, _ := wb.ViewerSource()
			fmt.Fprintln(cmd.OutOrStdout(), src)
			return nil
		},
	}
}
