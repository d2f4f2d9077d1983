package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phanxgames/vellum"
	"github.com/phanxgames/vellum/canvas"
)

// newViewCmd creates the view command, which opens the editor window.
func newViewCmd(root *rootOpts) *cobra.Command {
	var labels bool

	cmd := &cobra.Command{
		Use:   "view [SNAPSHOT]",
		Short: "Open a snapshot in the editor window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := "vellum"
			var doc *vellum.Document
			var err error
			if len(args) == 1 {
				doc, err = root.openDocument(cmd.Context(), args[0])
				title += " - " + filepath.Base(args[0])
			} else {
				doc, err = root.newDocument(cmd.Context())
			}
			if err != nil {
				return err
			}
			opts := canvas.DefaultOptions()
			opts.Labels = labels
			return canvas.NewEditor(doc, opts).Run(title)
		},
	}

	cmd.Flags().BoolVarP(&labels, "labels", "l", false, "draw shape names on the canvas")
	return cmd
}
