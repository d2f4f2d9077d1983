package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phanxgames/vellum"
)

// newInspectCmd creates the inspect command, which prints a snapshot's
// layer tree.
func newInspectCmd(root *rootOpts) *cobra.Command {
	var expandAll bool

	cmd := &cobra.Command{
		Use:   "inspect SNAPSHOT",
		Short: "Print the layer tree of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := root.openDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if expandAll {
				expandGroups(doc)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, styleTitle.Render(filepath.Base(args[0])))
			printKeyValue(w, "nodes", fmt.Sprint(doc.Store().Len()))
			printKeyValue(w, "roots", fmt.Sprint(len(doc.Store().Roots())))
			printKeyValue(w, "zoom", fmt.Sprintf("%d%%", doc.Viewport().ZoomPercent()))
			fmt.Fprintln(w)
			printLayerTree(w, doc)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&expandAll, "expand", "e", false, "list the children of collapsed groups")
	return cmd
}

// expandGroups expands every collapsed group.
func expandGroups(doc *vellum.Document) {
	for _, id := range doc.Store().IDs() {
		n, err := doc.Store().Get(id)
		if err == nil && n.IsGroup() && !n.Expanded {
			doc.ToggleExpand(id)
		}
	}
}
