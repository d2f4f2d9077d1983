package cli

import (
	"github.com/spf13/cobra"
)

// newValidateCmd creates the validate command, which imports a snapshot
// and reports the first invariant it violates.
func newValidateCmd(root *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "validate SNAPSHOT",
		Short: "Check a snapshot against the document invariants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			doc, err := root.openDocument(cmd.Context(), args[0])
			if err == nil {
				err = doc.CheckInvariants()
			}
			if err != nil {
				printError(w, "%s is invalid", args[0])
				return err
			}
			printSuccess(w, "%s is valid", args[0])
			printInfo(w, "%d nodes in %d root(s)", doc.Store().Len(), len(doc.Store().Roots()))
			return nil
		},
	}
}
