package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/vellum"
)

type runOpts struct {
	input  string // snapshot to start from
	output string // snapshot destination; stdout when empty
}

// newRunCmd creates the run command, which replays a script and writes the
// resulting document.
func newRunCmd(root *rootOpts) *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run SCRIPT",
		Short: "Replay a command script and write the resulting snapshot",
		Long: `Run replays the steps of a JSON command script through the editing
pipeline, starting from an empty document or from --input, and writes the
final document as a JSON snapshot to --output (or stdout).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, root, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "snapshot to start from")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "snapshot output file (default stdout)")
	return cmd
}

func runScript(cmd *cobra.Command, root *rootOpts, path string, opts runOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	stderr := cmd.ErrOrStderr()

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	script, err := vellum.LoadScript(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var doc *vellum.Document
	if opts.input != "" {
		doc, err = root.openDocument(ctx, opts.input)
	} else {
		doc, err = root.newDocument(ctx)
	}
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	res, err := script.Run(doc)
	if err != nil {
		printError(stderr, "%s failed after %d of %d steps", path, len(res.Changes), script.Len())
		return err
	}
	prog.done(fmt.Sprintf("Ran %d steps", script.Len()))

	snap := doc.Export()
	if opts.output == "" {
		return vellum.WriteSnapshot(cmd.OutOrStdout(), snap)
	}
	if err := writeSnapshotFile(opts.output, snap); err != nil {
		return err
	}
	printSuccess(stderr, "Wrote %d nodes", len(snap.Nodes))
	printFile(stderr, opts.output)
	return nil
}
