// Package cli implements the vellum command-line interface.
//
// # Commands
//
//   - run: replay a JSON command script, optionally on top of a snapshot
//   - inspect: print a snapshot's layer tree
//   - validate: check a snapshot against the document invariants
//   - view: open a snapshot in the editor window
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// surfaces every pipeline change. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"fmt"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/vellum"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version. It is
// normally called from main with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// rootOpts holds the persistent flags shared by every command.
type rootOpts struct {
	verbose    bool
	configPath string
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &rootOpts{}

	root := &cobra.Command{
		Use:           "vellum",
		Short:         "Vellum edits layered vector documents",
		Long:          `Vellum is a scene-graph document editor. The CLI replays command scripts, inspects and validates snapshots, and opens them in an interactive canvas.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("vellum %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "TOML config file")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newInspectCmd(opts))
	root.AddCommand(newValidateCmd(opts))
	root.AddCommand(newViewCmd(opts))

	return root
}

// Execute runs the CLI with args and returns the first command error.
func Execute(ctx context.Context, args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// newDocument builds an empty document from --config, logging through the
// command's logger.
func (o *rootOpts) newDocument(ctx context.Context) (*vellum.Document, error) {
	cfg := vellum.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = vellum.LoadConfig(o.configPath); err != nil {
			return nil, err
		}
	}
	cfg.Logger = loggerFromContext(ctx)
	return vellum.New(cfg)
}

// openDocument builds a document and imports the snapshot at path.
func (o *rootOpts) openDocument(ctx context.Context, path string) (*vellum.Document, error) {
	doc, err := o.newDocument(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := readSnapshotFile(path)
	if err != nil {
		return nil, err
	}
	if _, err := doc.Import(snap); err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return doc, nil
}
