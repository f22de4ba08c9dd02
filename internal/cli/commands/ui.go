package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/querypad/querypad/internal/platform"
	"github.com/querypad/querypad/internal/tui"
	"github.com/querypad/querypad/internal/workspace"
)

// UIOptions holds options for the ui command.
type UIOptions struct {
	Run   bool
	Saved string
}

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	opts := &UIOptions{}

	cmd := &cobra.Command{
		Use:   "ui [SQL]",
		Short: "Open the interactive result viewer",
		Long: `Open the full-screen result viewer.

Statements typed into the editor run against the configured
connection. Results land in a scrollable grid with filtering, sorting,
row selection and CSV/JSON export. Press ? inside the viewer for the
full key reference.`,
		Example: `  # Open the viewer on the last used connection
  querypad ui

  # Pre-fill the editor and run immediately
  querypad ui "SELECT * FROM users" --run

  # Start from a saved query
  querypad ui --saved monthly-report --run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Run, "run", "r", false, "Run the statement on startup")
	cmd.Flags().StringVarP(&opts.Saved, "saved", "s", "", "Pre-fill the editor from a saved query")
	_ = cmd.RegisterFlagCompletionFunc("saved", completeSavedQueryNames)

	return cmd
}

func runUI(cmd *cobra.Command, args []string, opts *UIOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	initial := strings.Join(args, " ")
	if opts.Saved != "" {
		if initial != "" {
			return fmt.Errorf("pass either SQL arguments or --saved, not both")
		}
		q, err := cmdCtx.Engine.Store().GetSavedQueryByName(opts.Saved)
		if err != nil {
			return err
		}
		initial = q.Query
	}
	if opts.Run && strings.TrimSpace(initial) == "" {
		return fmt.Errorf("--run needs a statement to run")
	}

	rememberConnection(cmdCtx.Logger, cmdCtx.Engine.Connection().Name)

	exportDir := ""
	if settings, err := workspace.LoadSettings(); err == nil {
		exportDir = settings.ExportDir
	}
	out := platform.NewOutput(exportDir, cmdCtx.Logger)

	return tui.Run(cmd.Context(), tui.Config{
		Runner:         cmdCtx.Engine,
		Output:         out,
		ConnectionName: cmdCtx.Engine.Connection().Name,
		InitialQuery:   initial,
		RunOnStart:     opts.Run,
		Logger:         cmdCtx.Logger,
	})
}
