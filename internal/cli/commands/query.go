package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/querypad/querypad/internal/cli/output"
	"github.com/querypad/querypad/internal/engine"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Execute SQL against a connection",
		Long: `Execute SQL against the configured connection.

SQL can come from the arguments, from a file via --input, or from a
pipe. Scripts may hold several statements separated by semicolons;
each result is rendered in turn.

When invoked without arguments on a terminal, enters interactive REPL
mode.`,
		Example: `  # Execute SQL directly
  querypad query "SELECT * FROM users" -c local

  # Run a script file
  querypad query --input report.sql

  # Pipe SQL in and get JSON out
  echo "SELECT count(*) FROM orders" | querypad query -o json

  # Interactive mode
  querypad query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	// Flags
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, csv, markdown")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	// Override renderer if format flag is set
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	// Determine SQL source
	var sqlText string

	switch {
	case len(args) > 0:
		sqlText = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlText = string(content)
	case !isTerminal(os.Stdin):
		// Read from stdin (piped input)
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlText = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, cmdCtx, r)
	}

	return executeScript(cmd.Context(), cmdCtx, r, sqlText)
}

// executeScript runs every statement in sqlText and renders each
// result. The connection is remembered once the script succeeds.
func executeScript(ctx context.Context, cmdCtx *CommandContext, r *output.Renderer, sqlText string) error {
	stmts := engine.SplitStatements(sqlText)
	if len(stmts) == 0 {
		return fmt.Errorf("no SQL statements to execute")
	}

	for _, stmt := range stmts {
		snap, err := cmdCtx.Engine.Execute(ctx, stmt)
		if err != nil {
			return err
		}
		if err := r.Render(snap); err != nil {
			return err
		}
	}

	rememberConnection(cmdCtx.Logger, cmdCtx.Engine.Connection().Name)
	return nil
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
