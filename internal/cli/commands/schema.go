package commands

import (
	"github.com/spf13/cobra"

	"github.com/querypad/querypad/pkg/core"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [table]",
		Short: "Inspect the connected database's schema",
		Long: `Inspect the schema of the connected database.

Without arguments, lists every table with its column and row counts.
With a table name, shows the full column layout of that table.`,
		Example: `  # Overview of all tables
  querypad schema -c local

  # One table in detail
  querypad schema users -c local

  # Machine readable
  querypad schema users -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd, args)
		},
	}
}

func runSchema(cmd *cobra.Command, args []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	r := cmdCtx.Renderer

	if len(args) == 1 {
		meta, err := cmdCtx.Engine.TableMetadata(ctx, args[0])
		if err != nil {
			return err
		}
		return r.RenderMetadata(meta)
	}

	metas, err := cmdCtx.Engine.SchemaOverview(ctx)
	if err != nil {
		return err
	}

	snap := &core.ResultSnapshot{Columns: []string{"table", "columns", "rows"}}
	for _, meta := range metas {
		snap.Rows = append(snap.Rows, []core.Value{
			core.NewString(meta.Name),
			core.NewInt(int64(len(meta.Columns))),
			core.NewInt(meta.RowCount),
		})
	}
	snap.RowCount = len(snap.Rows)
	return r.Render(snap)
}
