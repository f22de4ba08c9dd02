package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/querypad/querypad/internal/cli/output"
	"github.com/querypad/querypad/pkg/core"
)

// NewSavedCommand creates the saved command group.
func NewSavedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage saved queries",
		Long: `Manage the library of saved queries.

Saved queries are named statements kept in the state database. Pinned
queries sort to the top of every listing, in the CLI and in the UI.`,
		Example: `  # List saved queries
  querypad saved

  # Save a statement under a name
  querypad saved save top-users "SELECT * FROM users ORDER BY score DESC LIMIT 10"

  # Save from a file, then pin it
  querypad saved save monthly-report --input report.sql
  querypad saved pin monthly-report

  # Share the library
  querypad saved export queries.yaml
  querypad saved import queries.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSavedList(cmd)
		},
	}

	cmd.AddCommand(newSavedListCommand())
	cmd.AddCommand(newSavedSaveCommand())
	cmd.AddCommand(newSavedRemoveCommand())
	cmd.AddCommand(newSavedPinCommand())
	cmd.AddCommand(newSavedExportCommand())
	cmd.AddCommand(newSavedImportCommand())

	return cmd
}

func newSavedListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved queries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSavedList(cmd)
		},
	}
}

func runSavedList(cmd *cobra.Command) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	r := cmdCtx.Renderer

	store, err := openStateStore(cmdCtx.Cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	queries, err := store.ListSavedQueries()
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(queries)
	}

	if len(queries) == 0 {
		r.Println("No saved queries yet. Add one with 'querypad saved save'.")
		return nil
	}

	snap := &core.ResultSnapshot{Columns: []string{"name", "pinned", "description", "updated_at", "query"}}
	for _, q := range queries {
		pin := ""
		if q.Pinned {
			pin = "*"
		}
		snap.Rows = append(snap.Rows, []core.Value{
			core.NewString(q.Name),
			core.NewString(pin),
			core.NewString(q.Description),
			core.NewString(q.UpdatedAt.Local().Format(time.DateTime)),
			core.NewString(collapseQuery(q.Query)),
		})
	}
	snap.RowCount = len(snap.Rows)
	return r.Render(snap)
}

// SavedSaveOptions holds options for the saved save command.
type SavedSaveOptions struct {
	Description string
	Input       string
	Force       bool
}

func newSavedSaveCommand() *cobra.Command {
	opts := &SavedSaveOptions{}

	cmd := &cobra.Command{
		Use:   "save <name> [SQL]",
		Short: "Save a query under a name",
		Long: `Save a query under a name.

The statement can come from the arguments, from a file via --input, or
from a pipe. Names are unique; pass --force to replace an existing
saved query while keeping its pin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSavedSave(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Description shown in listings")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read the statement from a file")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Replace an existing saved query")

	return cmd
}

func runSavedSave(cmd *cobra.Command, args []string, opts *SavedSaveOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	name := args[0]

	var sqlText string
	switch {
	case len(args) > 1:
		sqlText = strings.Join(args[1:], " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlText = string(content)
	case !isTerminal(os.Stdin):
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlText = string(content)
	}

	sqlText = strings.TrimSpace(sqlText)
	if sqlText == "" {
		return fmt.Errorf("no statement to save (pass SQL, --input or pipe it in)")
	}

	store, err := openStateStore(cmdCtx.Cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if existing, err := store.GetSavedQueryByName(name); err == nil {
		if !opts.Force {
			return fmt.Errorf("saved query %q already exists (use --force to replace it)", name)
		}
		existing.Query = sqlText
		if opts.Description != "" {
			existing.Description = opts.Description
		}
		if err := store.UpdateSavedQuery(existing); err != nil {
			return err
		}
		cmdCtx.Renderer.Success(fmt.Sprintf("Saved query %q updated", name))
		return nil
	}

	q := &core.SavedQuery{
		Name:        name,
		Query:       sqlText,
		Description: opts.Description,
	}
	if err := store.SaveQuery(q); err != nil {
		return err
	}

	cmdCtx.Renderer.Success(fmt.Sprintf("Saved query %q created", name))
	return nil
}

func newSavedRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rm <name>",
		Aliases:           []string{"remove"},
		Short:             "Delete a saved query",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSavedQueryNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContextWithoutEngine(cmd)

			store, err := openStateStore(cmdCtx.Cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			q, err := store.GetSavedQueryByName(args[0])
			if err != nil {
				return err
			}
			if err := store.DeleteSavedQuery(q.ID); err != nil {
				return err
			}

			cmdCtx.Renderer.Success(fmt.Sprintf("Saved query %q removed", q.Name))
			return nil
		},
	}
}

func newSavedPinCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "pin <name>",
		Short:             "Toggle the pin on a saved query",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSavedQueryNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContextWithoutEngine(cmd)

			store, err := openStateStore(cmdCtx.Cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			q, err := store.GetSavedQueryByName(args[0])
			if err != nil {
				return err
			}
			pinned, err := store.TogglePin(q.ID)
			if err != nil {
				return err
			}

			if pinned {
				cmdCtx.Renderer.Success(fmt.Sprintf("Pinned %q", q.Name))
			} else {
				cmdCtx.Renderer.Success(fmt.Sprintf("Unpinned %q", q.Name))
			}
			return nil
		},
	}
}

// savedQueryFile is the YAML document written by export and read by
// import.
type savedQueryFile struct {
	Queries []savedQueryEntry `yaml:"queries"`
}

type savedQueryEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Pinned      bool   `yaml:"pinned,omitempty"`
	Query       string `yaml:"query"`
}

func newSavedExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the saved queries as YAML",
		Long: `Write the saved queries as YAML, to a file or to stdout.

The output can be checked into a repository and loaded elsewhere with
'querypad saved import'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			return runSavedExport(cmd, target)
		},
	}
}

func runSavedExport(cmd *cobra.Command, target string) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	store, err := openStateStore(cmdCtx.Cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	queries, err := store.ListSavedQueries()
	if err != nil {
		return err
	}

	doc := savedQueryFile{}
	for _, q := range queries {
		doc.Queries = append(doc.Queries, savedQueryEntry{
			Name:        q.Name,
			Description: q.Description,
			Pinned:      q.Pinned,
			Query:       q.Query,
		})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal saved queries: %w", err)
	}

	if target == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	cmdCtx.Renderer.Success(fmt.Sprintf("Exported %d saved queries to %s", len(doc.Queries), target))
	return nil
}

func newSavedImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load saved queries from a YAML file",
		Long: `Load saved queries from a YAML file written by 'querypad saved export'.

Entries are matched by name: existing saved queries are updated in
place, new ones are created.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSavedImport(cmd, args[0])
		},
	}
}

func runSavedImport(cmd *cobra.Command, path string) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var doc savedQueryFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(doc.Queries) == 0 {
		return fmt.Errorf("%s holds no saved queries", path)
	}
	for i, entry := range doc.Queries {
		if entry.Name == "" {
			return fmt.Errorf("entry %d has no name", i+1)
		}
		if strings.TrimSpace(entry.Query) == "" {
			return fmt.Errorf("entry %q has no query", entry.Name)
		}
	}

	store, err := openStateStore(cmdCtx.Cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	created, updated := 0, 0
	for _, entry := range doc.Queries {
		if existing, err := store.GetSavedQueryByName(entry.Name); err == nil {
			existing.Query = entry.Query
			existing.Description = entry.Description
			existing.Pinned = entry.Pinned
			if err := store.UpdateSavedQuery(existing); err != nil {
				return err
			}
			updated++
			continue
		}

		q := &core.SavedQuery{
			Name:        entry.Name,
			Query:       entry.Query,
			Description: entry.Description,
			Pinned:      entry.Pinned,
		}
		if err := store.SaveQuery(q); err != nil {
			return err
		}
		created++
	}

	cmdCtx.Renderer.Success(fmt.Sprintf("Imported %d saved queries (%d created, %d updated)", created+updated, created, updated))
	return nil
}

func completeSavedQueryNames(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	store, err := openStateStore(getConfig())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer func() { _ = store.Close() }()

	queries, err := store.ListSavedQueries()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(queries))
	for _, q := range queries {
		names = append(names, q.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
