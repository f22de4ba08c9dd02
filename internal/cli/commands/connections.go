package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/querypad/querypad/internal/cli/output"
	"github.com/querypad/querypad/internal/workspace"
	"github.com/querypad/querypad/pkg/adapter"
	"github.com/querypad/querypad/pkg/core"
)

// NewConnectionsCommand creates the connections command group.
func NewConnectionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "connections",
		Aliases: []string{"conn"},
		Short:   "Manage saved database connections",
		Long: `Manage the library of saved database connections.

Connections are stored in the app directory. Passwords never land in
that file; they go to the system keyring instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConnectionsList(cmd)
		},
	}

	cmd.AddCommand(newConnectionsListCommand())
	cmd.AddCommand(newConnectionsAddCommand())
	cmd.AddCommand(newConnectionsRemoveCommand())
	cmd.AddCommand(newConnectionsTestCommand())

	return cmd
}

func newConnectionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved connections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConnectionsList(cmd)
		},
	}
}

func runConnectionsList(cmd *cobra.Command) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	r := cmdCtx.Renderer

	conns, err := workspace.LoadConnections()
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(conns)
	}

	if len(conns) == 0 {
		r.Println("No connections saved. Add one with 'querypad connections add'.")
		return nil
	}

	settings, _ := workspace.LoadSettings()

	snap := &core.ResultSnapshot{Columns: []string{"name", "type", "target", "last"}}
	for _, conn := range conns {
		last := ""
		if settings != nil && settings.LastConnection == conn.Name {
			last = "*"
		}
		snap.Rows = append(snap.Rows, []core.Value{
			core.NewString(conn.Name),
			core.NewString(conn.Type),
			core.NewString(connectionTarget(conn)),
			core.NewString(last),
		})
	}
	snap.RowCount = len(snap.Rows)
	return r.Render(snap)
}

// connectionTarget is the short human description of where a
// connection points.
func connectionTarget(conn core.ConnectionConfig) string {
	if conn.Path != "" {
		return conn.Path
	}
	if conn.Host != "" {
		target := conn.Host
		if conn.Port != 0 {
			target = fmt.Sprintf("%s:%d", conn.Host, conn.Port)
		}
		if conn.Database != "" {
			target += "/" + conn.Database
		}
		return target
	}
	return conn.Database
}

func newConnectionsAddCommand() *cobra.Command {
	conn := core.ConnectionConfig{}
	var password string
	var options map[string]string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or replace a connection",
		Example: `  # Local SQLite file
  querypad connections add local --type sqlite --path ./app.db

  # Network database; the password goes to the system keyring
  querypad connections add prod --type postgres --host db.internal --port 5432 \
    --database app --username readonly --password s3cret`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContextWithoutEngine(cmd)
			conn.Name = args[0]
			conn.Options = options

			if !adapterRegistered(conn.Type) {
				return fmt.Errorf("unknown connection type %q (have: %s)", conn.Type, strings.Join(adapter.ListAdapters(), ", "))
			}
			if conn.Path == "" && conn.Host == "" {
				return fmt.Errorf("connection needs --path or --host")
			}

			if err := workspace.AddConnection(conn); err != nil {
				return err
			}

			if password != "" {
				secrets, err := workspace.OpenSecrets()
				if err != nil {
					return fmt.Errorf("connection saved but keyring unavailable: %w", err)
				}
				if err := secrets.SetPassword(conn.Name, password); err != nil {
					return fmt.Errorf("connection saved but storing password failed: %w", err)
				}
			}

			cmdCtx.Renderer.Success(fmt.Sprintf("Connection %q saved", conn.Name))
			return nil
		},
	}

	cmd.Flags().StringVarP(&conn.Type, "type", "t", "sqlite", "Connection type")
	cmd.Flags().StringVar(&conn.Path, "path", "", "Database file path (file-backed databases)")
	cmd.Flags().StringVarP(&conn.Host, "host", "H", "", "Server host")
	cmd.Flags().IntVarP(&conn.Port, "port", "p", 0, "Server port")
	cmd.Flags().StringVarP(&conn.Database, "database", "d", "", "Database name")
	cmd.Flags().StringVarP(&conn.Username, "username", "u", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password (stored in the system keyring)")
	cmd.Flags().StringVar(&conn.Schema, "schema", "", "Default schema")
	cmd.Flags().StringToStringVar(&options, "option", nil, "Driver option as key=value (repeatable)")

	_ = cmd.RegisterFlagCompletionFunc("type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return adapter.ListAdapters(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func adapterRegistered(name string) bool {
	for _, known := range adapter.ListAdapters() {
		if known == name {
			return true
		}
	}
	return false
}

func newConnectionsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "remove <name>",
		Aliases:           []string{"rm"},
		Short:             "Remove a connection",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeConnectionNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContextWithoutEngine(cmd)
			name := args[0]

			if err := workspace.RemoveConnection(name); err != nil {
				return err
			}

			// Drop the keyring entry too; a missing one is fine.
			if secrets, err := workspace.OpenSecrets(); err == nil {
				_ = secrets.DeletePassword(name)
			}

			cmdCtx.Renderer.Success(fmt.Sprintf("Connection %q removed", name))
			return nil
		},
	}
}

func newConnectionsTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "test [name]",
		Short:             "Test a connection by dialing it",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeConnectionNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContextWithoutEngine(cmd)
			r := cmdCtx.Renderer

			cfg := *cmdCtx.Cfg
			if len(args) == 1 {
				cfg.Connection = args[0]
			}

			conn, err := ResolveConnection(&cfg)
			if err != nil {
				return err
			}

			eng, err := createEngine(&cfg, conn, cmdCtx.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = eng.Close() }()

			var spinner *output.Spinner
			if r.EffectiveMode() == output.ModeText {
				spinner = r.NewSpinner(fmt.Sprintf("Connecting to %s...", conn.Name))
				spinner.Start()
			}

			msg, err := eng.TestConnection(cmd.Context())
			if err != nil {
				if spinner != nil {
					spinner.Fail("Connection failed")
				}
				return err
			}

			if spinner != nil {
				spinner.Success(msg)
			} else {
				r.Success(msg)
			}
			return nil
		},
	}
}

func completeConnectionNames(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	conns, err := workspace.LoadConnections()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(conns))
	for _, conn := range conns {
		names = append(names, conn.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
