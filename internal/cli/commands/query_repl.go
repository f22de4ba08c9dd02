package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/querypad/querypad/internal/cli/output"
	"github.com/querypad/querypad/internal/engine"
	"github.com/querypad/querypad/internal/workspace"
)

const replPrompt = "querypad> "
const replContinuation = "     ...> "

// replSession holds the state a REPL mutates as it runs: the engine it
// talks to and the renderer, which .format swaps out.
type replSession struct {
	eng      *engine.Engine
	renderer *output.Renderer
	cmd      *cobra.Command
}

func runQueryREPL(cmd *cobra.Command, cmdCtx *CommandContext, r *output.Renderer) error {
	ctx := cmd.Context()
	eng := cmdCtx.Engine

	// Dial eagerly so a bad connection fails here, not at the first
	// statement.
	connMsg, err := eng.TestConnection(ctx)
	if err != nil {
		return err
	}
	rememberConnection(cmdCtx.Logger, eng.Connection().Name)

	// History lives in the app directory and survives sessions.
	historyFile := ""
	if _, err := workspace.EnsureDir(); err == nil {
		historyFile, _ = workspace.ReplHistoryPath()
	}

	// Get table names for completion
	completer := newTableCompleter(ctx, eng)

	// Configure readline
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// Print welcome message
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "querypad (%s)\n", connMsg)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	session := &replSession{eng: eng, renderer: r, cmd: cmd}

	// REPL loop
	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Handle dot-commands
		if strings.HasPrefix(line, ".") {
			if handled := session.handleDotCommand(ctx, line); handled {
				if line == ".quit" || line == ".exit" {
					break
				}
				continue
			}
		}

		// Accumulate multi-line SQL until semicolon
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString(" ")
			rl.SetPrompt(replContinuation)
			continue
		}
		rl.SetPrompt(replPrompt)

		// Execute statement
		query := strings.TrimSuffix(multiLineBuffer.String(), ";")
		multiLineBuffer.Reset()

		if err := session.execute(ctx, query); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

func (s *replSession) execute(ctx context.Context, query string) error {
	snap, err := s.eng.Execute(ctx, query)
	if err != nil {
		return err
	}
	return s.renderer.Render(snap)
}

func (s *replSession) handleDotCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	out := s.cmd.OutOrStdout()
	errOut := s.cmd.ErrOrStderr()

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(out)
		return true

	case ".tables":
		if err := s.listTables(ctx); err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		}
		return true

	case ".schema":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(errOut, "Usage: .schema <table>")
			return true
		}
		if err := s.showSchema(ctx, parts[1]); err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		}
		return true

	case ".format":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(out, "Current format: %s\n", s.renderer.EffectiveMode())
			return true
		}
		mode := output.Mode(parts[1])
		switch mode {
		case output.ModeText, output.ModeJSON, output.ModeCSV, output.ModeMarkdown, "md":
			s.renderer = output.NewRenderer(out, errOut, mode)
		default:
			_, _ = fmt.Fprintf(errOut, "Unknown format: %s (text, json, csv, markdown)\n", parts[1])
		}
		return true

	case ".connection":
		conn := s.eng.Connection()
		_, _ = fmt.Fprintf(out, "%s (%s)\n", conn.Name, conn.Type)
		return true

	case ".clear":
		fmt.Print("\033[H\033[2J")
		return true

	default:
		_, _ = fmt.Fprintf(errOut, "Unknown command: %s (type .help for commands)\n", command)
		return true
	}
}

func (s *replSession) listTables(ctx context.Context) error {
	tables, err := s.eng.ListTables(ctx)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		_, _ = fmt.Fprintln(s.cmd.OutOrStdout(), "(no tables)")
		return nil
	}
	for _, table := range tables {
		_, _ = fmt.Fprintln(s.cmd.OutOrStdout(), table)
	}
	return nil
}

func (s *replSession) showSchema(ctx context.Context, table string) error {
	meta, err := s.eng.TableMetadata(ctx, table)
	if err != nil {
		return err
	}
	return s.renderer.RenderMetadata(meta)
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .tables          List tables in the connected database
  .schema <name>   Show schema for a table
  .format [mode]   Show or set the output format (text, json, csv, markdown)
  .connection      Show the active connection
  .clear           Clear the screen
  .quit / .exit    Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}

// newTableCompleter creates a readline completer for table names.
func newTableCompleter(ctx context.Context, eng *engine.Engine) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface

	// Table names are best effort; completion still works without them.
	if tables, err := eng.ListTables(ctx); err == nil {
		for _, table := range tables {
			items = append(items, readline.PcItem(table))
		}
	}

	// Add dot-commands
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".schema"),
		readline.PcItem(".format",
			readline.PcItem("text"),
			readline.PcItem("json"),
			readline.PcItem("csv"),
			readline.PcItem("markdown"),
		),
		readline.PcItem(".connection"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
