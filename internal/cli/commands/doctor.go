package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/99designs/keyring"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/querypad/querypad/internal/cli/output"
	"github.com/querypad/querypad/internal/config"
	"github.com/querypad/querypad/internal/workspace"
	"github.com/querypad/querypad/pkg/adapter"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the querypad environment",
		Long: `Check the querypad environment for problems.

The doctor command verifies everything querypad needs outside the
database itself: the app directory, the state database, the system
keyring, the registered adapters and the clipboard provider. It does
not dial any connection.`,
		Example: `  # Run the environment check
  querypad doctor

  # Machine readable
  querypad doctor --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Checks  []HealthCheck `json:"checks"`
	Healthy bool          `json:"healthy"`
}

// HealthCheck represents a single environment check result.
type HealthCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "pass", "warn", "fail"
	Detail string `json:"detail,omitempty"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	doctorOutput := buildDoctorOutput(cmdCtx.Cfg)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(doctorOutput)
	}
	return renderDoctorText(r, doctorOutput)
}

func buildDoctorOutput(cfg *config.Config) *DoctorOutput {
	checks := []HealthCheck{
		checkAppDir(),
		checkStateDB(cfg),
		checkKeyring(),
		checkAdapters(),
		checkClipboard(),
	}

	healthy := true
	for _, check := range checks {
		if check.Status == "fail" {
			healthy = false
		}
	}

	return &DoctorOutput{Checks: checks, Healthy: healthy}
}

// checkAppDir verifies the app directory exists and takes writes.
func checkAppDir() HealthCheck {
	check := HealthCheck{Name: "app directory"}

	dir, err := workspace.EnsureDir()
	if err != nil {
		check.Status = "fail"
		check.Detail = err.Error()
		return check
	}

	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		check.Status = "fail"
		check.Detail = fmt.Sprintf("%s is not writable: %v", dir, err)
		return check
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())

	check.Status = "pass"
	check.Detail = dir
	return check
}

// checkStateDB opens the state database the same way the commands do.
func checkStateDB(cfg *config.Config) HealthCheck {
	check := HealthCheck{Name: "state database"}

	store, err := openStateStore(cfg)
	if err != nil {
		check.Status = "fail"
		check.Detail = err.Error()
		return check
	}
	_ = store.Close()

	check.Status = "pass"
	check.Detail = cfg.StatePath
	return check
}

func checkKeyring() HealthCheck {
	check := HealthCheck{Name: "keyring"}

	if _, err := workspace.OpenSecrets(); err != nil {
		check.Status = "fail"
		check.Detail = err.Error()
		return check
	}

	backends := keyring.AvailableBackends()
	names := make([]string, 0, len(backends))
	for _, backend := range backends {
		names = append(names, string(backend))
	}

	check.Status = "pass"
	check.Detail = "backends: " + strings.Join(names, ", ")
	return check
}

func checkAdapters() HealthCheck {
	check := HealthCheck{Name: "database adapters"}

	names := adapter.ListAdapters()
	if len(names) == 0 {
		check.Status = "fail"
		check.Detail = "no adapters registered"
		return check
	}

	check.Status = "pass"
	check.Detail = strings.Join(names, ", ")
	return check
}

func checkClipboard() HealthCheck {
	check := HealthCheck{Name: "clipboard"}

	if clipboard.Unsupported {
		check.Status = "warn"
		check.Detail = "no clipboard provider found (install xclip, xsel or wl-clipboard); exports still work"
		return check
	}

	check.Status = "pass"
	check.Detail = "clipboard provider available"
	return check
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()
	titleCaser := cases.Title(language.English)

	r.Println("")
	r.Println(styles.Header1.Render("querypad Environment Check"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 40)))
	r.Println("")

	for _, check := range out.Checks {
		icon := styles.StatusSuccess.String()
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "fail":
			icon = styles.StatusFailed.String()
		}

		line := fmt.Sprintf("%s %s", icon, titleCaser.String(check.Name))
		if check.Detail != "" {
			line += ": " + check.Detail
		}
		r.Println("   " + line)
	}
	r.Println("")

	if out.Healthy {
		r.Success("Environment looks healthy")
	} else {
		r.Error("Environment has problems")
	}
	return nil
}
