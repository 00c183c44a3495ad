package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"bplog/internal/backend"
	"bplog/internal/config"
	"bplog/internal/core"
	"bplog/internal/log"
	"bplog/internal/report"
	"bplog/internal/services"
)

// App holds what the commands need. Zero fields are filled from the environment.
type App struct {
	Config  *config.Config
	Backend *backend.BackendResult
	Stdout  io.Writer
	Stderr  io.Writer
	Now     func() time.Time

	ownsBackend bool
}

func (a *App) init(ctx context.Context) (context.Context, error) {
	if a.Now == nil {
		a.Now = time.Now
	}
	if a.Config == nil {
		LoadEnvFile()
		cfg, err := LoadAndValidateConfig()
		if err != nil {
			return ctx, err
		}
		a.Config = cfg
	}

	logger := SetupLogger(a.Config, a.Stderr).WithComponent(log.ComponentCLI)
	ctx = log.WithLogger(ctx, logger)

	if a.Backend == nil {
		res, err := InitBackend(ctx, logger, a.Config)
		if err != nil {
			return ctx, err
		}
		a.Backend = res
		a.ownsBackend = true
	}
	return ctx, nil
}

func (a *App) close() error {
	if !a.ownsBackend {
		return nil
	}
	a.ownsBackend = false
	err := a.Backend.Close()
	a.Backend = nil
	return err
}

// NewRootCmd builds the bplog command tree.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "bplog",
		Short:         "Log blood pressure readings and export monthly PDF reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := app.init(cmd.Context())
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
	}
	root.SetOut(app.Stdout)
	root.SetErr(app.Stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &core.InvalidInputError{Field: "flag", Value: err.Error(), Reason: "not supported by this command"}
	})

	root.AddCommand(newLogCmd(app))
	root.AddCommand(newReportCmd(app))
	return root
}

func newLogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "log <systolic> <diastolic> <pulse> [M|N]",
		Short: "Record one measurement taken now",
		Long: "Record one measurement taken now. The optional last argument forces the\n" +
			"time period: M for Morning, N for Night. Without it the period is\n" +
			"inferred from the hour (before 10:00 Morning, from 18:00 Night).",
		// Readings may be negative, so "-5" must reach RunE as an argument
		DisableFlagParsing: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if wantsHelp(args) {
				return nil
			}
			if len(args) != 3 && len(args) != 4 {
				return &core.InvalidInputError{Field: "arguments", Value: fmt.Sprint(args), Reason: "expected <systolic> <diastolic> <pulse> [M|N]"}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if wantsHelp(args) {
				return cmd.Help()
			}
			reading, err := core.ParseReading(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			override := core.PeriodUnset
			if len(args) == 4 {
				if override, err = core.ParseTimePeriod(args[3]); err != nil {
					return err
				}
				if override == core.PeriodUnset {
					return &core.InvalidInputError{Field: "time_period", Value: args[3], Reason: "must be 'M' for Morning or 'N' for Night"}
				}
			}

			recorder := services.NewRecorder(app.Backend.Backend, app.Backend.Publisher).WithClock(app.nowIn)
			m, err := recorder.Record(cmd.Context(), reading, override)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded: %s - %d/%d, Pulse: %d (%s)\n",
				m.Timestamp.Format(core.TimestampLayout), m.Systolic, m.Diastolic, m.Pulse, m.Period)
			return nil
		},
	}
}

func newReportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "report [YYYYMM]",
		Short: "Export the measurements of one month as a PDF",
		Long:  "Export the measurements of one month as a PDF. Defaults to the current month.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return &core.InvalidInputError{Field: "arguments", Value: fmt.Sprint(args), Reason: "expected at most one YYYYMM argument"}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			now := app.nowIn()
			year, month := now.Year(), int(now.Month())
			if len(args) == 1 {
				var err error
				if year, month, err = core.ParseYearMonth(args[0]); err != nil {
					return err
				}
			}

			cfg := app.Config
			reporter := services.NewReporter(app.Backend.Backend, services.ReporterConfig{
				OutputPath: cfg.ReportOutputPath,
				Labels:     report.LabelsFor(cfg.ReportLocale),
				Renderer:   report.PDFRenderer{FontPath: cfg.ReportFontPath},
				Location:   cfg.Location,
			}).WithClock(app.nowIn)

			res, err := reporter.Export(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "PDF saved as: %s\n", res.Path)
			return nil
		},
	}
}

func wantsHelp(args []string) bool {
	return len(args) == 1 && (args[0] == "-h" || args[0] == "--help")
}

func (a *App) nowIn() time.Time {
	loc := time.Local
	if a.Config != nil && a.Config.Location != nil {
		loc = a.Config.Location
	}
	return a.Now().In(loc)
}

// Execute runs the command line and returns the process exit code. Invalid
// input prints the message and the usage of the failing command.
func Execute(app *App, args []string) int {
	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}

	root := NewRootCmd(app)
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(context.Background())
	if err == nil {
		return 0
	}
	// Close also when RunE failed, PersistentPostRunE only runs on success
	if cerr := app.close(); cerr != nil {
		fmt.Fprintln(app.Stderr, "Error:", cerr)
	}

	var inv *core.InvalidInputError
	if errors.As(err, &inv) || cmd == root {
		fmt.Fprintln(app.Stderr, "Error:", err)
		fmt.Fprint(app.Stderr, cmd.UsageString())
		return 1
	}

	fmt.Fprintln(app.Stderr, "Error:", err)
	return 1
}
