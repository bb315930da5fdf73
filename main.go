package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sirkon/csense/internal/config"
	"github.com/sirkon/csense/internal/csense"
	"github.com/sirkon/csense/internal/csrules"
	"github.com/sirkon/csense/internal/report"
	"github.com/sirkon/csense/internal/symdump"
)

const doc = `csense checks documentation comments of declarations against their signatures and bodies`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the exit status:
// 0 for success, 1 for findings at or above the failure severity, 2 for errors.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFindings):
		return 1
	default:
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "csense",
		Short:         "Documentation comment checker",
		Long:          doc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./"+config.DefaultConfigFile+")")

	root.AddCommand(newCheckCmd(&cfgFile, stdout, stderr))
	root.AddCommand(newFixCmd(&cfgFile, stdout, stderr))
	root.AddCommand(newRulesCmd(stdout))

	return root
}

// addAnalysisFlags registers flags shared by commands running the analysis.
func addAnalysisFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Int("jobs", 0, "number of declarations analyzed concurrently, 0 means no limit")
	flags.String("format", config.DefaultFormat, "output format: text or json")
	flags.BoolP("verbose", "v", false, "log debug messages")
	flags.Bool("analyze-internal", false, "analyze non-public declarations too")
	flags.StringSlice("low-quality-terms", nil, "phrases making documentation low quality")
	flags.StringSlice("ignored-exceptions", nil, "exception types never demanded to be documented")
}

// session is a configured analysis run.
type session struct {
	settings *config.Settings
	format   Format
	log      *slog.Logger
}

// analyzer returns an analyzer for a single dump. Options are memoized per unit ID
// and dumps may share IDs, so every dump gets its own.
func (s *session) analyzer() *csense.Analyzer {
	return &csense.Analyzer{Jobs: s.settings.Jobs, Overrides: s.settings.Options}
}

func newSession(cmd *cobra.Command, cfgFile string, stderr io.Writer) (*session, error) {
	settings, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	var format Format
	if err := format.UnmarshalText([]byte(settings.Format)); err != nil {
		return nil, err
	}

	log := newLogger(stderr, settings.Verbose)
	slog.SetDefault(log)
	if settings.File != "" {
		log.Debug("using config file", slog.String("path", settings.File))
	}

	return &session{
		settings: settings,
		format:   format,
		log:      log,
	}, nil
}

func newCheckCmd(cfgFile *string, stdout, stderr io.Writer) *cobra.Command {
	var failOn string

	cmd := &cobra.Command{
		Use:   "check [flags] dump.yaml...",
		Short: "Check declarations of symbol dumps",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var threshold csrules.Severity
			if err := threshold.UnmarshalText([]byte(failOn)); err != nil {
				return fmt.Errorf("parse --fail-on: %w", err)
			}

			s, err := newSession(cmd, *cfgFile, stderr)
			if err != nil {
				return err
			}

			var results []unitResult
			for _, path := range args {
				unit, err := symdump.Load(path)
				if err != nil {
					return err
				}

				s.log.Debug("analyze unit", slog.String("unit", unit.ID()), slog.Int("declarations", len(unit.Declarations())))
				findings, err := s.analyzer().Run(cmd.Context(), unit)
				if err != nil {
					return fmt.Errorf("check %s: %w", path, err)
				}
				results = append(results, unitResult{path: path, unit: unit.ID(), findings: findings})
			}

			switch s.format {
			case FormatJSON:
				err = renderJSON(stdout, results)
			default:
				err = renderText(stdout, results, colored(stdout))
			}
			if err != nil {
				return fmt.Errorf("render findings: %w", err)
			}

			return abandon(results, threshold)
		},
	}
	addAnalysisFlags(cmd)
	cmd.Flags().StringVar(&failOn, "fail-on", csrules.SeverityError.String(), "lowest severity failing the run: info, warning, error or none")

	return cmd
}

func newFixCmd(cfgFile *string, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] dump.yaml...",
		Short: "Show automated fixes of findings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, *cfgFile, stderr)
			if err != nil {
				return err
			}

			var results []fixResult
			for _, path := range args {
				unit, err := symdump.Load(path)
				if err != nil {
					return err
				}

				fs, err := s.analyzer().Fixes(cmd.Context(), unit)
				if err != nil {
					return fmt.Errorf("fix %s: %w", path, err)
				}
				results = append(results, fixResult{unit: unit.ID(), fixes: fs})
			}

			switch s.format {
			case FormatJSON:
				return renderFixesJSON(stdout, results)
			default:
				return renderFixesText(stdout, results)
			}
		},
	}
	addAnalysisFlags(cmd)

	return cmd
}

func newRulesCmd(stdout io.Writer) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var f Format
			if err := f.UnmarshalText([]byte(format)); err != nil {
				return err
			}

			switch f {
			case FormatJSON:
				return renderRulesJSON(stdout, csrules.All())
			default:
				renderRulesTable(stdout, csrules.All())
				return nil
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", config.DefaultFormat, "output format: text or json")

	return cmd
}

// colored checks if the output goes to a terminal that takes colours.
func colored(w io.Writer) bool {
	return w == os.Stdout && !color.NoColor
}

// unitResult is findings of a single analyzed dump.
type unitResult struct {
	path     string
	unit     string
	findings []report.Finding
}

// fixResult is fixes planned for a single dump.
type fixResult struct {
	unit  string
	fixes []csense.Fix
}
