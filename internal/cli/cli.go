package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/aprxrelink/internal/app"
	"github.com/vk/aprxrelink/internal/config"
	"github.com/vk/aprxrelink/internal/ctxlog"
)

// ProjectPrompt is shown when no project folder was supplied.
const ProjectPrompt = "Enter one or more APRX folders (separated by semicolons): "

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

type options struct {
	configPath  string
	projects    []string
	connections []string
	logLevel    string
	logFormat   string
	report      string
}

func newCommand(opts *options, parsed *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aprxrelink [flags] [PROJECT_FOLDER...]",
		Short: "Repair broken database connections in ArcGIS Pro project files",
		Long: `aprxrelink scans folders for .aprx project files, finds layers whose data
source is broken and rebinds each one to a database connection file chosen from
the dataset name:

  names like A123_Parcels  -> the read-only capture connection
  every other name         -> the publication connection

Folders may also be given as one semicolon-separated value. When no project
folder is supplied, the folders are read from standard input.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.projects = append(opts.projects, args...)
			*parsed = true
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to an HCL run file.")
	flags.StringArrayVarP(&opts.projects, "projects", "p", nil, "Project folder to scan recursively (repeatable, semicolon-separated).")
	flags.StringArrayVar(&opts.connections, "connections", nil, "Connection file folder (repeatable, semicolon-separated). Replaces the defaults.")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.StringVar(&opts.report, "report", "", "Write a YAML run report to this path.")
	return cmd
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, in io.Reader, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var opts options
	var parsed bool
	cmd := newCommand(&opts, &parsed)
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(output)
	cmd.SetErr(output)

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if !parsed {
		// --help was handled by cobra.
		return nil, true, nil
	}
	slog.Debug("Arguments parsed successfully.")

	cfg, err := buildConfig(cmd, &opts, in, output)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", validated)
	return validated, false, nil
}

// buildConfig layers defaults, the run file and flags, in that order.
func buildConfig(cmd *cobra.Command, opts *options, in io.Reader, output io.Writer) (app.Config, error) {
	cfg := app.DefaultConfig()

	if opts.configPath != "" {
		ctx := ctxlog.WithLogger(context.Background(), slog.Default())
		file, err := config.Load(ctx, opts.configPath)
		if err != nil {
			return cfg, err
		}
		applyFile(&cfg, file)
	}

	flags := cmd.Flags()
	if folders := SplitFolders(opts.projects...); len(folders) > 0 {
		cfg.ProjectFolders = folders
	}
	if flags.Changed("connections") {
		cfg.ConnectionFolders = SplitFolders(opts.connections...)
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(opts.logLevel)
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = strings.ToLower(opts.logFormat)
	}
	if flags.Changed("report") {
		cfg.ReportPath = opts.report
	}

	if len(cfg.ProjectFolders) == 0 {
		folders, err := promptFolders(in, output)
		if err != nil {
			return cfg, err
		}
		cfg.ProjectFolders = folders
	}
	return cfg, nil
}

func applyFile(cfg *app.Config, file *config.File) {
	if len(file.ProjectFolders) > 0 {
		cfg.ProjectFolders = file.ProjectFolders
	}
	if len(file.ConnectionFolders) > 0 {
		cfg.ConnectionFolders = file.ConnectionFolders
	}
	if file.ProjectExtension != "" {
		cfg.ProjectExtension = file.ProjectExtension
	}
	if file.ConnectionExtension != "" {
		cfg.ConnectionExtension = file.ConnectionExtension
	}
	if file.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(file.LogLevel)
	}
	if file.LogFormat != "" {
		cfg.LogFormat = strings.ToLower(file.LogFormat)
	}
	if file.Report != "" {
		cfg.ReportPath = file.Report
	}
	if m := file.Matching; m != nil {
		if m.Pattern != "" {
			cfg.Rules.Pattern = m.Pattern
		}
		if m.PatternMarker != "" {
			cfg.Rules.PatternMarker = m.PatternMarker
		}
		if m.DefaultMarker != "" {
			cfg.Rules.DefaultMarker = m.DefaultMarker
		}
	}
}

// promptFolders asks once for semicolon-separated project folders.
func promptFolders(in io.Reader, output io.Writer) ([]string, error) {
	fmt.Fprint(output, ProjectPrompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading project folders: %w", err)
	}
	return SplitFolders(line), nil
}

// SplitFolders splits each value on ";" and returns the trimmed, non-empty parts.
func SplitFolders(values ...string) []string {
	var folders []string
	for _, v := range values {
		for _, part := range strings.Split(v, ";") {
			if part = strings.TrimSpace(part); part != "" {
				folders = append(folders, part)
			}
		}
	}
	return folders
}
