package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/burstdsl/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("burstdsl", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
burstdsl - Evaluates trading formulas over live data feeds.

Usage:
  burstdsl [options] [FORMULA_PATH...]
  burstdsl -e EXPRESSION
  burstdsl -docs [-docs-format json|hcl]

Arguments:
  FORMULA_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	formulasFlag := flagSet.String("formulas", "", "Path to the formula file or directory.")
	fFlag := flagSet.String("f", "", "Path to the formula file or directory (shorthand).")
	exprFlag := flagSet.String("e", "", "Evaluate a single expression and print it as 'result'.")
	docsFlag := flagSet.Bool("docs", false, "Print the documentation of every operator and exit.")
	docsFormatFlag := flagSet.String("docs-format", "json", "Documentation format. Options: 'json' or 'hcl'.")
	intervalFlag := flagSet.Duration("interval", 0, "Re-evaluate every interval until interrupted, e.g. 5s. 0 evaluates once.")
	librariesFlag := flagSet.String("libraries", "", "Comma-separated operator libraries available to formulas that do not name their own.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	if *formulasFlag != "" {
		paths = append(paths, *formulasFlag)
	}
	if *fFlag != "" {
		paths = append(paths, *fFlag)
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Formula paths determined.", "paths", paths)

	if len(paths) == 0 && *exprFlag == "" && !*docsFlag {
		slog.Debug("Nothing to evaluate, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	var libraries []string
	for _, lib := range strings.Split(*librariesFlag, ",") {
		if lib = strings.TrimSpace(lib); lib != "" {
			libraries = append(libraries, lib)
		}
	}

	config, err := app.NewConfig(app.Config{
		FormulaPaths:    paths,
		Expression:      *exprFlag,
		Libraries:       libraries,
		Interval:        *intervalFlag,
		Docs:            *docsFlag,
		DocsFormat:      strings.ToLower(*docsFormatFlag),
		HealthcheckPort: *healthPortFlag,
		LogFormat:       strings.ToLower(*logFormatFlag),
		LogLevel:        strings.ToLower(*logLevelFlag),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
