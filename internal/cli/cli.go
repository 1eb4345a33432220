package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/devicefarm/internal/app"
	"github.com/specialistvlad/devicefarm/internal/monitor"
	"github.com/specialistvlad/devicefarm/internal/testdroid"
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

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("devicefarm", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
devicefarm - runs a recipe of actions against a remote device farm.

Usage:
  devicefarm [options] [RECIPE_PATH]

Arguments:
  RECIPE_PATH
    Path to a recipe file (.hcl, .yaml, .yml or .json).

Credentials come from TESTDROID_URL, TESTDROID_USERNAME, TESTDROID_PASSWORD
and TESTDROID_APIKEY, then the credentials file, then TESTDROID_* keys in the
recipe's project block.

Options:
`)
		flagSet.PrintDefaults()
	}

	recipeFlag := flagSet.String("recipe", "", "Path to the recipe file.")
	rFlag := flagSet.String("r", "", "Path to the recipe file (shorthand).")
	credsFlag := flagSet.String("credentials", "", "Optional credentials file (.toml, .yaml or .yml).")
	cFlag := flagSet.String("c", "", "Optional credentials file (shorthand).")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	verboseFlag := flagSet.Bool("v", false, "Verbose output; same as -log-level=debug.")
	quietFlag := flagSet.Bool("q", false, "Quiet output; same as -log-level=warn.")
	pollIntervalFlag := flagSet.Duration("poll-interval", monitor.DefaultInterval, "Default polling interval for await_completion.")
	pollTimeoutFlag := flagSet.Duration("poll-timeout", monitor.DefaultTimeout, "Default timeout for await_completion.")
	requestTimeoutFlag := flagSet.Duration("request-timeout", testdroid.DefaultTimeout, "Timeout for a single request to the farm.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := firstNonEmpty(*recipeFlag, *rFlag)
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if flagSet.NArg() > 1 {
		return nil, false, usageError("unexpected arguments: %s", strings.Join(flagSet.Args()[1:], " "))
	}
	if path == "" {
		slog.Debug("No recipe path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch {
	case *verboseFlag && *quietFlag:
		return nil, false, usageError("-v and -q cannot be used together")
	case *verboseFlag:
		logLevel = "debug"
	case *quietFlag:
		logLevel = "warn"
	}
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	if *pollIntervalFlag <= 0 {
		return nil, false, usageError("poll-interval must be positive, got %s", *pollIntervalFlag)
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		RecipePath:      path,
		CredentialsPath: firstNonEmpty(*credsFlag, *cFlag),
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		PollInterval:    *pollIntervalFlag,
		PollTimeout:     *pollTimeoutFlag,
		RequestTimeout:  *requestTimeoutFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
