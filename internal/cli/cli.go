package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vk/gridrelax/internal/app"
	"github.com/vk/gridrelax/internal/barrier"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	// Printed is set when Message was already written to the parser output.
	Printed bool
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// once is a string flag that may be given at most one time.
type once struct {
	name  string
	value string
	set   bool
}

func (o *once) String() string {
	if o == nil {
		return ""
	}
	return o.value
}

func (o *once) Set(s string) error {
	if o.set {
		return fmt.Errorf("duplicate option --%s", o.name)
	}
	o.value, o.set = s, true
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("gridrelax", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
gridrelax - parallel Jacobi relaxation over a rectangular grid.

Usage:
  gridrelax --barrier N --input FILE --output FILE --subtasks N [options]

Barriers:
  0  tree (combining tree)
  1  cond (mutex and condition variable)
  2  native (runtime channel broadcast)

On success a single line "iterations,wall_ms,cpu_ms" is printed to stdout.

Options:
`)
		flagSet.PrintDefaults()
	}

	barrierFlag := &once{name: "barrier"}
	inputFlag := &once{name: "input"}
	outputFlag := &once{name: "output"}
	subtasksFlag := &once{name: "subtasks"}
	configFlag := &once{name: "config"}
	logLevelFlag := &once{name: "log-level"}
	logFormatFlag := &once{name: "log-format"}

	flagSet.Var(barrierFlag, "barrier", "Barrier implementation: 0 tree, 1 cond, 2 native. Required.")
	flagSet.Var(inputFlag, "input", "Path of the initial grid file. Required.")
	flagSet.Var(outputFlag, "output", "Path the relaxed grid is written to. Required.")
	flagSet.Var(subtasksFlag, "subtasks", "Number of worker goroutines. Required.")
	flagSet.Var(configFlag, "config", "Optional settings file (.hcl, .yaml or .yml).")
	flagSet.Var(logLevelFlag, "log-level", "Logging level: 'debug', 'info', 'warn', 'error'. Overrides the settings file.")
	flagSet.Var(logFormatFlag, "log-format", "Log output format: 'text' or 'json'. Overrides the settings file.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		// The flag package has already printed the error and the usage.
		exitErr := usageError("%s", err.Error())
		exitErr.Printed = true
		return nil, false, exitErr
	}
	if flagSet.NArg() > 0 {
		flagSet.Usage()
		return nil, false, usageError("unexpected argument %q", flagSet.Arg(0))
	}

	for _, required := range []*once{barrierFlag, inputFlag, outputFlag, subtasksFlag} {
		if !required.set {
			flagSet.Usage()
			return nil, false, usageError("missing mandatory option --%s", required.name)
		}
	}

	tag, err := strconv.Atoi(barrierFlag.value)
	if err != nil {
		return nil, false, usageError("invalid barrier %q: must be 0, 1 or 2", barrierFlag.value)
	}
	kind, err := barrier.ParseKind(tag)
	if err != nil {
		return nil, false, usageError("invalid barrier %q: must be 0, 1 or 2", barrierFlag.value)
	}

	subtasks, err := strconv.Atoi(subtasksFlag.value)
	if err != nil || subtasks < 1 {
		return nil, false, usageError("invalid subtasks %q: must be a positive integer", subtasksFlag.value)
	}

	logLevel := strings.ToLower(logLevelFlag.value)
	switch logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	logFormat := strings.ToLower(logFormatFlag.value)
	if logFormat != "" && logFormat != "text" && logFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	config, err := app.NewConfig(app.Config{
		Barrier:      kind,
		Input:        inputFlag.value,
		Output:       outputFlag.value,
		Subtasks:     subtasks,
		SettingsPath: configFlag.value,
		LogLevel:     logLevel,
		LogFormat:    logFormat,
	})
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}
	return config, false, nil
}
