package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/gridrelax/internal/app"
	"github.com/vk/gridrelax/internal/cli"
	"github.com/vk/gridrelax/internal/config"
	"github.com/vk/gridrelax/internal/fault"
	"github.com/vk/gridrelax/internal/hcl"
	"github.com/vk/gridrelax/internal/yamlcfg"
)

// main is the entrypoint for the gridrelax application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		os.Exit(report(os.Stderr, err))
	}
}

// report prints err and returns the process exit code for it.
func report(errW io.Writer, err error) int {
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		if !exitErr.Printed {
			fmt.Fprintln(errW, exitErr.Message)
		}
		return exitErr.Code
	}
	fmt.Fprintf(errW, "gridrelax: %v\n", err)
	if errors.Is(err, fault.InvalidConfiguration) {
		return 2
	}
	return 1
}

// settingsLoader dispatches settings files to the HCL or YAML decoder.
func settingsLoader() config.Loader {
	yaml := yamlcfg.NewDecoder()
	return config.ByExtension{
		".hcl":  hcl.NewDecoder(),
		".yaml": yaml,
		".yml":  yaml,
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, errW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	gridApp, err := app.NewApp(outW, errW, appConfig, settingsLoader())
	if err != nil {
		return err
	}
	return gridApp.Run(context.Background())
}
