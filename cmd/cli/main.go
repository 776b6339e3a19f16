package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/etreport/internal/app"
	"github.com/specialistvlad/etreport/internal/cli"
	"github.com/specialistvlad/etreport/internal/hcl"
)

// main is the entrypoint for the etreport application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// A reader closing stdout early surfaces as EPIPE from Write instead of
	// killing the process.
	signal.Ignore(syscall.SIGPIPE)

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, errW io.Writer, args []string) error {
	// Instantiate the concrete HCL loader for the settings file.
	appConfig, shouldExit, err := cli.Parse(args, outW, hcl.NewLoader())
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	etreportApp, err := app.NewApp(outW, errW, appConfig)
	if err != nil {
		return err
	}
	return etreportApp.Run(context.Background())
}
