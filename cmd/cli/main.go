package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/aprxrelink/internal/app"
	"github.com/vk/aprxrelink/internal/aprx"
	"github.com/vk/aprxrelink/internal/cli"
)

// main is the entrypoint for the aprxrelink application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(context.Background(), os.Stdin, os.Stdout, os.Args[1:]); err != nil {
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
func run(ctx context.Context, in io.Reader, outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, in, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on wiring errors, so we recover here to provide a clean
	// exit message to the user.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked | %v", r)
		}
	}()

	relinkApp := app.NewApp(outW, appConfig, aprx.NewOpener())
	_, err = relinkApp.Run(ctx)
	return err
}
