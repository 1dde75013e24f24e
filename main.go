package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"prosupload/internal/app"
	"prosupload/internal/kernel"
	"prosupload/internal/model"
	"prosupload/internal/proc"
)

func main() {
	// Interrupts are forwarded to whichever tool currently holds the
	// terminal; pros-upload itself keeps running until that tool exits.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error determining working directory: %v\n", err)
		return model.ExitFailure
	}

	a := &app.App{
		Dir:            dir,
		Getenv:         os.Getenv,
		Runner:         proc.Exec{},
		Stdin:          os.Stdin,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		KernelReleases: kernel.Releases(),
	}
	return a.Run(ctx, args)
}
