package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	// Install a signal handler for SIGINT or SIGTERM to cancel a context in
	// order to clean up and shut down gracefully if Ctrl+C is hit.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	rootCmd := newRootCommand()
	rootCmd.AddCommand(
		newGenerateCommand(ctx),
		newVerifyCommand(ctx),
		newDigestCommand(ctx),
		newDigestsCommand(ctx),
		newConfigCommand(ctx),
		newManpageCommand(ctx, rootCmd),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
