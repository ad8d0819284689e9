package mcpexec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Process exit codes reported by Run.
const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitInterrupted = 130
)

// closeTimeout bounds the final teardown so a wedged server process cannot
// hold the exit hostage.
const closeTimeout = 10 * time.Second

// Script is the caller-supplied body executed under the harness.
type Script func(ctx context.Context, rt *Runtime) error

// Run executes a script with a fully wired Runtime and returns the process
// exit code. No connections exist before the script's first invocation.
//
// An interrupt (SIGINT) cancels the script's context and allows in-flight
// work the configured grace period before shutdown is forced; SIGTERM shuts
// down immediately. Every live session is closed before Run returns, no
// matter how the script ended.
func Run(ctx context.Context, cfg *Config, opts *Options, script Script) int {
	o := opts.normalized()
	rt := NewRuntime(cfg, &o)
	return runWith(ctx, rt, &o, script)
}

func runWith(ctx context.Context, rt *Runtime, opts *Options, script Script) int {
	logger := opts.Logger

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("mcpexec: script panic: %v", r)
			}
		}()
		done <- script(runCtx, rt)
	}()

	code := ExitSuccess
	select {
	case err := <-done:
		code = exitCodeFor(err)
		if err != nil {
			logger.Error("script failed", "error", err)
		}
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
		grace := opts.GracePeriod
		if sig == syscall.SIGTERM {
			grace = 0
		}
		if grace > 0 {
			timer := time.NewTimer(grace)
			select {
			case <-done:
			case <-timer.C:
				logger.Warn("grace period elapsed, forcing shutdown")
			case <-sigCh:
				logger.Warn("second signal, forcing shutdown")
			}
			timer.Stop()
		}
		code = ExitInterrupted
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), closeTimeout)
	defer closeCancel()
	rt.Close(closeCtx)

	return code
}

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitError
	}
}
