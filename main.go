// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"glitch/cmd"
	"glitch/internal/log"
	"glitch/pkg/build"
)

func main() {
	// Development builds carry no ldflags; that is worth a debug line, not
	// a failure.
	if err := build.Initialize(); err != nil {
		log.Debugf("build info incomplete: %v", err)
	}

	// Interrupts stop playback; processing itself is not interruptible.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cmd.Execute(ctx, os.Args[1:], os.Stdout)
	stop()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		log.Errorf("%v", err)
	}
	os.Exit(cmd.ExitCode(err))
}
