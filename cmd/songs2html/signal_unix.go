//go:build !windows

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// notifyContext wires Ctrl-C and SIGTERM to context cancellation so an
// interrupted conversion stops cleanly before the output is written.
// The returned stop function restores default signal handling.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
