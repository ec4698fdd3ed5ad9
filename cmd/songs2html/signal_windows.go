//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// notifyContext wires Ctrl-C to context cancellation so an interrupted
// conversion stops cleanly before the output is written. Windows has no
// SIGTERM, so only os.Interrupt is watched.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
