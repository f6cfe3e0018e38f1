//go:build windows

package platform

import (
	"context"
	"os"
	"os/signal"
)

// NewShutdownContext returns a context canceled on Ctrl+C (os.Interrupt).
// Console apps on Windows do not reliably receive SIGTERM, so only
// os.Interrupt is watched.
func NewShutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
