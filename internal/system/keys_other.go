//go:build !linux

package system

import (
	"context"

	"github.com/rook-computer/splashpreview/internal/logging"
)

// WatchKeys is a no-op outside linux.
func WatchKeys(ctx context.Context, logger logging.Logger, onKey func(code uint16)) {
	if logger != nil {
		logger.Infof("input", "key input is only available on linux")
	}
}
