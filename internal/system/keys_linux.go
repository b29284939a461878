//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/rook-computer/splashpreview/internal/logging"
)

// WatchKeys reads every evdev device under /dev/input/event* and calls onKey
// with the code of each key press until ctx is done. onKey may be called
// from several goroutines at once.
//
// It is best-effort: if no input devices are available, it logs and returns.
func WatchKeys(ctx context.Context, logger logging.Logger, onKey func(code uint16)) {
	if onKey == nil {
		return
	}
	if logger == nil {
		logger = logging.NoopLogger{}
	}

	tvSize := int(binary.Size(unix.Timeval{}))
	if tvSize <= 0 {
		tvSize = 16
	}

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		logger.Infof("input", "no evdev devices found")
		return
	}

	for _, path := range paths {
		go watchDevice(ctx, path, tvSize, onKey)
	}
	logger.Infof("input", "watching %d input devices", len(paths))
}

func watchDevice(ctx context.Context, path string, tvSize int, onKey func(code uint16)) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		_, pollErr := unix.Poll(pollFds, 250)
		if pollErr != nil {
			if pollErr == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, readErr := unix.Read(fd, buf)
		if readErr != nil {
			if readErr == unix.EAGAIN || readErr == unix.EINTR {
				continue
			}
			return
		}
		for _, code := range parseKeyPresses(buf[:n], tvSize) {
			onKey(code)
		}
	}
}
