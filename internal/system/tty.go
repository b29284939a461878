package system

import "github.com/rook-computer/splashpreview/internal/logging"

// EnterGraphicsConsole hides the text console behind the framebuffer and
// returns a func that brings it back. Failures are logged, never fatal.
func EnterGraphicsConsole(l logging.Logger) (restore func()) {
	if l == nil {
		l = logging.NoopLogger{}
	}
	logStep(l, "KD_GRAPHICS set", "KD_GRAPHICS failed", SetGraphicsMode())
	logStep(l, "cursor hidden", "hide cursor failed", HideCursor())
	return func() {
		logStep(l, "cursor shown", "show cursor failed", ShowCursor())
		logStep(l, "KD_TEXT set", "KD_TEXT failed", RestoreTextMode())
	}
}

func logStep(l logging.Logger, ok, failed string, err error) {
	if err != nil {
		l.Errorf("tty", "%s: %v", failed, err)
		return
	}
	l.Infof("tty", "%s", ok)
}
