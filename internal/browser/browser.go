package browser

import (
	"io"
	"log"
	"time"

	"github.com/skratchdot/open-golang/open"
)

// Launcher opens the form in the user's default browser.
type Launcher struct {
	open   func(url string) error
	delay  time.Duration
	logger *log.Logger
}

func NewLauncher(logger *log.Logger) *Launcher {
	return newLauncher(open.Start, 200*time.Millisecond, logger)
}

func newLauncher(opener func(string) error, delay time.Duration, logger *log.Logger) *Launcher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Launcher{open: opener, delay: delay, logger: logger}
}

// Launch waits briefly for the listener to accept connections, then opens
// url. A failure is logged and otherwise ignored.
func (l *Launcher) Launch(url string) {
	time.Sleep(l.delay)
	if err := l.open(url); err != nil {
		l.logger.Printf("[Browser] failed to open %s: %v", url, err)
		return
	}
	l.logger.Printf("[Browser] opened %s", url)
}
