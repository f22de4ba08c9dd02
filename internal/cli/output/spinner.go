package output

import (
	"fmt"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner shows progress on the error writer while a slow operation
// runs. It only animates in text mode so piped output stays clean.
type Spinner struct {
	r       *Renderer
	msg     string
	mu      sync.Mutex
	done    chan struct{}
	stopped bool
}

// NewSpinner creates a spinner with the given message. Call Start to
// begin animating and Success or Fail to finish.
func (r *Renderer) NewSpinner(msg string) *Spinner {
	return &Spinner{r: r, msg: msg, done: make(chan struct{})}
}

// Start begins the animation. It is a no-op outside text mode.
func (s *Spinner) Start() {
	if s.r.EffectiveMode() != ModeText {
		return
	}
	go func() {
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		frame := 0
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				s.mu.Lock()
				if !s.stopped {
					_, _ = fmt.Fprintf(s.r.errOut, "\r%s %s", spinnerFrames[frame%len(spinnerFrames)], s.msg)
				}
				s.mu.Unlock()
				frame++
			}
		}
	}()
}

// Success stops the spinner and prints a confirmation line.
func (s *Spinner) Success(msg string) {
	s.finish(s.r.styles.StatusSuccess.String(), msg)
}

// Fail stops the spinner and prints a failure line.
func (s *Spinner) Fail(msg string) {
	s.finish(s.r.styles.StatusFailed.String(), msg)
}

func (s *Spinner) finish(icon, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.done)
	if s.r.EffectiveMode() == ModeText {
		// Clear the spinner frame before printing the result.
		_, _ = fmt.Fprintf(s.r.errOut, "\r\033[K")
	}
	_, _ = fmt.Fprintf(s.r.errOut, "%s %s\n", icon, msg)
}
