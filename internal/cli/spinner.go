package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Spinner animates a single status line on stderr while a card renders or
// an asset downloads. The Stop variants replace the line with a final
// styled message. It shares its frames and tick rate with the pack TUI.
type Spinner struct {
	label  string
	ctx    context.Context
	cancel context.CancelFunc
	quit   chan struct{}
	idle   chan struct{}
	mu     sync.Mutex
}

// newSpinner creates a spinner with the given status label.
func newSpinner(label string) *Spinner {
	return newSpinnerWithContext(context.Background(), label)
}

// newSpinnerWithContext creates a spinner that also stops when ctx is
// cancelled, so Ctrl-C never leaves a stray animation line behind.
func newSpinnerWithContext(ctx context.Context, label string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		label:  label,
		ctx:    ctx,
		cancel: cancel,
		quit:   make(chan struct{}),
		idle:   make(chan struct{}),
	}
}

// Start begins the animation. It returns immediately; the spinner redraws
// on its own goroutine until stopped.
func (s *Spinner) Start() {
	go func() {
		defer close(s.idle)
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			select {
			case <-s.ctx.Done():
				s.erase()
				return
			case <-s.quit:
				return
			case <-ticker.C:
				glyph := spinnerFrames[frame%len(spinnerFrames)]
				s.mu.Lock()
				fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(glyph), StyleDim.Render(s.label))
				s.mu.Unlock()
			}
		}
	}()
}

// Stop halts the animation and clears the line. Safe to call more than once.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.quit:
	default:
		close(s.quit)
	}
	<-s.idle
	s.erase()
}

// StopWithSuccess stops the spinner and prints a success line in its place.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line in its place.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the surrounding context ended the spinner.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

func (s *Spinner) erase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.label)+4))
}
