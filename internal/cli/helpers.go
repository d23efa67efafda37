package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows
// retrieving the signal afterwards.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// InterruptibleReader wraps an io.Reader (like os.Stdin) and checks for a
// cancellation signal around the blocking read.
type InterruptibleReader struct {
	base   io.Reader
	cancel <-chan struct{}
}

func NewInterruptibleReader(base io.Reader, cancel <-chan struct{}) *InterruptibleReader {
	return &InterruptibleReader{
		base:   base,
		cancel: cancel,
	}
}

func (r *InterruptibleReader) Read(p []byte) (n int, err error) {
	select {
	case <-r.cancel:
		return 0, errors.New("interrupted")
	default:
	}

	n, err = r.base.Read(p)

	select {
	case <-r.cancel:
		return 0, errors.New("interrupted")
	default:
	}
	return n, err
}

// createLogger configures the application logger.
// In debug mode it writes to Stderr, separate from the Stdout labeling UI.
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

func isInterrupted(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) ||
		err.Error() == "interrupted" ||
		errors.Is(err, io.EOF)
}

// SetupMessage maps a load-time failure to a blocking, user-facing setup
// message. These errors prevent labeling entirely; the annotator has to
// fix the file and rerun.
func SetupMessage(err error, path string) string {
	switch {
	case errors.Is(err, domain.ErrDatasetNotFound):
		return fmt.Sprintf(`File %[1]s not found.

Setup:
  1. Create %[1]s next to where you run tally (or pass --file).
  2. Required columns: ID, Prompts, Responses.
  3. Run tally again and start labeling.

Labels are saved back to %[1]s after every action, so you can resume anytime.`, path)
	case errors.Is(err, domain.ErrSchemaInvalid):
		return fmt.Sprintf("Dataset %s is not usable: %v", path, err)
	case errors.Is(err, domain.ErrMalformedData):
		return fmt.Sprintf("Dataset %s could not be parsed: %v", path, err)
	}
	return fmt.Sprintf("Failed to open dataset %s: %v", path, err)
}
