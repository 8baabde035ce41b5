package serialplot

import (
	"context"
	"errors"
	"io"
	"sync"
)

// Worker runs a Driver on its own goroutine so the caller stays free, for
// example to run a UI event loop.
type Worker struct {
	cancel   context.CancelFunc
	closer   io.Closer
	done     chan struct{}
	err      error
	stopOnce sync.Once
}

// Start launches d.Run on a new goroutine. If the driver's reader implements
// io.Closer it is closed by Stop, which unblocks a pending read.
//
// Closing the reader does not interrupt a Render in progress. A Batch driver
// whose renderer blocks until the user dismisses it, such as chart.Window,
// keeps Stop waiting for that long; use a non-blocking renderer in Live mode
// when the worker must be stoppable at any time.
func Start(ctx context.Context, d *Driver) *Worker {
	ctx, cancel := context.WithCancel(ctx)
	w := &Worker{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	if c, ok := d.reader.(io.Closer); ok {
		w.closer = c
	}

	go func() {
		defer close(w.done)
		w.err = d.Run(ctx)
	}()
	return w
}

// Done is closed once the driver loop has returned.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Wait blocks until the driver loop returns and reports why it stopped.
// A loop ended by Stop or by cancelling the parent context reports nil.
func (w *Worker) Wait() error {
	<-w.done
	if errors.Is(w.err, context.Canceled) || errors.Is(w.err, ErrClosed) {
		return nil
	}
	return w.err
}

// Stop cancels the loop, closes the reader and waits for the goroutine to exit.
// An in-flight Render is allowed to finish first, so Stop returns only after
// the renderer does.
func (w *Worker) Stop() error {
	var closeErr error
	w.stopOnce.Do(func() {
		w.cancel()
		if w.closer != nil {
			closeErr = w.closer.Close()
		}
	})
	if err := w.Wait(); err != nil {
		return err
	}
	return closeErr
}
