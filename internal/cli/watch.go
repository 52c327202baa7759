// internal/cli/watch.go
package syndeo

import (
	"context"

	"github.com/mwiater/syndeo/internal/tui"
)

// watchRun executes run under the live progress view. The view owns the
// terminal until the updates channel closes or the user quits; quitting
// cancels the run's context.
func watchRun(title string, run func(ctx context.Context, updates chan<- tui.Update) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan tui.Update, 64)
	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx, updates)
		close(updates)
	}()

	watchErr := tui.Watch(title, updates, cancel)

	// After an early quit the view no longer reads updates; keep the
	// channel moving so in-flight progress sends never block the run.
	go func() {
		for range updates {
		}
	}()

	if err := <-errCh; err != nil && ctx.Err() == nil {
		return err
	}
	return watchErr
}
