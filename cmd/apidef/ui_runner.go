package main

import (
	"context"
	"io"

	"apidef/internal/driver"
	"apidef/internal/ui"
)

type batchOutcome struct {
	batch *driver.Batch
	err   error
}

// runCheckWithUI runs the batch in the background and shows its progress
// on out until it finishes.
func runCheckWithUI(
	ctx context.Context,
	out io.Writer,
	title string,
	files []string,
	opts driver.Options,
	run func(context.Context, driver.Options) (*driver.Batch, error),
) (*driver.Batch, error) {
	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = func(ev driver.ProgressEvent) { events <- ev }
		batch, err := run(ctx, optsCopy)
		outcomeCh <- batchOutcome{batch: batch, err: err}
		close(events)
	}()

	uiErr := ui.Run(out, title, displayPaths(files), events)
	if uiErr != nil {
		// UI упал: дочитываем события, чтобы не блокировать батч
		for range events {
		}
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.batch, uiErr
	}
	return outcome.batch, outcome.err
}
