package main

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"rebind/internal/bind"
	"rebind/internal/driver"
	"rebind/internal/pipeline"
	"rebind/internal/ui"
)

type remapOutcome struct {
	results []driver.FileResult
	err     error
}

// runRemapWithUI drives the batch behind a progress TUI fed by pipeline
// events. Per-shader events are keyed by base name, matching the names
// the driver emits.
func runRemapWithUI(ctx context.Context, title string, files []string, requests []bind.Request, opts driver.Options) ([]driver.FileResult, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan remapOutcome, 1)

	go func() {
		opts.Sink = pipeline.ChannelSink{Ch: events}
		res, err := driver.RemapFiles(ctx, files, requests, opts)
		outcomeCh <- remapOutcome{results: res, err: err}
		close(events)
	}()

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
