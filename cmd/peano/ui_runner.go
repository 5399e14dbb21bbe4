package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mjgrzymek/PeanoScript/internal/driver"
	"github.com/mjgrzymek/PeanoScript/internal/source"
	"github.com/mjgrzymek/PeanoScript/internal/ui"
)

type checkOutcome struct {
	fs      *source.FileSet
	results []driver.FileResult
	err     error
}

// runCheckWithUI runs CheckFiles while a progress view follows its events.
// Leaving the view early (Ctrl-C) cancels the remaining checks.
func runCheckWithUI(ctx context.Context, title string, files []string, opts driver.BatchOptions) (*source.FileSet, []driver.FileResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		batch := opts
		batch.Progress = func(ev driver.Event) { events <- ev }
		fs, results, err := driver.CheckFiles(ctx, files, batch)
		close(events)
		outcomeCh <- checkOutcome{fs: fs, results: results, err: err}
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()

	// события после выхода из UI никому не нужны
	cancel()
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if outcome.err == nil && uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
