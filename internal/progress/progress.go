// Package progress draws terminal progress bars for long lint runs.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/panbanda/selectorlint/pkg/analyzer"
)

// Tracker wraps a progress bar for file processing.
type Tracker struct {
	mu    sync.Mutex
	bar   *progressbar.ProgressBar
	label string
	w     io.Writer
	max   int
}

// NewTracker creates a progress bar on stderr with the given label and
// total count.
func NewTracker(label string, total int) *Tracker {
	return NewTrackerTo(os.Stderr, label, total)
}

// NewTrackerTo creates a progress bar that draws to w.
func NewTrackerTo(w io.Writer, label string, total int) *Tracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, label: label, w: w, max: total}
}

// Tick increments the progress by 1. Safe for concurrent use.
func (t *Tracker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.bar.Add(1)
}

// Callback adapts the bar to an analyzer.ProgressFunc so it can be carried
// in a context with analyzer.WithTracker. The bar grows if the reported
// total exceeds the initial one.
func (t *Tracker) Callback() analyzer.ProgressFunc {
	return func(current, total int, _ string) {
		t.mu.Lock()
		defer t.mu.Unlock()
		if total > t.max {
			t.max = total
			t.bar.ChangeMax(total)
		}
		_ = t.bar.Set(current)
	}
}

// Current returns the bar's current value.
func (t *Tracker) Current() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int(t.bar.State().CurrentNum)
}

// FinishSuccess clears the bar completely (no output).
func (t *Tracker) FinishSuccess() {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}

// FinishError clears the bar and prints an error message.
func (t *Tracker) FinishError(err error) {
	t.FinishSuccess()
	fmt.Fprintf(t.w, "  %s error: %v\n", t.label, err)
}
