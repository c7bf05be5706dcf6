package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/partflow/internal/ingest"
	"github.com/Veraticus/partflow/internal/storage"
)

// ProgressObserver draws one progress bar for parsing and one for
// persistence.
type ProgressObserver struct {
	writer io.Writer
	files  *progressbar.ProgressBar
	saves  *progressbar.ProgressBar
}

// NewProgressObserver creates an observer writing to w.
func NewProgressObserver(w io.Writer) *ProgressObserver {
	return &ProgressObserver{writer: w}
}

var _ ingest.Observer = (*ProgressObserver)(nil)

func (o *ProgressObserver) newBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(o.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(o.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// FilesDiscovered starts the parsing bar.
func (o *ProgressObserver) FilesDiscovered(n int) {
	o.files = o.newBar(n, "[cyan][bold]Classifying source files...[reset]")
}

// FileProcessed advances the parsing bar.
func (o *ProgressObserver) FileProcessed(_ ingest.FileStats) {
	add(o.files)
}

// BatchesPlanned starts the persistence bar.
func (o *ProgressObserver) BatchesPlanned(n int) {
	o.saves = o.newBar(n, "[cyan][bold]Saving batches...[reset]")
}

// BatchApplied advances the persistence bar.
func (o *ProgressObserver) BatchApplied(_ storage.BatchResult) {
	add(o.saves)
}

func add(bar *progressbar.ProgressBar) {
	if bar == nil {
		return
	}
	if err := bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}
