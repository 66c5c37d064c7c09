package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// Progress tracks completed work items on a terminal bar.
type Progress struct {
	bar    *progressbar.ProgressBar
	writer io.Writer
}

// NewProgress creates a bar for total items. A nil writer discards output.
func NewProgress(writer io.Writer, total int, description string) *Progress {
	if writer == nil {
		writer = io.Discard
	}
	p := &Progress{writer: writer}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]%s[reset]", description)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return p
}

// Describe changes the text shown next to the bar.
func (p *Progress) Describe(description string) {
	p.bar.Describe(fmt.Sprintf("[cyan][bold]%s[reset]", description))
}

// Step marks one item done.
func (p *Progress) Step() {
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Done reports whether every item has been stepped.
func (p *Progress) Done() bool {
	return p.bar.IsFinished()
}

// Current returns the number of completed items.
func (p *Progress) Current() int64 {
	return p.bar.State().CurrentNum
}
