package main

import (
	"os"

	"github.com/schollz/progressbar/v3"

	fr "fitsrender/pkg/fitsrender"
)

// stageBar shows conversion progress, one step per pipeline stage.
type stageBar struct {
	bar *progressbar.ProgressBar
}

func newStageBar(desc string) *stageBar {
	return &stageBar{bar: progressbar.NewOptions(fr.NumStages,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))}
}

func (s *stageBar) Advance(stage fr.Stage) {
	s.bar.Describe("Rendering: " + stage.String())
	_ = s.bar.Add(1)
}

func (s *stageBar) Close() {
	_ = s.bar.Finish()
}
