package report

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/jackzampolin/pdfsift/internal/extract"
	"github.com/jackzampolin/pdfsift/internal/pipeline"
)

// ProgressBar renders run progress on a terminal. Percent steps map onto a
// 0..100 bar so the total need not be known up front.
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a bar writing to w, stderr when nil.
func NewProgressBar(w io.Writer) *ProgressBar {
	if w == nil {
		w = os.Stderr
	}
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Scanning PDFs..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &ProgressBar{bar: bar}
}

func (p *ProgressBar) OnStart(int) {}

func (p *ProgressBar) OnResult(extract.Result) {}

func (p *ProgressBar) OnProgress(percent float64) {
	_ = p.bar.Set(int(percent))
}

func (p *ProgressBar) OnStatus(state pipeline.State, message string) {
	p.bar.Describe(message)
	if state.Terminal() {
		_ = p.bar.Finish()
	}
}

var _ pipeline.Listener = (*ProgressBar)(nil)
