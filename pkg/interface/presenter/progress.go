package presenter

import (
	"io"
	"sync"
	"time"

	"github.com/WangYihang/web-crawler/pkg/common"
	"github.com/WangYihang/web-crawler/pkg/domain/entity"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ProgressBar renders visited/limit as a single mpb bar
type ProgressBar struct {
	progress *mpb.Progress
	bar      *mpb.Bar

	mu       sync.Mutex
	visited  int
	lastTick time.Time
}

// NewProgressBar creates a bar of limit steps writing to out
func NewProgressBar(out io.Writer, name string, limit int) *ProgressBar {
	width := common.TerminalWidth() / 3
	if width < 20 {
		width = 20
	}

	p := mpb.New(mpb.WithOutput(out), mpb.WithWidth(width))
	bar := p.New(int64(limit),
		mpb.BarStyle(),
		mpb.BarOptional(mpb.BarRemoveOnComplete(), false),
		mpb.PrependDecorators(
			decor.Name(name, decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("[%d / %d]", decor.WCSyncWidth),
			decor.Percentage(decor.WCSyncSpace),
			decor.OnComplete(
				decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncSpace), "done",
			),
		),
	)

	return &ProgressBar{progress: p, bar: bar, lastTick: time.Now()}
}

// OnMetricsUpdate implements application.MetricsObserver
func (p *ProgressBar) OnMetricsUpdate(metrics *entity.Metrics) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if metrics.Visited == p.visited {
		return
	}
	p.visited = metrics.Visited
	p.bar.EwmaSetCurrent(int64(metrics.Visited), time.Since(p.lastTick))
	p.lastTick = time.Now()
}

// OnFetch implements application.MetricsObserver
func (p *ProgressBar) OnFetch(*entity.FetchLog) {}

// Finish stops the bar where it is and waits for the final render.
// A crawl may end below its limit, so the bar is aborted, not completed.
func (p *ProgressBar) Finish() {
	p.bar.Abort(false)
	p.progress.Wait()
}
