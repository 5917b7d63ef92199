package ingestion

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// progressTracker reports import progress to a writer.
type progressTracker struct {
	writer         io.Writer
	total          int
	current        int
	reportInterval int
	lastReported   int
	startTime      time.Time
	mu             sync.Mutex
}

// newProgressTracker creates a tracker that reports every reportInterval
// products. A nil writer disables output.
func newProgressTracker(writer io.Writer, total, reportInterval int) *progressTracker {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &progressTracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
		startTime:      time.Now(),
	}
}

// Increment increases the current progress by delta.
func (p *progressTracker) Increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = min(p.current+delta, p.total)

	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// Finish prints the final progress line.
func (p *progressTracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.report()
	if p.writer != nil {
		fmt.Fprintln(p.writer)
	}
}

// report prints the current progress. Must be called with lock held.
func (p *progressTracker) report() {
	if p.writer == nil {
		return
	}

	elapsed := time.Since(p.startTime)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(p.current) / elapsed.Seconds()
	}

	percentage := 100.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rImported: %d/%d (%.1f%%) - %.1f products/s",
		p.current, p.total, percentage, rate)
}
