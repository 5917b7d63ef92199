package ingestion

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_ReportsAtInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := newProgressTracker(&buf, 100, 50)

	tracker.Increment(25)
	assert.Empty(t, buf.String(), "below interval should stay quiet")

	tracker.Increment(25)
	assert.Contains(t, buf.String(), "50/100")
	assert.Contains(t, buf.String(), "50.0%")
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := newProgressTracker(&buf, 10, 1)

	tracker.Increment(25)
	assert.Contains(t, buf.String(), "10/10")
	assert.NotContains(t, buf.String(), "25/10")
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := newProgressTracker(&buf, 100, 1000)

	tracker.Increment(100)
	tracker.Finish()

	output := buf.String()
	assert.Contains(t, output, "100/100")
	assert.Contains(t, output, "100.0%")
	assert.True(t, strings.HasSuffix(output, "\n"), "finish should print newline")
}

func TestProgressTracker_NilWriter(t *testing.T) {
	tracker := newProgressTracker(nil, 10, 1)
	assert.NotPanics(t, func() {
		tracker.Increment(5)
		tracker.Finish()
	})
}
