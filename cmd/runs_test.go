//go:build !integration

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hxxtsxxh/lumos.ai/internal/runlog"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	finished := now.Add(3 * time.Minute)
	runs := []runlog.Run{
		{
			ID:         "abc12345-6789-0000-0000-000000000000",
			Kind:       "precompute",
			Status:     runlog.StatusComplete,
			StartedAt:  now,
			FinishedAt: &finished,
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			Kind:      "precompute",
			Status:    runlog.StatusRunning,
			StartedAt: now.Add(10 * time.Minute),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "KIND")
	assert.Contains(t, output, "STATUS")
	assert.Contains(t, output, "abc12345")
	assert.Contains(t, output, "complete")
	assert.Contains(t, output, "running")
	assert.Contains(t, output, "2026-08-15 10:30")
	assert.Contains(t, output, "3m0s")
}

func TestFormatRunsList_FailedRun(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	finished := now.Add(30 * time.Second)
	runs := []runlog.Run{
		{
			ID:         "fff12345-6789-0000-0000-000000000000",
			Kind:       "precompute",
			Status:     runlog.StatusFailed,
			Error:      "precompute: no jurisdiction-year directories under datasets, plus trailing detail",
			StartedAt:  now,
			FinishedAt: &finished,
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "failed")
	assert.Contains(t, output, "precompute: no jurisdiction-year dir")
	assert.Contains(t, output, "...")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789-0000-0000-000000000000"))
	assert.Equal(t, "short", truncateID("short"))
}
