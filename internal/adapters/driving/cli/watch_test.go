package cli

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPDFEvent(t *testing.T) {
	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{"create pdf", fsnotify.Event{Name: "/d/a.pdf", Op: fsnotify.Create}, true},
		{"write upper-case pdf", fsnotify.Event{Name: "/d/A.PDF", Op: fsnotify.Write}, true},
		{"remove pdf", fsnotify.Event{Name: "/d/a.pdf", Op: fsnotify.Remove}, true},
		{"rename pdf", fsnotify.Event{Name: "/d/a.pdf", Op: fsnotify.Rename}, true},
		{"chmod pdf", fsnotify.Event{Name: "/d/a.pdf", Op: fsnotify.Chmod}, false},
		{"write with chmod", fsnotify.Event{Name: "/d/a.pdf", Op: fsnotify.Write | fsnotify.Chmod}, true},
		{"text file", fsnotify.Event{Name: "/d/a.txt", Op: fsnotify.Create}, false},
		{"hidden pdf", fsnotify.Event{Name: "/d/.a.pdf", Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isPDFEvent(tt.event))
		})
	}
}

func TestPDFWatcher_Debounces(t *testing.T) {
	var runs atomic.Int32
	w := &pdfWatcher{
		debounce: 50 * time.Millisecond,
		reingest: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	}

	events := make(chan fsnotify.Event)
	errs := make(chan error)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.loop(ctx, events, errs) }()

	for i := 0; i < 5; i++ {
		events <- fsnotify.Event{Name: "/d/a.pdf", Op: fsnotify.Write}
	}
	events <- fsnotify.Event{Name: "/d/notes.txt", Op: fsnotify.Write}

	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 10*time.Millisecond)

	events <- fsnotify.Event{Name: "/d/b.pdf", Op: fsnotify.Create}
	require.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestPDFWatcher_IgnoresOtherFiles(t *testing.T) {
	var runs atomic.Int32
	w := &pdfWatcher{
		debounce: 20 * time.Millisecond,
		reingest: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	}

	events := make(chan fsnotify.Event, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	events <- fsnotify.Event{Name: "/d/readme.md", Op: fsnotify.Create}
	require.NoError(t, w.loop(ctx, events, nil))

	assert.Equal(t, int32(0), runs.Load())
}

func TestPDFWatcher_StopsWhenEventsClose(t *testing.T) {
	w := &pdfWatcher{debounce: time.Second, reingest: func(context.Context) error { return nil }}
	events := make(chan fsnotify.Event)
	close(events)

	assert.NoError(t, w.loop(context.Background(), events, nil))
}

func TestReingest_RunsStepsInOrder(t *testing.T) {
	ts, cleanupServices := setupTestServices(t)
	defer cleanupServices()

	require.NoError(t, reingest(context.Background(), watchCmd))

	assert.Equal(t, []string{"load", "process", "embed"}, ts.ingestion.calls)
}

func TestWatchCmd_NoService(t *testing.T) {
	_, cleanupServices := setupTestServices(t)
	defer cleanupServices()
	ingestionService = nil

	_, err := execute(t, "watch")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingestion service not configured")
}
