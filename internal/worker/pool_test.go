package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

// mockProcessor simulates image processing for testing
type mockProcessor struct {
	delay     time.Duration
	failPaths map[string]bool // paths that should fail
	callCount atomic.Int32
}

func (m *mockProcessor) Process(ctx context.Context, path string) (string, error) {
	m.callCount.Add(1)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(m.delay):
	}

	if m.failPaths != nil && m.failPaths[path] {
		return "", errors.New("simulated failure")
	}

	return path + ".husl.png", nil
}

func TestPool_BasicExecution(t *testing.T) {
	proc := &mockProcessor{delay: 10 * time.Millisecond}

	pool := New(Config{
		Workers:   2,
		Processor: proc,
	})

	tasks := []Task{
		{Path: "a.png"},
		{Path: "b.png"},
		{Path: "c.png"},
	}

	results := pool.Run(context.Background(), tasks)

	if len(results) != len(tasks) {
		t.Errorf("Expected %d results, got %d", len(tasks), len(results))
	}

	for _, r := range results {
		if r.Err != nil {
			t.Errorf("Unexpected error for %s: %v", r.Task.Path, r.Err)
		}
		if r.OutPath == "" {
			t.Errorf("Expected output path for %s, got empty", r.Task.Path)
		}
	}

	if proc.callCount.Load() != int32(len(tasks)) {
		t.Errorf("Expected %d processor calls, got %d", len(tasks), proc.callCount.Load())
	}
}

func TestPool_Parallelism(t *testing.T) {
	// Use a longer delay to ensure parallelism is tested
	proc := &mockProcessor{delay: 50 * time.Millisecond}

	pool := New(Config{
		Workers:   4,
		Processor: proc,
	})

	tasks := make([]Task, 8)
	for i := range tasks {
		tasks[i] = Task{Path: fmt.Sprintf("img_%d.png", i)}
	}

	start := time.Now()
	results := pool.Run(context.Background(), tasks)
	elapsed := time.Since(start)

	// With 4 workers and 8 tasks at 50ms each, should take ~100ms (2 batches)
	// Allow some margin for overhead
	maxExpected := 200 * time.Millisecond
	if elapsed > maxExpected {
		t.Errorf("Expected parallel execution in ~100ms, took %v", elapsed)
	}

	if len(results) != len(tasks) {
		t.Errorf("Expected %d results, got %d", len(tasks), len(results))
	}

	t.Logf("Processed %d tasks with %d workers in %v", len(tasks), 4, elapsed)
}

func TestPool_ErrorHandling(t *testing.T) {
	proc := &mockProcessor{
		delay:     10 * time.Millisecond,
		failPaths: map[string]bool{"bad.png": true},
	}

	pool := New(Config{
		Workers:   2,
		Processor: proc,
	})

	tasks := []Task{
		{Path: "a.png"},
		{Path: "bad.png"}, // This one should fail
		{Path: "c.png"},
	}

	results := pool.Run(context.Background(), tasks)

	// Should still get all results
	if len(results) != len(tasks) {
		t.Errorf("Expected %d results, got %d", len(tasks), len(results))
	}

	// Count successes and failures
	var successCount, failCount int
	for _, r := range results {
		if r.Err != nil {
			failCount++
			if r.Task.Path != "bad.png" {
				t.Errorf("Unexpected failure for %s", r.Task.Path)
			}
		} else {
			successCount++
		}
	}

	if successCount != 2 {
		t.Errorf("Expected 2 successes, got %d", successCount)
	}
	if failCount != 1 {
		t.Errorf("Expected 1 failure, got %d", failCount)
	}
}

func TestPool_Cancellation(t *testing.T) {
	proc := &mockProcessor{delay: 100 * time.Millisecond}

	pool := New(Config{
		Workers:   2,
		Processor: proc,
	})

	tasks := make([]Task, 10)
	for i := range tasks {
		tasks[i] = Task{Path: fmt.Sprintf("img_%d.png", i)}
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Cancel after a short time
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	results := pool.Run(ctx, tasks)
	elapsed := time.Since(start)

	// Should return early due to cancellation
	if elapsed > 300*time.Millisecond {
		t.Errorf("Expected early cancellation, took %v", elapsed)
	}

	// Some results may have errors due to cancellation
	var cancelledCount int
	for _, r := range results {
		if r.Err != nil && errors.Is(r.Err, context.Canceled) {
			cancelledCount++
		}
	}

	t.Logf("Completed with %d results (%d cancelled) in %v", len(results), cancelledCount, elapsed)
}

func TestPool_ProgressCallback(t *testing.T) {
	proc := &mockProcessor{delay: 10 * time.Millisecond}

	var progressCalls atomic.Int32
	var lastCompleted, lastTotal int

	pool := New(Config{
		Workers:   2,
		Processor: proc,
		OnProgress: func(completed, total, failed int) {
			progressCalls.Add(1)
			lastCompleted = completed
			lastTotal = total
		},
	})

	tasks := []Task{
		{Path: "a.png"},
		{Path: "b.png"},
		{Path: "c.png"},
	}

	pool.Run(context.Background(), tasks)

	// Should have received progress callbacks
	if progressCalls.Load() == 0 {
		t.Error("Expected progress callbacks, got none")
	}

	// Final callback should show all completed
	if lastCompleted != len(tasks) {
		t.Errorf("Expected lastCompleted=%d, got %d", len(tasks), lastCompleted)
	}
	if lastTotal != len(tasks) {
		t.Errorf("Expected lastTotal=%d, got %d", len(tasks), lastTotal)
	}
}

func TestPool_EmptyTasks(t *testing.T) {
	proc := &mockProcessor{}

	pool := New(Config{
		Workers:   2,
		Processor: proc,
	})

	results := pool.Run(context.Background(), nil)

	if len(results) != 0 {
		t.Errorf("Expected 0 results for empty tasks, got %d", len(results))
	}

	if proc.callCount.Load() != 0 {
		t.Errorf("Expected 0 processor calls for empty tasks, got %d", proc.callCount.Load())
	}
}
