package workflow_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/humbertomar/vipo-backend/workflow"
)

func TestCartCleaner_DrainsQueueOnStop(t *testing.T) {
	var mu sync.Mutex
	var cleared []int
	clear := func(ctx context.Context, cartId int) error {
		mu.Lock()
		defer mu.Unlock()
		cleared = append(cleared, cartId)
		return nil
	}

	cleaner := workflow.NewCartCleaner(clear, 8)
	cleaner.Start()
	cleaner.Enqueue(1)
	cleaner.Enqueue(2)
	cleaner.Enqueue(3)
	cleaner.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(cleared) != 3 {
		t.Fatalf("expected 3 cleared carts, got %v", cleared)
	}
	for i, want := range []int{1, 2, 3} {
		if cleared[i] != want {
			t.Fatalf("expected cleared[%d]=%d, got %v", i, want, cleared)
		}
	}
}

func TestCartCleaner_IgnoresInvalidIds(t *testing.T) {
	var mu sync.Mutex
	var cleared []int
	clear := func(ctx context.Context, cartId int) error {
		mu.Lock()
		defer mu.Unlock()
		cleared = append(cleared, cartId)
		return nil
	}

	cleaner := workflow.NewCartCleaner(clear, 8)
	cleaner.Start()
	cleaner.Enqueue(0)
	cleaner.Enqueue(-1)
	cleaner.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(cleared) != 0 {
		t.Fatalf("expected no cleanups, got %v", cleared)
	}
}

// A failing clear is logged and must not stop the worker.
func TestCartCleaner_ContinuesAfterClearFailure(t *testing.T) {
	var mu sync.Mutex
	var cleared []int
	clear := func(ctx context.Context, cartId int) error {
		if cartId == 1 {
			return errors.New("deadlock")
		}
		mu.Lock()
		defer mu.Unlock()
		cleared = append(cleared, cartId)
		return nil
	}

	cleaner := workflow.NewCartCleaner(clear, 8)
	cleaner.Start()
	cleaner.Enqueue(1)
	cleaner.Enqueue(2)
	cleaner.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(cleared) != 1 || cleared[0] != 2 {
		t.Fatalf("expected cart 2 cleared after failure on cart 1, got %v", cleared)
	}
}

// Enqueue on a full queue drops the cleanup instead of blocking checkout.
func TestCartCleaner_EnqueueNeverBlocks(t *testing.T) {
	clear := func(ctx context.Context, cartId int) error { return nil }

	// worker not started: the buffered queue fills up
	cleaner := workflow.NewCartCleaner(clear, 1)
	cleaner.Enqueue(1)

	done := make(chan struct{})
	go func() {
		cleaner.Enqueue(2)
		close(done)
	}()
	<-done

	cleaner.Start()
	cleaner.Stop()
}
