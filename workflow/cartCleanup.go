package workflow

import (
	"context"

	"github.com/humbertomar/vipo-backend/config"
)

// CartCleaner empties consumed carts after a successful checkout. It is a
// deliberate post-commit, fire-and-forget task: the placed order is the
// source of truth, and a failed or dropped cleanup only leaves stale cart
// rows behind (the next checkout re-reads current prices anyway).
type CartCleaner struct {
	clear func(ctx context.Context, cartId int) error
	queue chan int
	done  chan struct{}
}

func NewCartCleaner(clear func(ctx context.Context, cartId int) error, queueSize int) *CartCleaner {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &CartCleaner{
		clear: clear,
		queue: make(chan int, queueSize),
		done:  make(chan struct{}),
	}
}

// Start runs the single worker goroutine.
func (c *CartCleaner) Start() {
	go func() {
		defer close(c.done)
		for cartId := range c.queue {
			if err := c.clear(context.Background(), cartId); err != nil {
				config.LogError(config.GetLogger(), "cartCleanup.go", "CartCleaner", "clear cart items", cartId, err)
			}
		}
	}()
}

// Enqueue never blocks the checkout path. When the queue is full the
// cleanup is dropped and logged; the order itself is already committed.
func (c *CartCleaner) Enqueue(cartId int) {
	if cartId <= 0 {
		return
	}
	select {
	case c.queue <- cartId:
	default:
		logger := config.GetLogger()
		logger.WithField("cart_id", cartId).Warn("cart cleanup queue full; dropping cleanup")
	}
}

// Stop drains outstanding cleanups and waits for the worker to exit.
func (c *CartCleaner) Stop() {
	close(c.queue)
	<-c.done
}
