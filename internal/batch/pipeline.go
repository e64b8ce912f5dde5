package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/avolkov/qrforge/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Defaults for a zero-configured pipeline.
const (
	DefaultWorkers  = 3
	DefaultMaxItems = 100
)

// Progress is a snapshot emitted after every terminal item transition.
type Progress struct {
	Percent   float64
	Completed int
	Total     int
}

// Pipeline runs items through a fixed-size worker pool. Workers pull from
// one shared queue; an item is written only by the worker that claimed it.
// Completion order across items is unspecified.
type Pipeline struct {
	Workers  int
	MaxItems int
	Encoder  *Encoder
	Logger   logging.Logger

	// Both callbacks may be invoked concurrently from different workers,
	// in any interleaving.
	OnProgress     func(Progress)
	OnItemComplete func(*Item)
}

// queue hands out items and counts terminal transitions. All access is
// mutex-guarded so no two workers claim the same item.
type queue struct {
	mu    sync.Mutex
	items []*Item
	next  int
	done  int
}

func (q *queue) claim() (*Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.next >= len(q.items) {
		return nil, false
	}
	it := q.items[q.next]
	q.next++
	return it, true
}

func (q *queue) finished() Progress {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.done++
	return Progress{
		Percent:   100 * float64(q.done) / float64(len(q.items)),
		Completed: q.done,
		Total:     len(q.items),
	}
}

// Run processes every item to a terminal status and blocks until the pool
// drains. A single item's encoder error fails only that item; the only
// batch-fatal conditions are the size ceiling, checked up front, and context
// cancellation, which stops workers from claiming further items.
func (p *Pipeline) Run(ctx context.Context, items []*Item) error {
	limit := p.MaxItems
	if limit <= 0 {
		limit = DefaultMaxItems
	}
	if len(items) > limit {
		return fmt.Errorf("%w: %d items over the limit of %d", ErrBatchSizeExceeded, len(items), limit)
	}

	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(items) {
		workers = len(items)
	}
	if workers == 0 {
		return nil
	}

	q := &queue{items: items}
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		worker := i
		g.Go(func() error {
			return p.runWorker(ctx, worker, q)
		})
	}
	return g.Wait()
}

func (p *Pipeline) runWorker(ctx context.Context, worker int, q *queue) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		it, ok := q.claim()
		if !ok {
			return nil
		}

		it.Status = StatusProcessing
		artifact, binary, err := p.Encoder.Encode(it)
		if err != nil {
			it.Status = StatusFailed
			it.ErrMsg = err.Error()
			if p.Logger != nil {
				p.Logger.Warn(ctx, "item failed", "worker", worker, "item", it.ID, "error", err.Error())
			}
		} else {
			it.Status = StatusCompleted
			it.Artifact = artifact
			it.Binary = binary
		}

		prog := q.finished()
		if p.OnItemComplete != nil {
			p.OnItemComplete(it)
		}
		if p.OnProgress != nil {
			p.OnProgress(prog)
		}
	}
}
