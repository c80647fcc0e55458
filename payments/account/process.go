package account

import (
	"context"
	"fmt"
	"iter"

	"github.com/LerianStudio/payments-engine/payments/errgroup"
	"github.com/LerianStudio/payments-engine/payments/transaction"
)

// queueDepth is the per-worker buffer used by ProcessPartitioned.
const queueDepth = 256

// Process applies records in order. It stops at the first read error, the
// first fatal Apply error, or when ctx is done.
func (b *Book) Process(ctx context.Context, records iter.Seq2[transaction.Record, error]) error {
	for record, err := range records {
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := b.Apply(ctx, record); err != nil {
			return err
		}
	}

	return nil
}

// ProcessPartitioned applies records on workers goroutines, routing each
// client to a fixed worker so per-client order is preserved. The final
// state equals the one Process would produce for the same input. With
// workers below two it behaves exactly like Process.
func (b *Book) ProcessPartitioned(ctx context.Context, records iter.Seq2[transaction.Record, error], workers int) error {
	if workers < 2 {
		return b.Process(ctx, records)
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLogger(b.logger)
	group.SetComponent(component)

	queues := make([]chan transaction.Record, workers)

	for i := range queues {
		queue := make(chan transaction.Record, queueDepth)
		queues[i] = queue

		group.GoNamed(fmt.Sprintf("partition-%d", i), func() error {
			for record := range queue {
				if err := gctx.Err(); err != nil {
					return err
				}

				if _, err := b.Apply(gctx, record); err != nil {
					return err
				}
			}

			return nil
		})
	}

	dispatchErr := dispatch(gctx, records, queues)

	for _, queue := range queues {
		close(queue)
	}

	if err := group.Wait(); err != nil {
		return err
	}

	return dispatchErr
}

func dispatch(ctx context.Context, records iter.Seq2[transaction.Record, error], queues []chan transaction.Record) error {
	for record, err := range records {
		if err != nil {
			return err
		}

		queue := queues[int(record.ClientID)%len(queues)]

		select {
		case queue <- record:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
