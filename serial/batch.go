package serial

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/thanhnguyen2187/bl3-savior/serial/sitem"
)

type (
	BatchFailure struct {
		Index int
		Err   error
	}
	// BatchResult holds the decoded items in input order. Inputs that failed
	// are left out of Items and reported in Failures instead.
	BatchResult struct {
		Items    []*sitem.Item
		Failures []BatchFailure
	}
)

// DecodeBatch decodes raw serials with up to workers goroutines; workers < 1
// uses one per CPU. A malformed serial never aborts the batch. The only error
// returned is the context's.
func DecodeBatch(ctx context.Context, schema sitem.Schema, raws [][]byte, workers int) (*BatchResult, error) {
	return decodeBatch(ctx, raws, workers, func(raw []byte) (*sitem.Item, error) {
		return sitem.Decode(schema, raw)
	})
}

// DecodeSerials is DecodeBatch over "BL3(...)" strings.
func DecodeSerials(ctx context.Context, schema sitem.Schema, serials []string, workers int) (*BatchResult, error) {
	return decodeBatch(ctx, serials, workers, func(s string) (*sitem.Item, error) {
		return DecodeSerial(schema, s)
	})
}

func decodeBatch[T any](
	ctx context.Context,
	inputs []T,
	workers int,
	decode func(T) (*sitem.Item, error),
) (*BatchResult, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	items := make([]*sitem.Item, len(inputs))
	errs := make([]error, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, input := range inputs {
		i, input := i, input
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items[i], errs[i] = decode(input)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := BatchResult{
		Items: lo.Filter(items, func(item *sitem.Item, i int) bool { return errs[i] == nil }),
		Failures: lo.FilterMap(errs, func(err error, i int) (BatchFailure, bool) {
			return BatchFailure{Index: i, Err: err}, err != nil
		}),
	}
	for _, failure := range result.Failures {
		slog.Warn("skipped malformed item", "index", failure.Index, "error", failure.Err)
	}
	return &result, nil
}
