package collector

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// CollectAll runs one Collect per element of opts with at most parallel
// collections in flight. Each collection stays sequential internally.
// Results are returned in input order; the error joins every per-seed error.
// A failing seed does not stop the others.
func CollectAll(ctx context.Context, opts []Options, parallel int) ([]Result, error) {
	if parallel < 1 {
		parallel = 1
	}

	results := make([]Result, len(opts))
	errs := make([]error, len(opts))

	var group errgroup.Group
	group.SetLimit(parallel)

	for i, o := range opts {
		group.Go(func() error {
			results[i], errs[i] = Collect(ctx, o)

			return errs[i]
		})
	}

	if err := group.Wait(); err != nil {
		return results, errors.Join(errs...)
	}

	return results, nil
}
