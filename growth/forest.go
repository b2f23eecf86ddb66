package growth

import (
	"context"

	"github.com/golang/geo/r3"
	"golang.org/x/sync/errgroup"

	"go.viam.com/canopy/utils"
)

// GrowAll grows one tree per base in parallel. Tree i draws from a generator seeded with
// utils.SubSeed(seed, i), so the result only depends on seed and the order of bases.
func (e *Engine) GrowAll(ctx context.Context, bases []r3.Vector, seed int64) ([]*Tree, error) {
	trees := make([]*Tree, len(bases))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(utils.ParallelFactor)
	for i, base := range bases {
		i, base := i, base
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			trees[i] = e.Grow(base, utils.NewRand(utils.SubSeed(seed, i)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trees, nil
}
