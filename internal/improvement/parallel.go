package improvement

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/GoSim-25-26J-441/flash-optimizer/pkg/models"
)

// chunksPerWorker oversplits the grid so uneven chunks balance out.
const chunksPerWorker = 4

// search evaluates the whole grid. With more than one worker the index
// space is cut into contiguous chunks; chunk winners are reduced in chunk
// order with a strict comparison, which keeps the first-minimum tie-break of
// the sequential scan.
func (o *GridOptimizer) search(ctx context.Context, grid *Grid, fixed models.Record, objective *PenaltyObjective) (candidate, error) {
	total := grid.Size()
	if o.workers <= 1 || total < 2 {
		best, err := o.scan(ctx, grid, fixed, objective, 0, total)
		if err != nil {
			return candidate{}, err
		}
		o.report(total, total)
		return best, nil
	}

	nChunks := min(o.workers*chunksPerWorker, total)
	results := make([]candidate, nChunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	progress := make(chan int, nChunks)
	for c := 0; c < nChunks; c++ {
		lo := c * total / nChunks
		hi := (c + 1) * total / nChunks
		g.Go(func() error {
			best, err := o.scan(gctx, grid, fixed, objective, lo, hi)
			if err != nil {
				return err
			}
			results[c] = best
			progress <- hi - lo
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		evaluated := 0
		for n := range progress {
			evaluated += n
			o.report(evaluated, total)
		}
		close(done)
	}()

	err := g.Wait()
	close(progress)
	<-done
	if err != nil {
		return candidate{}, err
	}

	best := candidate{index: -1}
	infeasible, evaluated := 0, 0
	for _, r := range results {
		infeasible += r.infeasible
		evaluated += r.evaluated
		if r.better(best) {
			best.index = r.index
			best.objective = r.objective
			best.prediction = r.prediction
		}
	}
	best.infeasible = infeasible
	best.evaluated = evaluated
	return best, nil
}

func (o *GridOptimizer) report(evaluated, total int) {
	if o.progress != nil {
		o.progress(evaluated, total)
	}
}
