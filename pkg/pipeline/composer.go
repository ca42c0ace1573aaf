package pipeline

import (
	"untangle/pkg/store"
	"untangle/pkg/util/context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// run executes the stage, appending the outputs of its tasks to w.
// failFast is true when the closest enclosing sequential stage is not tolerant:
// a failing parallel child then cancels its siblings.
func (e *execution) run(ctx context.Context, s *Stage, w store.Writer, failFast bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch s.kind {
	case TypeTask:
		return e.task(ctx, s.task, w)
	case TypeSequential:
		return e.sequential(ctx, s, w)
	case TypeParallel:
		return e.parallel(ctx, s, w, failFast)
	}
	return errors.Errorf("unknown stage type %s", s.kind)
}

func (e *execution) sequential(ctx context.Context, s *Stage, w store.Writer) error {
	for _, c := range s.children {
		err := e.run(ctx, c, w, !s.tolerant)
		if err == nil {
			continue
		}
		if s.tolerant && c.kind == TypeParallel && e.tolerable(err) && ctx.Err() == nil {
			ctx.Logger().Warnf("stage %s continues with partial results: %v", s.Name(), err)
			e.tolerated(err)
			continue
		}
		return err
	}
	return nil
}

// tolerable reports whether a tolerant sequential stage may continue after err.
func (e *execution) tolerable(err error) bool {
	agg, isAgg := err.(*AggregateError)
	if !isAgg {
		return false
	}
	return !agg.Empty || e.cfg.AllowEmptyMerge
}

func (e *execution) parallel(ctx context.Context, s *Stage, w store.Writer, failFast bool) error {
	snapshot := store.Snapshot(w)
	overlays := make([]*store.Overlay, len(s.children))
	errs := make([]error, len(s.children))

	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g := errgroup.Group{}
	if e.cfg.MaxParallel > 0 {
		g.SetLimit(e.cfg.MaxParallel)
	}
	for i, c := range s.children {
		i, c := i, c
		overlays[i] = store.NewOverlay(snapshot)
		g.Go(func() error {
			if err := e.run(cctx, c, overlays[i], failFast); err != nil {
				errs[i] = err
				if failFast && !isCancellation(err) {
					cancel()
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	agg := &AggregateError{Stage: s.Name(), Empty: true}
	for _, err := range errs {
		switch {
		case err == nil:
			agg.Empty = false
		case isCancellation(err) && cctx.Err() != nil:
			// cancelled because a sibling failed
		default:
			agg.Errors = append(agg.Errors, err)
		}
	}
	if len(agg.Errors) > 0 && failFast {
		return agg
	}

	for i, o := range overlays {
		if errs[i] != nil && !(s.children[i].kind == TypeParallel && isAggregate(errs[i])) {
			continue
		}
		if err := o.Merge(w); err != nil {
			var dup store.ErrDuplicateKey
			errors.As(err, &dup)
			return &TaskError{Task: dup.Key, Kind: KindDuplicateKey, Err: err}
		}
	}
	if len(agg.Errors) > 0 {
		return agg
	}
	return nil
}

// isAggregate reports whether err is the error of a parallel stage whose overlay only holds the outputs
// of its successful children.
func isAggregate(err error) bool {
	_, isAgg := err.(*AggregateError)
	return isAgg
}
