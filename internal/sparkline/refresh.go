package sparkline

import (
	"context"

	"github.com/cristianoliveira/cansig/internal/dbc"
	"github.com/cristianoliveira/cansig/internal/stream"
	"golang.org/x/sync/errgroup"
)

// Job is one sparkline recompute.
type Job struct {
	Sparkline *Sparkline
	ID        dbc.MessageID
	Signal    dbc.Signal
	LastTS    float64
	TimeRange int
	Size      Size
}

// Refresh runs jobs concurrently, at most limit at a time (no bound
// when limit <= 0), and returns once all of them finished. Each job
// writes only to its own Sparkline.
func Refresh(ctx context.Context, src stream.Stream, jobs []Job, limit int) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			job.Sparkline.Update(src, job.ID, job.Signal, job.LastTS, job.TimeRange, job.Size)
			return nil
		})
	}
	return g.Wait()
}
