package sim

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Job is one independent run of an Ensemble. Each job owns its simulator;
// a simulator must not be shared between jobs.
type Job struct {
	Label     string
	Simulator *Simulator
	System    *dynamo.System
	Config    Config
}

// Outcome is the result of one job, in the order the jobs were added.
type Outcome struct {
	Label   string
	Result  *Result
	Elapsed time.Duration
	Err     error
}

// Ensemble runs independent simulations side by side, at most limit at a
// time. Each simulation still steps on a single goroutine.
type Ensemble struct {
	jobs  []Job
	limit int
}

func NewEnsemble(limit int) *Ensemble {
	if limit <= 0 {
		limit = 1
	}
	return &Ensemble{limit: limit}
}

func (e *Ensemble) Add(j Job) { e.jobs = append(e.jobs, j) }

func (e *Ensemble) Len() int { return len(e.jobs) }

// Run blocks until every job has finished. A failing job does not stop
// the others; its error is reported in its Outcome.
func (e *Ensemble) Run(ctx context.Context) []Outcome {
	outcomes := make([]Outcome, len(e.jobs))

	var g errgroup.Group
	g.SetLimit(e.limit)
	for i, j := range e.jobs {
		g.Go(func() error {
			start := time.Now()
			res, err := j.Simulator.Run(ctx, j.System, j.Config)
			outcomes[i] = Outcome{
				Label:   j.Label,
				Result:  res,
				Elapsed: time.Since(start),
				Err:     err,
			}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}
