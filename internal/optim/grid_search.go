package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/sim"
)

// Candidate is one grid point and how it scored.
type Candidate struct {
	Stepper config.StepperConfig
	Score   float64
	Steps   int
	Err     error
}

// Label names the candidate as force/ordering/scheme@dt.
func (c Candidate) Label() string {
	return fmt.Sprintf("%s/%s/%s@%g", c.Stepper.Force, c.Stepper.Ordering, c.Stepper.Scheme, c.Stepper.DtDays)
}

// Within reports whether the candidate ran cleanly and scored at most tol.
func (c Candidate) Within(tol float64) bool {
	return c.Err == nil && !math.IsNaN(c.Score) && c.Score <= tol
}

// GridSearch runs a system over every combination of step size and
// stepper variant and scores each run by one metric.
type GridSearch struct {
	dtDays   []float64
	variants []config.StepperConfig
	workers  int
	log      zerolog.Logger
}

// NewGridSearch searches dtDays × variants. Only Force, Ordering, Scheme
// and Guard of each variant are used.
func NewGridSearch(dtDays []float64, variants []config.StepperConfig, workers int) *GridSearch {
	return &GridSearch{dtDays: dtDays, variants: variants, workers: workers, log: zerolog.Nop()}
}

func (g *GridSearch) WithLogger(l zerolog.Logger) *GridSearch {
	g.log = l
	return g
}

// Search returns every candidate and the best one: the largest step whose
// score stays within tol, ties going to the lower score. best is nil when
// no candidate qualifies.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	registry *experiment.Registry,
	metricName string,
	tol float64,
) (*Candidate, []Candidate, error) {
	if len(g.dtDays) == 0 || len(g.variants) == 0 {
		return nil, nil, fmt.Errorf("empty search grid")
	}

	candidates := make([]Candidate, 0, len(g.dtDays)*len(g.variants))
	ens := sim.NewEnsemble(g.workers)

	for _, v := range g.variants {
		for _, dt := range g.dtDays {
			sc := v
			sc.DtDays = dt

			cfg := base.Clone()
			cfg.Stepper = sc
			if err := cfg.Validate(); err != nil {
				return nil, nil, err
			}

			exp := experiment.New(cfg, registry).WithLogger(g.log)
			if err := exp.Setup(); err != nil {
				return nil, nil, err
			}
			job, err := exp.Job(fmt.Sprint(len(candidates)))
			if err != nil {
				return nil, nil, err
			}
			ens.Add(job)
			candidates = append(candidates, Candidate{Stepper: sc})
		}
	}

	for i, out := range ens.Run(ctx) {
		c := &candidates[i]
		if out.Err != nil {
			c.Err = out.Err
			c.Score = math.NaN()
			continue
		}
		c.Steps = out.Result.StepsTaken
		score, ok := out.Result.Metrics[metricName]
		if !ok {
			return nil, nil, fmt.Errorf("metric %q not recorded", metricName)
		}
		c.Score = score
		if len(out.Result.Errors) > 0 {
			c.Err = out.Result.Errors[0]
		}
		g.log.Debug().Str("candidate", c.Label()).Float64(metricName, score).Msg("scored")
	}

	return best(candidates, tol), candidates, nil
}

func best(candidates []Candidate, tol float64) *Candidate {
	ok := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Within(tol) {
			ok = append(ok, c)
		}
	}
	if len(ok) == 0 {
		return nil
	}
	sort.SliceStable(ok, func(i, j int) bool {
		if ok[i].Stepper.DtDays != ok[j].Stepper.DtDays {
			return ok[i].Stepper.DtDays > ok[j].Stepper.DtDays
		}
		return ok[i].Score < ok[j].Score
	})
	return &ok[0]
}
