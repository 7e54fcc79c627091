package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/physics"
)

// Registry resolves the names used in system files and on the command line.
type Registry struct {
	laws      map[string]func() physics.ForceLaw
	schemes   map[string]func() integrators.Scheme
	orderings map[string]integrators.Ordering
}

func NewRegistry() *Registry {
	r := &Registry{
		laws:      make(map[string]func() physics.ForceLaw),
		schemes:   make(map[string]func() integrators.Scheme),
		orderings: make(map[string]integrators.Ordering),
	}

	r.laws["newtonian"] = func() physics.ForceLaw { return physics.NewNewtonian() }
	r.laws["as-built"] = func() physics.ForceLaw { return physics.NewAsBuilt() }

	r.schemes["euler"] = func() integrators.Scheme { return integrators.NewEuler() }
	r.schemes["taylor"] = func() integrators.Scheme { return integrators.NewTaylor() }

	r.orderings[integrators.Sequential.String()] = integrators.Sequential
	r.orderings[integrators.TwoPhase.String()] = integrators.TwoPhase

	return r
}

func (r *Registry) GetLaw(name string) (physics.ForceLaw, error) {
	fn, ok := r.laws[name]
	if !ok {
		return nil, fmt.Errorf("force law %q: %w", name, dynamo.ErrUnknownName)
	}
	return fn(), nil
}

func (r *Registry) GetScheme(name string) (integrators.Scheme, error) {
	fn, ok := r.schemes[name]
	if !ok {
		return nil, fmt.Errorf("scheme %q: %w", name, dynamo.ErrUnknownName)
	}
	return fn(), nil
}

func (r *Registry) GetOrdering(name string) (integrators.Ordering, error) {
	o, ok := r.orderings[name]
	if !ok {
		return 0, fmt.Errorf("ordering %q: %w", name, dynamo.ErrUnknownName)
	}
	return o, nil
}

// Stepper builds the stepper a system file asks for.
func (r *Registry) Stepper(sc config.StepperConfig) (*integrators.Stepper, error) {
	law, err := r.GetLaw(sc.Force)
	if err != nil {
		return nil, err
	}
	scheme, err := r.GetScheme(sc.Scheme)
	if err != nil {
		return nil, err
	}
	ordering, err := r.GetOrdering(sc.Ordering)
	if err != nil {
		return nil, err
	}
	return integrators.New(integrators.Config{
		Dt:       sc.DtDays * dynamo.SecondsPerDay,
		Law:      law,
		Scheme:   scheme,
		Ordering: ordering,
		Guard:    sc.Guard,
	}), nil
}

func (r *Registry) ListLaws() []string      { return sortedKeys(r.laws) }
func (r *Registry) ListSchemes() []string   { return sortedKeys(r.schemes) }
func (r *Registry) ListOrderings() []string { return sortedKeys(r.orderings) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
