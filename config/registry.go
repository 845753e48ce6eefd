package config

import (
	"fmt"
	"slices"
	"sort"

	"github.com/rhartert/tradeways/hooks"
	"github.com/rhartert/tradeways/sim"
	"github.com/rhartert/tradeways/step"
	"gopkg.in/yaml.v3"
)

// Factory builds a value from the args of its configuration. args is nil
// when the configuration has none.
type Factory[T any] func(args *yaml.Node) (T, error)

// Registry maps stable names to factories.
type Registry[T any] struct {
	kind      string
	factories map[string]Factory[T]
}

// NewRegistry returns an empty registry. kind names the registered values
// in error messages, e.g. "step policy".
func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{kind: kind, factories: map[string]Factory[T]{}}
}

// Register adds a factory, replacing any previous one with the same name.
func (r *Registry[T]) Register(name string, f Factory[T]) {
	r.factories[name] = f
}

// Names returns the registered names in lexicographic order.
func (r *Registry[T]) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build returns the value produced by the named factory.
func (r *Registry[T]) Build(name string, args *yaml.Node) (T, error) {
	f, ok := r.factories[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown %s %q (valid: %v)", r.kind, name, r.Names())
	}
	v, err := f(args)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s %q: %w", r.kind, name, err)
	}
	return v, nil
}

// Decode returns a factory decoding args over a copy of defaults and
// checking the result with validate, which may be nil.
func Decode[A any, T any](defaults A, validate func(A) error, build func(A) T) Factory[T] {
	return func(args *yaml.Node) (T, error) {
		a := defaults
		if args != nil && args.Kind != 0 {
			if err := args.Decode(&a); err != nil {
				var zero T
				return zero, fmt.Errorf("decoding args: %w", err)
			}
		}
		if validate != nil {
			if err := validate(a); err != nil {
				var zero T
				return zero, err
			}
		}
		return build(a), nil
	}
}

func positive(name string, v float64) error {
	if v <= 0 {
		return fmt.Errorf("%s must be positive, got %g", name, v)
	}
	return nil
}

// Registries holds the named step policies and hooks configurations can
// refer to.
type Registries struct {
	Steps       *Registry[step.Policy]
	PrepareDay  *Registry[sim.PrepareDayHook]
	DefineState *Registry[sim.DefineStateHook]
}

// DefaultRegistries returns the registries of the policies and hooks
// shipped with tradeways.
func DefaultRegistries() *Registries {
	steps := NewRegistry[step.Policy]("step policy")
	steps.Register("speed", Decode(step.DefaultSpeed(), func(s step.Speed) error {
		return positive("speed", s.Speed)
	}, func(s step.Speed) step.Policy { return s }))
	steps.Register("fixed", Decode(step.Fixed{Speed: 4}, func(f step.Fixed) error {
		return positive("speed", f.Speed)
	}, func(f step.Fixed) step.Policy { return f }))
	steps.Register("river", Decode(step.DefaultRiver(), func(r step.River) error {
		return positive("tow_speed", r.TowSpeed)
	}, func(r step.River) step.Policy { return r }))
	steps.Register("hiking", Decode(step.DefaultHiking(), func(h step.Hiking) error {
		return positive("speed", h.Speed)
	}, func(h step.Hiking) step.Policy { return h }))

	prepare := NewRegistry[sim.PrepareDayHook]("prepare_day hook")
	prepare.Register("day_window", Decode(hooks.DayWindow{Start: sim.DefaultDayStart, End: sim.DefaultDayEnd}, func(w hooks.DayWindow) error {
		if w.Start < 0 || w.End > 24 || w.End <= w.Start {
			return fmt.Errorf("invalid day window [%g, %g]", w.Start, w.End)
		}
		return nil
	}, func(w hooks.DayWindow) sim.PrepareDayHook { return w }))
	prepare.Register("daylight", Decode(hooks.DefaultDaylight(), nil,
		func(d hooks.Daylight) sim.PrepareDayHook { return d }))

	define := NewRegistry[sim.DefineStateHook]("define_state hook")
	define.Register("loading_delay", Decode(hooks.DefaultLoadingDelay(), func(l hooks.LoadingDelay) error {
		if l.Hours < 0 {
			return fmt.Errorf("hours must be non-negative, got %g", l.Hours)
		}
		return nil
	}, func(l hooks.LoadingDelay) sim.DefineStateHook { return l }))
	define.Register("force_overnight", Decode(hooks.ForceOvernight{After: 14}, nil,
		func(f hooks.ForceOvernight) sim.DefineStateHook { return f }))

	return &Registries{Steps: steps, PrepareDay: prepare, DefineState: define}
}

// Dispatcher builds the step dispatcher of the given configurations, in
// order.
func (r *Registries) Dispatcher(steps []StepConfig) (*step.Dispatcher, error) {
	entries := make([]step.Entry, 0, len(steps))
	names := []string{}
	for i, sc := range steps {
		p, err := r.Steps.Build(sc.Policy, &sc.Args)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		name := sc.Name
		if name == "" {
			name = sc.Policy
		}
		if slices.Contains(names, name) {
			name = fmt.Sprintf("%s#%d", name, i)
		}
		names = append(names, name)
		entries = append(entries, step.Entry{Name: name, Condition: sc.Condition, Policy: p})
	}
	return step.NewDispatcher(entries...), nil
}

// PrepareDayHooks builds the prepare_day hooks of the given configurations.
func (r *Registries) PrepareDayHooks(mods []ModuleConfig) ([]sim.PrepareDayHook, error) {
	return buildAll(r.PrepareDay, mods)
}

// DefineStateHooks builds the define_state hooks of the given
// configurations.
func (r *Registries) DefineStateHooks(mods []ModuleConfig) ([]sim.DefineStateHook, error) {
	return buildAll(r.DefineState, mods)
}

func buildAll[T any](reg *Registry[T], mods []ModuleConfig) ([]T, error) {
	out := make([]T, 0, len(mods))
	for i, m := range mods {
		v, err := reg.Build(m.Name, &m.Args)
		if err != nil {
			return nil, fmt.Errorf("hook %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
