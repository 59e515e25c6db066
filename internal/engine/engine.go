package engine

import (
	"fmt"
	"iter"
	"math"

	"github.com/san-kum/fieldsim/internal/arena"
	"github.com/san-kum/fieldsim/internal/collision"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/integrators"
	"github.com/san-kum/fieldsim/internal/particle"
	"gonum.org/v1/gonum/spatial/r2"
)

const DefaultTrailCapacity = 20

// State is the complete mutable simulation state. It is owned by one
// Engine and replaced wholesale by Reset.
type State struct {
	Store          *particle.Store
	Fields         field.Parameters
	Arena          arena.Arena
	Clock          Clock
	Collisions     int
	TickCollisions int
	Repairs        int
}

type Engine struct {
	field     field.Model
	integ     integrators.Integrator
	detector  collision.Detector
	resolver  collision.Resolver
	trailCap  int
	maxSpeed  float64
	logger    Logger
	metrics   []Metric
	observers []Observer

	state   *State
	ticking bool
}

type Option func(*Engine)

func WithFieldModel(m field.Model) Option            { return func(e *Engine) { e.field = m } }
func WithIntegrator(i integrators.Integrator) Option { return func(e *Engine) { e.integ = i } }
func WithDetector(d collision.Detector) Option       { return func(e *Engine) { e.detector = d } }
func WithResolver(r collision.Resolver) Option       { return func(e *Engine) { e.resolver = r } }
func WithTrailCapacity(n int) Option                 { return func(e *Engine) { e.trailCap = n } }
func WithLogger(l Logger) Option                     { return func(e *Engine) { e.logger = l } }

// WithMaxSpeed caps particle speed; 0 leaves it unbounded.
func WithMaxSpeed(v float64) Option { return func(e *Engine) { e.maxSpeed = v } }

func New(opts ...Option) *Engine {
	e := &Engine{
		field:     field.NewLorentz(),
		integ:     integrators.NewSemiImplicitEuler(),
		detector:  collision.NewBruteForce(),
		resolver:  collision.NewElastic(),
		trailCap:  DefaultTrailCapacity,
		logger:    NopLogger(),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = NopLogger()
	}
	return e
}

func (e *Engine) AddMetric(m Metric)     { e.metrics = append(e.metrics, m) }
func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// Metrics returns the current value of every registered metric.
func (e *Engine) Metrics() map[string]float64 {
	out := make(map[string]float64, len(e.metrics))
	for _, m := range e.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Reset validates the new configuration and replaces the state. On error
// the previous state is kept. The clock is left stopped.
func (e *Engine) Reset(factory particle.Factory, fields field.Parameters, a arena.Arena) (Snapshot, error) {
	if factory == nil {
		return Snapshot{}, configErr("factory", "nil particle factory", nil)
	}
	if err := a.Validate(); err != nil {
		return Snapshot{}, configErr("arena", "", err)
	}
	if err := validateFields(fields); err != nil {
		return Snapshot{}, err
	}

	ps, err := factory()
	if err != nil {
		return Snapshot{}, configErr("particles", "factory failed", err)
	}
	for i := range ps {
		if err := validateParticle(&ps[i], a); err != nil {
			return Snapshot{}, err
		}
		ps[i].Trail = particle.NewTrail(e.trailCap)
	}
	store, err := particle.NewStore(ps)
	if err != nil {
		return Snapshot{}, configErr("particles", "", err)
	}

	e.state = &State{Store: store, Fields: fields, Arena: a}
	for _, m := range e.metrics {
		m.Reset()
	}
	e.logger.Debugf("reset: %d particles, arena %.0fx%.0f", store.Len(), a.Width, a.Height)
	return e.snapshot(), nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func validateFields(f field.Parameters) error {
	if !finite(f.Electric, f.Magnetic, f.Gravity.X, f.Gravity.Y, f.Friction) {
		return configErr("fields", "non-finite field parameter", nil)
	}
	if f.Friction < 0 {
		return configErr("fields", fmt.Sprintf("friction must be non-negative, got %f", f.Friction), nil)
	}
	return nil
}

func validateParticle(p *particle.Particle, a arena.Arena) error {
	name := "particle " + p.ID
	switch {
	case !finite(p.Radius) || p.Radius <= 0:
		return configErr(name, fmt.Sprintf("radius must be positive, got %f", p.Radius), nil)
	case !finite(p.Mass) || p.Mass < 0:
		return configErr(name, fmt.Sprintf("mass must be non-negative, got %f", p.Mass), nil)
	case !finite(p.Charge):
		return configErr(name, "non-finite charge", nil)
	case !p.PosFinite() || !p.VelFinite():
		return configErr(name, "non-finite position or velocity", nil)
	case !a.Fits(p.Radius):
		return configErr(name, fmt.Sprintf("radius %f does not fit the arena", p.Radius), nil)
	case !a.Contains(p):
		return configErr(name, fmt.Sprintf("position (%f, %f) outside the arena", p.Pos.X, p.Pos.Y), nil)
	}
	return nil
}

// SetFieldParameters changes the electric and magnetic strengths from the
// next tick on. Gravity and friction are kept.
func (e *Engine) SetFieldParameters(electric, magnetic float64) {
	if e.state == nil {
		return
	}
	if !finite(electric, magnetic) {
		e.logger.Warnf("ignoring non-finite field parameters E=%v B=%v", electric, magnetic)
		return
	}
	e.state.Fields.Electric = electric
	e.state.Fields.Magnetic = magnetic
}

// SetFields replaces all field parameters from the next tick on.
func (e *Engine) SetFields(f field.Parameters) error {
	if e.state == nil {
		return ErrNoState
	}
	if err := validateFields(f); err != nil {
		return err
	}
	e.state.Fields = f
	return nil
}

func (e *Engine) Fields() field.Parameters {
	if e.state == nil {
		return field.Parameters{}
	}
	return e.state.Fields
}

func (e *Engine) Start() {
	if e.state != nil {
		e.state.Clock.Start()
	}
}

func (e *Engine) Stop() {
	if e.state != nil {
		e.state.Clock.Stop()
	}
}

func (e *Engine) Running() bool {
	return e.state != nil && e.state.Clock.Running()
}

func (e *Engine) Elapsed() float64 {
	if e.state == nil {
		return 0
	}
	return e.state.Clock.Elapsed()
}

func (e *Engine) Collisions() int {
	if e.state == nil {
		return 0
	}
	return e.state.Collisions
}

// Snapshot returns the current state without advancing it.
func (e *Engine) Snapshot() Snapshot {
	return e.snapshot()
}

// Tick advances the simulation by exactly one step of dt.
func (e *Engine) Tick(dt float64) (Snapshot, error) {
	if e.state == nil {
		return Snapshot{}, ErrNoState
	}
	if e.ticking {
		return e.snapshot(), ErrReentrantTick
	}
	if !finite(dt) || dt <= 0 {
		return e.snapshot(), fmt.Errorf("%w: dt=%v", ErrInvalidStep, dt)
	}
	if !e.state.Clock.Running() {
		return e.snapshot(), ErrStopped
	}

	e.ticking = true
	defer func() { e.ticking = false }()

	e.step(dt)

	snap := e.snapshot()
	for _, m := range e.metrics {
		m.Observe(snap)
	}
	for _, o := range e.observers {
		o.OnTick(snap)
	}
	return snap, nil
}

// Snapshots ticks once per pull while the engine is running. The stream
// ends when the engine stops or a tick fails.
func (e *Engine) Snapshots(dt float64) iter.Seq[Snapshot] {
	return func(yield func(Snapshot) bool) {
		for e.Running() {
			snap, err := e.Tick(dt)
			if err != nil {
				e.logger.Errorf("snapshot stream ended: %v", err)
				return
			}
			if !yield(snap) {
				return
			}
		}
	}
}

func (e *Engine) step(dt float64) {
	st := e.state
	ps := st.Store.Slice()

	for i := range ps {
		p := &ps[i]
		e.field.Apply(p, st.Fields, dt)
		e.sanitizeVelocity(p)

		prev := p.Pos
		e.integ.Step(p, dt)
		if !p.PosFinite() {
			e.logger.Warnf("particle %s: non-finite position, reverting to %v", p.ID, prev)
			p.Pos = prev
			p.Vel = r2.Vec{}
			st.Repairs++
		}
		st.Arena.Reflect(p)
	}

	st.TickCollisions = 0
	for _, pair := range e.detector.Detect(ps) {
		a, b := &ps[pair.I], &ps[pair.J]
		// every detected pair counts, massless ones included
		st.TickCollisions++
		c, ok := e.resolver.Resolve(a, b)
		if !ok {
			continue
		}
		if c.Degenerate {
			e.logger.Debugf("coincident particles %s and %s, using fallback normal", a.ID, b.ID)
		}
		e.sanitizeVelocity(a)
		e.sanitizeVelocity(b)
		st.Arena.Contain(a)
		st.Arena.Contain(b)
	}
	st.Collisions += st.TickCollisions

	for i := range ps {
		ps[i].Trail.Push(ps[i].Pos)
	}
	st.Clock.Advance(dt)
}

func (e *Engine) sanitizeVelocity(p *particle.Particle) {
	if !p.VelFinite() {
		e.logger.Warnf("particle %s: non-finite velocity, reset to zero", p.ID)
		p.Vel = r2.Vec{}
		e.state.Repairs++
		return
	}
	if e.maxSpeed > 0 {
		if s := p.Speed(); s > e.maxSpeed {
			p.Vel = r2.Scale(e.maxSpeed/s, p.Vel)
		}
	}
}

func (e *Engine) snapshot() Snapshot {
	st := e.state
	if st == nil {
		return Snapshot{}
	}
	snap := Snapshot{
		Time:           st.Clock.Elapsed(),
		Tick:           st.Clock.Ticks(),
		CollisionCount: st.Collisions,
		TickCollisions: st.TickCollisions,
		Repairs:        st.Repairs,
		Running:        st.Clock.Running(),
		Fields:         st.Fields,
		Arena:          st.Arena,
		Particles:      make([]ParticleView, 0, st.Store.Len()),
	}
	st.Store.Each(func(_ int, p *particle.Particle) {
		v := ParticleView{
			ID: p.ID, X: p.Pos.X, Y: p.Pos.Y, VX: p.Vel.X, VY: p.Vel.Y,
			Kind: p.Kind, Mass: p.Mass, Charge: p.Charge, Radius: p.Radius,
		}
		if p.Trail != nil {
			v.Trail = p.Trail.Points()
		}
		snap.Particles = append(snap.Particles, v)
	})
	return snap
}
