package particle

import "fmt"

// Store owns the particle records of one run. Order is insertion order
// and is the order every pipeline stage iterates in.
type Store struct {
	particles []Particle
	index     map[string]int
}

func NewStore(ps []Particle) (*Store, error) {
	s := &Store{
		particles: make([]Particle, len(ps)),
		index:     make(map[string]int, len(ps)),
	}
	for i, p := range ps {
		if _, dup := s.index[p.ID]; dup {
			return nil, fmt.Errorf("duplicate particle id: %q", p.ID)
		}
		s.index[p.ID] = i
		s.particles[i] = p
	}
	return s, nil
}

func (s *Store) Len() int { return len(s.particles) }

// At returns a pointer into the store; valid until the store is replaced.
func (s *Store) At(i int) *Particle { return &s.particles[i] }

func (s *Store) Get(id string) (*Particle, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return &s.particles[i], true
}

// Each visits particles in store order.
func (s *Store) Each(fn func(i int, p *Particle)) {
	for i := range s.particles {
		fn(i, &s.particles[i])
	}
}

// Slice exposes the backing slice for stages that need random access.
func (s *Store) Slice() []Particle { return s.particles }
