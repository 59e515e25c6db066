package engine_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fieldsim/internal/arena"
	"github.com/san-kum/fieldsim/internal/engine"
	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/particle"
	"gonum.org/v1/gonum/spatial/r2"
)

var _ = Describe("Engine lifecycle", func() {
	var (
		eng     *engine.Engine
		factory particle.Factory
		box     arena.Arena
	)

	BeforeEach(func() {
		eng = engine.New()
		box = arena.Default()
		factory = particle.NewFactory(particle.ClassicLayout(), box.Width, box.Height, 7)
	})

	It("refuses to tick before a reset", func() {
		_, err := eng.Tick(1)
		Expect(err).To(MatchError(engine.ErrNoState))
		Expect(eng.Running()).To(BeFalse())
	})

	Context("after a reset", func() {
		var initial engine.Snapshot

		BeforeEach(func() {
			var err error
			initial, err = eng.Reset(factory, field.Parameters{}, box)
			Expect(err).NotTo(HaveOccurred())
		})

		It("starts stopped at time zero", func() {
			Expect(initial.Running).To(BeFalse())
			Expect(initial.Time).To(BeZero())
			Expect(initial.CollisionCount).To(BeZero())
			Expect(initial.Particles).To(HaveLen(particle.ClassicLayout().Total()))
		})

		It("keeps state when ticked while stopped", func() {
			snap, err := eng.Tick(1)
			Expect(err).To(MatchError(engine.ErrStopped))
			Expect(snap).To(Equal(initial))
		})

		It("advances time only while running", func() {
			eng.Start()
			for i := 0; i < 10; i++ {
				_, err := eng.Tick(1)
				Expect(err).NotTo(HaveOccurred())
			}
			eng.Stop()
			_, err := eng.Tick(1)
			Expect(err).To(MatchError(engine.ErrStopped))
			Expect(eng.Elapsed()).To(BeNumerically("==", 10))
		})

		It("never decreases the collision counter", func() {
			eng.Start()
			last := 0
			for i := 0; i < 200; i++ {
				snap, err := eng.Tick(1)
				Expect(err).NotTo(HaveOccurred())
				Expect(snap.CollisionCount).To(BeNumerically(">=", last))
				last = snap.CollisionCount
			}
		})

		It("applies field changes from the next tick", func() {
			eng.SetFieldParameters(4, -2)
			Expect(eng.Fields().Electric).To(Equal(4.0))
			Expect(eng.Fields().Magnetic).To(Equal(-2.0))

			eng.SetFieldParameters(math.NaN(), 1)
			Expect(eng.Fields().Electric).To(Equal(4.0))
		})

		It("rejects invalid fields without touching the current ones", func() {
			err := eng.SetFields(field.Parameters{Friction: -0.5})
			Expect(err).To(MatchError(engine.ErrConfiguration))
			Expect(eng.Fields()).To(Equal(field.Parameters{}))
		})

		It("restores the initial configuration on reset", func() {
			eng.Start()
			for i := 0; i < 30; i++ {
				_, err := eng.Tick(1)
				Expect(err).NotTo(HaveOccurred())
			}
			again, err := eng.Reset(factory, field.Parameters{}, box)
			Expect(err).NotTo(HaveOccurred())
			Expect(again).To(Equal(initial))
		})
	})

	Context("with a lone charged particle in a magnetic field", func() {
		It("keeps its speed", func() {
			p := particle.New("e", particle.Light, r2.Vec{X: 290, Y: 160}, r2.Vec{X: 1.5})
			_, err := eng.Reset(particle.Fixed(p), field.Parameters{Magnetic: 5}, box)
			Expect(err).NotTo(HaveOccurred())
			eng.Start()

			for i := 0; i < 50; i++ {
				snap, err := eng.Tick(0.1)
				Expect(err).NotTo(HaveOccurred())
				Expect(snap.Particles[0].Speed()).To(BeNumerically("~", 1.5, 0.05))
			}
		})
	})
})
