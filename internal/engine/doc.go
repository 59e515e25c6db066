// Package engine is the composition root of the particle-field simulation.
//
// One tick runs a fixed pipeline over the particle store:
//
//   - [field.Model]: field impulse on each velocity
//   - [integrators.Integrator]: position update
//   - [arena.Arena]: wall clamp and damped reflection
//   - [collision.Detector] and [collision.Resolver]: contact handling
//   - [particle.Trail]: position history for display
//
// after which the [Clock] advances by dt and a [Snapshot] is returned.
//
// # Example
//
//	eng := engine.New(engine.WithTrailCapacity(20))
//	factory := particle.NewFactory(particle.ClassicLayout(), 580, 320, seed)
//	eng.Reset(factory, field.Parameters{Magnetic: 2}, arena.Default())
//	eng.Start()
//	for snap := range eng.Snapshots(1) {
//		if snap.Time >= 100 {
//			eng.Stop()
//		}
//	}
//
// # Thread Safety
//
// An Engine has a single owner and no internal locking. Callers must not
// tick it from more than one goroutine. Independent engines may run in
// parallel; see experiment.Ensemble.
package engine
