package ecscore

// System is the peripheral tick-loop collaborator described in §6: the
// store merely hosts a list of these and calls them in registration
// order. Nothing in the pool, directory, or query code depends on this
// interface; a program that never calls AddSystem never pays for it.
type System interface {
	// Initialize runs once, in registration order, before the first Tick.
	Initialize(s *Store)
	// Tick runs once per frame/step, in registration order.
	Tick(s *Store)
}
