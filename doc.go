// Package ecscore implements a paged, type-erased Entity-Component-Store
// core for simulation and game-like workloads with large, churning
// entity populations.
//
// Features:
// - Paged component pools with a hierarchical two-level occupancy bitmap
//   and an intrusive free-list; pages are never reclaimed or moved, so
//   component pointers stay valid for the cell's lifetime.
// - A paged entity directory decoupling stable EntityId handles from the
//   physical slots that back them, with its own free-list and page size.
// - A multi-component intersection query that walks the rarest pool and
//   probes the others through the entity's own component map, so cost
//   tracks the rarest component rather than total population.
// - A thin generic front door (AddComponent[T], GetComponent[T], ...)
//   over the type-erased core; the erased surface is the real engine.
//
// Single-threaded: no operation on a Store may run concurrently with
// another, and a query must not be interleaved with mutation of the
// queried component types.
package ecscore
