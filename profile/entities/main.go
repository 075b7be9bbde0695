// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/pkg/profile"
	"github.com/rhisiart/ecscore"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	count := 50
	iters := 10000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		s, err := ecscore.NewStore(ecscore.DefaultEntityPageSize, ecscore.DefaultPoolPageSize, ecscore.DefaultBitmapWordWidth, nil)
		if err != nil {
			panic(err)
		}
		ecscore.RegisterComponent[comp1](s)
		ecscore.RegisterComponent[comp2](s)

		for range iters {
			ids := make([]ecscore.EntityId, 0, numEntities)
			for range numEntities {
				id := s.CreateEntity()
				ecscore.AddComponent[comp1](s, id)
				ecscore.AddComponent[comp2](s, id)
				ids = append(ids, id)
			}

			q := ecscore.Query2[comp1, comp2](s)
			q.ForEach(func(id ecscore.EntityId) bool {
				c1 := ecscore.GetComponent[comp1](s, id)
				c2 := ecscore.GetComponent[comp2](s, id)
				c1.V += c2.V
				c1.W += c2.W
				return true
			})

			for _, id := range ids {
				s.DestroyEntity(id)
			}
		}

		ecscore.ResetGlobalDescriptorRegistry()
	}
}
