// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query mem.prof

package main

import (
	"os"
	"runtime"
	"runtime/pprof"

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
	// CPU Profiling
	f, _ := os.Create("cpu.prof")
	_ = pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	count := 50
	iters := 10000
	entities := 100000
	rareFraction := 100
	run(count, iters, entities, rareFraction)

	// Memory Profiling
	memFile, _ := os.Create("mem.prof")
	defer memFile.Close()
	runtime.GC()
	_ = pprof.WriteHeapProfile(memFile)
}

// run builds the population shape the query iterator is optimized for:
// numEntities carry comp1, and only numEntities/rareFraction of them
// also carry the rare comp2. The query over {comp1, comp2} should walk
// roughly the rare set's size, not the full population.
func run(rounds, iters, numEntities, rareFraction int) {
	for range rounds {
		s, err := ecscore.NewStore(ecscore.DefaultEntityPageSize, ecscore.DefaultPoolPageSize, ecscore.DefaultBitmapWordWidth, nil)
		if err != nil {
			panic(err)
		}
		ecscore.RegisterComponent[comp1](s)
		ecscore.RegisterComponent[comp2](s)

		for i := 0; i < numEntities; i++ {
			id := s.CreateEntity()
			ecscore.AddComponent[comp1](s, id)
			if i%rareFraction == 0 {
				ecscore.AddComponent[comp2](s, id)
			}
		}

		for range iters {
			q := ecscore.Query2[comp1, comp2](s)
			q.ForEach(func(id ecscore.EntityId) bool {
				c1 := ecscore.GetComponent[comp1](s, id)
				c2 := ecscore.GetComponent[comp2](s, id)
				c1.V += c2.V
				c1.W += c2.W
				return true
			})
		}

		ecscore.ResetGlobalDescriptorRegistry()
	}
}
