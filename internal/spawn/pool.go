package spawn

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/udisondev/bountyhunter/internal/model"
)

// PrecomputedSpawn is a spawn point placed once at mode start.
type PrecomputedSpawn struct {
	Index    int
	Point    model.SpawnPointID
	Location model.Location
}

// PointFactory places spawn point objects in the host world.
type PointFactory interface {
	CreateSpawnPoint(at model.Location) model.SpawnPointID
}

// Pool is a fixed set of spawn points. Immutable after construction.
type Pool struct {
	spawns []PrecomputedSpawn
	rng    *rand.Rand
}

// NewPool samples size points from region and asks factory to create a
// spawn point at each.
func NewPool(region *Region, size int, factory PointFactory, rng *rand.Rand) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("spawn pool size %d must be positive", size)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	p := &Pool{
		spawns: make([]PrecomputedSpawn, 0, size),
		rng:    rng,
	}
	for i := range size {
		loc := region.SpawnPoint()
		p.spawns = append(p.spawns, PrecomputedSpawn{
			Index:    i,
			Point:    factory.CreateSpawnPoint(loc),
			Location: loc,
		})
	}

	slog.Info("spawn pool created", "size", size, "area", region.TotalArea())
	return p, nil
}

// Pick returns a spawn point chosen uniformly at random.
func (p *Pool) Pick() PrecomputedSpawn {
	return p.spawns[p.rng.IntN(len(p.spawns))]
}

// Len returns the pool size.
func (p *Pool) Len() int {
	return len(p.spawns)
}

// At returns the i-th spawn point.
func (p *Pool) At(i int) PrecomputedSpawn {
	return p.spawns[i]
}
