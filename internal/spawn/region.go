package spawn

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/udisondev/bountyhunter/internal/model"
)

// Errors.
var (
	ErrNoRectangles = errors.New("spawn region has no rectangles")
	ErrZeroArea     = errors.New("spawn region has zero total area")
)

// Region samples uniformly distributed points over a union of rectangles,
// each rectangle weighted by its area. Overlaps are not deduplicated.
type Region struct {
	rects      []model.Rect
	cumulative []float64 // cumulative[i] = sum of areas of rects[0..i]
	total      float64
	elevation  float64
	rng        *rand.Rand
}

// NewRegion builds the sampler. Rectangles with zero or negative area are
// dropped. rng may be nil, in which case a randomly seeded source is used.
func NewRegion(rects []model.Rect, elevation float64, rng *rand.Rand) (*Region, error) {
	if len(rects) == 0 {
		return nil, fmt.Errorf("building spawn region: %w", ErrNoRectangles)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	r := &Region{
		rects:      make([]model.Rect, 0, len(rects)),
		cumulative: make([]float64, 0, len(rects)),
		elevation:  elevation,
		rng:        rng,
	}
	for _, rect := range rects {
		area := rect.Area()
		if area <= 0 || rect.Width() <= 0 || rect.Depth() <= 0 {
			continue
		}
		r.total += area
		r.rects = append(r.rects, rect)
		r.cumulative = append(r.cumulative, r.total)
	}

	if len(r.rects) == 0 {
		return nil, fmt.Errorf("building spawn region from %d rectangles: %w", len(rects), ErrZeroArea)
	}
	return r, nil
}

// SpawnPoint returns a random point. A rectangle is picked with probability
// proportional to its area, then x and z are drawn uniformly from
// [min, max) inside it.
func (r *Region) SpawnPoint() model.Location {
	rect := r.rects[r.pick(r.rng.Float64()*r.total)]
	x := rect.MinX + r.rng.Float64()*rect.Width()
	z := rect.MinZ + r.rng.Float64()*rect.Depth()
	return model.NewLocation(x, r.elevation, z)
}

// pick returns the first index whose cumulative area is >= v.
func (r *Region) pick(v float64) int {
	i, _ := slices.BinarySearch(r.cumulative, v)
	if i >= len(r.cumulative) {
		i = len(r.cumulative) - 1
	}
	return i
}

// TotalArea returns the summed area of the weighted rectangles.
func (r *Region) TotalArea() float64 {
	return r.total
}

// Len returns the number of rectangles that carry weight.
func (r *Region) Len() int {
	return len(r.rects)
}

// Rect returns the i-th weighted rectangle.
func (r *Region) Rect(i int) model.Rect {
	return r.rects[i]
}
