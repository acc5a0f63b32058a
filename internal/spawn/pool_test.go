package spawn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/bountyhunter/internal/model"
)

type fakeFactory struct {
	created []model.Location
}

func (f *fakeFactory) CreateSpawnPoint(at model.Location) model.SpawnPointID {
	f.created = append(f.created, at)
	return model.SpawnPointID(100 + len(f.created))
}

func newTestPool(t *testing.T, size int) (*Pool, *fakeFactory) {
	t.Helper()
	rect := model.Rect{MinX: 0, MinZ: 0, MaxX: 50, MaxZ: 50}
	region, err := NewRegion([]model.Rect{rect}, 1, newRand())
	require.NoError(t, err)

	factory := &fakeFactory{}
	pool, err := NewPool(region, size, factory, newRand())
	require.NoError(t, err)
	return pool, factory
}

func TestNewPool(t *testing.T) {
	pool, factory := newTestPool(t, 8)

	require.Equal(t, 8, pool.Len())
	require.Len(t, factory.created, 8)
	for i := range pool.Len() {
		s := pool.At(i)
		assert.Equal(t, i, s.Index)
		assert.Equal(t, model.SpawnPointID(101+i), s.Point)
		assert.Equal(t, factory.created[i], s.Location)
	}
}

func TestNewPool_InvalidSize(t *testing.T) {
	region, err := NewRegion([]model.Rect{{MaxX: 1, MaxZ: 1}}, 0, newRand())
	require.NoError(t, err)

	_, err = NewPool(region, 0, &fakeFactory{}, nil)
	assert.Error(t, err)
}

func TestPool_PickCoversPool(t *testing.T) {
	pool, _ := newTestPool(t, 4)

	seen := make(map[int]int)
	for range 1000 {
		s := pool.Pick()
		seen[s.Index]++
	}
	assert.Len(t, seen, 4)
}
