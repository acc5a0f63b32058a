package model

import "github.com/go-gl/mathgl/mgl64"

// Location представляет координаты в игровом мире.
// Y это вертикаль, плоскость карты X/Z. Value type, передаётся по значению.
type Location = mgl64.Vec3

// NewLocation создаёт Location с указанными координатами.
func NewLocation(x, y, z float64) Location {
	return Location{x, y, z}
}

// Offset возвращает точку, смещённую по вертикали на height.
func Offset(l Location, height float64) Location {
	return l.Add(Location{0, height, 0})
}

// Distance возвращает евклидово расстояние между двумя точками.
func Distance(a, b Location) float64 {
	return a.Sub(b).Len()
}

// DistanceSquared возвращает квадрат расстояния (без sqrt для производительности).
func DistanceSquared(a, b Location) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}
