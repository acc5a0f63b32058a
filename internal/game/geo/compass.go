package geo

import (
	"math"

	"github.com/udisondev/bountyhunter/internal/model"
)

// Direction is one of the eight compass sectors, 45° wide each and centered
// on its nominal bearing (N covers [337.5, 22.5)).
type Direction uint8

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest

	sectors = 8
)

var directionNames = [sectors]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

func (d Direction) String() string {
	if int(d) >= sectors {
		return "?"
	}
	return directionNames[d]
}

// HeadingDegrees returns the bearing from one point to another in [0, 360).
// North is -Z and East is +X, so the angle is atan2(dx, -dz).
func HeadingDegrees(from, to model.Location) float64 {
	dx := to.X() - from.X()
	dz := to.Z() - from.Z()
	deg := math.Atan2(dx, -dz) * 180 / math.Pi
	return normalizeDegrees(deg)
}

// Compass snaps a bearing in degrees to its sector.
func Compass(deg float64) Direction {
	deg = normalizeDegrees(deg)
	sector := int(math.Floor((deg+22.5)/45)) % sectors
	return Direction(sector)
}

// Bearing returns the compass sector from one point to another.
func Bearing(from, to model.Location) Direction {
	return Compass(HeadingDegrees(from, to))
}

// TruncatedDistance returns the distance truncated toward zero.
func TruncatedDistance(d float64) int {
	if d < 0 || math.IsNaN(d) {
		return 0
	}
	return int(d)
}

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// -0.0000001 mod 360 + 360 rounds to 360
	if deg >= 360 {
		deg = 0
	}
	return deg
}
