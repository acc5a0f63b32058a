package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLocation(t *testing.T) {
	tests := []struct {
		name    string
		x, y, z float64
		want    Location
	}{
		{name: "zero values", want: Location{0, 0, 0}},
		{name: "positive coordinates", x: 100, y: 200, z: 300, want: Location{100, 200, 300}},
		{name: "negative coordinates", x: -100, y: -200, z: -300, want: Location{-100, -200, -300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewLocation(tt.x, tt.y, tt.z))
		})
	}
}

func TestOffset(t *testing.T) {
	got := Offset(NewLocation(10, 2, -5), 3)
	assert.Equal(t, NewLocation(10, 5, -5), got)
}

func TestDistance(t *testing.T) {
	a := NewLocation(0, 0, 0)
	b := NewLocation(3, 0, 4)

	assert.InDelta(t, 5.0, Distance(a, b), 1e-9)
	assert.InDelta(t, 25.0, DistanceSquared(a, b), 1e-9)
	assert.InDelta(t, 0.0, Distance(b, b), 1e-9)
}
