package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	sydneyLat = -33.8688
	sydneyLng = 151.2093
)

func TestCheckAtCenter(t *testing.T) {
	fence := Fence{Enabled: true, Lat: sydneyLat, Lng: sydneyLng, RadiusMeters: 500}
	result := fence.Check(sydneyLat, sydneyLng)
	assert.True(t, result.Valid)
	assert.Equal(t, float64(0), result.DistanceMeters)
}

func TestCheckInsideRadius(t *testing.T) {
	fence := Fence{Enabled: true, Lat: sydneyLat, Lng: sydneyLng, RadiusMeters: 500}
	// Roughly 150m north of the reference point.
	result := fence.Check(sydneyLat+0.00135, sydneyLng)
	assert.True(t, result.Valid)
	assert.Greater(t, result.DistanceMeters, float64(100))
	assert.Less(t, result.DistanceMeters, float64(200))
}

func TestCheckOutsideRadius(t *testing.T) {
	fence := Fence{Enabled: true, Lat: sydneyLat, Lng: sydneyLng, RadiusMeters: 500}
	// Melbourne is several hundred kilometers away.
	result := fence.Check(-37.8136, 144.9631)
	assert.False(t, result.Valid)
	assert.Greater(t, result.DistanceMeters, float64(500000))
}

func TestCheckDisabledFenceAcceptsAnything(t *testing.T) {
	fence := Fence{Enabled: false, Lat: sydneyLat, Lng: sydneyLng, RadiusMeters: 500}
	assert.True(t, fence.Check(-37.8136, 144.9631).Valid)
}

func TestDistanceSymmetry(t *testing.T) {
	a := Distance(sydneyLat, sydneyLng, -37.8136, 144.9631)
	b := Distance(-37.8136, 144.9631, sydneyLat, sydneyLng)
	assert.InDelta(t, a, b, 0.001)
}
