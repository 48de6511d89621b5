package models

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	lax := Coordinates{Lat: 33.9425, Lon: -118.4081}
	jfk := Coordinates{Lat: 40.6413, Lon: -73.7781}

	if d := lax.DistanceKm(lax); d != 0 {
		t.Fatalf("distance to self = %v, want 0", d)
	}
	d := lax.DistanceKm(jfk)
	if math.Abs(d-3974) > 5 {
		t.Fatalf("LAX-JFK = %.1f km, want about 3974", d)
	}
	if back := jfk.DistanceKm(lax); math.Abs(back-d) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", d, back)
	}
}
