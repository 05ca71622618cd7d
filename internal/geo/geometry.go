package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// distanceTo computes the planar distance (in degree space) between a point
// and an arbitrary geometry. A point inside a polygon has distance zero.
func distanceTo(g orb.Geometry, p orb.Point) float64 {
	switch geom := g.(type) {
	case orb.Point:
		return planar.Distance(geom, p)
	case orb.MultiPoint:
		min := math.Inf(1)
		for _, q := range geom {
			if d := planar.Distance(q, p); d < min {
				min = d
			}
		}
		return min
	case orb.LineString:
		return distanceToPath([]orb.Point(geom), p)
	case orb.MultiLineString:
		min := math.Inf(1)
		for _, ls := range geom {
			if d := distanceToPath([]orb.Point(ls), p); d < min {
				min = d
			}
		}
		return min
	case orb.Ring:
		return distanceTo(orb.Polygon{geom}, p)
	case orb.Polygon:
		if planar.PolygonContains(geom, p) {
			return 0
		}
		min := math.Inf(1)
		for _, ring := range geom {
			if d := distanceToPath([]orb.Point(ring), p); d < min {
				min = d
			}
		}
		return min
	case orb.MultiPolygon:
		min := math.Inf(1)
		for _, poly := range geom {
			if d := distanceTo(poly, p); d < min {
				min = d
			}
		}
		return min
	case orb.Collection:
		min := math.Inf(1)
		for _, member := range geom {
			if d := distanceTo(member, p); d < min {
				min = d
			}
		}
		return min
	case orb.Bound:
		return distanceTo(geom.ToPolygon(), p)
	}
	return math.Inf(1)
}

// distanceToPath returns the minimum distance from p to the segments of the
// given point sequence. A single point degenerates to point distance.
func distanceToPath(points []orb.Point, p orb.Point) float64 {
	if len(points) == 0 {
		return math.Inf(1)
	}
	if len(points) == 1 {
		return planar.Distance(points[0], p)
	}
	min := math.Inf(1)
	for i := 0; i < len(points)-1; i++ {
		if d := distanceToSegment(points[i], points[i+1], p); d < min {
			min = d
		}
	}
	return min
}

// distanceToSegment returns the distance from p to the segment a-b by
// projecting p onto the segment and clamping to its endpoints.
func distanceToSegment(a, b, p orb.Point) float64 {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return planar.Distance(a, p)
	}
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / lengthSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := orb.Point{a[0] + t*dx, a[1] + t*dy}
	return planar.Distance(closest, p)
}

// repairGeometry normalizes polygonal geometries so that containment and
// distance checks are well defined: unclosed rings are closed and ring
// orientation is fixed (outer ring counter-clockwise, holes clockwise).
// Non-polygonal geometries pass through unchanged.
func repairGeometry(g orb.Geometry) orb.Geometry {
	switch geom := g.(type) {
	case orb.Polygon:
		return repairPolygon(geom)
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(geom))
		for i, poly := range geom {
			out[i] = repairPolygon(poly)
		}
		return out
	case orb.Collection:
		out := make(orb.Collection, len(geom))
		for i, member := range geom {
			out[i] = repairGeometry(member)
		}
		return out
	}
	return g
}

func repairPolygon(poly orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(poly))
	for i, ring := range poly {
		fixed := make(orb.Ring, len(ring), len(ring)+1)
		copy(fixed, ring)
		if len(fixed) > 0 && !fixed.Closed() {
			fixed = append(fixed, fixed[0])
		}
		want := orb.CCW
		if i > 0 {
			want = orb.CW
		}
		if len(fixed) >= 4 && fixed.Orientation() != want {
			fixed.Reverse()
		}
		out[i] = fixed
	}
	return out
}
