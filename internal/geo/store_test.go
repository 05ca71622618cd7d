package geo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "Lake Park", "type": "park"},
      "geometry": {"type": "Point", "coordinates": [77.5946, 12.9716]}
    },
    {
      "type": "Feature",
      "properties": {"name": "City Mall", "type": "commercial"},
      "geometry": {"type": "Point", "coordinates": [77.6, 12.98]}
    },
    {
      "type": "Feature",
      "properties": {"name": "River Zone", "type": "nature"},
      "geometry": {"type": "Polygon", "coordinates": [[[77.0, 12.0], [77.1, 12.0], [77.1, 12.1], [77.0, 12.1]]]}
    }
  ]
}`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.geojson")
	require.NoError(t, os.WriteFile(path, []byte(sampleCollection), 0o644))
	return path
}

func TestLoadMissingFileGivesEmptyStore(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "does-not-exist.geojson"))
	require.NoError(t, err)
	assert.True(t, store.Empty())
	assert.Empty(t, store.WithinRadius(12.9716, 77.5946, 50))
}

func TestLoadInvalidFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.geojson")
	require.NoError(t, os.WriteFile(path, []byte("not geojson"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadAssignsPositionalIDs(t *testing.T) {
	store, err := Load(writeSample(t))
	require.NoError(t, err)
	require.Equal(t, 3, store.Len())

	features := store.Features()
	assert.Equal(t, "0", features[0].ID)
	assert.Equal(t, "Lake Park", features[0].Name)
	assert.Equal(t, "park", features[0].Type)
	assert.Equal(t, "1", features[1].ID)
	assert.Equal(t, "2", features[2].ID)
}

func TestLoadIsDeterministic(t *testing.T) {
	path := writeSample(t)
	first, err := Load(path)
	require.NoError(t, err)
	second, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, first.Len(), second.Len())
	for i := range first.Features() {
		a, b := first.Features()[i], second.Features()[i]
		assert.Equal(t, a.ID, b.ID)
		assert.Equal(t, a.Name, b.Name)
		assert.Equal(t, a.Type, b.Type)
		assert.Equal(t, a.Description(), b.Description())
	}
}

func TestLoadClosesAndOrientsPolygonRings(t *testing.T) {
	store, err := Load(writeSample(t))
	require.NoError(t, err)

	poly, ok := store.Features()[2].Geometry.(orb.Polygon)
	require.True(t, ok)
	require.Len(t, poly, 1)
	assert.True(t, poly[0].Closed())
	assert.Equal(t, orb.CCW, poly[0].Orientation())
}

func TestWithinRadiusIncludesFeatureAtQueryPoint(t *testing.T) {
	store, err := Load(writeSample(t))
	require.NoError(t, err)

	nearby := store.WithinRadius(12.9716, 77.5946, 5)
	require.NotEmpty(t, nearby)
	assert.Equal(t, "Lake Park", nearby[0].Name)
}

func TestWithinRadiusPreservesStoreOrder(t *testing.T) {
	store, err := Load(writeSample(t))
	require.NoError(t, err)

	nearby := store.WithinRadius(12.9716, 77.5946, 10)
	require.Len(t, nearby, 2)
	assert.Equal(t, "Lake Park", nearby[0].Name)
	assert.Equal(t, "City Mall", nearby[1].Name)
}

func TestWithinRadiusIsMonotonic(t *testing.T) {
	store, err := Load(writeSample(t))
	require.NoError(t, err)

	var previous map[string]struct{}
	for _, radius := range []float64{1, 2, 5, 20, 100, 500} {
		nearby := store.WithinRadius(12.9716, 77.5946, radius)
		assert.LessOrEqual(t, len(nearby), store.Len())

		current := make(map[string]struct{}, len(nearby))
		for _, f := range nearby {
			current[f.ID] = struct{}{}
		}
		for id := range previous {
			_, still := current[id]
			assert.True(t, still, "feature %s dropped at radius %g", id, radius)
		}
		previous = current
	}
}

func TestWithinRadiusPointInsidePolygonHasZeroDistance(t *testing.T) {
	store, err := Load(writeSample(t))
	require.NoError(t, err)

	nearby := store.WithinRadius(12.05, 77.05, 1)
	require.Len(t, nearby, 1)
	assert.Equal(t, "River Zone", nearby[0].Name)
}

func TestDistanceToSegmentClampsToEndpoints(t *testing.T) {
	a := orb.Point{0, 0}
	b := orb.Point{2, 0}

	assert.InDelta(t, 1.0, distanceToSegment(a, b, orb.Point{1, 1}), 1e-9)
	assert.InDelta(t, 1.0, distanceToSegment(a, b, orb.Point{-1, 0}), 1e-9)
	assert.InDelta(t, 1.0, distanceToSegment(a, b, orb.Point{3, 0}), 1e-9)
	assert.InDelta(t, 0.0, distanceToSegment(a, b, orb.Point{0.5, 0}), 1e-9)
}

func TestDistanceToDegenerateSegment(t *testing.T) {
	a := orb.Point{1, 1}
	assert.InDelta(t, 1.0, distanceToSegment(a, a, orb.Point{1, 2}), 1e-9)
}
