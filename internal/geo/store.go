// Package geo loads a static GeoJSON feature collection and answers
// radius queries against it. The store is built once at startup and is
// read-only afterwards.
package geo

import (
	"os"
	"strconv"

	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"

	"georag/internal/domain"
)

// One degree of latitude is roughly 111 km. Radius filtering converts
// kilometers into degree space with this flat factor and measures planar
// distance, not great-circle distance. This mirrors the intended
// approximation and must not be replaced by a geodesic calculation.
const kmPerDegree = 111.0

// Store holds the loaded features in file order.
type Store struct {
	features []domain.Feature
}

// Load reads a GeoJSON feature collection from path. A missing file yields
// an empty store, not an error. Feature IDs are assigned from record
// position; polygon geometries are normalized (see repairGeometry) before
// being kept. Coordinates are WGS84 (EPSG:4326).
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			sigolo.Infof("No geographic data found at %s, starting with an empty store", path)
			return &Store{}, nil
		}
		return nil, errors.Wrapf(err, "unable to read geo data file %s", path)
	}

	collection, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse GeoJSON file %s", path)
	}

	store := &Store{features: make([]domain.Feature, 0, len(collection.Features))}
	for i, f := range collection.Features {
		if f.Geometry == nil {
			continue
		}
		store.features = append(store.features, domain.Feature{
			ID:       strconv.Itoa(i),
			Name:     f.Properties.MustString("name", ""),
			Type:     f.Properties.MustString("type", ""),
			Geometry: repairGeometry(f.Geometry),
		})
	}
	sigolo.Infof("Loaded %d features from %s", len(store.features), path)
	return store, nil
}

// Empty reports whether any data was loaded.
func (s *Store) Empty() bool {
	return len(s.features) == 0
}

// Len returns the number of loaded features.
func (s *Store) Len() int {
	return len(s.features)
}

// Features returns all features in file order. Callers must not modify the
// returned slice.
func (s *Store) Features() []domain.Feature {
	return s.features
}

// WithinRadius returns every feature whose geometry lies within radiusKm of
// the given point, preserving store order. The result is an empty slice when
// nothing matches; use Empty to tell "no match" apart from "no data".
func (s *Store) WithinRadius(lat, lon, radiusKm float64) []domain.Feature {
	point := orb.Point{lon, lat}
	threshold := radiusKm / kmPerDegree

	matches := make([]domain.Feature, 0)
	for _, f := range s.features {
		if distanceTo(f.Geometry, point) <= threshold {
			matches = append(matches, f)
		}
	}
	return matches
}

// Bound returns the bounding box enclosing all loaded features.
func (s *Store) Bound() orb.Bound {
	var bound orb.Bound
	for i, f := range s.features {
		if i == 0 {
			bound = f.Geometry.Bound()
			continue
		}
		bound = bound.Union(f.Geometry.Bound())
	}
	return bound
}
