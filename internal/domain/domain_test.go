package domain

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestFeatureDescription(t *testing.T) {
	f := Feature{
		ID:       "0",
		Name:     "Lake Park",
		Type:     "park",
		Geometry: orb.Point{77.5946, 12.9716},
	}

	desc := f.Description()
	assert.True(t, strings.HasPrefix(desc, "Lake Park (park) at POINT"), "got %q", desc)
	assert.Contains(t, desc, "77.5946")
	assert.Contains(t, desc, "12.9716")
}

func TestFeatureDescriptionWithEmptyAttributes(t *testing.T) {
	f := Feature{ID: "1", Geometry: orb.Point{0, 0}}

	desc := f.Description()
	assert.True(t, strings.HasPrefix(desc, " () at POINT"), "got %q", desc)
}
