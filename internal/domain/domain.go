package domain

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// Feature is one geographic entity loaded from the feature collection.
// Features are created once at store initialization and never mutated.
type Feature struct {
	ID       string
	Name     string
	Type     string
	Geometry orb.Geometry
}

// Description renders the text that gets embedded and retrieved for this
// feature: "{name} ({type}) at {geometry as WKT}".
func (f Feature) Description() string {
	return fmt.Sprintf("%s (%s) at %s", f.Name, f.Type, wkt.MarshalString(f.Geometry))
}

// Metadata is the attribute snapshot stored alongside each vector.
type Metadata struct {
	Name string `json:"name"`
	Type string `json:"type"`
	WKT  string `json:"wkt"`
}

// Entry is the embedded representation of a single Feature held by a
// vector store. Entry.ID equals the Feature's ID, one-to-one.
type Entry struct {
	ID       string
	Document string
	Meta     Metadata
}

// SearchHit is a retrieved entry together with its similarity score.
type SearchHit struct {
	Entry Entry
	Score float64
}
