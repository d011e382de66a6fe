// Package geo loads the world-geometry reference data used by the choropleth
// map. The data is a GeoJSON feature collection with one feature per country,
// keyed by ISO 3166-1 alpha-3 code. It is read-only reference data; rows that
// fail to join against it are rendered as "no data", never an error.
package geo

import (
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Country is one country's outline plus its join key.
type Country struct {
	ISOCode  string
	Name     string
	Geometry orb.Geometry
}

// World holds the country geometries for choropleth rendering.
type World struct {
	Countries []Country
}

// Property keys vary between Natural Earth exports; try the common spellings.
var (
	isoKeys  = []string{"ISO_A3", "iso_a3", "ADM0_A3", "adm0_a3", "iso_code"}
	nameKeys = []string{"ADMIN", "NAME", "admin", "name"}
)

// Load reads a GeoJSON file of country polygons. Features without a usable
// ISO code or with non-areal geometry are skipped.
func Load(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read geometry file: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geometry file: %w", err)
	}

	w := &World{}
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			continue
		}

		iso := stringProp(f.Properties, isoKeys)
		// Natural Earth uses "-99" for disputed territories without a code.
		if iso == "" || iso == "-99" {
			continue
		}
		w.Countries = append(w.Countries, Country{
			ISOCode:  strings.ToUpper(iso),
			Name:     stringProp(f.Properties, nameKeys),
			Geometry: f.Geometry,
		})
	}

	if len(w.Countries) == 0 {
		return nil, fmt.Errorf("geometry file %s contains no usable countries", path)
	}
	return w, nil
}

func stringProp(props geojson.Properties, keys []string) string {
	for _, k := range keys {
		if v, ok := props[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
