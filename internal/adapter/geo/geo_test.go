package geo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"ISO_A3": "ken", "ADMIN": "Kenya"},
      "geometry": {"type": "Polygon", "coordinates": [[[34, -4], [42, -4], [42, 5], [34, 5], [34, -4]]]}
    },
    {
      "type": "Feature",
      "properties": {"iso_a3": "IDN", "name": "Indonesia"},
      "geometry": {"type": "MultiPolygon", "coordinates": [[[[95, -10], [141, -10], [141, 6], [95, 6], [95, -10]]]]}
    },
    {
      "type": "Feature",
      "properties": {"ISO_A3": "-99", "ADMIN": "Somaliland"},
      "geometry": {"type": "Polygon", "coordinates": [[[43, 8], [48, 8], [48, 11], [43, 11], [43, 8]]]}
    },
    {
      "type": "Feature",
      "properties": {"ISO_A3": "SGP", "ADMIN": "Singapore"},
      "geometry": {"type": "Point", "coordinates": [103.8, 1.35]}
    },
    {
      "type": "Feature",
      "properties": {"ADMIN": "Nowhere"},
      "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 1], [0, 0]]]}
    }
  ]
}`

func writeGeoJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.geojson")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	world, err := Load(writeGeoJSON(t, sampleGeoJSON))
	require.NoError(t, err)

	// The "-99" placeholder code, the point geometry, and the feature without
	// an ISO code are all skipped.
	require.Len(t, world.Countries, 2)

	kenya := world.Countries[0]
	assert.Equal(t, "KEN", kenya.ISOCode)
	assert.Equal(t, "Kenya", kenya.Name)
	_, ok := kenya.Geometry.(orb.Polygon)
	assert.True(t, ok)

	indonesia := world.Countries[1]
	assert.Equal(t, "IDN", indonesia.ISOCode)
	assert.Equal(t, "Indonesia", indonesia.Name)
	_, ok = indonesia.Geometry.(orb.MultiPolygon)
	assert.True(t, ok)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.geojson"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read geometry file")
}

func TestLoad_MalformedJSON(t *testing.T) {
	_, err := Load(writeGeoJSON(t, "{not geojson"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse geometry file")
}

func TestLoad_NoUsableCountries(t *testing.T) {
	empty := `{"type": "FeatureCollection", "features": [
		{"type": "Feature", "properties": {"ISO_A3": "SGP"}, "geometry": {"type": "Point", "coordinates": [103.8, 1.35]}}
	]}`
	_, err := Load(writeGeoJSON(t, empty))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable countries")
}
