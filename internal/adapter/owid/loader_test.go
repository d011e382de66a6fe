package owid

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/covid-tracker/internal/domain"
)

const sampleCSV = `iso_code,location,date,total_cases,new_cases,total_deaths,new_deaths,total_vaccinations,people_vaccinated_per_hundred
USA,United States,2021-01-01,20000000,200000,350000,3000,4000000,1.2
IND,India,2021-01-01,10300000,20000,149000,250,,
`

type fakeFetcher struct {
	data []byte
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context) ([]byte, error) {
	return f.data, f.err
}

func TestLoader_RemoteSuccess(t *testing.T) {
	localPath := filepath.Join(t.TempDir(), "cache", "owid.csv")
	loader := NewLoader(&fakeFetcher{data: []byte(sampleCSV)}, localPath, newTestLogger())

	ds, source, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceRemote, source)
	require.Len(t, ds, 2)
	assert.Equal(t, "USA", ds[0].ISOCode)

	// The download is cached for future offline runs.
	cached, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(cached))
}

func TestLoader_FetchFailureFallsBackToLocal(t *testing.T) {
	localPath := filepath.Join(t.TempDir(), "owid.csv")
	require.NoError(t, os.WriteFile(localPath, []byte(sampleCSV), 0o600))

	loader := NewLoader(&fakeFetcher{err: errors.New("connection refused")}, localPath, newTestLogger())

	ds, source, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, source)

	want, err := domain.ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, want, ds)
}

func TestLoader_RemoteParseFailureFallsBackToLocal(t *testing.T) {
	localPath := filepath.Join(t.TempDir(), "owid.csv")
	require.NoError(t, os.WriteFile(localPath, []byte(sampleCSV), 0o600))

	// A remote body with the required columns missing fails to parse.
	loader := NewLoader(&fakeFetcher{data: []byte("continent,population\nAsia,100\n")}, localPath, newTestLogger())

	ds, source, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, source)
	assert.Len(t, ds, 2)

	// The unparsable download must not replace the good cached copy the
	// fallback just read.
	cached, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(cached))
}

// The committed fixture is a cmd/genfixture cut of a real download: three
// countries over three days, with the vaccination columns mostly unreported.
func TestLoader_LocalFixture(t *testing.T) {
	fixture := filepath.Join("testdata", "owid_sample.csv")
	loader := NewLoader(&fakeFetcher{err: errors.New("connection refused")}, fixture, newTestLogger())

	ds, source, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, source)
	require.Len(t, ds, 9)

	counts := map[string]int{}
	for i := range ds {
		counts[ds[i].Location]++
	}
	assert.Equal(t, map[string]int{"Brazil": 3, "Kenya": 3, "Chad": 3}, counts)

	// Unreported cells stay nil rather than zero.
	chad := ds[6]
	assert.Equal(t, "TCD", chad.ISOCode)
	assert.Nil(t, chad.TotalVaccinations)
	assert.Nil(t, chad.PeopleVaccinatedPerHundred)
}

func TestLoader_BothSourcesUnavailable(t *testing.T) {
	localPath := filepath.Join(t.TempDir(), "missing.csv")
	loader := NewLoader(&fakeFetcher{err: errors.New("connection refused")}, localPath, newTestLogger())

	_, _, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSource)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLoader_CacheFailureDoesNotFailLoad(t *testing.T) {
	// A directory at the cache path makes the write fail; the parsed remote
	// dataset is still returned.
	localPath := t.TempDir()
	loader := NewLoader(&fakeFetcher{data: []byte(sampleCSV)}, localPath, newTestLogger())

	ds, source, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceRemote, source)
	assert.Len(t, ds, 2)
}
