package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDeathRate(t *testing.T) {
	tests := []struct {
		name   string
		cases  *float64
		deaths *float64
		want   *float64
	}{
		{"normal", fptr(100), fptr(5), fptr(0.05)},
		{"nil cases", nil, fptr(5), nil},
		{"nil deaths", fptr(100), nil, nil},
		{"zero cases", fptr(0), fptr(5), nil},
		{"deaths exceed cases", fptr(10), fptr(20), nil},
		{"negative deaths", fptr(100), fptr(-5), nil},
		{"rate of exactly one", fptr(10), fptr(10), fptr(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := Dataset{{ISOCode: "XXX", Location: "X", Date: day(1), TotalCases: tt.cases, TotalDeaths: tt.deaths}}
			out := WithDeathRate(ds)
			if tt.want == nil {
				assert.Nil(t, out[0].DeathRate)
				return
			}
			require.NotNil(t, out[0].DeathRate)
			assert.InDelta(t, *tt.want, *out[0].DeathRate, 1e-12)
		})
	}
}

func TestWithDeathRate_AlwaysInUnitInterval(t *testing.T) {
	ds := Dataset{
		{ISOCode: "A", Location: "A", Date: day(1), TotalCases: fptr(100), TotalDeaths: fptr(5)},
		{ISOCode: "B", Location: "B", Date: day(1), TotalCases: fptr(3), TotalDeaths: fptr(300)},
		{ISOCode: "C", Location: "C", Date: day(1), TotalCases: fptr(-10), TotalDeaths: fptr(5)},
	}

	for _, r := range WithDeathRate(ds) {
		if r.DeathRate == nil {
			continue
		}
		assert.GreaterOrEqual(t, *r.DeathRate, 0.0)
		assert.LessOrEqual(t, *r.DeathRate, 1.0)
	}
}

func TestLatestByCountry(t *testing.T) {
	ds := Dataset{
		rec("KEN", "Kenya", 1, fptr(100)),
		rec("KEN", "Kenya", 3, fptr(300)),
		rec("KEN", "Kenya", 2, fptr(200)),
		rec("TCD", "Chad", 1, fptr(50)),
	}

	latest := LatestByCountry(ds)

	require.Len(t, latest, 2)
	assert.Equal(t, "Chad", latest[0].Location)
	assert.Equal(t, "Kenya", latest[1].Location)
	assert.Equal(t, day(3), latest[1].Date)
	assert.Equal(t, fptr(300), latest[1].TotalCases)
}

func TestTopByMetric(t *testing.T) {
	t.Run("kenya and chad by death rate", func(t *testing.T) {
		ds := WithDeathRate(Dataset{
			{ISOCode: "KEN", Location: "Kenya", Date: day(1), TotalCases: fptr(100), TotalDeaths: fptr(5)},
			{ISOCode: "TCD", Location: "Chad", Date: day(1), TotalCases: fptr(50), TotalDeaths: fptr(10)},
		})
		latest := LatestByCountry(ds)

		ranking := TopByMetric(latest, MetricDeathRate, 5)

		require.Len(t, ranking.Rows, 2)
		assert.Equal(t, "Chad", ranking.Rows[0].Location)
		assert.InDelta(t, 0.20, ranking.Rows[0].Value, 1e-12)
		assert.Equal(t, "Kenya", ranking.Rows[1].Location)
		assert.InDelta(t, 0.05, ranking.Rows[1].Value, 1e-12)
	})

	t.Run("truncates to n", func(t *testing.T) {
		latest := []Record{
			{ISOCode: "A", Location: "A", TotalCases: fptr(1)},
			{ISOCode: "B", Location: "B", TotalCases: fptr(2)},
			{ISOCode: "C", Location: "C", TotalCases: fptr(3)},
		}
		ranking := TopByMetric(latest, MetricTotalCases, 2)
		require.Len(t, ranking.Rows, 2)
		assert.Equal(t, "C", ranking.Rows[0].Location)
		assert.Equal(t, "B", ranking.Rows[1].Location)
	})

	t.Run("excludes countries without the metric", func(t *testing.T) {
		latest := []Record{
			{ISOCode: "A", Location: "A", TotalCases: fptr(1)},
			{ISOCode: "B", Location: "B"},
		}
		ranking := TopByMetric(latest, MetricTotalCases, 5)
		require.Len(t, ranking.Rows, 1)
		assert.Equal(t, "A", ranking.Rows[0].Location)
	})

	t.Run("ties broken alphabetically", func(t *testing.T) {
		latest := []Record{
			{ISOCode: "ZMB", Location: "Zambia", TotalCases: fptr(100)},
			{ISOCode: "ALB", Location: "Albania", TotalCases: fptr(100)},
			{ISOCode: "KEN", Location: "Kenya", TotalCases: fptr(100)},
		}
		ranking := TopByMetric(latest, MetricTotalCases, 5)
		require.Len(t, ranking.Rows, 3)
		assert.Equal(t, "Albania", ranking.Rows[0].Location)
		assert.Equal(t, "Kenya", ranking.Rows[1].Location)
		assert.Equal(t, "Zambia", ranking.Rows[2].Location)
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		latest := []Record{
			{ISOCode: "ZMB", Location: "Zambia", TotalCases: fptr(100)},
			{ISOCode: "ALB", Location: "Albania", TotalCases: fptr(100)},
			{ISOCode: "BRA", Location: "Brazil", TotalCases: fptr(500)},
		}
		first := TopByMetric(latest, MetricTotalCases, 5)
		second := TopByMetric(latest, MetricTotalCases, 5)
		assert.Empty(t, cmp.Diff(first, second))
	})
}

func TestOverallDeathRate(t *testing.T) {
	t.Run("sums across countries", func(t *testing.T) {
		latest := []Record{
			{Location: "Kenya", TotalCases: fptr(100), TotalDeaths: fptr(5)},
			{Location: "Chad", TotalCases: fptr(50), TotalDeaths: fptr(10)},
		}
		rate := OverallDeathRate(latest)
		require.NotNil(t, rate)
		assert.InDelta(t, 15.0/150.0, *rate, 1e-12)
	})

	t.Run("skips countries with missing figures", func(t *testing.T) {
		latest := []Record{
			{Location: "Kenya", TotalCases: fptr(100), TotalDeaths: fptr(5)},
			{Location: "Chad", TotalCases: fptr(50)},
		}
		rate := OverallDeathRate(latest)
		require.NotNil(t, rate)
		assert.InDelta(t, 0.05, *rate, 1e-12)
	})

	t.Run("no usable countries", func(t *testing.T) {
		assert.Nil(t, OverallDeathRate(nil))
		assert.Nil(t, OverallDeathRate([]Record{{Location: "Chad"}}))
	})
}

func TestSetClock(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	assert.Equal(t, fixed, Now())

	SetClock(nil)
	assert.True(t, time.Since(Now()) < time.Second)
}
