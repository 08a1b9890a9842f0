package visits

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func series(visits ...int64) TrendSeries {
	s := make(TrendSeries, len(visits))
	for i, v := range visits {
		s[i] = TrendPoint{PageID: fmt.Sprintf("2024-05-%02d", i+1), Visits: v}
	}
	return s
}

func TestDerive_ScenarioA(t *testing.T) {
	counter := &CounterSnapshot{TotalVisits: 1000, TodayVisits: 50}
	trend := TrendSeries{
		{PageID: "2024-05-13", Visits: 33},
		{PageID: "2024-05-14", Visits: 40},
		{PageID: "2024-05-15", Visits: 50},
	}

	got := Derive(counter, trend)

	assert.Equal(t, int64(40), got.YesterdayVisits)
	assert.Equal(t, 25.0, got.TrendPercent)
	assert.True(t, got.IsIncreasing)
	assert.Equal(t, int64(50), got.TodayVisits)
}

func TestDerive_ScenarioB_SinglePoint(t *testing.T) {
	counter := &CounterSnapshot{TotalVisits: 10, TodayVisits: 7}
	got := Derive(counter, TrendSeries{{PageID: "2024-05-15", Visits: 7}})

	assert.Equal(t, int64(0), got.YesterdayVisits)
	assert.Equal(t, 0.0, got.TrendPercent)
	assert.True(t, got.IsIncreasing)
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name      string
		counter   *CounterSnapshot
		trend     TrendSeries
		yesterday int64
		percent   float64
		up        bool
	}{
		{
			name:    "both absent",
			counter: nil,
			trend:   nil,
			up:      true,
		},
		{
			name:    "counter absent uses zero today",
			counter: nil,
			trend:   series(10, 20, 5),
			// yesterday is 20, today 0
			yesterday: 20,
			percent:   -100,
			up:        false,
		},
		{
			name:    "trend absent",
			counter: &CounterSnapshot{TodayVisits: 12},
			trend:   nil,
			up:      true,
		},
		{
			name:      "decrease",
			counter:   &CounterSnapshot{TodayVisits: 30},
			trend:     series(40, 30),
			yesterday: 40,
			percent:   -25,
			up:        false,
		},
		{
			name:      "equal counts are increasing",
			counter:   &CounterSnapshot{TodayVisits: 40},
			trend:     series(40, 40),
			yesterday: 40,
			percent:   0,
			up:        true,
		},
		{
			name:      "yesterday zero avoids division",
			counter:   &CounterSnapshot{TodayVisits: 9},
			trend:     series(0, 9),
			yesterday: 0,
			percent:   0,
			up:        true,
		},
		{
			name:      "rounds to one decimal",
			counter:   &CounterSnapshot{TodayVisits: 1},
			trend:     series(5, 3, 1),
			yesterday: 3,
			percent:   -66.7,
			up:        false,
		},
		{
			name:      "large increase",
			counter:   &CounterSnapshot{TodayVisits: 10},
			trend:     series(3, 10),
			yesterday: 3,
			percent:   233.3,
			up:        true,
		},
		{
			name:      "today counter wins over last trend point",
			counter:   &CounterSnapshot{TodayVisits: 60},
			trend:     series(40, 50),
			yesterday: 40,
			percent:   50,
			up:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.counter, tt.trend)
			assert.Equal(t, tt.yesterday, got.YesterdayVisits)
			assert.InDelta(t, tt.percent, got.TrendPercent, 1e-9)
			assert.Equal(t, tt.up, got.IsIncreasing)
		})
	}
}

func TestDerive_NoNegativeZero(t *testing.T) {
	got := Derive(&CounterSnapshot{TodayVisits: 9999}, series(10000, 9999))

	assert.Equal(t, 0.0, got.TrendPercent)
	assert.False(t, math.Signbit(got.TrendPercent), "tiny decreases should not render as -0.0")
	assert.False(t, got.IsIncreasing)
}

func TestDerive_ShortTrendNeverDividesByZero(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		counter := &CounterSnapshot{
			TotalVisits: rng.Int63n(1_000_000),
			TodayVisits: rng.Int63n(10_000),
		}
		var trend TrendSeries
		if rng.Intn(2) == 1 {
			trend = series(rng.Int63n(10_000))
		}

		got := Derive(counter, trend)

		assert.Equal(t, 0.0, got.TrendPercent)
		assert.False(t, math.IsNaN(got.TrendPercent))
		assert.False(t, math.IsInf(got.TrendPercent, 0))
	}
}

func TestDerive_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		counter := &CounterSnapshot{
			TotalVisits: rng.Int63n(1_000_000),
			TodayVisits: rng.Int63n(10_000),
		}
		n := rng.Intn(8)
		vals := make([]int64, n)
		for j := range vals {
			vals[j] = rng.Int63n(10_000)
		}
		trend := series(vals...)

		first := Derive(counter, trend)
		second := Derive(counter, trend)

		assert.Equal(t, first, second)
		assert.Equal(t, math.Float64bits(first.TrendPercent), math.Float64bits(second.TrendPercent))
		assert.False(t, math.IsNaN(first.TrendPercent))
		assert.False(t, math.IsInf(first.TrendPercent, 0))
	}
}

func TestDerive_DoesNotMutateInputs(t *testing.T) {
	counter := &CounterSnapshot{TotalVisits: 5, TodayVisits: 3}
	trend := series(1, 2, 3)
	before := append(TrendSeries(nil), trend...)

	Derive(counter, trend)

	assert.Equal(t, CounterSnapshot{TotalVisits: 5, TodayVisits: 3}, *counter)
	assert.Equal(t, before, trend)
}
