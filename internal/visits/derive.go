package visits

import "math"

// Derive computes the day-over-day comparison shown on the Today card.
//
// counter may be nil and trend may be nil or short; both mean "not loaded
// yet". Yesterday is the second-to-last point of trend because the last
// point is today. When yesterday is zero the percentage is zero rather
// than an infinity. Equal counts are reported as increasing.
func Derive(counter *CounterSnapshot, trend TrendSeries) DerivedMetrics {
	var today int64
	if counter != nil {
		today = counter.TodayVisits
	}

	var yesterday int64
	if len(trend) >= 2 {
		yesterday = trend[len(trend)-2].Visits
	}

	var pct float64
	if yesterday != 0 {
		pct = roundTenth(float64(today-yesterday) / float64(yesterday) * 100)
	}

	return DerivedMetrics{
		TodayVisits:     today,
		YesterdayVisits: yesterday,
		TrendPercent:    pct,
		IsIncreasing:    today >= yesterday,
	}
}

// roundTenth rounds half away from zero to one fractional digit and folds
// negative zero into zero so "-0.0%" is never rendered.
func roundTenth(v float64) float64 {
	r := math.Round(v*10) / 10
	if r == 0 {
		return 0
	}
	return r
}
