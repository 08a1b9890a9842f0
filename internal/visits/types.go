package visits

// CounterSnapshot is the cumulative and same-day visit count as of one
// successful fetch. It is replaced wholesale, never patched.
type CounterSnapshot struct {
	TotalVisits int64 `json:"total_visits" yaml:"total_visits"`
	TodayVisits int64 `json:"today_visits" yaml:"today_visits"`
}

// TrendPoint is the visit count for one historical day. PageID encodes the
// date as "YYYY-MM-DD".
type TrendPoint struct {
	PageID string `json:"pageId" yaml:"pageId"`
	Visits int64  `json:"visits" yaml:"visits"`
}

// TrendSeries is ordered oldest first. The source delivers it sorted and
// nothing downstream re-sorts it.
type TrendSeries []TrendPoint

// Len returns the number of days in the series.
func (s TrendSeries) Len() int {
	return len(s)
}

// Last returns the most recent point, or false for an empty series.
func (s TrendSeries) Last() (TrendPoint, bool) {
	if len(s) == 0 {
		return TrendPoint{}, false
	}
	return s[len(s)-1], true
}

// DerivedMetrics compares today's count with the previous day in the trend
// series. It is recomputed on every render and never stored.
type DerivedMetrics struct {
	TodayVisits     int64   `json:"today_visits" yaml:"today_visits"`
	YesterdayVisits int64   `json:"yesterday_visits" yaml:"yesterday_visits"`
	TrendPercent    float64 `json:"trend_percent" yaml:"trend_percent"`
	IsIncreasing    bool    `json:"is_increasing" yaml:"is_increasing"`
}

// ChartPoint is one plotted day. DayValid is false when the day-of-month
// could not be parsed from Date; such points stay in the sequence.
type ChartPoint struct {
	Day      int    `json:"day" yaml:"day"`
	DayValid bool   `json:"day_valid" yaml:"day_valid"`
	Visits   int64  `json:"visits" yaml:"visits"`
	Date     string `json:"date" yaml:"date"`
}
