package visits

import (
	"iter"
	"slices"
	"strconv"
	"strings"
	"time"
)

// pageIDSeparator splits "YYYY-MM-DD" page IDs.
const pageIDSeparator = "-"

// pageIDLayout is the date layout of a well-formed page ID.
const pageIDLayout = "2006-01-02"

// Project maps a trend series onto chart points, one per input point and
// in the same order. The returned sequence reads trend lazily and can be
// ranged over any number of times with the same result.
func Project(trend TrendSeries) iter.Seq[ChartPoint] {
	return func(yield func(ChartPoint) bool) {
		for _, p := range trend {
			if !yield(projectPoint(p)) {
				return
			}
		}
	}
}

// Points collects Project(trend) into a slice. A nil or empty series
// yields an empty, non-nil slice.
func Points(trend TrendSeries) []ChartPoint {
	out := slices.Collect(Project(trend))
	if out == nil {
		return []ChartPoint{}
	}
	return out
}

func projectPoint(p TrendPoint) ChartPoint {
	day, ok := DayOfMonth(p.PageID)
	return ChartPoint{
		Day:      day,
		DayValid: ok,
		Visits:   p.Visits,
		Date:     p.PageID,
	}
}

// DayOfMonth parses the final "-" separated segment of pageID.
// It returns false when that segment is not an integer.
func DayOfMonth(pageID string) (int, bool) {
	idx := strings.LastIndex(pageID, pageIDSeparator)
	if idx < 0 {
		return 0, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(pageID[idx+1:]))
	if err != nil {
		return 0, false
	}
	return day, true
}

// AxisLabel is the x-axis label for the point: the day number, or "?"
// for a point whose day could not be parsed.
func (c ChartPoint) AxisLabel() string {
	if !c.DayValid {
		return "?"
	}
	return strconv.Itoa(c.Day)
}

// Weekday returns the short weekday name ("Mon") of Date, or "" when Date
// is not a calendar date.
func (c ChartPoint) Weekday() string {
	t, err := time.Parse(pageIDLayout, c.Date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()[:3]
}

// ValidDate reports whether s is a "YYYY-MM-DD" calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(pageIDLayout, s)
	return err == nil
}
