package dataset

import "time"

// Window is one sampling period. Start and End are both inclusive dates; End
// is the day before the next window starts, clipped to the overall range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Month is the window's label in the output, e.g. "2023-06".
func (w Window) Month() string {
	return w.Start.Format("2006-01")
}

// MonthlyWindows partitions [start, end) into consecutive one-month windows.
// The first window starts at start and each subsequent one exactly one
// calendar month later. An empty slice is returned when start >= end.
func MonthlyWindows(start, end time.Time) []Window {
	var windows []Window
	for current := start; current.Before(end); current = addMonths(current, 1) {
		windowEnd := addMonths(current, 1).AddDate(0, 0, -1)
		if windowEnd.After(end) {
			windowEnd = end
		}
		windows = append(windows, Window{Start: current, End: windowEnd})
	}
	return windows
}

// addMonths steps by whole calendar months, clamping the day to the target
// month's length (Jan 31 + 1 month = Feb 28/29), unlike time.AddDate which
// would normalize into March.
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
