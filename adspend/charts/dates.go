package charts

import (
	"iter"
	"time"
)

// DateLayout is the format of the line chart x labels
const DateLayout = "2006-01-02"

// DateSequence yields every calendar day from start up to and including the current day, as YYYY-MM-DD.
// The clock is read each time the sequence is ranged over. Days are computed in start's location.
func DateSequence(start time.Time, now func() time.Time) iter.Seq[string] {
	return func(yield func(string) bool) {
		loc := start.Location()
		current := now().In(loc)
		last := time.Date(current.Year(), current.Month(), current.Day(), 0, 0, 0, 0, loc)

		y, m, d := start.Date()
		for day := time.Date(y, m, d, 0, 0, 0, 0, loc); !day.After(last); {
			if !yield(day.Format(DateLayout)) {
				return
			}
			y, m, d = day.Date()
			day = time.Date(y, m, d+1, 0, 0, 0, 0, loc)
		}
	}
}
