// Package staleness derives how long ago a dish was last eaten.
package staleness

import (
	"fmt"
	"time"
)

// Never is the day count reported for dishes without any meals.
const Never = -1

// Bucket is a coarse, display-oriented grouping of a day count.
type Bucket string

const (
	BucketNever     Bucket = "never"
	BucketToday     Bucket = "today"
	BucketYesterday Bucket = "yesterday"
	BucketRecent    Bucket = "recent"
	BucketAging     Bucket = "aging"
	BucketStale     Bucket = "stale"
)

// DaysSince returns the number of whole calendar days between last and today.
// Both values are reduced to their calendar day first, so the time of day never
// matters. A nil last yields Never. Dates after today produce negative counts.
func DaysSince(last *time.Time, today time.Time) int {
	if last == nil {
		return Never
	}
	from := calendarDay(*last)
	to := calendarDay(today)
	return int((to.Unix() - from.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// calendarDay is midnight UTC of t's date. Unix seconds between two such
// values are exact multiples of a day, at any distance.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BucketFor maps a day count onto its bucket. Lower bounds are inclusive.
// Negative counts other than Never come from future-dated meals and are shown as today.
func BucketFor(days int) Bucket {
	switch {
	case days == Never:
		return BucketNever
	case days <= 0:
		return BucketToday
	case days == 1:
		return BucketYesterday
	case days <= 7:
		return BucketRecent
	case days <= 30:
		return BucketAging
	default:
		return BucketStale
	}
}

// Describe renders the day count the way the dish list shows it.
func Describe(days int) string {
	switch {
	case days == Never:
		return "never eaten"
	case days == 0:
		return "eaten today"
	case days == 1:
		return "eaten yesterday"
	default:
		return fmt.Sprintf("eaten %d days ago", days)
	}
}
