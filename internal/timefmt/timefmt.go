package timefmt

import (
	"math"
	"strconv"
	"time"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// RelativeTime formats ts relative to now:
// - less than a day old: time of day ("03:04 PM")
// - less than a week old: weekday ("Mon")
// - older: month and day ("Jan 2")
//
// Timestamps in the future fall into the time-of-day branch.
func RelativeTime(ts, now time.Time) string {
	ts = ts.In(now.Location())
	diff := now.Sub(ts)

	switch {
	case diff < day:
		return ts.Format("03:04 PM")
	case diff < week:
		return ts.Format("Mon")
	default:
		return ts.Format("Jan 2")
	}
}

// FileSize returns a human readable base-1024 size, e.g. 1536 -> "1.5 KB".
func FileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	i, scale := 0, int64(1)
	for i < len(sizeUnits)-1 && bytes >= scale*1024 {
		scale *= 1024
		i++
	}

	v := float64(bytes) / float64(scale)
	v = math.Round(v*100) / 100

	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
