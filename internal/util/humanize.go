package util

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	labelAgo   = "ago"
	labelAhead = "from now"

	day   = 24 * time.Hour
	month = time.Duration(30.5 * float64(day))
	year  = 365 * day
)

// Coarse relative-time buckets: whole units, singular forms spelled out.
var relTimeMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Second, Format: "now", DivBy: time.Second},
	{D: 2 * time.Second, Format: "a second %s", DivBy: 1},
	{D: time.Minute, Format: "%d seconds %s", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "a minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "an hour %s", DivBy: 1},
	{D: day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * day, Format: "a day %s", DivBy: 1},
	{D: month, Format: "%d days %s", DivBy: day},
	{D: 2 * month, Format: "a month %s", DivBy: 1},
	{D: year, Format: "%d months %s", DivBy: month},
	{D: 2 * year, Format: "a year %s", DivBy: 1},
	{D: math.MaxInt64, Format: "%d years %s", DivBy: year},
}

// TimeAgo describes then relative to now, e.g. "10 days ago".
func TimeAgo(then, now time.Time) string {
	return humanize.CustomRelTime(then, now, labelAgo, labelAhead, relTimeMagnitudes)
}

// HumanSize formats a byte count with SI units, e.g. "1.2 kB".
func HumanSize(size int64) string {
	if size < 0 {
		size = 0
	}

	return humanize.Bytes(uint64(size))
}
