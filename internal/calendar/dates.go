// Package calendar works with calendar days: time values truncated to midnight UTC.
package calendar

import (
	"errors"
	"iter"
	"math"
	"slices"
	"time"
)

const Layout = "2006-01-02"

const day = 24 * time.Hour

// Now is the clock used by RangeFromDayCount.
var Now = time.Now

var ErrInvertedRange = errors.New("calendar: from is after to")

// Day drops the time of day, keeping the wall-clock date of t.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Today() time.Time { return Day(Now()) }

func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

func FormatDay(t time.Time) string { return Day(t).Format(Layout) }

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Dates yields days consecutive calendar days starting at start.
func Dates(start time.Time, days int) iter.Seq[time.Time] {
	first := Day(start)
	return func(yield func(time.Time) bool) {
		for i := 0; i < days; i++ {
			if !yield(first.AddDate(0, 0, i)) {
				return
			}
		}
	}
}

// Range is Dates collected into a slice.
func Range(start time.Time, days int) []time.Time {
	if days <= 0 {
		return nil
	}
	return slices.Collect(Dates(start, days))
}

// DaysBetween counts the days from a to b inclusive, in either order.
// A partial trailing day counts as a whole one.
func DaysBetween(a, b time.Time) int {
	diff := b.Sub(a)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff)/float64(day))) + 1
}

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func NewDateRange(from, to time.Time) (DateRange, error) {
	r := DateRange{From: Day(from), To: Day(to)}
	if r.From.After(r.To) {
		return DateRange{}, ErrInvertedRange
	}
	return r, nil
}

// RangeFromDayCount spans days days starting today.
func RangeFromDayCount(days int) DateRange {
	today := Today()
	if days < 1 {
		days = 1
	}
	return DateRange{From: today, To: today.AddDate(0, 0, days-1)}
}

// Len is the number of days in the range.
func (r DateRange) Len() int {
	if r.From.After(r.To) {
		return 0
	}
	return DaysBetween(r.From, r.To)
}

func (r DateRange) Days() []time.Time { return Range(r.From, r.Len()) }

func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.From) && !d.After(r.To)
}

// Clip returns the overlap of r and o; ok is false when they do not overlap.
func (r DateRange) Clip(o DateRange) (DateRange, bool) {
	from, to := r.From, r.To
	if o.From.After(from) {
		from = o.From
	}
	if o.To.Before(to) {
		to = o.To
	}
	if from.After(to) {
		return DateRange{}, false
	}
	return DateRange{From: from, To: to}, true
}

func (r DateRange) String() string { return FormatDay(r.From) + ".." + FormatDay(r.To) }
