package availability

import "time"

// Interval is a half-open busy window [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// SlotStarts returns slot start times within [open, close) where a booking of
// length duration would not overlap any of the busy intervals. Starts step
// from the open time; a slot must end no later than close. Starts already in
// the past relative to now are excluded.
//
// The result is strictly ascending. All times are expected to be in the same
// location.
func SlotStarts(open, close time.Time, duration, step time.Duration, busy []Interval, now time.Time) []time.Time {
	if duration <= 0 || step <= 0 {
		return nil
	}
	if !close.After(open) {
		return nil
	}

	var slots []time.Time
	for t := open; !t.Add(duration).After(close); t = t.Add(step) {
		if t.Before(now) {
			continue
		}
		if !overlapsAny(t, t.Add(duration), busy) {
			slots = append(slots, t)
		}
	}
	return slots
}

func overlapsAny(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		// Half-open intervals: [start,end) overlaps [b.Start,b.End) iff start < b.End && b.Start < end.
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}
