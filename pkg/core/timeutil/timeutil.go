package timeutil

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const clockLayout = "15:04"

// interval is a half-open slot on an arbitrary common date
type interval struct {
	start time.Time
	end   time.Time
}

// MergeTimeSlots parses "HH:MM-HH:MM" slots, sorts them by start time and
// merges touching or overlapping intervals. Slots that fail to parse are
// dropped rather than reported: daily sheets routinely carry junk cells.
// Output is formatted "HH:MM - HH:MM".
func MergeTimeSlots(slots []string) []string {
	intervals := make([]interval, 0, len(slots))
	for _, slot := range slots {
		iv, ok := parseSlot(slot)
		if !ok {
			continue
		}
		intervals = append(intervals, iv)
	}

	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].start.Before(intervals[j].start)
	})

	merged := make([]interval, 0, len(intervals))
	for _, iv := range intervals {
		if len(merged) == 0 {
			merged = append(merged, iv)
			continue
		}
		last := &merged[len(merged)-1]
		if !iv.start.After(last.end) {
			if iv.end.After(last.end) {
				last.end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}

	out := make([]string, 0, len(merged))
	for _, iv := range merged {
		out = append(out, fmt.Sprintf("%s - %s", iv.start.Format(clockLayout), iv.end.Format(clockLayout)))
	}
	return out
}

// parseSlot parses a single "HH:MM-HH:MM" slot, tolerating spaces around the dash
func parseSlot(slot string) (interval, bool) {
	parts := strings.SplitN(strings.ReplaceAll(slot, " ", ""), "-", 2)
	if len(parts) != 2 {
		return interval{}, false
	}

	start, err := time.Parse(clockLayout, parts[0])
	if err != nil {
		return interval{}, false
	}
	end, err := time.Parse(clockLayout, parts[1])
	if err != nil {
		return interval{}, false
	}

	return interval{start: start, end: end}, true
}

const isoLayout = "2006-01-02T15:04:05"

// ShiftDuration returns the elapsed hours between two local wall-clock
// timestamps in the given zone. Elapsed means real time: an interval crossing
// a spring-forward transition loses the skipped hour, one crossing a
// fall-back gains the repeated hour. An end clock numerically earlier than
// the start is taken to mean the shift runs past midnight into the next day.
func ShiftDuration(startISO, endISO string, loc *time.Location) (float64, error) {
	start, err := time.ParseInLocation(isoLayout, startISO, loc)
	if err != nil {
		return 0, fmt.Errorf("failed to parse shift start %q: %w", startISO, err)
	}
	end, err := time.ParseInLocation(isoLayout, endISO, loc)
	if err != nil {
		return 0, fmt.Errorf("failed to parse shift end %q: %w", endISO, err)
	}

	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}

	return end.Sub(start).Hours(), nil
}
