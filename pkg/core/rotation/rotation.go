package rotation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotScheduled is returned by NextOnCallWeek when the surname does not
// appear in the rotation within the search horizon
var ErrNotScheduled = errors.New("surname not scheduled in rotation")

// searchHorizonDays bounds the forward scan in NextOnCallWeek. The rotation
// repeats every 4 weeks, so a year covers every surname that appears at all.
const searchHorizonDays = 365

// Entry is one half of an on-call pair
type Entry struct {
	Surname string
	Role    string
}

// Pair is the (technician, helper) on-call pairing for one rotation week
type Pair struct {
	Technician Entry
	Helper     Entry
}

// Contains reports whether the surname matches either entry, case-insensitively
func (p Pair) Contains(surname string) bool {
	return strings.EqualFold(p.Technician.Surname, surname) ||
		strings.EqualFold(p.Helper.Surname, surname)
}

// CoversName reports whether either entry's surname appears in the given full
// name. Surnames may be compound ("De Rosa"), so the comparison looks for the
// surname's tokens as a consecutive run inside the name's tokens.
func (p Pair) CoversName(fullName string) bool {
	return surnameInName(p.Technician.Surname, fullName) ||
		surnameInName(p.Helper.Surname, fullName)
}

// Calendar computes on-call pairings from a fixed 4-week cycle anchored to a
// known Friday. It is immutable after construction.
type Calendar struct {
	anchor time.Time
	pairs  [4]Pair
}

// NewCalendar builds a Calendar from the anchor Friday and the ordered
// 4-entry pairing table
func NewCalendar(anchor time.Time, pairs []Pair) (*Calendar, error) {
	if anchor.Weekday() != time.Friday {
		return nil, fmt.Errorf("rotation anchor %s is not a Friday", anchor.Format("2006-01-02"))
	}
	if len(pairs) != 4 {
		return nil, fmt.Errorf("rotation requires exactly 4 pairs, got %d", len(pairs))
	}

	cal := &Calendar{anchor: midnight(anchor)}
	copy(cal.pairs[:], pairs)
	return cal, nil
}

// PairFor returns the on-call pairing covering the given date. On-call blocks
// run Friday to Thursday; dates before the anchor still land on a valid pair
// because the cycle index uses floored modulo.
func (c *Calendar) PairFor(date time.Time) Pair {
	d := midnight(date)

	daysSinceFriday := (int(d.Weekday()) - int(time.Friday) + 7) % 7
	blockStart := d.AddDate(0, 0, -daysSinceFriday)

	weekIndex := daysBetween(c.anchor, blockStart) / 7
	return c.pairs[floorMod(weekIndex, 4)]
}

// OnCallOn reports whether the named user is on call on the given date
func (c *Calendar) OnCallOn(fullName string, date time.Time) bool {
	return c.PairFor(date).CoversName(fullName)
}

// NextOnCallWeek returns the first Friday on or after from whose pairing
// contains the surname. The scan is bounded; ErrNotScheduled signals a
// surname absent from the whole cycle.
func (c *Calendar) NextOnCallWeek(surname string, from time.Time) (time.Time, error) {
	d := midnight(from)
	for i := 0; i <= searchHorizonDays; i++ {
		if d.Weekday() == time.Friday && c.PairFor(d).Contains(surname) {
			return d, nil
		}
		d = d.AddDate(0, 0, 1)
	}
	return time.Time{}, ErrNotScheduled
}

// midnight normalizes a timestamp to the start of its day in UTC
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole days from a to b, negative when b precedes a
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// floorMod is the modulo that always lands in [0, n), also for negative x
func floorMod(x, n int) int {
	return ((x % n) + n) % n
}

// surnameInName looks for the surname's tokens as a consecutive run inside
// the full name's tokens, case-insensitively
func surnameInName(surname, fullName string) bool {
	surTokens := strings.Fields(strings.ToLower(strings.TrimSpace(surname)))
	nameTokens := strings.Fields(strings.ToLower(strings.TrimSpace(fullName)))
	if len(surTokens) == 0 || len(surTokens) > len(nameTokens) {
		return false
	}

	for start := 0; start+len(surTokens) <= len(nameTokens); start++ {
		match := true
		for i, tok := range surTokens {
			if nameTokens[start+i] != tok {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
