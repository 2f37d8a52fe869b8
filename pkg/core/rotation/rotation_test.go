package rotation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anchor is a Friday
var testAnchor = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

var testPairs = []Pair{
	{Technician: Entry{Surname: "Rossi", Role: "technician"}, Helper: Entry{Surname: "Esposito", Role: "helper"}},
	{Technician: Entry{Surname: "Bianchi", Role: "technician"}, Helper: Entry{Surname: "Romano", Role: "helper"}},
	{Technician: Entry{Surname: "De Rosa", Role: "technician"}, Helper: Entry{Surname: "Colombo", Role: "helper"}},
	{Technician: Entry{Surname: "Ferrari", Role: "technician"}, Helper: Entry{Surname: "Ricci", Role: "helper"}},
}

func newTestCalendar(t *testing.T) *Calendar {
	t.Helper()
	cal, err := NewCalendar(testAnchor, testPairs)
	require.NoError(t, err)
	return cal
}

func TestNewCalendarValidation(t *testing.T) {
	t.Run("anchor must be a Friday", func(t *testing.T) {
		saturday := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
		_, err := NewCalendar(saturday, testPairs)
		assert.Error(t, err)
	})

	t.Run("exactly four pairs required", func(t *testing.T) {
		_, err := NewCalendar(testAnchor, testPairs[:3])
		assert.Error(t, err)
	})
}

func TestPairForCyclesThroughAllPairs(t *testing.T) {
	cal := newTestCalendar(t)

	for i := 0; i < 4; i++ {
		friday := testAnchor.AddDate(0, 0, 7*i)
		pair := cal.PairFor(friday)
		assert.Equal(t, testPairs[i], pair, "week %d", i)
	}
}

func TestPairForIsPeriodicEvery28Days(t *testing.T) {
	cal := newTestCalendar(t)

	// Cover every weekday across several cycles
	for i := 0; i < 60; i++ {
		d := testAnchor.AddDate(0, 0, i)
		assert.Equal(t, cal.PairFor(d), cal.PairFor(d.AddDate(0, 0, 28)), "date %s", d.Format("2006-01-02"))
	}
}

func TestPairForBlockRunsFridayToThursday(t *testing.T) {
	cal := newTestCalendar(t)

	friday := testAnchor
	for offset := 0; offset < 7; offset++ {
		d := friday.AddDate(0, 0, offset)
		assert.Equal(t, testPairs[0], cal.PairFor(d), "offset %d", offset)
	}
	// The next Friday starts the next block
	assert.Equal(t, testPairs[1], cal.PairFor(friday.AddDate(0, 0, 7)))
}

func TestPairForBeforeAnchor(t *testing.T) {
	cal := newTestCalendar(t)

	// The Friday one week before the anchor belongs to the last pair of the cycle
	assert.Equal(t, testPairs[3], cal.PairFor(testAnchor.AddDate(0, 0, -7)))
	// A Wednesday before the anchor falls in the block started two Fridays back
	assert.Equal(t, testPairs[2], cal.PairFor(testAnchor.AddDate(0, 0, -9)))
}

func TestNextOnCallWeek(t *testing.T) {
	cal := newTestCalendar(t)

	t.Run("finds the next friday for a surname", func(t *testing.T) {
		next, err := cal.NextOnCallWeek("Bianchi", testAnchor)
		require.NoError(t, err)
		assert.Equal(t, testAnchor.AddDate(0, 0, 7), next)
	})

	t.Run("case insensitive", func(t *testing.T) {
		next, err := cal.NextOnCallWeek("rossi", testAnchor.AddDate(0, 0, 1))
		require.NoError(t, err)
		// Rossi is pair 0, so the next occurrence is a full cycle later
		assert.Equal(t, testAnchor.AddDate(0, 0, 28), next)
	})

	t.Run("from date already the right friday", func(t *testing.T) {
		next, err := cal.NextOnCallWeek("Esposito", testAnchor)
		require.NoError(t, err)
		assert.Equal(t, testAnchor, next)
	})

	t.Run("unknown surname exhausts the horizon", func(t *testing.T) {
		_, err := cal.NextOnCallWeek("Verdi", testAnchor)
		assert.ErrorIs(t, err, ErrNotScheduled)
	})
}

func TestCoversName(t *testing.T) {
	cal := newTestCalendar(t)

	week0 := testAnchor
	assert.True(t, cal.OnCallOn("Mario Rossi", week0))
	assert.True(t, cal.OnCallOn("Anna Esposito", week0))
	assert.False(t, cal.OnCallOn("Luca Bianchi", week0))

	// Compound surnames match as a consecutive token run
	week2 := testAnchor.AddDate(0, 0, 14)
	assert.True(t, cal.OnCallOn("Giovan Battista De Rosa", week2))
	assert.False(t, cal.OnCallOn("Rosa De Luca", week2))
}
