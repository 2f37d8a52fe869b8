package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/lucabarin/turnario/pkg/core/model"
	"github.com/lucabarin/turnario/pkg/core/rotation"
)

// OnCallShiftTemplate carries the fixed attributes of a generated on-call shift
type OnCallShiftTemplate struct {
	Start           string // "HH:MM"
	End             string // "HH:MM"
	SeatsTechnician int
	SeatsHelper     int
}

// PlanOnCallShifts generates one on-call shift per rotation week, starting
// from the first Friday on or after from. The description names the week's
// pair so the board stays readable without a rotation lookup.
func PlanOnCallShifts(cal *rotation.Calendar, from time.Time, weeks int, tmpl OnCallShiftTemplate) ([]model.Shift, error) {
	if weeks <= 0 {
		return nil, fmt.Errorf("weeks must be positive, got %d", weeks)
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rrule.FR},
		Dtstart:   time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC),
		Count:     weeks,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence rule: %w", err)
	}

	fridays := rule.All()
	shifts := make([]model.Shift, 0, len(fridays))
	for _, friday := range fridays {
		pair := cal.PairFor(friday)
		shifts = append(shifts, model.Shift{
			ID:              uuid.New().String(),
			Description:     fmt.Sprintf("Reperibilità %s / %s", pair.Technician.Surname, pair.Helper.Surname),
			Date:            friday,
			Start:           tmpl.Start,
			End:             tmpl.End,
			SeatsTechnician: tmpl.SeatsTechnician,
			SeatsHelper:     tmpl.SeatsHelper,
			Type:            model.ShiftOnCall,
		})
	}

	return shifts, nil
}
