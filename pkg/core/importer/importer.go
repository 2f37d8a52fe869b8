package importer

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lucabarin/turnario/internal/observability"
	"github.com/lucabarin/turnario/pkg/core/model"
	"github.com/lucabarin/turnario/pkg/db"
)

// Daily sheets have positional columns, no header row. Lines that do not fit
// this shape are intermediate or decorative rows and get dropped.
const (
	colIdentity    = 0
	colDescription = 1
	colPdL         = 2
	colStart       = 3
	colEnd         = 4

	rowMinColumns = 5
)

// Importer extracts field activities from loosely structured daily sheets and
// reconciles free-text technician names against canonical identities
type Importer struct {
	source db.ActivitySource
	logger *zap.Logger
}

// NewImporter creates an activity importer
func NewImporter(source db.ActivitySource, logger *zap.Logger) *Importer {
	return &Importer{source: source, logger: logger}
}

// activityRow is one successfully parsed sheet line
type activityRow struct {
	identity string
	title    string
	pdl      string
	start    string
	end      string
}

// FindActivities loads the day's sheet and returns the activities the
// requesting user took part in. Rows sharing a PdL collapse into one activity
// with every matched technician in its team. The importer is best effort:
// malformed rows and unmatched names are dropped, a missing or unreadable
// sheet yields an empty result, never an error.
func (imp *Importer) FindActivities(ctx context.Context, userID string, day, month, year int, contacts []model.User, excludedPdL []string) ([]model.Activity, error) {
	rows, err := imp.source.DailyRows(ctx, day, month, year)
	if err != nil {
		if !errors.Is(err, db.ErrSheetNotFound) {
			imp.logger.Warn("Daily sheet unreadable, returning no activities",
				zap.Int("day", day), zap.Int("month", month), zap.Int("year", year),
				zap.Error(err))
		}
		return []model.Activity{}, nil
	}

	excluded := make(map[string]bool, len(excludedPdL))
	for _, pdl := range excludedPdL {
		excluded[pdl] = true
	}

	// Group rows by PdL, preserving first-seen order
	byPdL := make(map[string]*model.Activity)
	var order []string

	for i, raw := range rows {
		row, ok := parseRow(raw)
		if !ok {
			observability.RecordImportRowSkipped()
			continue
		}

		matched, ok := resolveContact(row.identity, contacts)
		if !ok {
			// Unresolvable identities are often continuation or scratch rows
			imp.logger.Debug("Skipping row with unmatched identity",
				zap.Int("row", i),
				zap.String("identity", row.identity))
			observability.RecordImportRowSkipped()
			continue
		}

		if excluded[row.pdl] {
			continue
		}

		activity, seen := byPdL[row.pdl]
		if !seen {
			activity = &model.Activity{
				PdL:         row.pdl,
				Description: row.title,
				Start:       row.start,
				End:         row.end,
			}
			byPdL[row.pdl] = activity
			order = append(order, row.pdl)
		}
		activity.Slots = append(activity.Slots, row.start+"-"+row.end)
		if !activity.HasMember(matched.ID) {
			activity.Team = append(activity.Team, matched)
		}
	}

	relevant := make([]model.Activity, 0, len(order))
	for _, pdl := range order {
		if byPdL[pdl].HasMember(userID) {
			relevant = append(relevant, *byPdL[pdl])
		}
	}

	return relevant, nil
}

// parseRow validates one sheet line. ok=false means the row is dropped.
func parseRow(raw []string) (activityRow, bool) {
	if len(raw) < rowMinColumns {
		return activityRow{}, false
	}

	identity := strings.TrimSpace(raw[colIdentity])
	pdl := strings.TrimSpace(raw[colPdL])
	if identity == "" || pdl == "" {
		return activityRow{}, false
	}

	start := strings.TrimSpace(raw[colStart])
	end := strings.TrimSpace(raw[colEnd])
	if !validClock(start) || !validClock(end) {
		return activityRow{}, false
	}

	// The first description line is the canonical title; continuation lines
	// belong to the same cell
	title := strings.TrimSpace(raw[colDescription])
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = strings.TrimSpace(title[:idx])
	}

	return activityRow{
		identity: identity,
		title:    title,
		pdl:      pdl,
		start:    start,
		end:      end,
	}, true
}

// resolveContact matches a free-text identity cell against the canonical
// contact list, by exact name or short form
func resolveContact(identity string, contacts []model.User) (model.User, bool) {
	for _, c := range contacts {
		if strings.EqualFold(strings.TrimSpace(identity), strings.TrimSpace(c.Name)) {
			return c, true
		}
		if MatchPartialName(identity, c.Name) {
			return c, true
		}
	}
	return model.User{}, false
}

// validClock reports whether s is a parseable "HH:MM" time of day
func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
