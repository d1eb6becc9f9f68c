package rules

import (
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/db/models"
)

// Snapshot is a consistent read of every scheduling collection. The
// availability engine evaluates against one snapshot so a concurrent admin
// save cannot produce a half-updated view.
type Snapshot struct {
	DeliveryAreas       []models.DeliveryArea              `json:"deliveryAreas"`
	GlobalTimeslots     []models.GlobalTimeslot            `json:"globalTimeslots"`
	DayAssignments      []models.DayTimeslotAssignment     `json:"dayAssignments"`
	ExpressTimeslots    []models.ExpressTimeslot           `json:"expressTimeslots"`
	ExpressAssignments  []models.ExpressTimeslotAssignment `json:"expressAssignments"`
	BlockedDates        []models.BlockedDate               `json:"blockedDates"`
	BlockedTimeslots    []models.BlockedTimeslot           `json:"blockedTimeslots"`
	GlobalAdvanceRules  []models.GlobalAdvanceOrderRule    `json:"globalAdvanceRules"`
	ProductAdvanceRules []models.ProductAdvanceOrderRule   `json:"productAdvanceRules"`
	Locations           []models.Location                  `json:"locations"`
}

// ActiveGlobalTimeslotsForDay filters the snapshot down to the timeslots
// assigned and active on the given weekday (0=Sunday).
func (s *Snapshot) ActiveGlobalTimeslotsForDay(dayOfWeek int) []models.GlobalTimeslot {
	assigned := make(map[int64]bool, len(s.DayAssignments))
	for _, a := range s.DayAssignments {
		if a.DayOfWeek == dayOfWeek && a.IsActive {
			assigned[a.GlobalTimeslotID] = true
		}
	}
	var out []models.GlobalTimeslot
	for _, ts := range s.GlobalTimeslots {
		if ts.IsActive && assigned[ts.ID] {
			out = append(out, ts)
		}
	}
	return out
}

// ActiveExpressTimeslotsForDay returns express slots runnable on the weekday.
// A slot qualifies through an assignment row or through its own day_of_week
// column when no assignment exists for it.
func (s *Snapshot) ActiveExpressTimeslotsForDay(dayOfWeek int) []models.ExpressTimeslot {
	assigned := make(map[int64]bool, len(s.ExpressAssignments))
	hasAssignment := make(map[int64]bool, len(s.ExpressAssignments))
	for _, a := range s.ExpressAssignments {
		hasAssignment[a.ExpressTimeslotID] = true
		if a.DayOfWeek == dayOfWeek && a.IsActive {
			assigned[a.ExpressTimeslotID] = true
		}
	}
	var out []models.ExpressTimeslot
	for _, ts := range s.ExpressTimeslots {
		if !ts.IsActive {
			continue
		}
		if hasAssignment[ts.ID] {
			if assigned[ts.ID] {
				out = append(out, ts)
			}
			continue
		}
		if ts.DayOfWeek == dayOfWeek {
			out = append(out, ts)
		}
	}
	return out
}

// BlockedTimeslotFor returns the override row for a date/slot pair, if any.
func (s *Snapshot) BlockedTimeslotFor(date string, slotID int64) *models.BlockedTimeslot {
	for i := range s.BlockedTimeslots {
		bt := &s.BlockedTimeslots[i]
		if bt.Date == date && bt.GlobalTimeslotID == slotID {
			return bt
		}
	}
	return nil
}

// DateBlocked reports whether the date falls on a blocked date or inside a
// blocked range. Dates compare lexicographically in YYYY-MM-DD form.
func (s *Snapshot) DateBlocked(date string) (bool, string) {
	for _, bd := range s.BlockedDates {
		if bd.IsRange && bd.EndDate != nil {
			if bd.Date <= date && date <= *bd.EndDate {
				return true, bd.Title
			}
			continue
		}
		if bd.Date == date {
			return true, bd.Title
		}
	}
	return false, ""
}
