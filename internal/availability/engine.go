package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/angelmondragon/delivery-scheduler-backend/internal/bookings"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/rules"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/delivery-scheduler-backend/pkg/errors"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/logger"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// Reason codes for an empty day, ordered from most to least dominant.
const (
	ReasonBlockedDate     = "blocked-date"
	ReasonNoSlots         = "no-slots-configured"
	ReasonCutoffExhausted = "cutoff-exhausted"
	ReasonQuotaExhausted  = "quota-exhausted"
)

type ruleSource interface {
	Snapshot(ctx context.Context) (*rules.Snapshot, error)
}

// TimeslotDTO is one bookable window with its live remaining quota.
type TimeslotDTO struct {
	ID             int64              `json:"id"`
	Name           string             `json:"name"`
	StartTime      string             `json:"startTime"`
	EndTime        string             `json:"endTime"`
	DeliveryType   enums.DeliveryType `json:"deliveryType"`
	AvailableSlots int                `json:"availableSlots"`
	CutoffTime     string             `json:"cutoffTime"`
	Fee            *decimal.Decimal   `json:"fee,omitempty"`
}

// Engine computes timeslot availability for a single date against one rule
// snapshot. Quota reads are a snapshot too; the booking layer re-validates
// with SlotCounter.TryReserve at commit time.
type Engine struct {
	source  ruleSource
	counter bookings.SlotCounter
	loc     *time.Location
	clock   func() time.Time
	logg    *logger.Logger
	mx      *metrics.AvailabilityMetrics
}

// EngineOptions configures the availability engine.
type EngineOptions struct {
	Source   ruleSource
	Counter  bookings.SlotCounter
	Location *time.Location
	Clock    func() time.Time
	Logger   *logger.Logger
	Metrics  *metrics.AvailabilityMetrics
}

// NewEngine builds an engine. Clock defaults to time.Now, location to UTC.
func NewEngine(opts EngineOptions) (*Engine, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("rule source required")
	}
	if opts.Counter == nil {
		return nil, fmt.Errorf("slot counter required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Engine{
		source:  opts.Source,
		counter: opts.Counter,
		loc:     opts.Location,
		clock:   opts.Clock,
		logg:    opts.Logger,
		mx:      opts.Metrics,
	}, nil
}

// GetAvailableTimeslots runs the full pipeline for one date. An empty list
// is a normal outcome, never an error.
func (e *Engine) GetAvailableTimeslots(ctx context.Context, date string, deliveryType enums.DeliveryType) ([]TimeslotDTO, error) {
	started := e.clock()
	snap, err := e.source.Snapshot(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rules snapshot")
	}

	slots, reason, err := e.evaluateDay(ctx, snap, date, deliveryType)
	if err != nil {
		return nil, err
	}

	e.mx.ObserveQuery(string(deliveryType), e.clock().Sub(started))
	if reason == "" {
		e.mx.IncResult(string(deliveryType), "available")
	} else {
		e.mx.IncResult(string(deliveryType), reason)
	}
	return slots, nil
}

// ReserveSlot atomically claims one unit of a timeslot's quota. The
// availability read the shopper saw is only a snapshot; this is the
// re-validation at commit time.
func (e *Engine) ReserveSlot(ctx context.Context, date string, deliveryType enums.DeliveryType, slotID int64) error {
	snap, err := e.source.Snapshot(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rules snapshot")
	}

	day, err := time.ParseInLocation(dateLayout, date, e.loc)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD")
	}
	if blocked, _ := snap.DateBlocked(date); blocked {
		return pkgerrors.New(pkgerrors.CodeSlotUnavailable, "date is blocked for delivery")
	}

	var target *candidate
	for _, c := range e.resolveCandidateSlots(snap, day, deliveryType) {
		if c.id == slotID {
			copied := c
			target = &copied
			break
		}
	}
	if target == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "timeslot not available on this date")
	}

	remaining := applyDateOverrides(snap, date, []candidate{*target})
	if len(remaining) == 0 {
		return pkgerrors.New(pkgerrors.CodeSlotUnavailable, "timeslot is blocked on this date")
	}
	target = &remaining[0]

	if !e.clock().In(e.loc).Before(target.cutoff) {
		return pkgerrors.New(pkgerrors.CodeSlotUnavailable, "ordering cutoff has passed")
	}

	ok, err := e.counter.TryReserve(ctx, date, slotKind(target.express), slotID, target.maxSlots)
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeSlotUnavailable, "slot no longer available")
	}
	return nil
}

// ReleaseSlot returns one claimed unit, used when an order is cancelled.
func (e *Engine) ReleaseSlot(ctx context.Context, date string, deliveryType enums.DeliveryType, slotID int64) error {
	return e.counter.Release(ctx, date, slotKind(deliveryType == enums.DeliveryTypeExpress), slotID)
}

// slotKind maps a candidate onto the counter keyspace partition.
func slotKind(express bool) string {
	if express {
		return bookings.SlotKindExpress
	}
	return bookings.SlotKindGlobal
}

// candidate unifies global and express slots for the filtering pipeline.
type candidate struct {
	id           int64
	name         string
	start        string
	end          string
	maxSlots     int
	deliveryType enums.DeliveryType
	cutoff       time.Time
	cutoffLabel  string
	fee          *decimal.Decimal
	express      bool
}

// evaluateDay resolves, filters and quantifies slots for one date. The
// returned reason explains an empty result: blocked-date dominates, then
// no-slots-configured, cutoff-exhausted, quota-exhausted.
func (e *Engine) evaluateDay(ctx context.Context, snap *rules.Snapshot, date string, deliveryType enums.DeliveryType) ([]TimeslotDTO, string, error) {
	day, err := time.ParseInLocation(dateLayout, date, e.loc)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD")
	}

	// A blocked date closes the whole day before any slot logic runs.
	if blocked, _ := snap.DateBlocked(date); blocked {
		return []TimeslotDTO{}, ReasonBlockedDate, nil
	}

	candidates := e.resolveCandidateSlots(snap, day, deliveryType)
	candidates = applyDateOverrides(snap, date, candidates)
	if len(candidates) == 0 {
		return []TimeslotDTO{}, ReasonNoSlots, nil
	}

	now := e.clock().In(e.loc)
	var open []candidate
	for _, c := range candidates {
		// Inclusive boundary: a claim exactly at the cutoff instant is late.
		if now.Before(c.cutoff) {
			open = append(open, c)
		}
	}
	if len(open) == 0 {
		return []TimeslotDTO{}, ReasonCutoffExhausted, nil
	}

	var out []TimeslotDTO
	for _, c := range open {
		booked, err := e.counter.GetBooked(ctx, date, slotKind(c.express), c.id)
		if err != nil {
			return nil, "", err
		}
		remaining := c.maxSlots - booked
		if remaining < 0 {
			remaining = 0
		}
		if remaining == 0 {
			continue
		}
		out = append(out, TimeslotDTO{
			ID:             c.id,
			Name:           c.name,
			StartTime:      c.start,
			EndTime:        c.end,
			DeliveryType:   c.deliveryType,
			AvailableSlots: remaining,
			CutoffTime:     c.cutoffLabel,
			Fee:            c.fee,
		})
	}
	if len(out) == 0 {
		return []TimeslotDTO{}, ReasonQuotaExhausted, nil
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, "", nil
}

// resolveCandidateSlots picks the slot templates assigned to the date's
// weekday for the requested delivery type.
func (e *Engine) resolveCandidateSlots(snap *rules.Snapshot, day time.Time, deliveryType enums.DeliveryType) []candidate {
	weekday := int(day.Weekday())

	if deliveryType == enums.DeliveryTypeExpress {
		var out []candidate
		for _, ts := range snap.ActiveExpressTimeslotsForDay(weekday) {
			fee := ts.Fee
			out = append(out, candidate{
				id:           ts.ID,
				name:         ts.Name,
				start:        ts.StartTime,
				end:          ts.EndTime,
				maxSlots:     ts.MaxSlots,
				deliveryType: enums.DeliveryTypeExpress,
				cutoff:       expressCutoff(day, ts.StartTime, ts.CutoffMinutes, e.loc),
				cutoffLabel:  fmt.Sprintf("%d min before start", ts.CutoffMinutes),
				fee:          &fee,
				express:      true,
			})
		}
		return out
	}

	var out []candidate
	for _, ts := range snap.ActiveGlobalTimeslotsForDay(weekday) {
		if ts.DeliveryType != deliveryType {
			continue
		}
		out = append(out, candidate{
			id:           ts.ID,
			name:         ts.Name,
			start:        ts.StartTime,
			end:          ts.EndTime,
			maxSlots:     ts.MaxSlots,
			deliveryType: ts.DeliveryType,
			cutoff:       wallClockCutoff(day, ts.CutoffTime, ts.CutoffType, e.loc),
			cutoffLabel:  ts.CutoffTime,
		})
	}
	return out
}

// applyDateOverrides drops completely blocked slots and swaps quotas for
// quota-override rows. Overrides target global timeslot IDs, so express
// candidates pass through untouched.
func applyDateOverrides(snap *rules.Snapshot, date string, candidates []candidate) []candidate {
	var out []candidate
	for _, c := range candidates {
		if c.express {
			out = append(out, c)
			continue
		}
		override := snap.BlockedTimeslotFor(date, c.id)
		if override == nil {
			out = append(out, c)
			continue
		}
		switch override.BlockType {
		case enums.BlockComplete:
			continue
		case enums.BlockQuotaOverride:
			if override.CustomQuota != nil {
				c.maxSlots = *override.CustomQuota
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return out
}

// wallClockCutoff places a HH:MM cutoff on the delivery date (same-day) or
// the day before (next-day).
func wallClockCutoff(day time.Time, cutoffTime string, cutoffType enums.CutoffType, loc *time.Location) time.Time {
	parsed, err := time.Parse(clockLayout, cutoffTime)
	if err != nil {
		// Malformed cutoff never excludes a slot.
		return day.AddDate(0, 0, 1)
	}
	cutoffDay := day
	if cutoffType == enums.CutoffNextDay {
		cutoffDay = day.AddDate(0, 0, -1)
	}
	return time.Date(cutoffDay.Year(), cutoffDay.Month(), cutoffDay.Day(), parsed.Hour(), parsed.Minute(), 0, 0, loc)
}

// expressCutoff is the slot start minus the configured head start.
func expressCutoff(day time.Time, startTime string, cutoffMinutes int, loc *time.Location) time.Time {
	parsed, err := time.Parse(clockLayout, startTime)
	if err != nil {
		// Malformed start times never exclude a slot, same as wallClockCutoff.
		return day.AddDate(0, 0, 1)
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, loc)
	return start.Add(-time.Duration(cutoffMinutes) * time.Minute)
}
