package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/delivery-scheduler-backend/internal/advance"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/rules"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/delivery-scheduler-backend/pkg/errors"
)

// BlockReason explains why a calendar date cannot be booked.
type BlockReason struct {
	Code    string `json:"reasonCode"`
	Message string `json:"reason"`
}

// DateQuery names one calendar date to check.
type DateQuery struct {
	Date           string
	DeliveryType   enums.DeliveryType
	ProductName    string
	CollectionName string
}

// Calendar answers date-level questions by combining the advance-order
// evaluator with the slot engine. Advance rules run first: they are cheaper
// and their verdict does not depend on slot state.
type Calendar struct {
	engine       *Engine
	evaluator    *advance.Evaluator
	maxRangeDays int
}

// NewCalendar builds the calendar facade over an engine and evaluator.
func NewCalendar(engine *Engine, evaluator *advance.Evaluator, maxRangeDays int) (*Calendar, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine required")
	}
	if evaluator == nil {
		return nil, fmt.Errorf("advance evaluator required")
	}
	if maxRangeDays <= 0 {
		maxRangeDays = 90
	}
	return &Calendar{engine: engine, evaluator: evaluator, maxRangeDays: maxRangeDays}, nil
}

// IsDateAvailable reports whether the date can be booked at all.
func (c *Calendar) IsDateAvailable(ctx context.Context, q DateQuery) (bool, error) {
	reason, err := c.DateBlockingReason(ctx, q)
	if err != nil {
		return false, err
	}
	return reason == nil, nil
}

// DateBlockingReason returns nil when the date is bookable, otherwise the
// dominant blocking reason.
func (c *Calendar) DateBlockingReason(ctx context.Context, q DateQuery) (*BlockReason, error) {
	snap, err := c.engine.source.Snapshot(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rules snapshot")
	}
	return c.blockingReason(ctx, snap, q)
}

func (c *Calendar) blockingReason(ctx context.Context, snap *rules.Snapshot, q DateQuery) (*BlockReason, error) {
	day, err := time.ParseInLocation(dateLayout, q.Date, c.engine.loc)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD")
	}

	verdict := c.evaluator.Evaluate(ctx, snap, advance.Query{
		DeliveryDate:   day,
		DeliveryType:   q.DeliveryType,
		ProductName:    q.ProductName,
		CollectionName: q.CollectionName,
	}, c.engine.clock().In(c.engine.loc))
	if !verdict.Available {
		return &BlockReason{Code: verdict.ReasonCode, Message: verdict.Reason}, nil
	}

	slots, reason, err := c.engine.evaluateDay(ctx, snap, q.Date, q.DeliveryType)
	if err != nil {
		return nil, err
	}
	if len(slots) > 0 {
		return nil, nil
	}
	return &BlockReason{Code: reason, Message: reasonMessage(reason)}, nil
}

// AvailableDatesInRange walks the inclusive range and collects bookable
// dates. The snapshot is fetched once so the whole range sees one consistent
// rule set.
func (c *Calendar) AvailableDatesInRange(ctx context.Context, startDate, endDate string, q DateQuery) ([]string, error) {
	start, err := time.ParseInLocation(dateLayout, startDate, c.engine.loc)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "startDate must be YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(dateLayout, endDate, c.engine.loc)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "endDate must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "endDate precedes startDate")
	}
	if int(end.Sub(start).Hours()/24) > c.maxRangeDays {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("range exceeds %d days", c.maxRangeDays))
	}

	snap, err := c.engine.source.Snapshot(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rules snapshot")
	}

	available := []string{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		dq := q
		dq.Date = day.Format(dateLayout)
		reason, err := c.blockingReason(ctx, snap, dq)
		if err != nil {
			return nil, err
		}
		if reason == nil {
			available = append(available, dq.Date)
		}
	}
	return available, nil
}

func reasonMessage(code string) string {
	switch code {
	case ReasonBlockedDate:
		return "This date is unavailable for delivery."
	case ReasonNoSlots:
		return "No delivery slots are scheduled for this date."
	case ReasonCutoffExhausted:
		return "No slots left today, the ordering cutoff has passed."
	case ReasonQuotaExhausted:
		return "All delivery slots for this date are fully booked."
	}
	return "This date is unavailable."
}
