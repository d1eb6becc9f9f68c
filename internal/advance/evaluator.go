package advance

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/delivery-scheduler-backend/internal/rules"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/db/models"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/enums"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/logger"
)

const dateLayout = "2006-01-02"

// Tie-break policies for multiple global rules in the same specificity class.
const (
	// TieBreakConservative picks the rule with the longest lead time.
	TieBreakConservative = "conservative"
	// TieBreakFirst picks the first matching rule by ID order.
	TieBreakFirst = "first"
)

// Reason codes identifying which rule blocked the date.
const (
	ReasonOrderWindowNotOpen    = "order-window-not-open"
	ReasonOrderWindowClosed     = "order-window-closed"
	ReasonAdvanceNoticeRequired = "advance-notice-required"
	ReasonDeliveryOutsideWindow = "delivery-outside-window"
)

// Result is the outcome of an advance-order evaluation.
type Result struct {
	Available  bool   `json:"available"`
	ReasonCode string `json:"reasonCode,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Query names what is being scheduled.
type Query struct {
	DeliveryDate   time.Time
	DeliveryType   enums.DeliveryType
	ProductName    string
	CollectionName string
}

// Evaluator applies global and product advance-order rules.
type Evaluator struct {
	tieBreak string
	logg     *logger.Logger
}

// NewEvaluator builds an evaluator with the configured tie-break policy.
func NewEvaluator(tieBreak string, logg *logger.Logger) (*Evaluator, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	switch tieBreak {
	case "":
		tieBreak = TieBreakConservative
	case TieBreakConservative, TieBreakFirst:
	default:
		return nil, fmt.Errorf("unknown tie-break policy %q", tieBreak)
	}
	return &Evaluator{tieBreak: tieBreak, logg: logg}, nil
}

// Evaluate runs the decision tree for one delivery date. A matching product
// rule fully overrides the global rule; absence of any rule never blocks.
func (e *Evaluator) Evaluate(ctx context.Context, snap *rules.Snapshot, q Query, now time.Time) Result {
	if product := e.pickProductRule(snap, q); product != nil {
		return e.evaluateProductRule(product, q, now)
	}
	if global := e.pickGlobalRule(ctx, snap, q.DeliveryType); global != nil {
		return evaluateGlobalRule(global, q.DeliveryDate, now)
	}
	return Result{Available: true}
}

// pickGlobalRule selects the applicable global rule. Rules naming a specific
// delivery-type class beat 'all'; remaining ties resolve per policy and log
// a data-consistency warning.
func (e *Evaluator) pickGlobalRule(ctx context.Context, snap *rules.Snapshot, dt enums.DeliveryType) *models.GlobalAdvanceOrderRule {
	var specific, catchAll []*models.GlobalAdvanceOrderRule
	for i := range snap.GlobalAdvanceRules {
		rule := &snap.GlobalAdvanceRules[i]
		if !rule.IsActive || !rule.AppliesTo.Matches(dt) {
			continue
		}
		if rule.AppliesTo == enums.AdvanceAppliesToAll {
			catchAll = append(catchAll, rule)
		} else {
			specific = append(specific, rule)
		}
	}

	pool := specific
	if len(pool) == 0 {
		pool = catchAll
	}
	if len(pool) == 0 {
		return nil
	}
	if len(pool) == 1 {
		return pool[0]
	}

	ctx = e.logg.WithFields(ctx, map[string]any{
		"delivery_type": string(dt),
		"rule_count":    len(pool),
		"policy":        e.tieBreak,
	})
	e.logg.Warn(ctx, "multiple global advance rules match; applying tie-break")

	if e.tieBreak == TieBreakFirst {
		return pool[0]
	}
	chosen := pool[0]
	for _, rule := range pool[1:] {
		if rule.GlobalAdvanceDays > chosen.GlobalAdvanceDays {
			chosen = rule
		}
	}
	return chosen
}

// pickProductRule selects the highest-priority product rule matching the
// product or its collection.
func (e *Evaluator) pickProductRule(snap *rules.Snapshot, q Query) *models.ProductAdvanceOrderRule {
	var chosen *models.ProductAdvanceOrderRule
	for i := range snap.ProductAdvanceRules {
		rule := &snap.ProductAdvanceRules[i]
		if !rule.IsActive || !ruleMatchesProduct(rule, q) {
			continue
		}
		if chosen == nil || rule.Priority > chosen.Priority {
			chosen = rule
		}
	}
	return chosen
}

func ruleMatchesProduct(rule *models.ProductAdvanceOrderRule, q Query) bool {
	switch rule.RuleType {
	case enums.AdvanceRuleProduct:
		return q.ProductName != "" && rule.ProductName == q.ProductName
	case enums.AdvanceRuleCollection:
		return q.CollectionName != "" && rule.CollectionName != nil && *rule.CollectionName == q.CollectionName
	}
	return false
}

// evaluateProductRule checks the ordering window against "now" (not the
// delivery date), then the optional delivery window and lead time.
func (e *Evaluator) evaluateProductRule(rule *models.ProductAdvanceOrderRule, q Query, now time.Time) Result {
	today := now.Format(dateLayout)
	deliveryDay := q.DeliveryDate.Format(dateLayout)

	if today < rule.OrderStartDate {
		return Result{
			Available:  false,
			ReasonCode: ReasonOrderWindowNotOpen,
			Reason:     fmt.Sprintf("Ordering for this item opens %s.", rule.OrderStartDate),
		}
	}
	if today > rule.OrderEndDate {
		return Result{
			Available:  false,
			ReasonCode: ReasonOrderWindowClosed,
			Reason:     fmt.Sprintf("Ordering for this item closed %s.", rule.OrderEndDate),
		}
	}
	if rule.DeliveryStartDate != nil && deliveryDay < *rule.DeliveryStartDate {
		return Result{
			Available:  false,
			ReasonCode: ReasonDeliveryOutsideWindow,
			Reason:     fmt.Sprintf("Delivery for this item starts %s.", *rule.DeliveryStartDate),
		}
	}
	if rule.DeliveryEndDate != nil && deliveryDay > *rule.DeliveryEndDate {
		return Result{
			Available:  false,
			ReasonCode: ReasonDeliveryOutsideWindow,
			Reason:     fmt.Sprintf("Delivery for this item ends %s.", *rule.DeliveryEndDate),
		}
	}
	if rule.LeadTimeDays > 0 && daysBetween(now, q.DeliveryDate) < rule.LeadTimeDays {
		return Result{
			Available:  false,
			ReasonCode: ReasonAdvanceNoticeRequired,
			Reason:     fmt.Sprintf("This item requires %d days advance notice.", rule.LeadTimeDays),
		}
	}
	return Result{Available: true}
}

func evaluateGlobalRule(rule *models.GlobalAdvanceOrderRule, deliveryDate, now time.Time) Result {
	if daysBetween(now, deliveryDate) < rule.GlobalAdvanceDays {
		return Result{
			Available:  false,
			ReasonCode: ReasonAdvanceNoticeRequired,
			Reason:     fmt.Sprintf("Orders require %d days advance notice.", rule.GlobalAdvanceDays),
		}
	}
	return Result{Available: true}
}

// daysBetween counts whole calendar days from now's date to the delivery
// date, both taken in the delivery date's location. The midnights are
// rebuilt in UTC so a 23-hour DST day still counts as one day.
func daysBetween(now, deliveryDate time.Time) int {
	nowLocal := now.In(deliveryDate.Location())
	a := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(deliveryDate.Year(), deliveryDate.Month(), deliveryDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}
