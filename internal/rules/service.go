package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/delivery-scheduler-backend/pkg/db/models"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/delivery-scheduler-backend/pkg/errors"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/logger"
	"go.uber.org/multierr"
)

const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

type rulesRepository interface {
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
	ReplaceDeliveryAreas(ctx context.Context, areas []models.DeliveryArea) error
	ReplaceGlobalTimeslots(ctx context.Context, slots []models.GlobalTimeslot) error
	ReplaceDayAssignments(ctx context.Context, assignments []models.DayTimeslotAssignment) error
	ReplaceExpressTimeslots(ctx context.Context, slots []models.ExpressTimeslot) error
	ReplaceExpressAssignments(ctx context.Context, assignments []models.ExpressTimeslotAssignment) error
	ReplaceBlockedDates(ctx context.Context, dates []models.BlockedDate) error
	ReplaceBlockedTimeslots(ctx context.Context, slots []models.BlockedTimeslot) error
	ReplaceGlobalAdvanceRules(ctx context.Context, rules []models.GlobalAdvanceOrderRule) error
	ReplaceProductAdvanceRules(ctx context.Context, rules []models.ProductAdvanceOrderRule) error
	ReplaceLocations(ctx context.Context, locations []models.Location) error
	CountGlobalTimeslots(ctx context.Context) (int64, error)
}

// Service exposes the admin rule-management operations.
type Service interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
	SaveDeliveryAreas(ctx context.Context, areas []models.DeliveryArea) error
	SaveGlobalTimeslots(ctx context.Context, slots []models.GlobalTimeslot) error
	SaveDayAssignments(ctx context.Context, assignments []models.DayTimeslotAssignment) error
	SaveExpressTimeslots(ctx context.Context, slots []models.ExpressTimeslot) error
	SaveExpressAssignments(ctx context.Context, assignments []models.ExpressTimeslotAssignment) error
	SaveBlockedDates(ctx context.Context, dates []models.BlockedDate) error
	SaveBlockedTimeslots(ctx context.Context, slots []models.BlockedTimeslot) error
	SaveGlobalAdvanceRules(ctx context.Context, rules []models.GlobalAdvanceOrderRule) error
	SaveProductAdvanceRules(ctx context.Context, rules []models.ProductAdvanceOrderRule) error
	SaveLocations(ctx context.Context, locations []models.Location) error
	SeedDefaults(ctx context.Context) (bool, error)
	ExportAll(ctx context.Context) (*Snapshot, error)
	ImportAll(ctx context.Context, snap Snapshot) error
}

type service struct {
	repo rulesRepository
	logg *logger.Logger
}

// NewService builds a rule service with the provided repository.
func NewService(repo rulesRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rules repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rules snapshot")
	}
	return snap, nil
}

func (s *service) SaveDeliveryAreas(ctx context.Context, areas []models.DeliveryArea) error {
	seen := make(map[string]bool)
	for i, area := range areas {
		if area.Name == "" {
			return validationErr(fmt.Sprintf("deliveryAreas[%d].name is required", i))
		}
		for j, prefix := range area.Prefixes {
			if len(prefix.Prefix) != 2 || !allDigits(prefix.Prefix) {
				return validationErr(fmt.Sprintf("deliveryAreas[%d].prefixes[%d]: prefix must be 2 digits", i, j))
			}
			if seen[prefix.Prefix] {
				return validationErr(fmt.Sprintf("postal prefix %q assigned to more than one area", prefix.Prefix))
			}
			seen[prefix.Prefix] = true
		}
	}
	if err := s.repo.ReplaceDeliveryAreas(ctx, areas); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save delivery areas")
	}
	return nil
}

func (s *service) SaveGlobalTimeslots(ctx context.Context, slots []models.GlobalTimeslot) error {
	for i, slot := range slots {
		if slot.Name == "" {
			return validationErr(fmt.Sprintf("timeslots[%d].name is required", i))
		}
		if err := validateClockOrder(slot.StartTime, slot.EndTime); err != nil {
			return validationErr(fmt.Sprintf("timeslots[%d]: %v", i, err))
		}
		if _, err := time.Parse(clockLayout, slot.CutoffTime); err != nil {
			return validationErr(fmt.Sprintf("timeslots[%d].cutoffTime must be HH:MM", i))
		}
		if slot.MaxSlots < 0 {
			return validationErr(fmt.Sprintf("timeslots[%d].maxSlots must not be negative", i))
		}
		if !slot.DeliveryType.Valid() {
			return validationErr(fmt.Sprintf("timeslots[%d].deliveryType is invalid", i))
		}
		if !slot.CutoffType.Valid() {
			return validationErr(fmt.Sprintf("timeslots[%d].cutoffType is invalid", i))
		}
	}
	if err := s.repo.ReplaceGlobalTimeslots(ctx, slots); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save global timeslots")
	}
	return nil
}

func (s *service) SaveDayAssignments(ctx context.Context, assignments []models.DayTimeslotAssignment) error {
	for i, a := range assignments {
		if a.DayOfWeek < 0 || a.DayOfWeek > 6 {
			return validationErr(fmt.Sprintf("dayAssignments[%d].dayOfWeek must be 0-6", i))
		}
	}
	if err := s.repo.ReplaceDayAssignments(ctx, assignments); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save day assignments")
	}
	return nil
}

func (s *service) SaveExpressTimeslots(ctx context.Context, slots []models.ExpressTimeslot) error {
	for i, slot := range slots {
		if slot.Name == "" {
			return validationErr(fmt.Sprintf("expressTimeslots[%d].name is required", i))
		}
		if err := validateClockOrder(slot.StartTime, slot.EndTime); err != nil {
			return validationErr(fmt.Sprintf("expressTimeslots[%d]: %v", i, err))
		}
		if slot.CutoffMinutes < 0 {
			return validationErr(fmt.Sprintf("expressTimeslots[%d].cutoffMinutes must not be negative", i))
		}
		if slot.DayOfWeek < 0 || slot.DayOfWeek > 6 {
			return validationErr(fmt.Sprintf("expressTimeslots[%d].dayOfWeek must be 0-6", i))
		}
		if slot.Fee.IsNegative() {
			return validationErr(fmt.Sprintf("expressTimeslots[%d].fee must not be negative", i))
		}
	}
	if err := s.repo.ReplaceExpressTimeslots(ctx, slots); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save express timeslots")
	}
	return nil
}

func (s *service) SaveExpressAssignments(ctx context.Context, assignments []models.ExpressTimeslotAssignment) error {
	for i, a := range assignments {
		if a.DayOfWeek < 0 || a.DayOfWeek > 6 {
			return validationErr(fmt.Sprintf("expressAssignments[%d].dayOfWeek must be 0-6", i))
		}
	}
	if err := s.repo.ReplaceExpressAssignments(ctx, assignments); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save express assignments")
	}
	return nil
}

func (s *service) SaveBlockedDates(ctx context.Context, dates []models.BlockedDate) error {
	for i, bd := range dates {
		if _, err := time.Parse(dateLayout, bd.Date); err != nil {
			return validationErr(fmt.Sprintf("blockedDates[%d].date must be YYYY-MM-DD", i))
		}
		if bd.IsRange {
			if bd.EndDate == nil {
				return validationErr(fmt.Sprintf("blockedDates[%d].endDate is required for ranges", i))
			}
			if _, err := time.Parse(dateLayout, *bd.EndDate); err != nil {
				return validationErr(fmt.Sprintf("blockedDates[%d].endDate must be YYYY-MM-DD", i))
			}
			if *bd.EndDate < bd.Date {
				return validationErr(fmt.Sprintf("blockedDates[%d]: endDate precedes date", i))
			}
		}
	}
	if err := s.repo.ReplaceBlockedDates(ctx, dates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save blocked dates")
	}
	return nil
}

func (s *service) SaveBlockedTimeslots(ctx context.Context, slots []models.BlockedTimeslot) error {
	for i, bt := range slots {
		if _, err := time.Parse(dateLayout, bt.Date); err != nil {
			return validationErr(fmt.Sprintf("blockedTimeslots[%d].date must be YYYY-MM-DD", i))
		}
		if !bt.BlockType.Valid() {
			return validationErr(fmt.Sprintf("blockedTimeslots[%d].blockType is invalid", i))
		}
		if bt.BlockType == enums.BlockQuotaOverride {
			if bt.CustomQuota == nil || *bt.CustomQuota < 0 {
				return validationErr(fmt.Sprintf("blockedTimeslots[%d].customQuota must be a non-negative number", i))
			}
		}
	}
	if err := s.repo.ReplaceBlockedTimeslots(ctx, slots); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save blocked timeslots")
	}
	return nil
}

func (s *service) SaveGlobalAdvanceRules(ctx context.Context, rules []models.GlobalAdvanceOrderRule) error {
	for i, rule := range rules {
		if rule.GlobalAdvanceDays < 0 {
			return validationErr(fmt.Sprintf("globalAdvanceRules[%d].globalAdvanceDays must not be negative", i))
		}
		if !rule.AppliesTo.Valid() {
			return validationErr(fmt.Sprintf("globalAdvanceRules[%d].appliesTo is invalid", i))
		}
	}
	if err := s.repo.ReplaceGlobalAdvanceRules(ctx, rules); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save global advance rules")
	}
	return nil
}

func (s *service) SaveProductAdvanceRules(ctx context.Context, rules []models.ProductAdvanceOrderRule) error {
	for i, rule := range rules {
		if !rule.RuleType.Valid() {
			return validationErr(fmt.Sprintf("productAdvanceRules[%d].ruleType is invalid", i))
		}
		if rule.ProductName == "" && (rule.CollectionName == nil || *rule.CollectionName == "") {
			return validationErr(fmt.Sprintf("productAdvanceRules[%d]: productName or collectionName is required", i))
		}
		if _, err := time.Parse(dateLayout, rule.OrderStartDate); err != nil {
			return validationErr(fmt.Sprintf("productAdvanceRules[%d].orderStartDate must be YYYY-MM-DD", i))
		}
		if _, err := time.Parse(dateLayout, rule.OrderEndDate); err != nil {
			return validationErr(fmt.Sprintf("productAdvanceRules[%d].orderEndDate must be YYYY-MM-DD", i))
		}
		if rule.OrderEndDate < rule.OrderStartDate {
			return validationErr(fmt.Sprintf("productAdvanceRules[%d]: orderEndDate precedes orderStartDate", i))
		}
		if rule.LeadTimeDays < 0 {
			return validationErr(fmt.Sprintf("productAdvanceRules[%d].leadTimeDays must not be negative", i))
		}
	}
	if err := s.repo.ReplaceProductAdvanceRules(ctx, rules); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product advance rules")
	}
	return nil
}

func (s *service) SaveLocations(ctx context.Context, locations []models.Location) error {
	for i, loc := range locations {
		if loc.Name == "" {
			return validationErr(fmt.Sprintf("locations[%d].name is required", i))
		}
		if loc.Address.Address1 == "" || loc.Address.City == "" || loc.Address.Zip == "" {
			return validationErr(fmt.Sprintf("locations[%d].address needs address1, city and zip", i))
		}
	}
	if err := s.repo.ReplaceLocations(ctx, locations); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save locations")
	}
	return nil
}

// SeedDefaults installs the default ruleset when the store has never been
// configured. Returns true when seeding ran.
func (s *service) SeedDefaults(ctx context.Context) (bool, error) {
	count, err := s.repo.CountGlobalTimeslots(ctx)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count timeslots")
	}
	if count > 0 {
		return false, nil
	}

	defaults := DefaultRuleset()
	if err := s.ImportAll(ctx, defaults); err != nil {
		return false, err
	}
	s.logg.Info(ctx, "seeded default scheduling rules")
	return true, nil
}

// ExportAll returns the full configuration for backup.
func (s *service) ExportAll(ctx context.Context) (*Snapshot, error) {
	return s.Snapshot(ctx)
}

// ImportAll restores every collection from a backup snapshot. Collections
// are replaced independently; failures are collected so a bad collection
// does not silently skip the rest.
func (s *service) ImportAll(ctx context.Context, snap Snapshot) error {
	var errs error
	errs = multierr.Append(errs, s.SaveDeliveryAreas(ctx, snap.DeliveryAreas))
	errs = multierr.Append(errs, s.SaveGlobalTimeslots(ctx, snap.GlobalTimeslots))
	errs = multierr.Append(errs, s.SaveDayAssignments(ctx, snap.DayAssignments))
	errs = multierr.Append(errs, s.SaveExpressTimeslots(ctx, snap.ExpressTimeslots))
	errs = multierr.Append(errs, s.SaveExpressAssignments(ctx, snap.ExpressAssignments))
	errs = multierr.Append(errs, s.SaveBlockedDates(ctx, snap.BlockedDates))
	errs = multierr.Append(errs, s.SaveBlockedTimeslots(ctx, snap.BlockedTimeslots))
	errs = multierr.Append(errs, s.SaveGlobalAdvanceRules(ctx, snap.GlobalAdvanceRules))
	errs = multierr.Append(errs, s.SaveProductAdvanceRules(ctx, snap.ProductAdvanceRules))
	errs = multierr.Append(errs, s.SaveLocations(ctx, snap.Locations))
	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "import snapshot")
	}
	return nil
}

func validationErr(msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, msg)
}

func validateClockOrder(start, end string) error {
	startT, err := time.Parse(clockLayout, start)
	if err != nil {
		return fmt.Errorf("startTime must be HH:MM")
	}
	endT, err := time.Parse(clockLayout, end)
	if err != nil {
		return fmt.Errorf("endTime must be HH:MM")
	}
	if !endT.After(startT) {
		return fmt.Errorf("endTime must be after startTime")
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
