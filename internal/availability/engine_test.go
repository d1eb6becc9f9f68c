package availability

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/angelmondragon/delivery-scheduler-backend/internal/bookings"
	"github.com/angelmondragon/delivery-scheduler-backend/internal/rules"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/db/models"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/delivery-scheduler-backend/pkg/errors"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// 2026-09-10 is a Thursday.
const testDate = "2026-09-10"

type stubRuleSource struct {
	snap *rules.Snapshot
	err  error
}

func (s *stubRuleSource) Snapshot(ctx context.Context) (*rules.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

// testSnapshot assigns four global slots and one express slot to every
// weekday so date arithmetic in tests stays simple.
func testSnapshot() *rules.Snapshot {
	snap := &rules.Snapshot{
		GlobalTimeslots: []models.GlobalTimeslot{
			{ID: 1, Name: "Morning Delivery", StartTime: "09:00", EndTime: "12:00", MaxSlots: 10,
				DeliveryType: enums.DeliveryTypeStandard, CutoffTime: "08:00", CutoffType: enums.CutoffSameDay, IsActive: true},
			{ID: 2, Name: "Afternoon Delivery", StartTime: "13:00", EndTime: "17:00", MaxSlots: 8,
				DeliveryType: enums.DeliveryTypeStandard, CutoffTime: "12:00", CutoffType: enums.CutoffSameDay, IsActive: true},
			{ID: 3, Name: "Evening Collection", StartTime: "18:00", EndTime: "20:00", MaxSlots: 5,
				DeliveryType: enums.DeliveryTypeCollection, CutoffTime: "17:00", CutoffType: enums.CutoffSameDay, IsActive: true},
			{ID: 4, Name: "Next Day Prep", StartTime: "10:00", EndTime: "13:00", MaxSlots: 6,
				DeliveryType: enums.DeliveryTypeStandard, CutoffTime: "18:00", CutoffType: enums.CutoffNextDay, IsActive: true},
		},
		ExpressTimeslots: []models.ExpressTimeslot{
			{ID: 10, Name: "Express Morning", StartTime: "10:30", EndTime: "12:30", Fee: decimal.NewFromInt(15),
				MaxSlots: 3, IsActive: true, CutoffMinutes: 60, DayOfWeek: 4},
		},
	}
	for dow := 0; dow < 7; dow++ {
		for _, slotID := range []int64{1, 2, 3, 4} {
			snap.DayAssignments = append(snap.DayAssignments, models.DayTimeslotAssignment{
				DayOfWeek: dow, GlobalTimeslotID: slotID, IsActive: true,
			})
		}
	}
	return snap
}

func at(value string) func() time.Time {
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return parsed }
}

func newTestEngine(t *testing.T, snap *rules.Snapshot, counter bookings.SlotCounter, clock func() time.Time) *Engine {
	t.Helper()
	if counter == nil {
		counter = bookings.NewMemoryCounter()
	}
	engine, err := NewEngine(EngineOptions{
		Source:  &stubRuleSource{snap: snap},
		Counter: counter,
		Clock:   clock,
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func slotNames(slots []TimeslotDTO) []string {
	names := make([]string, 0, len(slots))
	for _, s := range slots {
		names = append(names, s.Name)
	}
	return names
}

func TestStandardSlotsSortedByStartTime(t *testing.T) {
	engine := newTestEngine(t, testSnapshot(), nil, at("2026-09-08 10:00"))

	slots, err := engine.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeStandard)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	want := []string{"Morning Delivery", "Next Day Prep", "Afternoon Delivery"}
	got := slotNames(slots)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	for _, s := range slots {
		if s.DeliveryType != enums.DeliveryTypeStandard {
			t.Fatalf("collection slot leaked into standard query: %+v", s)
		}
	}
}

func TestCollectionQueryReturnsOnlyCollectionSlots(t *testing.T) {
	engine := newTestEngine(t, testSnapshot(), nil, at("2026-09-08 10:00"))

	slots, err := engine.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeCollection)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	if len(slots) != 1 || slots[0].Name != "Evening Collection" {
		t.Fatalf("expected only Evening Collection, got %v", slotNames(slots))
	}
}

func TestBlockedDateShortCircuitsEverything(t *testing.T) {
	snap := testSnapshot()
	snap.BlockedDates = []models.BlockedDate{{Date: testDate, Title: "Public Holiday"}}
	engine := newTestEngine(t, snap, nil, at("2026-09-01 10:00"))

	for _, dt := range []enums.DeliveryType{enums.DeliveryTypeStandard, enums.DeliveryTypeCollection, enums.DeliveryTypeExpress} {
		slots, err := engine.GetAvailableTimeslots(context.Background(), testDate, dt)
		if err != nil {
			t.Fatalf("get timeslots (%s): %v", dt, err)
		}
		if len(slots) != 0 {
			t.Fatalf("blocked date must dominate for %s, got %v", dt, slotNames(slots))
		}
	}
}

func TestBlockedRangeCoversDate(t *testing.T) {
	end := "2026-09-12"
	snap := testSnapshot()
	snap.BlockedDates = []models.BlockedDate{{Date: "2026-09-09", IsRange: true, EndDate: &end, Title: "Maintenance"}}
	engine := newTestEngine(t, snap, nil, at("2026-09-01 10:00"))

	slots, err := engine.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeStandard)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("date inside blocked range must be empty, got %v", slotNames(slots))
	}

	after, err := engine.GetAvailableTimeslots(context.Background(), "2026-09-13", enums.DeliveryTypeStandard)
	if err != nil {
		t.Fatalf("get timeslots after range: %v", err)
	}
	if len(after) == 0 {
		t.Fatal("date after blocked range should be open")
	}
}

func TestCompleteBlockDropsSingleSlot(t *testing.T) {
	snap := testSnapshot()
	snap.BlockedTimeslots = []models.BlockedTimeslot{
		{Date: testDate, GlobalTimeslotID: 1, BlockType: enums.BlockComplete},
	}
	engine := newTestEngine(t, snap, nil, at("2026-09-08 10:00"))

	slots, err := engine.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeStandard)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	for _, s := range slots {
		if s.ID == 1 {
			t.Fatal("completely blocked slot must be dropped")
		}
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 remaining slots, got %v", slotNames(slots))
	}
}

func TestQuotaOverrideAppliesToSingleDateOnly(t *testing.T) {
	quota := 2
	snap := testSnapshot()
	snap.BlockedTimeslots = []models.BlockedTimeslot{
		{Date: testDate, GlobalTimeslotID: 1, BlockType: enums.BlockQuotaOverride, CustomQuota: &quota},
	}
	counter := bookings.NewMemoryCounter()
	counter.SetBooked(testDate, bookings.SlotKindGlobal, 1, 1)
	engine := newTestEngine(t, snap, counter, at("2026-09-08 10:00"))

	slots, err := engine.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeStandard)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	var morning *TimeslotDTO
	for i := range slots {
		if slots[i].ID == 1 {
			morning = &slots[i]
		}
	}
	if morning == nil {
		t.Fatal("overridden slot should still appear with remaining quota")
	}
	if morning.AvailableSlots != 1 {
		t.Fatalf("expected 2-1=1 remaining, got %d", morning.AvailableSlots)
	}

	// Following Thursday is untouched by the override.
	nextWeek, err := engine.GetAvailableTimeslots(context.Background(), "2026-09-17", enums.DeliveryTypeStandard)
	if err != nil {
		t.Fatalf("get timeslots next week: %v", err)
	}
	for _, s := range nextWeek {
		if s.ID == 1 && s.AvailableSlots != 10 {
			t.Fatalf("template quota must be untouched on other dates, got %d", s.AvailableSlots)
		}
	}
}

func TestQuotaNeverNegative(t *testing.T) {
	counter := bookings.NewMemoryCounter()
	counter.SetBooked(testDate, bookings.SlotKindGlobal, 1, 99)
	engine := newTestEngine(t, testSnapshot(), counter, at("2026-09-08 10:00"))

	slots, err := engine.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeStandard)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	for _, s := range slots {
		if s.ID == 1 {
			t.Fatal("overbooked slot must be dropped, not shown negative")
		}
		if s.AvailableSlots <= 0 {
			t.Fatalf("slot %d shown with non-positive quota %d", s.ID, s.AvailableSlots)
		}
	}
}

func TestSameDayCutoffBoundaryIsInclusive(t *testing.T) {
	// Morning cutoff is 08:00 same-day. At exactly 08:00 the slot is gone.
	engine := newTestEngine(t, testSnapshot(), nil, at("2026-09-10 08:00"))
	slots, err := engine.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeStandard)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	for _, s := range slots {
		if s.ID == 1 {
			t.Fatal("slot at exact cutoff instant must be excluded")
		}
	}

	before := newTestEngine(t, testSnapshot(), nil, at("2026-09-10 07:59"))
	slots, err = before.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeStandard)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	found := false
	for _, s := range slots {
		if s.ID == 1 {
			found = true
		}
	}
	if !found {
		t.Fatal("slot one minute before cutoff must be included")
	}
}

func TestNextDayCutoffFallsOnPreviousDate(t *testing.T) {
	// Next Day Prep cutoff is 18:00 the day before delivery.
	late := newTestEngine(t, testSnapshot(), nil, at("2026-09-09 18:00"))
	slots, err := late.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeStandard)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	for _, s := range slots {
		if s.ID == 4 {
			t.Fatal("next-day cutoff at 18:00 on the eve must exclude the slot")
		}
	}

	early := newTestEngine(t, testSnapshot(), nil, at("2026-09-09 17:59"))
	slots, err = early.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeStandard)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	found := false
	for _, s := range slots {
		if s.ID == 4 {
			found = true
		}
	}
	if !found {
		t.Fatal("slot before eve cutoff must be included")
	}
}

func TestCutoffMonotonicity(t *testing.T) {
	// Moving the clock forward can only shrink the available set.
	clocks := []string{"2026-09-10 06:00", "2026-09-10 08:30", "2026-09-10 12:30", "2026-09-10 19:00"}
	prev := -1
	for _, c := range clocks {
		engine := newTestEngine(t, testSnapshot(), nil, at(c))
		slots, err := engine.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeStandard)
		if err != nil {
			t.Fatalf("get timeslots at %s: %v", c, err)
		}
		if prev >= 0 && len(slots) > prev {
			t.Fatalf("available set grew from %d to %d as time advanced to %s", prev, len(slots), c)
		}
		prev = len(slots)
	}
}

func TestExpressCutoffMinutesBeforeStart(t *testing.T) {
	// Express Morning starts 10:30 with a 60-minute cutoff: gone at 09:30.
	open := newTestEngine(t, testSnapshot(), nil, at("2026-09-10 09:15"))
	slots, err := open.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeExpress)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected express slot open at 09:15, got %v", slotNames(slots))
	}
	if slots[0].Fee == nil || !slots[0].Fee.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected fee 15 on express slot, got %v", slots[0].Fee)
	}

	closed := newTestEngine(t, testSnapshot(), nil, at("2026-09-10 09:31"))
	slots, err = closed.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeExpress)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected express slot closed at 09:31, got %v", slotNames(slots))
	}
}

func TestExpressSlotOnlyOnItsWeekday(t *testing.T) {
	engine := newTestEngine(t, testSnapshot(), nil, at("2026-09-01 10:00"))

	// 2026-09-11 is a Friday; the express slot runs Thursdays.
	slots, err := engine.GetAvailableTimeslots(context.Background(), "2026-09-11", enums.DeliveryTypeExpress)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no express slots on Friday, got %v", slotNames(slots))
	}
}

func TestExpressAssignmentOverridesOwnWeekday(t *testing.T) {
	snap := testSnapshot()
	// An explicit assignment grid takes over from the slot's own weekday.
	snap.ExpressAssignments = []models.ExpressTimeslotAssignment{
		{DayOfWeek: 5, ExpressTimeslotID: 10, IsActive: true},
	}
	engine := newTestEngine(t, snap, nil, at("2026-09-01 10:00"))

	thursday, err := engine.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeExpress)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	if len(thursday) != 0 {
		t.Fatalf("assignment to Friday should remove Thursday, got %v", slotNames(thursday))
	}

	friday, err := engine.GetAvailableTimeslots(context.Background(), "2026-09-11", enums.DeliveryTypeExpress)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	if len(friday) != 1 {
		t.Fatalf("expected express slot on assigned Friday, got %v", slotNames(friday))
	}
}

func TestInactiveSlotAndAssignmentExcluded(t *testing.T) {
	snap := testSnapshot()
	snap.GlobalTimeslots[0].IsActive = false
	for i := range snap.DayAssignments {
		if snap.DayAssignments[i].GlobalTimeslotID == 2 {
			snap.DayAssignments[i].IsActive = false
		}
	}
	engine := newTestEngine(t, snap, nil, at("2026-09-08 10:00"))

	slots, err := engine.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeStandard)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	for _, s := range slots {
		if s.ID == 1 || s.ID == 2 {
			t.Fatalf("inactive slot %d leaked into results", s.ID)
		}
	}
}

func TestInvalidDateRejected(t *testing.T) {
	engine := newTestEngine(t, testSnapshot(), nil, at("2026-09-08 10:00"))
	if _, err := engine.GetAvailableTimeslots(context.Background(), "10/09/2026", enums.DeliveryTypeStandard); err == nil {
		t.Fatal("expected validation error for malformed date")
	}
}

func TestReserveSlotClosesQuotaRace(t *testing.T) {
	quota := 2
	snap := testSnapshot()
	snap.BlockedTimeslots = []models.BlockedTimeslot{
		{Date: testDate, GlobalTimeslotID: 1, BlockType: enums.BlockQuotaOverride, CustomQuota: &quota},
	}
	engine := newTestEngine(t, snap, nil, at("2026-09-08 10:00"))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := engine.ReserveSlot(ctx, testDate, enums.DeliveryTypeStandard, 1); err != nil {
			t.Fatalf("reserve %d: %v", i, err)
		}
	}

	err := engine.ReserveSlot(ctx, testDate, enums.DeliveryTypeStandard, 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeSlotUnavailable {
		t.Fatalf("expected slot-unavailable on third claim against quota 2, got %v", err)
	}

	// A release opens the slot again.
	if err := engine.ReleaseSlot(ctx, testDate, enums.DeliveryTypeStandard, 1); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := engine.ReserveSlot(ctx, testDate, enums.DeliveryTypeStandard, 1); err != nil {
		t.Fatalf("reserve after release: %v", err)
	}
}

func TestExpressReservationsDoNotDrainGlobalSlot(t *testing.T) {
	// Global and express slots come from separate ID sequences, so an
	// express slot can share ID 1 with a global slot on the same date.
	snap := testSnapshot()
	snap.ExpressTimeslots = []models.ExpressTimeslot{
		{ID: 1, Name: "Express Morning", StartTime: "10:30", EndTime: "12:30", Fee: decimal.NewFromInt(15),
			MaxSlots: 2, IsActive: true, CutoffMinutes: 60, DayOfWeek: 4},
	}
	engine := newTestEngine(t, snap, nil, at("2026-09-08 10:00"))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := engine.ReserveSlot(ctx, testDate, enums.DeliveryTypeExpress, 1); err != nil {
			t.Fatalf("express reserve %d: %v", i, err)
		}
	}

	slots, err := engine.GetAvailableTimeslots(ctx, testDate, enums.DeliveryTypeStandard)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	var morning *TimeslotDTO
	for i := range slots {
		if slots[i].ID == 1 {
			morning = &slots[i]
		}
	}
	if morning == nil {
		t.Fatalf("global slot 1 vanished after express bookings, got %v", slotNames(slots))
	}
	if morning.AvailableSlots != 10 {
		t.Fatalf("express bookings drained the global slot: %d remaining", morning.AvailableSlots)
	}

	// And the express slot itself is now full.
	err = engine.ReserveSlot(ctx, testDate, enums.DeliveryTypeExpress, 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeSlotUnavailable {
		t.Fatalf("expected express slot full at quota 2, got %v", err)
	}
}

func TestMalformedExpressStartTimeNeverExcludes(t *testing.T) {
	snap := testSnapshot()
	snap.ExpressTimeslots[0].StartTime = "25:99"
	engine := newTestEngine(t, snap, nil, at("2026-09-10 09:15"))

	slots, err := engine.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeExpress)
	if err != nil {
		t.Fatalf("get timeslots: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("malformed start time must not exclude the slot, got %v", slotNames(slots))
	}
}

func TestReserveSlotRejectsPastCutoff(t *testing.T) {
	engine := newTestEngine(t, testSnapshot(), nil, at("2026-09-10 08:30"))

	err := engine.ReserveSlot(context.Background(), testDate, enums.DeliveryTypeStandard, 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeSlotUnavailable {
		t.Fatalf("expected slot-unavailable past cutoff, got %v", err)
	}
}

func TestReserveSlotUnknownSlot(t *testing.T) {
	engine := newTestEngine(t, testSnapshot(), nil, at("2026-09-08 10:00"))

	err := engine.ReserveSlot(context.Background(), testDate, enums.DeliveryTypeStandard, 999)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found for unknown slot, got %v", err)
	}
}

func TestEvaluationIsRepeatable(t *testing.T) {
	engine := newTestEngine(t, testSnapshot(), nil, at("2026-09-08 10:00"))

	first, err := engine.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeStandard)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := engine.GetAvailableTimeslots(context.Background(), testDate, enums.DeliveryTypeStandard)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("query must not mutate state: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("results differ at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}
