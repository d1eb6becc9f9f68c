// Package bookings tracks how many orders have claimed each timeslot per
// date. Availability reads are a snapshot; TryReserve is the atomic gate
// that closes the check-then-act race when two shoppers grab the last slot.
package bookings

import "context"

// Slot kinds partition the counter keyspace. Global and express timeslots
// live in separate tables with independent ID sequences, so the same numeric
// ID can name two different slots.
const (
	SlotKindGlobal  = "global"
	SlotKindExpress = "express"
)

// SlotCounter is the booked-count bookkeeping behind quota computation.
type SlotCounter interface {
	// GetBooked returns the current booked count for a date/kind/slot triple.
	GetBooked(ctx context.Context, date, kind string, slotID int64) (int, error)
	// TryReserve atomically claims one slot. Returns false when the slot
	// is already at max.
	TryReserve(ctx context.Context, date, kind string, slotID int64, max int) (bool, error)
	// Release returns one claimed slot, flooring the count at zero.
	Release(ctx context.Context, date, kind string, slotID int64) error
}
