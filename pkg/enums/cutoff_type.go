package enums

// CutoffType says which calendar day a timeslot's wall-clock cutoff falls on.
type CutoffType string

const (
	// CutoffSameDay places the cutoff on the delivery date itself.
	CutoffSameDay CutoffType = "same-day"
	// CutoffNextDay places the cutoff on the day before the delivery date.
	CutoffNextDay CutoffType = "next-day"
)

func (c CutoffType) Valid() bool {
	return c == CutoffSameDay || c == CutoffNextDay
}
