package enums

// BlockType scopes what a blocked-timeslot record does to its slot.
type BlockType string

const (
	// BlockComplete removes the slot entirely for the date.
	BlockComplete BlockType = "complete"
	// BlockQuotaOverride replaces the slot's max quota for the date only.
	BlockQuotaOverride BlockType = "quota-override"
)

func (b BlockType) Valid() bool {
	return b == BlockComplete || b == BlockQuotaOverride
}
