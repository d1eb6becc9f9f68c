package models

import (
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/enums"
)

// BlockedDate closes a single date or an inclusive range for all delivery
// types, overriding every other rule.
type BlockedDate struct {
	ID      int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Date    string  `gorm:"column:date;size:10;not null;index" json:"date"` // YYYY-MM-DD
	IsRange bool    `gorm:"column:is_range;not null;default:false" json:"isRange"`
	EndDate *string `gorm:"column:end_date;size:10" json:"endDate,omitempty"`
	Title   string  `gorm:"column:title" json:"title"`
}

// BlockedTimeslot scopes an override to one date and one global timeslot.
type BlockedTimeslot struct {
	ID               int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Date             string          `gorm:"column:date;size:10;not null;index" json:"date"`
	GlobalTimeslotID int64           `gorm:"column:global_timeslot_id;not null" json:"globalTimeslotId"`
	BlockType        enums.BlockType `gorm:"column:block_type;not null" json:"blockType"`
	CustomQuota      *int            `gorm:"column:custom_quota" json:"customQuota,omitempty"`
	Title            string          `gorm:"column:title" json:"title"`
}
