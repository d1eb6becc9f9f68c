package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpressTimeslot is a premium window with a flat fee. Its cutoff is
// expressed as minutes before the slot start rather than a wall-clock time.
type ExpressTimeslot struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"column:name;not null" json:"name"`
	StartTime     string          `gorm:"column:start_time;size:5;not null" json:"startTime"`
	EndTime       string          `gorm:"column:end_time;size:5;not null" json:"endTime"`
	Fee           decimal.Decimal `gorm:"column:fee;type:numeric(12,2);not null" json:"fee"`
	MaxSlots      int             `gorm:"column:max_slots;not null" json:"maxSlots"`
	IsActive      bool            `gorm:"column:is_active;not null" json:"isActive"`
	CutoffMinutes int             `gorm:"column:cutoff_minutes;not null" json:"cutoffMinutes"`
	DayOfWeek     int             `gorm:"column:day_of_week;not null" json:"dayOfWeek"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// ExpressTimeslotAssignment binds an express timeslot to a weekday.
type ExpressTimeslotAssignment struct {
	ID                int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	DayOfWeek         int   `gorm:"column:day_of_week;not null;index" json:"dayOfWeek"`
	ExpressTimeslotID int64 `gorm:"column:express_timeslot_id;not null;index" json:"expressTimeslotId"`
	IsActive          bool  `gorm:"column:is_active;not null" json:"isActive"`
}
