package models

import (
	"time"

	"github.com/angelmondragon/delivery-scheduler-backend/pkg/enums"
)

// GlobalTimeslot is a reusable delivery window template. It is not bound to
// a date until assigned to a weekday via DayTimeslotAssignment.
type GlobalTimeslot struct {
	ID           int64              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name         string             `gorm:"column:name;not null" json:"name"`
	StartTime    string             `gorm:"column:start_time;size:5;not null" json:"startTime"` // "15:04"
	EndTime      string             `gorm:"column:end_time;size:5;not null" json:"endTime"`
	MaxSlots     int                `gorm:"column:max_slots;not null" json:"maxSlots"`
	DeliveryType enums.DeliveryType `gorm:"column:delivery_type;not null" json:"deliveryType"`
	CutoffTime   string             `gorm:"column:cutoff_time;size:5;not null" json:"cutoffTime"`
	CutoffType   enums.CutoffType   `gorm:"column:cutoff_type;not null" json:"cutoffType"`
	IsActive     bool               `gorm:"column:is_active;not null" json:"isActive"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// DayTimeslotAssignment binds a global timeslot to a weekday (0=Sunday).
type DayTimeslotAssignment struct {
	ID               int64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	DayOfWeek        int   `gorm:"column:day_of_week;not null;index" json:"dayOfWeek"`
	GlobalTimeslotID int64 `gorm:"column:global_timeslot_id;not null;index" json:"globalTimeslotId"`
	IsActive         bool  `gorm:"column:is_active;not null" json:"isActive"`
}
