package models

import "time"

// LocationAddress is embedded into Location; flattened columns, JSON shape
// matches the admin dashboard.
type LocationAddress struct {
	Address1 string `gorm:"column:address1;not null" json:"address1"`
	Address2 string `gorm:"column:address2" json:"address2,omitempty"`
	City     string `gorm:"column:city;not null" json:"city"`
	Province string `gorm:"column:province" json:"province"`
	Country  string `gorm:"column:country;not null;default:Singapore" json:"country"`
	Zip      string `gorm:"column:zip;not null" json:"zip"`
}

// Location is a collection point. Pure reference data, no scheduling logic.
// IsActive carries no gorm default tag: gorm skips zero-valued fields with a
// default on insert, which would turn a deactivated row back on.
type Location struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string          `gorm:"column:name;not null" json:"name"`
	Address   LocationAddress `gorm:"embedded" json:"address"`
	IsActive  bool            `gorm:"column:is_active;not null" json:"isActive"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
