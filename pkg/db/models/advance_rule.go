package models

import (
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/enums"
)

// GlobalAdvanceOrderRule sets the default minimum lead time for a class of
// delivery types. The window it opens is unbounded above unless a product
// rule narrows it.
type GlobalAdvanceOrderRule struct {
	ID                int64                  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name              string                 `gorm:"column:name;not null" json:"name"`
	GlobalAdvanceDays int                    `gorm:"column:global_advance_days;not null" json:"globalAdvanceDays"`
	Description       string                 `gorm:"column:description" json:"description"`
	IsActive          bool                   `gorm:"column:is_active;not null" json:"isActive"`
	AppliesTo         enums.AdvanceAppliesTo `gorm:"column:applies_to;not null" json:"appliesTo"`
}

// ProductAdvanceOrderRule defines an explicit ordering window for one
// product or collection, overriding the global rule when it matches.
type ProductAdvanceOrderRule struct {
	ID                int64                 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProductName       string                `gorm:"column:product_name;index" json:"productName"`
	CollectionName    *string               `gorm:"column:collection_name" json:"collectionName,omitempty"`
	RuleType          enums.AdvanceRuleType `gorm:"column:rule_type;not null" json:"ruleType"`
	LeadTimeDays      int                   `gorm:"column:lead_time_days;not null;default:0" json:"leadTimeDays"`
	OrderStartDate    string                `gorm:"column:order_start_date;size:10;not null" json:"orderStartDate"`
	OrderEndDate      string                `gorm:"column:order_end_date;size:10;not null" json:"orderEndDate"`
	DeliveryStartDate *string               `gorm:"column:delivery_start_date;size:10" json:"deliveryStartDate,omitempty"`
	DeliveryEndDate   *string               `gorm:"column:delivery_end_date;size:10" json:"deliveryEndDate,omitempty"`
	Description       string                `gorm:"column:description" json:"description"`
	IsActive          bool                  `gorm:"column:is_active;not null" json:"isActive"`
	Priority          int                   `gorm:"column:priority;not null;default:0" json:"priority"`
}
