package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryArea is an operating zone covering a set of postal-code prefixes.
type DeliveryArea struct {
	ID                    int64              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name                  string             `gorm:"column:name;not null" json:"name"`
	DeliveryFee           decimal.Decimal    `gorm:"column:delivery_fee;type:numeric(12,2);not null" json:"deliveryFee"`
	MinimumOrder          decimal.Decimal    `gorm:"column:minimum_order;type:numeric(12,2);not null" json:"minimumOrder"`
	EstimatedDeliveryTime string             `gorm:"column:estimated_delivery_time" json:"estimatedDeliveryTime"`
	IsActive              bool               `gorm:"column:is_active;not null" json:"isActive"`
	Prefixes              []PostalCodePrefix `gorm:"foreignKey:DeliveryAreaID;constraint:OnDelete:CASCADE" json:"prefixes,omitempty"`
	CreatedAt             time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// PostalCodePrefix maps one 2-digit postal prefix to its delivery area.
// The unique index on prefix enforces disjointness across areas.
type PostalCodePrefix struct {
	ID             int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Prefix         string `gorm:"column:prefix;size:2;not null;uniqueIndex" json:"prefix"`
	City           string `gorm:"column:city" json:"city"`
	Province       string `gorm:"column:province" json:"province"`
	DeliveryAreaID int64  `gorm:"column:delivery_area_id;not null;index" json:"deliveryAreaId"`
}
