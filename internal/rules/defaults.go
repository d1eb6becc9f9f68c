package rules

import (
	"fmt"

	"github.com/angelmondragon/delivery-scheduler-backend/pkg/db/models"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// DefaultRuleset is the out-of-the-box configuration a fresh install gets:
// the Singapore delivery areas keyed by 2-digit postal prefixes, a standard
// weekday timeslot grid, and the express windows.
func DefaultRuleset() Snapshot {
	snap := Snapshot{
		DeliveryAreas: []models.DeliveryArea{
			{
				Name:                  "Central Singapore",
				DeliveryFee:           decimal.NewFromInt(8),
				MinimumOrder:          decimal.NewFromInt(30),
				EstimatedDeliveryTime: "1-2 days",
				IsActive:              true,
				Prefixes: prefixRange(1, 8, []string{
					"Marina Bay", "Raffles Place", "Tanjong Pagar", "Telok Ayer",
					"Chinatown", "Clarke Quay", "City Hall", "Bugis",
				}),
			},
			{
				Name:                  "North Singapore",
				DeliveryFee:           decimal.NewFromInt(10),
				MinimumOrder:          decimal.NewFromInt(40),
				EstimatedDeliveryTime: "2-3 days",
				IsActive:              true,
				Prefixes: prefixRange(9, 13, []string{
					"Orchard", "Somerset", "Dhoby Ghaut", "Little India", "Farrer Park",
				}),
			},
			{
				Name:                  "East Singapore",
				DeliveryFee:           decimal.NewFromInt(10),
				MinimumOrder:          decimal.NewFromInt(40),
				EstimatedDeliveryTime: "2-3 days",
				IsActive:              true,
				Prefixes: prefixRange(14, 18, []string{
					"Lavender", "Kallang", "Geylang", "Paya Lebar", "Eunos",
				}),
			},
			{
				Name:                  "West Singapore",
				DeliveryFee:           decimal.NewFromInt(12),
				MinimumOrder:          decimal.NewFromInt(50),
				EstimatedDeliveryTime: "2-3 days",
				IsActive:              true,
				Prefixes: prefixRange(19, 23, []string{
					"Katong", "Marine Parade", "Bedok", "Tampines", "Pasir Ris",
				}),
			},
			{
				Name:                  "South Singapore",
				DeliveryFee:           decimal.NewFromInt(12),
				MinimumOrder:          decimal.NewFromInt(50),
				EstimatedDeliveryTime: "2-3 days",
				IsActive:              true,
				Prefixes: prefixRange(24, 28, []string{
					"Sentosa", "HarbourFront", "Bukit Merah", "Queenstown", "Dover",
				}),
			},
		},
		GlobalTimeslots: []models.GlobalTimeslot{
			{
				Name:         "Morning Delivery",
				StartTime:    "09:00",
				EndTime:      "12:00",
				MaxSlots:     10,
				DeliveryType: enums.DeliveryTypeStandard,
				CutoffTime:   "08:00",
				CutoffType:   enums.CutoffSameDay,
				IsActive:     true,
			},
			{
				Name:         "Afternoon Delivery",
				StartTime:    "13:00",
				EndTime:      "17:00",
				MaxSlots:     8,
				DeliveryType: enums.DeliveryTypeStandard,
				CutoffTime:   "12:00",
				CutoffType:   enums.CutoffSameDay,
				IsActive:     true,
			},
			{
				Name:         "Evening Collection",
				StartTime:    "18:00",
				EndTime:      "20:00",
				MaxSlots:     5,
				DeliveryType: enums.DeliveryTypeCollection,
				CutoffTime:   "17:00",
				CutoffType:   enums.CutoffSameDay,
				IsActive:     true,
			},
		},
		ExpressTimeslots: []models.ExpressTimeslot{
			{
				Name:          "Express Morning",
				StartTime:     "10:00",
				EndTime:       "12:00",
				Fee:           decimal.NewFromInt(15),
				MaxSlots:      3,
				IsActive:      true,
				CutoffMinutes: 60,
				DayOfWeek:     1,
			},
			{
				Name:          "Express Afternoon",
				StartTime:     "14:00",
				EndTime:       "16:00",
				Fee:           decimal.NewFromInt(18),
				MaxSlots:      3,
				IsActive:      true,
				CutoffMinutes: 90,
				DayOfWeek:     1,
			},
			{
				Name:          "Express Friday",
				StartTime:     "15:00",
				EndTime:       "17:00",
				Fee:           decimal.NewFromInt(20),
				MaxSlots:      2,
				IsActive:      true,
				CutoffMinutes: 120,
				DayOfWeek:     5,
			},
		},
		Locations: []models.Location{
			{
				Name: "Main Store",
				Address: models.LocationAddress{
					Address1: "123 Orchard Road",
					City:     "Singapore",
					Province: "SG",
					Country:  "Singapore",
					Zip:      "238838",
				},
				IsActive: true,
			},
		},
	}
	return snap
}

// prefixRange builds zero-padded 2-digit prefixes [from, to] with one city
// name per prefix.
func prefixRange(from, to int, cities []string) []models.PostalCodePrefix {
	prefixes := make([]models.PostalCodePrefix, 0, to-from+1)
	for n := from; n <= to; n++ {
		city := ""
		if idx := n - from; idx < len(cities) {
			city = cities[idx]
		}
		prefixes = append(prefixes, models.PostalCodePrefix{
			Prefix:   fmt.Sprintf("%02d", n),
			City:     city,
			Province: "SG",
		})
	}
	return prefixes
}
