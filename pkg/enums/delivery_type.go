package enums

// DeliveryType distinguishes how an order reaches the customer.
type DeliveryType string

const (
	// DeliveryTypeStandard is a regular scheduled delivery.
	DeliveryTypeStandard DeliveryType = "standard"
	// DeliveryTypeExpress is a premium same-day window with a flat fee.
	DeliveryTypeExpress DeliveryType = "express"
	// DeliveryTypeCollection is customer pickup at a collection point.
	DeliveryTypeCollection DeliveryType = "collection"
)

// Valid reports whether the value is a known delivery type.
func (d DeliveryType) Valid() bool {
	switch d {
	case DeliveryTypeStandard, DeliveryTypeExpress, DeliveryTypeCollection:
		return true
	}
	return false
}
