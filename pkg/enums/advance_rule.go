package enums

// AdvanceAppliesTo is the delivery-type class a global advance-order rule covers.
type AdvanceAppliesTo string

const (
	AdvanceAppliesToAll        AdvanceAppliesTo = "all"
	AdvanceAppliesToDelivery   AdvanceAppliesTo = "delivery"
	AdvanceAppliesToCollection AdvanceAppliesTo = "collection"
	AdvanceAppliesToExpress    AdvanceAppliesTo = "express"
)

func (a AdvanceAppliesTo) Valid() bool {
	switch a {
	case AdvanceAppliesToAll, AdvanceAppliesToDelivery, AdvanceAppliesToCollection, AdvanceAppliesToExpress:
		return true
	}
	return false
}

// Matches reports whether a rule with this class applies to the requested type.
// The "delivery" class covers standard deliveries; "all" covers everything.
func (a AdvanceAppliesTo) Matches(dt DeliveryType) bool {
	switch a {
	case AdvanceAppliesToAll:
		return true
	case AdvanceAppliesToDelivery:
		return dt == DeliveryTypeStandard
	case AdvanceAppliesToCollection:
		return dt == DeliveryTypeCollection
	case AdvanceAppliesToExpress:
		return dt == DeliveryTypeExpress
	}
	return false
}

// AdvanceRuleType says whether a product advance rule targets a single
// product or a whole collection.
type AdvanceRuleType string

const (
	AdvanceRuleProduct    AdvanceRuleType = "product"
	AdvanceRuleCollection AdvanceRuleType = "collection"
)

func (r AdvanceRuleType) Valid() bool {
	return r == AdvanceRuleProduct || r == AdvanceRuleCollection
}
