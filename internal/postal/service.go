package postal

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/angelmondragon/delivery-scheduler-backend/internal/rules"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/delivery-scheduler-backend/pkg/errors"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/logger"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

const (
	postalCodeLength = 6
	prefixLength     = 2
	maxSuggestions   = 3

	// ReasonInvalidFormat is returned when the input is not a 6-digit code.
	ReasonInvalidFormat = "invalid-format"
	// ReasonUnservicedArea is returned when no delivery area covers the prefix.
	ReasonUnservicedArea = "unserviced-area"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

type ruleSource interface {
	Snapshot(ctx context.Context) (*rules.Snapshot, error)
}

// AreaDTO is the serviced-area payload returned to the widget.
type AreaDTO struct {
	ID                    int64           `json:"id"`
	Name                  string          `json:"name"`
	City                  string          `json:"city,omitempty"`
	Province              string          `json:"province,omitempty"`
	DeliveryFee           decimal.Decimal `json:"deliveryFee"`
	MinimumOrder          decimal.Decimal `json:"minimumOrder"`
	EstimatedDeliveryTime string          `json:"estimatedDeliveryTime,omitempty"`
}

// Suggestion is an alternative serviced prefix near an unserviced one.
type Suggestion struct {
	Prefix   string `json:"prefix"`
	City     string `json:"city,omitempty"`
	AreaName string `json:"areaName"`
}

// ValidationResult reports whether a postal code can be delivered to.
type ValidationResult struct {
	IsValid     bool         `json:"isValid"`
	PostalCode  string       `json:"postalCode"`
	Area        *AreaDTO     `json:"area,omitempty"`
	ReasonCode  string       `json:"reasonCode,omitempty"`
	Message     string       `json:"message,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

// Service resolves postal codes to delivery areas.
type Service interface {
	Validate(ctx context.Context, postalCode string) (*ValidationResult, error)
	Autocomplete(ctx context.Context, partial string, limit int) ([]Suggestion, error)
}

type service struct {
	source ruleSource
	logg   *logger.Logger
	mx     *metrics.AvailabilityMetrics
}

// NewService builds a postal resolver over the rule snapshot source.
func NewService(source ruleSource, logg *logger.Logger, mx *metrics.AvailabilityMetrics) (Service, error) {
	if source == nil {
		return nil, fmt.Errorf("rule source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{source: source, logg: logg, mx: mx}, nil
}

// Normalize strips non-digits and left-pads with zeros to 6 digits.
// Idempotent; inputs longer than 6 digits pass through unpadded.
func Normalize(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	code := digits.String()
	if len(code) >= postalCodeLength {
		return code
	}
	return strings.Repeat("0", postalCodeLength-len(code)) + code
}

// Validate checks the format of the raw input, then resolves its prefix to a
// delivery area. Format is checked against the trimmed ORIGINAL string, so
// letters and short codes are rejected rather than silently repaired.
func (s *service) Validate(ctx context.Context, postalCode string) (*ValidationResult, error) {
	trimmed := strings.TrimSpace(postalCode)
	if !sixDigits.MatchString(trimmed) {
		s.mx.IncPostalValidation(ReasonInvalidFormat)
		return &ValidationResult{
			IsValid:    false,
			PostalCode: trimmed,
			ReasonCode: ReasonInvalidFormat,
			Message:    "Please enter a valid 6-digit postal code.",
		}, nil
	}

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery areas")
	}

	normalized := Normalize(trimmed)
	prefix := normalized[:prefixLength]
	areaByPrefix, cityByPrefix := indexPrefixes(snap)

	if area, ok := areaByPrefix[prefix]; ok {
		s.mx.IncPostalValidation("valid")
		return &ValidationResult{
			IsValid:    true,
			PostalCode: normalized,
			Area:       areaDTO(area, cityByPrefix[prefix]),
		}, nil
	}

	s.mx.IncPostalValidation(ReasonUnservicedArea)
	return &ValidationResult{
		IsValid:     false,
		PostalCode:  normalized,
		ReasonCode:  ReasonUnservicedArea,
		Message:     "Sorry, we don't deliver to this area yet.",
		Suggestions: suggestNearby(snap, prefix),
	}, nil
}

// Autocomplete returns serviced prefixes matching a partial code, ascending.
func (s *service) Autocomplete(ctx context.Context, partial string, limit int) ([]Suggestion, error) {
	if limit <= 0 || limit > 10 {
		limit = 5
	}

	var digits strings.Builder
	for _, r := range partial {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	needle := digits.String()
	if needle == "" {
		return []Suggestion{}, nil
	}
	if len(needle) > prefixLength {
		needle = needle[:prefixLength]
	}

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery areas")
	}

	var out []Suggestion
	for _, area := range snap.DeliveryAreas {
		if !area.IsActive {
			continue
		}
		for _, pc := range area.Prefixes {
			if strings.HasPrefix(pc.Prefix, needle) {
				out = append(out, Suggestion{Prefix: pc.Prefix, City: pc.City, AreaName: area.Name})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func indexPrefixes(snap *rules.Snapshot) (map[string]*models.DeliveryArea, map[string]models.PostalCodePrefix) {
	areaByPrefix := make(map[string]*models.DeliveryArea)
	cityByPrefix := make(map[string]models.PostalCodePrefix)
	for i := range snap.DeliveryAreas {
		area := &snap.DeliveryAreas[i]
		if !area.IsActive {
			continue
		}
		for _, pc := range area.Prefixes {
			areaByPrefix[pc.Prefix] = area
			cityByPrefix[pc.Prefix] = pc
		}
	}
	return areaByPrefix, cityByPrefix
}

func areaDTO(area *models.DeliveryArea, pc models.PostalCodePrefix) *AreaDTO {
	return &AreaDTO{
		ID:                    area.ID,
		Name:                  area.Name,
		City:                  pc.City,
		Province:              pc.Province,
		DeliveryFee:           area.DeliveryFee,
		MinimumOrder:          area.MinimumOrder,
		EstimatedDeliveryTime: area.EstimatedDeliveryTime,
	}
}

// suggestNearby returns up to 3 serviced prefixes sharing the first digit of
// the requested prefix, ascending.
func suggestNearby(snap *rules.Snapshot, prefix string) []Suggestion {
	if len(prefix) == 0 {
		return nil
	}
	firstDigit := prefix[:1]

	var out []Suggestion
	for _, area := range snap.DeliveryAreas {
		if !area.IsActive {
			continue
		}
		for _, pc := range area.Prefixes {
			if strings.HasPrefix(pc.Prefix, firstDigit) {
				out = append(out, Suggestion{Prefix: pc.Prefix, City: pc.City, AreaName: area.Name})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
