package postal

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/angelmondragon/delivery-scheduler-backend/internal/rules"
	pkgerrors "github.com/angelmondragon/delivery-scheduler-backend/pkg/errors"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/logger"
)

type stubRuleSource struct {
	snap *rules.Snapshot
	err  error
}

func (s *stubRuleSource) Snapshot(ctx context.Context) (*rules.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

func defaultSource() *stubRuleSource {
	snap := rules.DefaultRuleset()
	// Seed data carries no IDs until persisted; fake them for DTO checks.
	for i := range snap.DeliveryAreas {
		snap.DeliveryAreas[i].ID = int64(i + 1)
	}
	return &stubRuleSource{snap: &snap}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestService(t *testing.T, source ruleSource) Service {
	t.Helper()
	svc, err := NewService(source, testLogger(), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNormalizePadsAndStrips(t *testing.T) {
	cases := map[string]string{
		"018956":   "018956",
		"18956":    "018956",
		" 018956 ": "018956",
		"01-8956":  "018956",
		"":         "000000",
		"1234567":  "1234567",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"018956", "18956", "abc123", "9"}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestValidateCentralSingapore(t *testing.T) {
	svc := newTestService(t, defaultSource())

	result, err := svc.Validate(context.Background(), "018956")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("expected valid, got %+v", result)
	}
	if result.Area == nil || result.Area.Name != "Central Singapore" {
		t.Fatalf("expected Central Singapore, got %+v", result.Area)
	}
	if result.Area.City != "Marina Bay" {
		t.Fatalf("expected Marina Bay for prefix 01, got %q", result.Area.City)
	}
}

func TestValidateRejectsLetters(t *testing.T) {
	svc := newTestService(t, defaultSource())

	result, err := svc.Validate(context.Background(), "ABCDEF")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.IsValid {
		t.Fatal("expected invalid result for letters")
	}
	if result.ReasonCode != ReasonInvalidFormat {
		t.Fatalf("expected %s, got %s", ReasonInvalidFormat, result.ReasonCode)
	}
}

func TestValidateRejectsShortCodeWithoutPadding(t *testing.T) {
	svc := newTestService(t, defaultSource())

	// Normalization would repair "18956", but format is checked against
	// the original input.
	result, err := svc.Validate(context.Background(), "18956")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.IsValid {
		t.Fatal("expected short code to be rejected")
	}
	if result.ReasonCode != ReasonInvalidFormat {
		t.Fatalf("expected %s, got %s", ReasonInvalidFormat, result.ReasonCode)
	}
}

func TestValidateUnservicedAreaSuggestions(t *testing.T) {
	source := defaultSource()
	// Drop prefix 29+; default set covers 01-28, so 29xxxx is unserviced
	// but shares first digit 2 with 20-28.
	svc := newTestService(t, source)

	result, err := svc.Validate(context.Background(), "298888")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.IsValid {
		t.Fatal("expected unserviced result")
	}
	if result.ReasonCode != ReasonUnservicedArea {
		t.Fatalf("expected %s, got %s", ReasonUnservicedArea, result.ReasonCode)
	}
	if len(result.Suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(result.Suggestions))
	}
	for i := 1; i < len(result.Suggestions); i++ {
		if result.Suggestions[i-1].Prefix > result.Suggestions[i].Prefix {
			t.Fatalf("suggestions not ascending: %+v", result.Suggestions)
		}
	}
	if result.Suggestions[0].Prefix != "20" {
		t.Fatalf("expected first suggestion 20, got %s", result.Suggestions[0].Prefix)
	}
}

func TestValidateDependencyError(t *testing.T) {
	svc := newTestService(t, &stubRuleSource{err: errors.New("boom")})

	_, err := svc.Validate(context.Background(), "018956")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestAutocompleteAscendingAndLimited(t *testing.T) {
	svc := newTestService(t, defaultSource())

	suggestions, err := svc.Autocomplete(context.Background(), "1", 4)
	if err != nil {
		t.Fatalf("autocomplete: %v", err)
	}
	if len(suggestions) != 4 {
		t.Fatalf("expected 4 suggestions, got %d", len(suggestions))
	}
	want := []string{"10", "11", "12", "13"}
	for i, s := range suggestions {
		if s.Prefix != want[i] {
			t.Fatalf("expected prefix %s at %d, got %s", want[i], i, s.Prefix)
		}
	}
}

func TestAutocompleteEmptyInput(t *testing.T) {
	svc := newTestService(t, defaultSource())

	suggestions, err := svc.Autocomplete(context.Background(), "abc", 5)
	if err != nil {
		t.Fatalf("autocomplete: %v", err)
	}
	if len(suggestions) != 0 {
		t.Fatalf("expected no suggestions for non-digit input, got %d", len(suggestions))
	}
}

func TestAutocompleteSkipsInactiveAreas(t *testing.T) {
	source := defaultSource()
	for i := range source.snap.DeliveryAreas {
		if source.snap.DeliveryAreas[i].Name == "North Singapore" {
			source.snap.DeliveryAreas[i].IsActive = false
		}
	}
	svc := newTestService(t, source)

	suggestions, err := svc.Autocomplete(context.Background(), "09", 5)
	if err != nil {
		t.Fatalf("autocomplete: %v", err)
	}
	if len(suggestions) != 0 {
		t.Fatalf("expected no suggestions from inactive area, got %+v", suggestions)
	}
}
