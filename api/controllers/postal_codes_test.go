package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/delivery-scheduler-backend/internal/postal"
	pkgerrors "github.com/angelmondragon/delivery-scheduler-backend/pkg/errors"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/logger"
	"github.com/angelmondragon/delivery-scheduler-backend/pkg/types"
)

type testPostalService struct {
	validateFn     func(ctx context.Context, postalCode string) (*postal.ValidationResult, error)
	autocompleteFn func(ctx context.Context, partial string, limit int) ([]postal.Suggestion, error)
}

func (s *testPostalService) Validate(ctx context.Context, postalCode string) (*postal.ValidationResult, error) {
	if s.validateFn != nil {
		return s.validateFn(ctx, postalCode)
	}
	return &postal.ValidationResult{IsValid: true, PostalCode: postalCode}, nil
}

func (s *testPostalService) Autocomplete(ctx context.Context, partial string, limit int) ([]postal.Suggestion, error) {
	if s.autocompleteFn != nil {
		return s.autocompleteFn(ctx, partial, limit)
	}
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestPostalCodeValidateSuccess(t *testing.T) {
	var got string
	svc := &testPostalService{
		validateFn: func(ctx context.Context, postalCode string) (*postal.ValidationResult, error) {
			got = postalCode
			return &postal.ValidationResult{IsValid: true, PostalCode: "018956"}, nil
		},
	}

	req := jsonRequest(http.MethodPost, "/api/v1/postal-code/validate", `{"postalCode":"018956"}`)
	resp := httptest.NewRecorder()
	PostalCodeValidate(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got != "018956" {
		t.Fatalf("service received %q", got)
	}
	var envelope struct {
		Data postal.ValidationResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Data.IsValid {
		t.Fatal("expected isValid true")
	}
}

func TestPostalCodeValidateMissingCode(t *testing.T) {
	req := jsonRequest(http.MethodPost, "/api/v1/postal-code/validate", `{}`)
	resp := httptest.NewRecorder()
	PostalCodeValidate(&testPostalService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestPostalCodeValidateUnknownField(t *testing.T) {
	req := jsonRequest(http.MethodPost, "/api/v1/postal-code/validate", `{"postalCode":"018956","zip":"x"}`)
	resp := httptest.NewRecorder()
	PostalCodeValidate(&testPostalService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestPostalCodeValidateDependencyFailure(t *testing.T) {
	svc := &testPostalService{
		validateFn: func(ctx context.Context, postalCode string) (*postal.ValidationResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "load rules snapshot")
		},
	}
	req := jsonRequest(http.MethodPost, "/api/v1/postal-code/validate", `{"postalCode":"018956"}`)
	resp := httptest.NewRecorder()
	PostalCodeValidate(svc, testLogger())(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeDependency) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}

func TestPostalCodeAutocompletePassesLimit(t *testing.T) {
	var gotPartial string
	var gotLimit int
	svc := &testPostalService{
		autocompleteFn: func(ctx context.Context, partial string, limit int) ([]postal.Suggestion, error) {
			gotPartial = partial
			gotLimit = limit
			return []postal.Suggestion{{Prefix: "01", City: "Marina Bay", AreaName: "Central Singapore"}}, nil
		},
	}

	req := jsonRequest(http.MethodPost, "/api/v1/postal-code/autocomplete", `{"partialCode":"0","limit":3}`)
	resp := httptest.NewRecorder()
	PostalCodeAutocomplete(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if gotPartial != "0" || gotLimit != 3 {
		t.Fatalf("service received partial=%q limit=%d", gotPartial, gotLimit)
	}
	var envelope struct {
		Data struct {
			Suggestions []postal.Suggestion `json:"suggestions"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(envelope.Data.Suggestions) != 1 || envelope.Data.Suggestions[0].Prefix != "01" {
		t.Fatalf("unexpected suggestions %+v", envelope.Data.Suggestions)
	}
}

func TestPostalCodeAutocompleteLimitOutOfRange(t *testing.T) {
	req := jsonRequest(http.MethodPost, "/api/v1/postal-code/autocomplete", `{"partialCode":"0","limit":50}`)
	resp := httptest.NewRecorder()
	PostalCodeAutocomplete(&testPostalService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
