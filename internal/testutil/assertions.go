package testutil

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	apperrors "fintrack/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// ErrorBody is the decoded `{"error": {...}}` body every failed request returns.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

// DecodeErrorBody parses rec's body as an error response.
func DecodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()

	var envelope struct {
		Error *ErrorBody `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to parse error body: %v\nbody: %s", err, rec.Body.String())
	}
	if envelope.Error == nil {
		t.Fatalf("expected error object in response, got: %s", rec.Body.String())
	}
	return *envelope.Error
}

// AssertErrorCode checks that rec carries an error body with the expected code.
func AssertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, expectedCode string) ErrorBody {
	t.Helper()

	body := DecodeErrorBody(t, rec)
	if body.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, body.Code, body.Message)
	}
	return body
}

// AssertErrorField checks that the error body reports field as failing rule.
func AssertErrorField(t *testing.T, rec *httptest.ResponseRecorder, field, rule string) {
	t.Helper()

	body := DecodeErrorBody(t, rec)
	if body.Fields == nil {
		t.Fatalf("expected fields in error, got: %s", rec.Body.String())
	}
	if got := body.Fields[field]; got != rule {
		t.Errorf("expected field %q to fail %q, got %q (fields: %v)", field, rule, got, body.Fields)
	}
}
