// Package testutil provides helpers shared by HTTP-level tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/friendfinder/backend/internal/models"
)

// NewJSONRequest builds a request with a raw JSON body.
func NewJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewJSONRequestFrom marshals data into the request body.
func NewJSONRequestFrom(t *testing.T, method, target string, data any) *http.Request {
	t.Helper()
	body, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return NewJSONRequest(method, target, string(body))
}

// DecodeEnvelope checks the content type and parses the response envelope.
func DecodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	if ct := rr.Result().Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected content type application/json, got %q", ct)
	}
	var response map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return response
}

// AssertErrorEnvelope fails unless the response is a failure envelope with
// the given status and message and no data.
func AssertErrorEnvelope(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected status %d, got %d (%s)", status, rr.Code, rr.Body.String())
	}

	response := DecodeEnvelope(t, rr)
	if response["success"] != false {
		t.Fatalf("expected success=false, got %v", response["success"])
	}
	if response["message"] != message {
		t.Fatalf("expected message %q, got %q", message, response["message"])
	}
	if _, ok := response["data"]; ok {
		t.Fatalf("error responses must not carry data, got %v", response["data"])
	}
}

// AssertSuccessEnvelope checks the envelope and returns its data object.
// An empty message skips the message check.
func AssertSuccessEnvelope(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) map[string]any {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected status %d, got %d (%s)", status, rr.Code, rr.Body.String())
	}

	response := DecodeEnvelope(t, rr)
	if response["success"] != true {
		t.Fatalf("expected success=true, got %v", response["success"])
	}
	if message != "" && response["message"] != message {
		t.Fatalf("expected message %q, got %q", message, response["message"])
	}
	data, _ := response["data"].(map[string]any)
	return data
}

// RandomEmail generates a unique lowercase email for testing.
func RandomEmail() string {
	return uuid.New().String()[:8] + "@test.com"
}

// NewUser returns a user with a fresh id and no location.
func NewUser(email string) *models.User {
	if email == "" {
		email = RandomEmail()
	}
	return &models.User{ID: uuid.New(), Email: email, CreatedAt: time.Now()}
}
