package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/friendfinder/backend/internal/models"
	"github.com/friendfinder/backend/internal/testutil"
)

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	return testutil.DecodeEnvelope(t, rr)
}

func assertErrorResponse(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	testutil.AssertErrorEnvelope(t, rr, status, message)
}

// assertSuccessResponse checks the envelope and returns its data object.
func assertSuccessResponse(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) map[string]any {
	t.Helper()
	return testutil.AssertSuccessEnvelope(t, rr, status, message)
}

func jsonRequest(method, target, body string) *http.Request {
	return testutil.NewJSONRequest(method, target, body)
}

func testUser() *models.User {
	return testutil.NewUser("alice@example.com")
}
