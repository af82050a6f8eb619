package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fintrack/internal/auth"
	"fintrack/internal/logger"
	"fintrack/internal/testutil"
	"fintrack/internal/validator"
)

// testApp holds the full application stack for end-to-end tests.
type testApp struct {
	DB      *gorm.DB
	Issuer  *testutil.Issuer
	Handler http.Handler
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates the full stack backed by an isolated in-memory SQLite and
// a local identity provider.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	iss := testutil.NewIssuer(t)

	keys := auth.NewKeySetCache(auth.NewHTTPFetcher(5*time.Second).Fetch, nil, auth.DefaultKeySetTTL)
	tokens := auth.NewTokenValidator(keys, iss.URL(), testutil.TestAudience, nil)

	handler := Handler(Config{
		DB:             db,
		Tokens:         tokens,
		AllowedOrigins: []string{"https://app.example.com"},
	})
	return &testApp{DB: db, Issuer: iss, Handler: handler}
}

// token mints a bearer token for subject.
func (a *testApp) token(t *testing.T, subject string) string {
	t.Helper()
	return a.Issuer.Token(t, subject, subject+"@example.com")
}

// request makes an HTTP request to the app and returns the recorder.
func (a *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)
	return rec
}

// mustStatus fails the test unless rec carries the wanted status.
func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func parseJSONArray(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var result []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON array: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// createID posts body to path and returns the new resource's id.
func (a *testApp) createID(t *testing.T, path, body, token string) string {
	t.Helper()
	rec := a.request("POST", path, body, token)
	mustStatus(t, rec, http.StatusCreated)
	id, ok := parseJSON(t, rec)["id"].(string)
	if !ok || id == "" {
		t.Fatalf("expected id in response: %s", rec.Body.String())
	}
	return id
}
