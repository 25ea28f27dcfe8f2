package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/terraincognita07/ovumcy-insights/internal/db"
)

const (
	testSecretKey = "test-secret-key-with-at-least-32-characters"
	testPassword  = "StrongPass1"
)

var testNow = time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "ovumcy-api-test.db")
	database, err := db.OpenSQLite(databasePath, zerolog.Nop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	handler, err := NewHandler(database, testSecretKey, time.UTC, zerolog.Nop())
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	handler.now = func() time.Time { return testNow }

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method string, path string, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func registerAndToken(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	response := doJSON(t, app, http.MethodPost, "/api/auth/register", "", credentialsInput{Email: email, Password: testPassword})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected register status 201, got %d", response.StatusCode)
	}
	var payload tokenResponse
	decodeBody(t, response, &payload)
	if payload.Token == "" {
		t.Fatal("expected token in register response")
	}
	return payload.Token
}

func logPeriod(t *testing.T, app *fiber.App, token string, start string, length int) {
	t.Helper()

	day, err := time.Parse(dayLayout, start)
	if err != nil {
		t.Fatalf("parse %s: %v", start, err)
	}
	for offset := 0; offset < length; offset++ {
		path := "/api/days/" + day.AddDate(0, 0, offset).Format(dayLayout)
		response := doJSON(t, app, http.MethodPost, path, token, dayPayload{IsPeriod: true, Flow: "medium"})
		if response.StatusCode != http.StatusOK {
			t.Fatalf("expected status 200 for %s, got %d", path, response.StatusCode)
		}
	}
}

func decodeBody(t *testing.T, response *http.Response, target any) {
	t.Helper()

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()

	payload := map[string]string{}
	decodeBody(t, response, &payload)
	return payload["error"]
}
