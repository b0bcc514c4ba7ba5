package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/rangepick/internal/db"
	"github.com/terraincognita07/rangepick/internal/i18n"
	"gorm.io/gorm"
)

const testSecretKey = "test-secret-key-0123456789abcdef"

func newPickerTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	_, testFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("resolve current test file path")
	}

	apiDir := filepath.Dir(testFile)
	internalDir := filepath.Dir(apiDir)
	templatesDir := filepath.Join(internalDir, "templates")
	localesDir := filepath.Join(internalDir, "i18n", "locales")
	databasePath := filepath.Join(t.TempDir(), "rangepick-api-test.db")

	database, err := db.OpenSQLite(databasePath)
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

	i18nManager, err := i18n.NewManager("en", localesDir)
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	handler, err := NewHandler(database, testSecretKey, templatesDir, time.UTC, i18nManager, false)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New()
	app.Use(handler.LanguageMiddleware)
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app, database
}

type createdPicker struct {
	ID    string
	Token string
}

func createTestPicker(t *testing.T, app *fiber.App, startDate string, endDate string) createdPicker {
	t.Helper()

	body := `{"start_date":"` + startDate + `","end_date":"` + endDate + `"}`
	request := httptest.NewRequest(http.MethodPost, "/api/pickers", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response := mustAppResponse(t, app, request)
	defer response.Body.Close()
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("create picker: expected 201, got %d", response.StatusCode)
	}

	payload := pickerPayload{}
	decodeJSONBody(t, response.Body, &payload)
	if payload.ID == "" || payload.Token == "" {
		t.Fatalf("expected id and token, got %+v", payload)
	}
	if responseCookieValue(response.Cookies(), pickerCookieName) != payload.Token {
		t.Fatal("expected picker cookie to carry the issued token")
	}
	return createdPicker{ID: payload.ID, Token: payload.Token}
}

func pickerRequest(method string, path string, token string, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != "" {
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	request.Header.Set("Accept", "application/json")
	return request
}

func htmxPickerRequest(method string, path string, token string) *http.Request {
	request := httptest.NewRequest(method, path, nil)
	request.Header.Set("HX-Request", "true")
	request.AddCookie(&http.Cookie{Name: pickerCookieName, Value: token})
	return request
}

func mustAppResponse(t *testing.T, app *fiber.App, request *http.Request) *http.Response {
	t.Helper()
	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("app.Test(%s %s): %v", request.Method, request.URL.Path, err)
	}
	return response
}

func decodeJSONBody(t *testing.T, body io.Reader, target any) {
	t.Helper()
	content, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(content, target); err != nil {
		t.Fatalf("decode response body %q: %v", string(content), err)
	}
}

func readBody(t *testing.T, body io.Reader) string {
	t.Helper()
	content, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return string(content)
}

func readAPIError(t *testing.T, body io.Reader) string {
	t.Helper()
	payload := map[string]string{}
	decodeJSONBody(t, body, &payload)
	return payload["error"]
}

func responseCookieValue(cookies []*http.Cookie, name string) string {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}
