package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/teboho/graft/internal/db"
	"github.com/teboho/graft/internal/models"
	"github.com/teboho/graft/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

func newTestApp(t *testing.T) (*fiber.App, *Handler, *gorm.DB) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "graft-api-test.db")
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

	proofs, err := storage.NewProofStore(t.TempDir())
	if err != nil {
		t.Fatalf("init proof store: %v", err)
	}

	handler := NewHandler(database, testSecretKey, proofs, time.UTC, zap.NewNop(), false)

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, handler, database
}

func pinClock(handler *Handler, at time.Time) {
	handler.now = func() time.Time { return at }
}

// mondayMorning is a weekday timestamp safely inside the submission window.
// Kept in the future so pinned-clock sessions stay within token validity.
func mondayMorning() time.Time {
	return time.Date(2030, time.March, 4, 10, 0, 0, 0, time.UTC)
}

func jsonRequest(t *testing.T, method string, target string, payload any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request payload: %v", err)
	}
	request := httptest.NewRequest(method, target, bytes.NewReader(body))
	request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return request
}

func registerTestUser(t *testing.T, app *fiber.App, username string) *http.Cookie {
	t.Helper()

	request := jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	if response.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected status 201 registering %s, got %d", username, response.StatusCode)
	}

	cookie := responseCookie(response.Cookies(), authCookieName)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected session cookie after registration")
	}
	return cookie
}

func promoteToAdmin(t *testing.T, database *gorm.DB, username string) {
	t.Helper()
	result := database.Model(&models.User{}).Where("username = ?", username).Update("is_admin", true)
	if result.Error != nil {
		t.Fatalf("promote %s to admin: %v", username, result.Error)
	}
	if result.RowsAffected != 1 {
		t.Fatalf("expected one row promoting %s, got %d", username, result.RowsAffected)
	}
}

func itoa(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}

func responseCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func decodeJSONBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()

	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode response body %q: %v", raw, err)
	}
	return payload
}

func submitCheckInRequest(t *testing.T, cookie *http.Cookie, content string, proofName string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("content", content); err != nil {
		t.Fatalf("write content field: %v", err)
	}
	part, err := writer.CreateFormFile("proof", proofName)
	if err != nil {
		t.Fatalf("create proof part: %v", err)
	}
	if _, err := io.Copy(part, strings.NewReader("fake image bytes")); err != nil {
		t.Fatalf("write proof bytes: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	request := httptest.NewRequest(http.MethodPost, "/api/checkins", &body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	request.AddCookie(cookie)
	return request
}
