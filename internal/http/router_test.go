package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-fuel-backend/internal/calibration"
	"github.com/tbourn/go-fuel-backend/internal/config"
	"github.com/tbourn/go-fuel-backend/internal/domain"
	"github.com/tbourn/go-fuel-backend/internal/http/handlers"
	"github.com/tbourn/go-fuel-backend/internal/services"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:routerdb_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Conversion{}, &domain.CalibrationPoint{}, &domain.UserProfile{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath:  "/api/v1",
		RateRPS:      100,
		RateBurst:    100,
		MaxGaugeCm:   config.DefaultMaxGaugeCm,
		HistoryScope: config.ScopeGlobal,
		PageSize:     config.DefaultPageSize,
		MaxPageSize:  config.DefaultMaxPageSize,
		AdminUserID:  "admin-1",
		Auth:         config.AuthConfig{TrustHeader: true},
		CORS:         config.CORSConfig{AllowedOrigins: nil}, // AllowAllOrigins branch
		Security:     config.SecurityConfig{EnableHSTS: false},
		OTEL:         config.OTELConfig{ServiceName: "test-svc"},
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	table, _, err := calibration.Default(config.DefaultMaxGaugeCm, config.DefaultTankCapacityL)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	db := newTestDB(t)
	RegisterRoutes(r, db, table, testConfig())
	return r, db
}

func TestRegisterRoutes_Health_Metrics_Fallbacks(t *testing.T) {
	r, _ := newTestRouter(t)

	// /health works without auth.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /metrics is wired.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute → 404, NoMethod → 405.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_APIRequiresAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversions",
		bytes.NewBufferString(`{"value_cm":150}`))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated request = %d, want 401", w.Code)
	}
}

func TestRegisterRoutes_ConversionLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)

	// Submit a reading.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversions",
		bytes.NewBufferString(`{"value_cm":150}`))
	req.Header.Set("X-User-ID", "u1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST conversions = %d, body = %s", w.Code, w.Body.String())
	}
	var created handlers.ConvertResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("json: %v", err)
	}
	if created.Conversion.VolumeL != 15000 {
		t.Fatalf("volume = %v", created.Conversion.VolumeL)
	}

	// It shows up in history, enriched with placeholders (no profile seeded).
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/conversions", nil)
	req.Header.Set("X-User-ID", "u1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET conversions = %d", w.Code)
	}
	var page struct {
		Conversions []services.HistoryEntry `json:"conversions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(page.Conversions) != 1 || page.Conversions[0].UserName != "Unknown user" {
		t.Fatalf("history = %+v", page.Conversions)
	}

	// The owner can delete it.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/conversions/"+created.Conversion.ID, nil)
	req.Header.Set("X-User-ID", "u1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE conversion = %d, body = %s", w.Code, w.Body.String())
	}
	var deleted handlers.DeleteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &deleted); err != nil {
		t.Fatalf("json: %v", err)
	}
	if deleted.Message == "" {
		t.Fatalf("expected confirmation message")
	}

	// A second delete reports not found.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/conversions/"+created.Conversion.ID, nil)
	req.Header.Set("X-User-ID", "u1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second DELETE = %d, want 404", w.Code)
	}
}

func TestRegisterRoutes_OutOfRangeAndGapStatuses(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversions",
		bytes.NewBufferString(`{"value_cm":301}`))
	req.Header.Set("X-User-ID", "u1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("out-of-range reading = %d, want 400", w.Code)
	}
}

func TestRegisterRoutes_BulkDeleteAdminOnly(t *testing.T) {
	r, _ := newTestRouter(t)

	// Seed one conversion as u1.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversions",
		bytes.NewBufferString(`{"value_cm":100}`))
	req.Header.Set("X-User-ID", "u1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed conversion = %d", w.Code)
	}
	var created handlers.ConvertResponse
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	body := fmt.Sprintf(`{"ids":[%q]}`, created.Conversion.ID)

	// Non-admin refused.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/conversions/bulk-delete",
		bytes.NewBufferString(body))
	req.Header.Set("X-User-ID", "u1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-admin bulk delete = %d, want 403", w.Code)
	}

	// Admin succeeds.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/conversions/bulk-delete",
		bytes.NewBufferString(body))
	req.Header.Set("X-User-ID", "admin-1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin bulk delete = %d, body = %s", w.Code, w.Body.String())
	}
	var resp handlers.BulkDeleteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.DeletedCount != 1 {
		t.Fatalf("deleted_count = %d", resp.DeletedCount)
	}
}
