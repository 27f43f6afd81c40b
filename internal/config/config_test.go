package config

import (
	"strings"
	"testing"
	"time"
)

// setEnv sets an environment variable for the duration of the test.
func setEnv(t *testing.T, k, v string) {
	t.Helper()
	t.Setenv(k, v)
}

func TestLoad_Defaults(t *testing.T) {
	// Auth must be satisfiable for Load to pass; trust header is the dev mode.
	setEnv(t, "AUTH_TRUST_HEADER", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with defaults: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.MaxGaugeCm != DefaultMaxGaugeCm {
		t.Errorf("MaxGaugeCm = %d, want %d", cfg.MaxGaugeCm, DefaultMaxGaugeCm)
	}
	if cfg.TankCapacityL != DefaultTankCapacityL {
		t.Errorf("TankCapacityL = %v, want %v", cfg.TankCapacityL, DefaultTankCapacityL)
	}
	if cfg.HistoryScope != ScopeGlobal {
		t.Errorf("HistoryScope = %q, want %q", cfg.HistoryScope, ScopeGlobal)
	}
	if cfg.PageSize != DefaultPageSize || cfg.MaxPageSize != DefaultMaxPageSize {
		t.Errorf("page sizes = %d/%d", cfg.PageSize, cfg.MaxPageSize)
	}
	if cfg.AdminUserID != "" {
		t.Errorf("AdminUserID should default to empty, got %q", cfg.AdminUserID)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Errorf("APIBasePath = %q", cfg.APIBasePath)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.ReadTimeout)
	}
}

func TestLoad_AuthRequired(t *testing.T) {
	// Neither a JWT secret nor header trust: must refuse to start.
	setEnv(t, "AUTH_TRUST_HEADER", "false")
	setEnv(t, "AUTH_JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when no auth mechanism is configured")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, "AUTH_JWT_SECRET", "s3cret")
	setEnv(t, "MAX_GAUGE_CM", "250")
	setEnv(t, "TANK_CAPACITY_L", "12000")
	setEnv(t, "HISTORY_SCOPE", "SELF")
	setEnv(t, "ADMIN_USER_ID", "  admin-1  ")
	setEnv(t, "API_BASE_PATH", "api/v2/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxGaugeCm != 250 {
		t.Errorf("MaxGaugeCm = %d", cfg.MaxGaugeCm)
	}
	if cfg.TankCapacityL != 12000 {
		t.Errorf("TankCapacityL = %v", cfg.TankCapacityL)
	}
	if cfg.HistoryScope != ScopeSelf {
		t.Errorf("HistoryScope = %q", cfg.HistoryScope)
	}
	if cfg.AdminUserID != "admin-1" {
		t.Errorf("AdminUserID = %q (should be trimmed)", cfg.AdminUserID)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Errorf("APIBasePath = %q (should be normalized)", cfg.APIBasePath)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"gauge bound zero", map[string]string{"MAX_GAUGE_CM": "0"}, "MAX_GAUGE_CM"},
		{"gauge bound huge", map[string]string{"MAX_GAUGE_CM": "5000"}, "MAX_GAUGE_CM"},
		{"capacity negative", map[string]string{"TANK_CAPACITY_L": "-1"}, "TANK_CAPACITY_L"},
		{"bad scope", map[string]string{"HISTORY_SCOPE": "team"}, "HISTORY_SCOPE"},
		{"page size zero", map[string]string{"PAGE_SIZE": "0"}, "PAGE_SIZE"},
		{"max page below default", map[string]string{"MAX_PAGE_SIZE": "5"}, "MAX_PAGE_SIZE"},
		{"negative rps", map[string]string{"RATE_RPS": "-2"}, "RATE_RPS"},
		{"zero burst", map[string]string{"RATE_BURST": "0"}, "RATE_BURST"},
		{"bad sample ratio", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setEnv(t, "AUTH_TRUST_HEADER", "true")
			for k, v := range tc.env {
				setEnv(t, k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %s", err, tc.want)
			}
		})
	}
}

func TestLoad_WarningNormalizedToWarn(t *testing.T) {
	setEnv(t, "AUTH_TRUST_HEADER", "true")
	setEnv(t, "LOG_LEVEL", "warning")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestMustLoad_PanicsOnInvalid(t *testing.T) {
	setEnv(t, "AUTH_TRUST_HEADER", "true")
	setEnv(t, "PAGE_SIZE", "0")

	defer func() {
		if recover() == nil {
			t.Fatal("MustLoad should panic on invalid config")
		}
	}()
	MustLoad()
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" https://a.example , ,https://b.example,")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("splitCSV = %#v", got)
	}
	if splitCSV("") != nil {
		t.Fatal("splitCSV(\"\") should be nil")
	}
}
