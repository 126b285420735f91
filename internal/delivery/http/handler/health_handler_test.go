package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func getHealth(t *testing.T, db, cache Pinger) healthStatus {
	t.Helper()

	app := fiber.New(fiber.Config{})
	NewHealthHandler(db, cache).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()

	var sr struct {
		Data healthStatus `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return sr.Data
}

func TestHealthAllUp(t *testing.T) {
	st := getHealth(t, stubPinger{}, stubPinger{})
	if st.Status != "ok" {
		t.Errorf("status = %q, want ok", st.Status)
	}
	if st.Components["database"] != "up" || st.Components["cache"] != "up" {
		t.Errorf("components = %v, want both up", st.Components)
	}
}

func TestHealthDatabaseDown(t *testing.T) {
	st := getHealth(t, stubPinger{err: errors.New("refused")}, stubPinger{})
	if st.Status != "degraded" {
		t.Errorf("status = %q, want degraded", st.Status)
	}
	if st.Components["database"] != "down" {
		t.Errorf("database = %q, want down", st.Components["database"])
	}
}

func TestHealthNilCacheDisabled(t *testing.T) {
	st := getHealth(t, stubPinger{}, nil)
	if st.Components["cache"] != "disabled" {
		t.Errorf("cache = %q, want disabled", st.Components["cache"])
	}
	if st.Status != "ok" {
		t.Errorf("status = %q, want ok", st.Status)
	}
}
