package ginserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vacanza/internal/app/engine"
	"vacanza/internal/domain/auth"
	"vacanza/internal/domain/property"
	"vacanza/internal/infra/config"
	"vacanza/internal/infra/obs"
	"vacanza/internal/infra/storage/memory"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	props := memory.NewPropertyStore()
	p, err := property.New(property.CreateParams{
		ID:            "P1",
		Title:         "Casa del Mar",
		Location:      "Valencia",
		Capacity:      4,
		PricePerNight: 120,
		OwnerEmail:    "ana@example.com",
		Now:           time.Now(),
	})
	if err != nil {
		t.Fatalf("property: %v", err)
	}
	if err := props.Save(context.Background(), p); err != nil {
		t.Fatalf("save: %v", err)
	}

	eng := engine.New(engine.Deps{
		Blocks:     memory.NewBlockStore(),
		Properties: props,
		Auth:       auth.RequestContext{},
	})

	tokens := memory.NewTokenResolver()
	tokens.Register("owner-token", "ana@example.com", auth.RoleOwner)
	tokens.Register("other-token", "eve@example.com", auth.RoleOwner)

	handlers := Handlers{
		Availability:   AvailabilityHandler{Engine: eng},
		Property:       PropertyHandler{Engine: eng, Properties: props},
		AuthMiddleware: AuthMiddleware{Resolver: tokens}.Handle,
	}
	srv := NewServer(config.Config{Env: "test", HTTPAddr: ":0"}, obs.Middleware{}, obs.HealthHandlers{}, handlers)
	return srv.Handler
}

func doJSON(t *testing.T, h http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var decoded map[string]any
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	}
	return rec, decoded
}

func futureDate() string {
	return time.Now().AddDate(0, 1, 0).Format("2006-01-02")
}

func TestToggleRequiresAuth(t *testing.T) {
	h := newTestServer(t)
	rec, _ := doJSON(t, h, http.MethodPost, "/api/v1/properties/P1/calendar/toggle", "", `{"date":"`+futureDate()+`"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestToggleForbiddenForNonOwner(t *testing.T) {
	h := newTestServer(t)
	rec, _ := doJSON(t, h, http.MethodPost, "/api/v1/properties/P1/calendar/toggle", "other-token", `{"date":"`+futureDate()+`"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestToggleRoundTrip(t *testing.T) {
	h := newTestServer(t)
	date := futureDate()

	rec, body := doJSON(t, h, http.MethodPost, "/api/v1/properties/P1/calendar/toggle", "owner-token", `{"date":"`+date+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", rec.Code, body)
	}
	if blocked, _ := body["blocked"].(bool); !blocked {
		t.Fatalf("first toggle should block: %v", body)
	}

	rec, body = doJSON(t, h, http.MethodGet, "/api/v1/properties/P1/calendar", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("calendar: expected 200, got %d", rec.Code)
	}
	blocks, _ := body["blocks"].([]any)
	if len(blocks) != 1 {
		t.Fatalf("expected one calendar block, got %v", body)
	}
	entry := blocks[0].(map[string]any)
	if entry["date"] != date || entry["property_id"] != "P1" {
		t.Fatalf("unexpected block payload: %v", entry)
	}

	rec, body = doJSON(t, h, http.MethodPost, "/api/v1/properties/P1/calendar/toggle", "owner-token", `{"date":"`+date+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("second toggle: expected 200, got %d", rec.Code)
	}
	if blocked, _ := body["blocked"].(bool); blocked {
		t.Fatalf("second toggle should unblock: %v", body)
	}
}

func TestToggleUnblocksAfterViewingAnotherCalendar(t *testing.T) {
	h := newTestServer(t)
	date := futureDate()

	rec, body := doJSON(t, h, http.MethodPost, "/api/v1/properties/P1/calendar/toggle", "owner-token", `{"date":"`+date+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("first toggle: expected 200, got %d", rec.Code)
	}
	if blocked, _ := body["blocked"].(bool); !blocked {
		t.Fatalf("first toggle should block: %v", body)
	}

	// Viewing another property's calendar replaces the engine cache with
	// that property's blocks; the toggle must still see P1's block and
	// delete it rather than stacking a create on top.
	rec, _ = doJSON(t, h, http.MethodGet, "/api/v1/properties/P2/calendar", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("other calendar: expected 200, got %d", rec.Code)
	}

	rec, body = doJSON(t, h, http.MethodPost, "/api/v1/properties/P1/calendar/toggle", "owner-token", `{"date":"`+date+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("second toggle: expected 200, got %d", rec.Code)
	}
	if blocked, _ := body["blocked"].(bool); blocked {
		t.Fatalf("second toggle should unblock: %v", body)
	}

	rec, body = doJSON(t, h, http.MethodGet, "/api/v1/properties/P1/calendar", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("calendar: expected 200, got %d", rec.Code)
	}
	if blocks, _ := body["blocks"].([]any); len(blocks) != 0 {
		t.Fatalf("the day should be free again, got %v", blocks)
	}
}

func TestTogglePastDateConflict(t *testing.T) {
	h := newTestServer(t)
	past := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	rec, _ := doJSON(t, h, http.MethodPost, "/api/v1/properties/P1/calendar/toggle", "owner-token", `{"date":"`+past+`"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a past date, got %d", rec.Code)
	}
}

func TestToggleRejectsMalformedDate(t *testing.T) {
	h := newTestServer(t)
	rec, _ := doJSON(t, h, http.MethodPost, "/api/v1/properties/P1/calendar/toggle", "owner-token", `{"date":"03/10/2024"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSearchFiltersBlockedProperties(t *testing.T) {
	h := newTestServer(t)
	date := futureDate()

	rec, _ := doJSON(t, h, http.MethodPost, "/api/v1/properties/P1/calendar/toggle", "owner-token", `{"date":"`+date+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d", rec.Code)
	}

	rec, body := doJSON(t, h, http.MethodGet, "/api/v1/properties/search?from="+date+"&to="+date, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", rec.Code)
	}
	data, _ := body["data"].([]any)
	if len(data) != 0 {
		t.Fatalf("blocked property should be filtered out, got %v", data)
	}

	free := time.Now().AddDate(0, 2, 0).Format("2006-01-02")
	rec, body = doJSON(t, h, http.MethodGet, "/api/v1/properties/search?from="+free+"&to="+free, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", rec.Code)
	}
	data, _ = body["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("free date should return the property, got %v", data)
	}
}

func TestSearchRejectsInvertedRange(t *testing.T) {
	h := newTestServer(t)
	rec, _ := doJSON(t, h, http.MethodGet, "/api/v1/properties/search?from=2024-03-12&to=2024-03-10", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inverted range, got %d", rec.Code)
	}
}

func TestCreateProperty(t *testing.T) {
	h := newTestServer(t)
	payload := `{"title":"Loft Centro","location":"Madrid","capacity":2,"price_per_night":90}`

	rec, _ := doJSON(t, h, http.MethodPost, "/api/v1/properties", "", payload)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", rec.Code)
	}

	rec, body := doJSON(t, h, http.MethodPost, "/api/v1/properties", "owner-token", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %v", rec.Code, body)
	}
	if body["owner_email"] != "ana@example.com" {
		t.Fatalf("owner should come from the principal, got %v", body["owner_email"])
	}
}
