package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jwebster45206/life-engine/pkg/attrs"
	"github.com/jwebster45206/life-engine/pkg/catalog"
	"github.com/jwebster45206/life-engine/pkg/conditions"
	"github.com/jwebster45206/life-engine/pkg/engine"
	"github.com/jwebster45206/life-engine/pkg/session"
	"github.com/jwebster45206/life-engine/pkg/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func handlerTestCatalog() *catalog.Catalog {
	cat := &catalog.Catalog{
		Settings: catalog.Settings{TotalDays: 2, PeriodsPerDay: 2},
		Events: []catalog.Event{
			{
				ID:    "rent_due",
				Title: "Rent Due",
				Text:  "The landlord knocks.",
				Options: []catalog.Option{
					{
						ID:      "pay",
						Text:    "Pay up",
						Effects: []catalog.Effect{{Attribute: attrs.Deposit, Op: attrs.OpAdd, Value: catalog.EffectValue{Literal: -500}}},
					},
					{ID: "stall", Text: "Ask for more time"},
				},
			},
		},
		Endings: []catalog.Ending{
			{ID: "fresh_start", Title: "Fresh Start", Default: true},
		},
		Characters: []catalog.Character{
			{ID: "sam", Name: "Sam"},
		},
	}
	cat.Normalize()
	return cat
}

// newSessionHandler wires a handler against mock storage with one
// catalog registered, plus a deterministic engine (first candidate
// always wins the weighted pick).
func newSessionHandler(t *testing.T) (*SessionHandler, *storage.MockStorage) {
	t.Helper()
	mockStorage := storage.NewMockStorage()
	mockStorage.AddCatalog("standard", handlerTestCatalog())
	eng := engine.New(func() float64 { return 0 }, testLogger())
	return NewSessionHandler(mockStorage, eng, testLogger()), mockStorage
}

func createSession(t *testing.T, handler *SessionHandler) session.Snapshot {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(`{"catalog":"standard","character":"sam"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Response body: %s", rr.Code, rr.Body.String())
	}

	var snap session.Snapshot
	if err := json.NewDecoder(rr.Body).Decode(&snap); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return snap
}

func TestSessionHandler_Create(t *testing.T) {
	handler, _ := newSessionHandler(t)

	snap := createSession(t, handler)

	if snap.Meta.ID == uuid.Nil {
		t.Error("Expected non-nil session ID")
	}
	if snap.Character != "sam" {
		t.Errorf("Expected character 'sam', got %q", snap.Character)
	}
	if snap.Catalog != "standard" {
		t.Errorf("Expected catalog 'standard', got %q", snap.Catalog)
	}
	if snap.Progress.Day != 1 || snap.Progress.Period != 0 {
		t.Errorf("Expected clock at day 1 period 0, got day %d period %d", snap.Progress.Day, snap.Progress.Period)
	}
}

func TestSessionHandler_CreateValidation(t *testing.T) {
	handler, _ := newSessionHandler(t)

	tests := []struct {
		name           string
		requestBody    string
		expectedStatus int
	}{
		{
			name:           "missing catalog field",
			requestBody:    `{"character":"sam"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown catalog",
			requestBody:    `{"catalog":"nope"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    `{invalid json}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown character starts with defaults",
			requestBody:    `{"catalog":"standard","character":"nobody"}`,
			expectedStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(tt.requestBody))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Response body: %s", tt.expectedStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestSessionHandler_Read(t *testing.T) {
	handler, _ := newSessionHandler(t)
	snap := createSession(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+snap.Meta.ID.String(), nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Response body: %s", rr.Code, rr.Body.String())
	}

	var loaded session.Snapshot
	if err := json.NewDecoder(rr.Body).Decode(&loaded); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if loaded.Meta.ID != snap.Meta.ID {
		t.Errorf("Expected ID %v, got %v", snap.Meta.ID, loaded.Meta.ID)
	}
}

func TestSessionHandler_ReadNotFound(t *testing.T) {
	handler, _ := newSessionHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+uuid.NewString(), nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestSessionHandler_InvalidID(t *testing.T) {
	handler, _ := newSessionHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/not-a-uuid", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

func TestSessionHandler_Delete(t *testing.T) {
	handler, _ := newSessionHandler(t)
	snap := createSession(t, handler)

	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+snap.Meta.ID.String(), nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/sessions/"+snap.Meta.ID.String(), nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", rr.Code)
	}
}

func TestSessionHandler_NextEvent(t *testing.T) {
	handler, _ := newSessionHandler(t)
	snap := createSession(t, handler)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+snap.Meta.ID.String()+"/event", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Response body: %s", rr.Code, rr.Body.String())
	}

	var turn TurnResponse
	if err := json.NewDecoder(rr.Body).Decode(&turn); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if turn.Day != 1 || turn.Period != 0 {
		t.Errorf("Expected day 1 period 0, got day %d period %d", turn.Day, turn.Period)
	}
	if turn.Event == nil || turn.Event.Event == nil {
		t.Fatal("Expected an event in the response")
	}
	if turn.Event.Event.ID != "rent_due" {
		t.Errorf("Expected event rent_due, got %q", turn.Event.Event.ID)
	}
	if len(turn.Event.Options) != 2 {
		t.Errorf("Expected 2 options, got %d", len(turn.Event.Options))
	}
}

func TestSessionHandler_Choice(t *testing.T) {
	handler, mockStorage := newSessionHandler(t)
	snap := createSession(t, handler)

	body := `{"event_id":"rent_due","option_index":0}`
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+snap.Meta.ID.String()+"/choice", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Response body: %s", rr.Code, rr.Body.String())
	}

	var resp ChoiceResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Result.Changes) != 1 {
		t.Fatalf("Expected 1 attribute change, got %d", len(resp.Result.Changes))
	}
	if resp.Result.Changes[0].Delta != -500 {
		t.Errorf("Expected deposit delta -500, got %v", resp.Result.Changes[0].Delta)
	}
	if resp.Day != 1 || resp.Period != 1 {
		t.Errorf("Expected clock advanced to day 1 period 1, got day %d period %d", resp.Day, resp.Period)
	}

	// The saved snapshot reflects the applied choice.
	saved, err := mockStorage.LoadSession(req.Context(), snap.Meta.ID)
	if err != nil || saved == nil {
		t.Fatal("Expected saved session after choice")
	}
	if len(saved.EventHistory) != 1 {
		t.Errorf("Expected 1 history record, got %d", len(saved.EventHistory))
	}
	if saved.Statistics.MoneySpent != 500 {
		t.Errorf("Expected 500 money spent, got %v", saved.Statistics.MoneySpent)
	}
}

func TestSessionHandler_ChoiceBadIndex(t *testing.T) {
	handler, mockStorage := newSessionHandler(t)
	snap := createSession(t, handler)

	body := `{"event_id":"rent_due","option_index":7}`
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+snap.Meta.ID.String()+"/choice", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d. Response body: %s", rr.Code, rr.Body.String())
	}

	// Nothing was applied or advanced.
	saved, err := mockStorage.LoadSession(req.Context(), snap.Meta.ID)
	if err != nil || saved == nil {
		t.Fatal("Expected session to still exist")
	}
	if saved.Progress.Day != 1 || saved.Progress.Period != 0 {
		t.Errorf("Expected untouched clock, got day %d period %d", saved.Progress.Day, saved.Progress.Period)
	}
	if len(saved.EventHistory) != 0 {
		t.Errorf("Expected empty history, got %d records", len(saved.EventHistory))
	}
}

func TestSessionHandler_ChoiceLockedOption(t *testing.T) {
	cat := &catalog.Catalog{
		Settings: catalog.Settings{TotalDays: 2, PeriodsPerDay: 2},
		Events: []catalog.Event{
			{
				ID:   "auction",
				Text: "Bidding opens on the old house.",
				Options: []catalog.Option{
					{
						ID:   "bid",
						Text: "Place a bid",
						Availability: []conditions.Condition{
							{Kind: conditions.KindAttribute, Attribute: attrs.Deposit, Op: conditions.OpGTE, Value: 999999},
						},
						Effects: []catalog.Effect{{Attribute: attrs.Deposit, Op: attrs.OpAdd, Value: catalog.EffectValue{Literal: -5000}}},
					},
					{ID: "watch", Text: "Just watch"},
				},
			},
		},
		Endings:    []catalog.Ending{{ID: "fresh_start", Default: true}},
		Characters: []catalog.Character{{ID: "sam", Name: "Sam"}},
	}
	cat.Normalize()

	mockStorage := storage.NewMockStorage()
	mockStorage.AddCatalog("standard", cat)
	eng := engine.New(func() float64 { return 0 }, testLogger())
	handler := NewSessionHandler(mockStorage, eng, testLogger())
	snap := createSession(t, handler)

	body := `{"event_id":"auction","option_index":0}`
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+snap.Meta.ID.String()+"/choice", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d. Response body: %s", rr.Code, rr.Body.String())
	}

	// The locked option's effects never landed.
	saved, err := mockStorage.LoadSession(req.Context(), snap.Meta.ID)
	if err != nil || saved == nil {
		t.Fatal("Expected session to still exist")
	}
	if saved.Attributes[attrs.Deposit] != 10000 {
		t.Errorf("Expected deposit unchanged at 10000, got %v", saved.Attributes[attrs.Deposit])
	}
	if saved.Progress.Day != 1 || saved.Progress.Period != 0 {
		t.Errorf("Expected untouched clock, got day %d period %d", saved.Progress.Day, saved.Progress.Period)
	}
}

func TestSessionHandler_ChoiceUnknownEvent(t *testing.T) {
	handler, _ := newSessionHandler(t)
	snap := createSession(t, handler)

	body := `{"event_id":"no_such_event","option_index":0}`
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+snap.Meta.ID.String()+"/choice", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestSessionHandler_QuietMomentChoice(t *testing.T) {
	handler, _ := newSessionHandler(t)
	snap := createSession(t, handler)

	// The built-in quiet moment is choosable even though it is not in
	// the catalog.
	body := `{"event_id":"` + catalog.QuietMomentID + `","option_index":0}`
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+snap.Meta.ID.String()+"/choice", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Response body: %s", rr.Code, rr.Body.String())
	}
}

func TestSessionHandler_SnapshotReflectsPlay(t *testing.T) {
	handler, mockStorage := newSessionHandler(t)
	snap := createSession(t, handler)

	body := `{"event_id":"rent_due","option_index":0}`
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+snap.Meta.ID.String()+"/choice", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Response body: %s", rr.Code, rr.Body.String())
	}

	saved, err := mockStorage.LoadSession(req.Context(), snap.Meta.ID)
	if err != nil || saved == nil {
		t.Fatal("Expected saved session")
	}

	assert.Equal(t, "sam", saved.Character, "character should survive the round trip")
	assert.Equal(t, snap.Attributes[attrs.Deposit]-500, saved.Attributes[attrs.Deposit], "deposit should drop by the rent")
	assert.Equal(t, 1, saved.Statistics.TotalChoices, "choice should be counted")
	if assert.Len(t, saved.EventHistory, 1, "history should record the choice") {
		assert.Equal(t, "rent_due", saved.EventHistory[0].EventID)
		assert.Equal(t, "pay", saved.EventHistory[0].OptionID)
	}
}

func TestSessionHandler_RunPlaysToEnding(t *testing.T) {
	handler, _ := newSessionHandler(t)
	snap := createSession(t, handler)

	// 2 days x 2 periods: the fourth choice finishes the run.
	var resp ChoiceResponse
	for i := 0; i < 4; i++ {
		body := `{"event_id":"rent_due","option_index":1}`
		req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+snap.Meta.ID.String()+"/choice", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("Turn %d: expected status 200, got %d. Response body: %s", i, rr.Code, rr.Body.String())
		}
		resp = ChoiceResponse{}
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("Turn %d: failed to decode response: %v", i, err)
		}
		if i < 3 && resp.Finished {
			t.Fatalf("Turn %d: run finished early", i)
		}
	}

	if !resp.Finished {
		t.Fatal("Expected run to finish after the last period")
	}
	if resp.Ending == nil || resp.Ending.Ending == nil {
		t.Fatal("Expected an ending with the final turn")
	}
	if resp.Ending.Ending.ID != "fresh_start" {
		t.Errorf("Expected default ending fresh_start, got %q", resp.Ending.Ending.ID)
	}
	if resp.Ending.Summary == "" {
		t.Error("Expected a non-empty run summary")
	}

	// A finished run keeps answering with its ending.
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+snap.Meta.ID.String()+"/event", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var turn TurnResponse
	if err := json.NewDecoder(rr.Body).Decode(&turn); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !turn.Finished || turn.Ending == nil {
		t.Error("Expected finished turn with ending after the run is over")
	}
	if turn.Event != nil {
		t.Error("Expected no event after the run is over")
	}
}
