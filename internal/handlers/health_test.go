package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jwebster45206/life-engine/pkg/storage"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))

	tests := []struct {
		name            string
		setupStorage    func() storage.Storage
		expectedStatus  int
		expectedHealth  string
		expectedStorage string
	}{
		{
			name: "healthy storage",
			setupStorage: func() storage.Storage {
				return storage.NewMockStorage()
			},
			expectedStatus:  http.StatusOK,
			expectedHealth:  "healthy",
			expectedStorage: "healthy",
		},
		{
			name: "unhealthy storage",
			setupStorage: func() storage.Storage {
				mock := storage.NewMockStorage()
				mock.SetPingError(errors.New("connection failed"))
				return mock
			},
			expectedStatus:  http.StatusServiceUnavailable,
			expectedHealth:  "degraded",
			expectedStorage: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.setupStorage(), logger)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}

			if rr.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Expected Content-Type application/json, got %s", rr.Header().Get("Content-Type"))
			}

			var response HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}

			if response.Status != tt.expectedHealth {
				t.Errorf("Expected status '%s', got '%s'", tt.expectedHealth, response.Status)
			}

			if response.Service != "life-engine" {
				t.Errorf("Expected service 'life-engine', got '%s'", response.Service)
			}

			storageComponent, exists := response.Components["storage"]
			if !exists {
				t.Error("Expected storage component in response")
			} else if storageComponent != tt.expectedStorage {
				t.Errorf("Expected storage status '%s', got '%v'", tt.expectedStorage, storageComponent)
			}

			if time.Since(response.Timestamp) > time.Second {
				t.Errorf("Health check timestamp seems old: %v", response.Timestamp)
			}
		})
	}
}
