package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/life-engine/pkg/catalog"
	"github.com/jwebster45206/life-engine/pkg/engine"
	"github.com/jwebster45206/life-engine/pkg/session"
)

// TurnResponse mirrors the API body for GET /v1/sessions/{id}/event.
type TurnResponse struct {
	Day      int                    `json:"day"`
	Period   int                    `json:"period"`
	Finished bool                   `json:"finished,omitempty"`
	Event    *engine.ScheduledEvent `json:"event,omitempty"`
	Ending   *engine.EndingResult   `json:"ending,omitempty"`
}

// ChoiceResponse mirrors the API body for POST /v1/sessions/{id}/choice.
type ChoiceResponse struct {
	Result   *engine.ChoiceResult `json:"result"`
	Day      int                  `json:"day"`
	Period   int                  `json:"period"`
	Finished bool                 `json:"finished,omitempty"`
	Ending   *engine.EndingResult `json:"ending,omitempty"`
}

// CreateSessionRequest matches the API request structure
type CreateSessionRequest struct {
	Catalog   string `json:"catalog"`
	Character string `json:"character,omitempty"`
}

// ChoiceRequest matches the API request structure
type ChoiceRequest struct {
	EventID     string `json:"event_id"`
	OptionIndex int    `json:"option_index"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func readAPIError(statusCode int, body []byte, action string) error {
	var errorResp ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil {
		return fmt.Errorf("API returned status %d: %s", statusCode, string(body))
	}
	return fmt.Errorf("%s: %s", action, errorResp.Error)
}

func listCatalogs(client *http.Client, baseURL string) ([]string, error) {
	resp, err := client.Get(baseURL + "/v1/catalogs")
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp.StatusCode, body, "failed to list catalogs")
	}

	var listResp struct {
		Catalogs []string `json:"catalogs"`
	}
	if err := json.Unmarshal(body, &listResp); err != nil {
		return nil, fmt.Errorf("failed to parse catalog list response: %w", err)
	}
	return listResp.Catalogs, nil
}

func getCatalog(client *http.Client, baseURL string, name string) (*catalog.Catalog, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/catalogs/%s", baseURL, name))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp.StatusCode, body, "failed to get catalog")
	}

	var cat catalog.Catalog
	if err := json.Unmarshal(body, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog response: %w", err)
	}
	return &cat, nil
}

func createSession(client *http.Client, baseURL string, catalogName, characterID string) (*session.Snapshot, error) {
	req := CreateSessionRequest{
		Catalog:   catalogName,
		Character: characterID,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/sessions",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, readAPIError(resp.StatusCode, body, "failed to create session")
	}

	var snap session.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &snap, nil
}

func getNextEvent(client *http.Client, baseURL string, sessionID uuid.UUID) (*TurnResponse, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/sessions/%s/event", baseURL, sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp.StatusCode, body, "failed to get next event")
	}

	var turn TurnResponse
	if err := json.Unmarshal(body, &turn); err != nil {
		return nil, fmt.Errorf("failed to parse turn response: %w", err)
	}
	return &turn, nil
}

func postChoice(client *http.Client, baseURL string, sessionID uuid.UUID, eventID string, optionIndex int) (*ChoiceResponse, error) {
	req := ChoiceRequest{
		EventID:     eventID,
		OptionIndex: optionIndex,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/sessions/%s/choice", baseURL, sessionID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp.StatusCode, body, "failed to submit choice")
	}

	var choiceResp ChoiceResponse
	if err := json.Unmarshal(body, &choiceResp); err != nil {
		return nil, fmt.Errorf("failed to parse choice response: %w", err)
	}
	return &choiceResp, nil
}
