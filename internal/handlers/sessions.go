package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/life-engine/pkg/catalog"
	"github.com/jwebster45206/life-engine/pkg/engine"
	"github.com/jwebster45206/life-engine/pkg/session"
	"github.com/jwebster45206/life-engine/pkg/storage"
)

type SessionHandler struct {
	storage storage.Storage
	engine  *engine.Engine
	logger  *slog.Logger
}

func NewSessionHandler(storage storage.Storage, eng *engine.Engine, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		storage: storage,
		engine:  eng,
		logger:  logger,
	}
}

// CreateSessionRequest starts a new run against a named catalog.
type CreateSessionRequest struct {
	Catalog   string `json:"catalog"`             // Required: catalog name
	Character string `json:"character,omitempty"` // Optional: character id; defaults apply when absent
}

// ChoiceRequest submits one option for the event currently on offer.
type ChoiceRequest struct {
	EventID     string `json:"event_id"`
	OptionIndex int    `json:"option_index"`
}

// TurnResponse is the body for GET /v1/sessions/{id}/event.
type TurnResponse struct {
	Day      int                    `json:"day"`
	Period   int                    `json:"period"`
	Finished bool                   `json:"finished,omitempty"`
	Event    *engine.ScheduledEvent `json:"event,omitempty"`
	Ending   *engine.EndingResult   `json:"ending,omitempty"`
}

// ChoiceResponse is the body for POST /v1/sessions/{id}/choice.
type ChoiceResponse struct {
	Result   *engine.ChoiceResult `json:"result"`
	Day      int                  `json:"day"`
	Period   int                  `json:"period"`
	Finished bool                 `json:"finished,omitempty"`
	Ending   *engine.EndingResult `json:"ending,omitempty"`
}

// ServeHTTP handles session operations.
// Routes:
// POST /v1/sessions               - Create new session
// GET /v1/sessions/{id}           - Read session snapshot
// DELETE /v1/sessions/{id}        - Delete session
// GET /v1/sessions/{id}/event     - Select the event for the current slot
// POST /v1/sessions/{id}/choice   - Submit a choice
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")

	if path == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.Split(path, "/")
	sessionID, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", parts[0], "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleRead(w, r, sessionID)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.handleDelete(w, r, sessionID)
	case len(parts) == 2 && parts[1] == "event" && r.Method == http.MethodGet:
		h.handleNextEvent(w, r, sessionID)
	case len(parts) == 2 && parts[1] == "choice" && r.Method == http.MethodPost:
		h.handleChoice(w, r, sessionID)
	default:
		h.logger.Warn("Unknown session route", "method", r.Method, "path", r.URL.Path)
		writeError(w, h.logger, http.StatusNotFound, "Not found")
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Creating new session")

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if req.Catalog == "" {
		h.logger.Warn("Missing required field: catalog")
		writeError(w, h.logger, http.StatusBadRequest, "catalog field is required")
		return
	}

	cat, err := h.storage.GetCatalog(r.Context(), req.Catalog)
	if err != nil {
		h.logger.Warn("Failed to load catalog", "catalog", req.Catalog, "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrContentInvalid) {
			status = http.StatusBadRequest
		}
		writeError(w, h.logger, status, "Failed to load catalog: "+err.Error())
		return
	}
	if cat == nil {
		h.logger.Warn("Catalog not found", "catalog", req.Catalog)
		writeError(w, h.logger, http.StatusBadRequest, "Unknown catalog: "+req.Catalog)
		return
	}

	s := session.NewSession(cat, req.Character)
	s.CatalogName = req.Catalog

	if err := h.storage.SaveSession(r.Context(), s.ID, s.Snapshot()); err != nil {
		h.logger.Error("Failed to save new session", "error", err, "id", s.ID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.logger.Debug("Session created successfully", "id", s.ID.String(), "catalog", req.Catalog)
	writeJSON(w, h.logger, http.StatusCreated, s.Snapshot())
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	snap, err := h.storage.LoadSession(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err, "id", sessionID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return
	}
	if snap == nil {
		h.logger.Warn("Session not found", "id", sessionID.String())
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, snap)
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	if err := h.storage.DeleteSession(r.Context(), sessionID); err != nil {
		h.logger.Error("Failed to delete session", "error", err, "id", sessionID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	h.logger.Debug("Session deleted successfully", "id", sessionID.String())
	w.WriteHeader(http.StatusNoContent)
}

// restore loads a session snapshot and rebuilds the live session around
// its catalog. Writes the error response itself and returns nil on any
// failure.
func (h *SessionHandler) restore(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) *session.Session {
	snap, err := h.storage.LoadSession(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err, "id", sessionID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return nil
	}
	if snap == nil {
		h.logger.Warn("Session not found", "id", sessionID.String())
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return nil
	}

	cat, err := h.storage.GetCatalog(r.Context(), snap.Catalog)
	if err != nil || cat == nil {
		h.logger.Error("Catalog for session no longer loadable", "catalog", snap.Catalog, "id", sessionID.String(), "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Catalog for session is no longer available")
		return nil
	}

	return session.Restore(cat, snap)
}

// save persists the session after a turn. Event selection and choice
// application have already mutated the in-memory session, so a failed
// save is logged but never fails the turn.
func (h *SessionHandler) save(r *http.Request, s *session.Session) {
	if err := h.storage.SaveSession(r.Context(), s.ID, s.Snapshot()); err != nil {
		h.logger.Error("Failed to save session after turn", "error", err, "id", s.ID.String())
	}
}

func (h *SessionHandler) handleNextEvent(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	s := h.restore(w, r, sessionID)
	if s == nil {
		return
	}

	resp := TurnResponse{Day: s.Clock.Day, Period: s.Clock.Period}
	if s.Finished() {
		resp.Finished = true
		resp.Ending = h.engine.ResolveEnding(s)
		writeJSON(w, h.logger, http.StatusOK, resp)
		return
	}

	// Selection drains due pending entries, so the session must be
	// persisted even on a plain GET.
	resp.Event = h.engine.NextEvent(s)
	h.save(r, s)

	writeJSON(w, h.logger, http.StatusOK, resp)
}

func (h *SessionHandler) handleChoice(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	var req ChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	s := h.restore(w, r, sessionID)
	if s == nil {
		return
	}

	ev := s.Catalog.EventByID(req.EventID)
	if ev == nil && req.EventID == catalog.QuietMomentID {
		ev = catalog.QuietMoment()
	}
	if ev == nil {
		h.logger.Warn("Choice for unknown event", "event_id", req.EventID, "id", sessionID.String())
		writeError(w, h.logger, http.StatusNotFound, "Event not found: "+req.EventID)
		return
	}

	result, err := h.engine.Choose(s, ev, req.OptionIndex)
	if err != nil {
		if errors.Is(err, engine.ErrChoiceNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "Choice not found")
			return
		}
		if errors.Is(err, engine.ErrChoiceUnavailable) {
			h.logger.Warn("Choice rejected by option gating", "event_id", req.EventID, "option_index", req.OptionIndex, "id", sessionID.String())
			writeError(w, h.logger, http.StatusConflict, "Choice is not available")
			return
		}
		h.logger.Error("Failed to apply choice", "error", err, "id", sessionID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to apply choice")
		return
	}

	resp := ChoiceResponse{Result: result}
	if result.EndsRun {
		if result.Outcome != nil && result.Outcome.EndingID != "" {
			resp.Ending = h.engine.ForcedEnding(s, result.Outcome.EndingID)
		} else {
			resp.Ending = h.engine.ResolveEnding(s)
		}
		resp.Finished = true
		// Park the clock past the horizon so later reads see a
		// finished run.
		s.Clock.Day = s.Clock.TotalDays + 1
		s.Clock.Period = 0
	} else {
		s.AdvanceTime()
		if s.Finished() {
			resp.Finished = true
			resp.Ending = h.engine.ResolveEnding(s)
		}
	}
	resp.Day = s.Clock.Day
	resp.Period = s.Clock.Period

	h.save(r, s)
	writeJSON(w, h.logger, http.StatusOK, resp)
}
