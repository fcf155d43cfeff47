package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/life-engine/pkg/catalog"
	"github.com/jwebster45206/life-engine/pkg/storage"
)

type CatalogHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewCatalogHandler(storage storage.Storage, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		storage: storage,
		logger:  logger,
	}
}

// ListCatalogsResponse is the body for GET /v1/catalogs.
type ListCatalogsResponse struct {
	Catalogs []string `json:"catalogs"`
}

// ServeHTTP handles catalog operations.
// Routes:
// GET /v1/catalogs        - List catalog names
// GET /v1/catalogs/{name} - Read one catalog
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET")
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/catalogs"), "/")
	if name == "" {
		h.handleList(w, r)
		return
	}
	h.handleRead(w, r, name)
}

func (h *CatalogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := h.storage.ListCatalogs(r.Context())
	if err != nil {
		h.logger.Error("Failed to list catalogs", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list catalogs")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, h.logger, http.StatusOK, ListCatalogsResponse{Catalogs: names})
}

func (h *CatalogHandler) handleRead(w http.ResponseWriter, r *http.Request, name string) {
	cat, err := h.storage.GetCatalog(r.Context(), name)
	if err != nil {
		h.logger.Error("Failed to load catalog", "name", name, "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrContentInvalid) {
			status = http.StatusBadRequest
		}
		writeError(w, h.logger, status, "Failed to load catalog: "+err.Error())
		return
	}
	if cat == nil {
		h.logger.Warn("Catalog not found", "name", name)
		writeError(w, h.logger, http.StatusNotFound, "Catalog not found")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, cat)
}
