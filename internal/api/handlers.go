package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stonebridge-motors/towguide/internal/observability"
	"github.com/stonebridge-motors/towguide/internal/storage"
)

// TowHandler handles capacity lookup requests.
type TowHandler struct {
	logger  *observability.Logger
	service *LookupService
}

// NewTowHandler creates a new lookup handler.
func NewTowHandler(logger *observability.Logger, service *LookupService) *TowHandler {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &TowHandler{logger: logger, service: service}
}

// Get handles GET /api/v1/tow/{key}, where key is a VIN or stock number.
func (h *TowHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := chi.URLParam(r, "key")
	if key == "" {
		h.writeError(w, http.StatusBadRequest, "vin or stock number is required", "")
		return
	}

	result, err := h.service.Lookup(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "vehicle not found", key)
			return
		}
		h.logger.Error().Err(err).Str("key", key).Msg("lookup failed")
		h.writeError(w, http.StatusInternalServerError, "lookup failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (h *TowHandler) writeError(w http.ResponseWriter, status int, message, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := map[string]string{"error": message}
	if detail != "" {
		resp["detail"] = detail
	}
	json.NewEncoder(w).Encode(resp)
}
