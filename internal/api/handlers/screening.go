package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tkohno/guardian/internal/contracts"
	"github.com/tkohno/guardian/internal/external/jquants"
	"github.com/tkohno/guardian/internal/screening"
	"github.com/tkohno/guardian/pkg/logger"
)

// ScreeningHandler handles sector-screening API endpoints.
type ScreeningHandler struct {
	jquantsClient *jquants.Client
	screener      *screening.Screener
	hub           *ProgressHub
	defaultLimit  int
	logger        *logger.Logger
}

// NewScreeningHandler creates a new screening handler.
func NewScreeningHandler(
	jquantsClient *jquants.Client,
	screener *screening.Screener,
	hub *ProgressHub,
	defaultLimit int,
	log *logger.Logger,
) *ScreeningHandler {
	return &ScreeningHandler{
		jquantsClient: jquantsClient,
		screener:      screener,
		hub:           hub,
		defaultLimit:  defaultLimit,
		logger:        log,
	}
}

// screenRequest is the POST /api/screen body
type screenRequest struct {
	Sector string `json:"sector"`
	Limit  int    `json:"limit"`
}

// screenResponse distinguishes an empty pass ("no matches") from a pass that
// could not start: the latter never reaches this payload.
type screenResponse struct {
	Sector  string                      `json:"sector"`
	Matched int                         `json:"matched"`
	Results []contracts.ScreeningResult `json:"results"`
}

// Screen runs one screening pass.
// POST /api/screen {"sector": "情報･通信業", "limit": 30}
func (h *ScreeningHandler) Screen(w http.ResponseWriter, r *http.Request) {
	var req screenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Sector == "" {
		writeError(w, http.StatusBadRequest, "sector is required")
		return
	}
	if req.Limit <= 0 {
		req.Limit = h.defaultLimit
	}

	session, err := h.jquantsClient.Authenticate(r.Context())
	if err != nil {
		if errors.Is(err, contracts.ErrInvalidSession) {
			writeError(w, http.StatusUnauthorized, "J-Quants refresh token is not configured")
			return
		}
		h.logger.WithError(err).Error("Authentication failed")
		writeError(w, http.StatusBadGateway, "authentication against J-Quants failed")
		return
	}

	results, err := h.screener.Screen(r.Context(), req.Sector, req.Limit, session, h.hub)
	if err != nil {
		if errors.Is(err, contracts.ErrInvalidSession) {
			writeError(w, http.StatusUnauthorized, "session is not valid")
			return
		}
		// Cancellation via client disconnect
		h.logger.WithError(err).Warn("Screening pass aborted")
		writeError(w, http.StatusServiceUnavailable, "screening aborted")
		return
	}

	writeJSON(w, http.StatusOK, screenResponse{
		Sector:  req.Sector,
		Matched: len(results),
		Results: results,
	})
}

// Progress streams screening progress events over a websocket.
// GET /api/screen/ws
func (h *ScreeningHandler) Progress(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
