package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tkohno/guardian/internal/contracts"
	"github.com/tkohno/guardian/internal/watchlist"
	"github.com/tkohno/guardian/pkg/logger"
)

// WatchlistHandler handles watch-list API endpoints.
type WatchlistHandler struct {
	store   *watchlist.Store
	monitor *watchlist.Monitor
	logger  *logger.Logger
}

// NewWatchlistHandler creates a new watch-list handler.
func NewWatchlistHandler(store *watchlist.Store, monitor *watchlist.Monitor, log *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		store:   store,
		monitor: monitor,
		logger:  log,
	}
}

// List returns all watch items.
// GET /api/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.Load()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load watch list")
		writeError(w, http.StatusInternalServerError, "failed to load watch list")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Add appends a watch item.
// POST /api/watchlist {"code": "7203", "entry": 2500}
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var item contracts.WatchItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.store.Add(item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// Remove deletes a watch item by code.
// DELETE /api/watchlist/{code}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	if err := h.store.Remove(code); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Status refreshes every watched position and returns the snapshots.
// GET /api/watchlist/status
func (h *WatchlistHandler) Status(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.monitor.Refresh(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Watch refresh failed")
		writeError(w, http.StatusInternalServerError, "watch refresh failed")
		return
	}

	writeJSON(w, http.StatusOK, snapshots)
}
