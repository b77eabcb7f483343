package server

import (
	"net/http"

	"audiodeck/core/library"
	"audiodeck/model"
)

// PruneHandler drops metadata of files that no longer exist.
func (h *APIHandler) PruneHandler(w http.ResponseWriter, r *http.Request) {
	res, err := h.library.Prune(r.Context())
	if err != nil {
		writeError(w, r, err, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "System cleaned",
		"removed": len(res.Removed),
	})
}

// ResyncHandler repeats the metadata step of an interrupted move or category rename.
func (h *APIHandler) ResyncHandler(w http.ResponseWriter, r *http.Request) {
	var req library.SyncRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	n, err := h.library.Resync(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "synced", "updated": n})
}

// SettingsHandler returns (GET) or replaces (POST) the settings document.
func (h *APIHandler) SettingsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := h.settings.Get(r.Context())
		if err != nil {
			writeError(w, r, err, "Not found")
			return
		}
		writeJSON(w, http.StatusOK, settings)
	case http.MethodPost:
		var settings model.Settings
		if err := decodeJSON(r, &settings); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := h.settings.Save(r.Context(), settings); err != nil {
			writeError(w, r, err, "Not found")
			return
		}
		writeStatus(w, "saved")
	default:
		writeErrorMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
