package server

import (
	"encoding/json"
	"net/http"

	"audiodeck/core/taxonomy"
	"audiodeck/logger"
	"audiodeck/model"

	"github.com/gorilla/mux"
)

const defaultPresetName = "Nuevo Preset"

// PresetsHandler lists presets (GET) or upserts one (POST).
func (h *APIHandler) PresetsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		presets, err := h.presets.List(r.Context())
		if err != nil {
			writeError(w, r, err, "Not found")
			return
		}
		writeJSON(w, http.StatusOK, presets)
	case http.MethodPost:
		h.savePreset(w, r)
	default:
		writeErrorMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *APIHandler) savePreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     string            `json:"id"`
		Name   *string           `json:"name"`
		Frame  *string           `json:"frame"`
		Tracks []json.RawMessage `json:"tracks"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	preset := model.Preset{
		ID:     req.ID,
		Name:   defaultPresetName,
		Frame:  taxonomy.GlobalFrame,
		Tracks: req.Tracks,
	}
	if req.Name != nil {
		preset.Name = *req.Name
	}
	if req.Frame != nil {
		preset.Frame = *req.Frame
	}

	saved, err := h.presets.Save(r.Context(), preset)
	if err != nil {
		writeError(w, r, err, "Not found")
		return
	}
	logger.Info("preset saved", logger.String("id", saved.ID), logger.String("name", saved.Name))
	writeJSON(w, http.StatusOK, saved)
}

// DeletePresetHandler removes a preset: DELETE /presets/{id}.
func (h *APIHandler) DeletePresetHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.presets.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "Not found")
		return
	}
	writeStatus(w, "deleted")
}

// SaveOrderHandler stores a custom ordering under a caller-defined key.
func (h *APIHandler) SaveOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key      string   `json:"key"`
		TrackIDs []string `json:"trackIds"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Key == "" {
		writeErrorMessage(w, http.StatusBadRequest, "missing key")
		return
	}

	if err := h.orders.Save(r.Context(), req.Key, req.TrackIDs); err != nil {
		writeError(w, r, err, "Not found")
		return
	}
	writeStatus(w, "saved")
}

// GetOrdersHandler returns every stored ordering.
func (h *APIHandler) GetOrdersHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}
