package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"audiodeck/config"
	"audiodeck/core/library"
	"audiodeck/logger"
	"audiodeck/repository"
)

// APIHandler 处理所有API请求
type APIHandler struct {
	library  *library.Library
	presets  repository.PresetRepository
	orders   repository.OrderRepository
	settings repository.SettingsRepository
	cfg      *config.Config
}

// NewAPIHandler 创建新的API处理器
func NewAPIHandler(
	lib *library.Library,
	presets repository.PresetRepository,
	orders repository.OrderRepository,
	settings repository.SettingsRepository,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		library:  lib,
		presets:  presets,
		orders:   orders,
		settings: settings,
		cfg:      cfg,
	}
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response", logger.ErrorField(err))
	}
}

func writeStatus(w http.ResponseWriter, status string) {
	writeJSON(w, http.StatusOK, statusResponse{Status: status})
}

func writeErrorMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// writeError maps library errors onto 400/404/500. notFoundMsg replaces the
// error text for 404s so clients see a stable message.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, library.ErrMissingField):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, library.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, notFoundMsg)
	default:
		logger.Error("request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.ErrorField(err))
		writeErrorMessage(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// baseURL is the origin used in track URLs.
func (h *APIHandler) baseURL(r *http.Request) string {
	if h.cfg.PublicBaseURL != "" {
		return h.cfg.PublicBaseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host
}
