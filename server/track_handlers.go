package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"audiodeck/core/library"
	"audiodeck/core/taxonomy"
	"audiodeck/logger"
)

// maxUploadSize caps multipart uploads.
const maxUploadSize = 200 << 20

// GetTracksHandler lists every audio file under the assets root.
func (h *APIHandler) GetTracksHandler(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.library.ListTracks(r.Context(), h.baseURL(r))
	if err != nil {
		writeError(w, r, err, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// UploadTrackHandler stores a multipart upload in the taxonomy.
func (h *APIHandler) UploadTrackHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorMessage(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request too large. Maximum size is %d MB", maxUploadSize>>20))
			return
		}
		writeErrorMessage(w, http.StatusBadRequest, "No file")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "No file")
		return
	}
	defer file.Close()

	// Frame rule for every type: is_global wins, otherwise the given frame.
	frame := r.FormValue("frame")
	if r.FormValue("is_global") == "true" {
		frame = taxonomy.GlobalFrame
	}

	logger.Info("开始处理上传请求",
		logger.String("filename", header.Filename),
		logger.Int("size", int(header.Size)),
		logger.String("frame", frame),
		logger.String("type", r.FormValue("type")))

	_, err = h.library.Upload(r.Context(), library.UploadRequest{
		Content:     file,
		Frame:       frame,
		Type:        r.FormValue("type"),
		Category:    r.FormValue("category"),
		Subcategory: r.FormValue("subcategory"),
		Name:        r.FormValue("name"),
		Ext:         filepath.Ext(header.Filename),
		Icon:        r.FormValue("icon"),
	})
	if err != nil {
		writeError(w, r, err, "Not found")
		return
	}
	writeJSON(w, http.StatusCreated, statusResponse{Status: "success"})
}

// DeleteTrackHandler removes one file: DELETE /tracks?id=<relative path>.
func (h *APIHandler) DeleteTrackHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Missing id")
		return
	}
	if err := h.library.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "File not found")
		return
	}
	writeStatus(w, "deleted")
}

type moveTrackRequest struct {
	TrackID        string `json:"trackId"`
	NewFrame       string `json:"newFrame"`
	NewCategory    string `json:"newCategory"`
	NewSubcategory string `json:"newSubcategory"`
	Type           string `json:"type"`
}

// MoveTrackHandler moves a track to another frame/type/category.
func (h *APIHandler) MoveTrackHandler(w http.ResponseWriter, r *http.Request) {
	var req moveTrackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TrackID == "" || req.NewCategory == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Missing data")
		return
	}

	_, err := h.library.Move(r.Context(), req.TrackID, library.MoveTarget{
		Frame:       req.NewFrame,
		Type:        req.Type,
		Category:    req.NewCategory,
		Subcategory: req.NewSubcategory,
	})
	if err != nil {
		writeError(w, r, err, "File not found")
		return
	}
	writeStatus(w, "moved")
}

type renameTrackRequest struct {
	TrackID string `json:"trackId"`
	NewName string `json:"newName"`
}

// RenameTrackHandler changes a track's basename.
func (h *APIHandler) RenameTrackHandler(w http.ResponseWriter, r *http.Request) {
	var req renameTrackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TrackID == "" || req.NewName == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Missing data")
		return
	}

	if _, err := h.library.Rename(r.Context(), req.TrackID, req.NewName); err != nil {
		writeError(w, r, err, "File not found")
		return
	}
	writeStatus(w, "renamed")
}

type updateMetadataRequest struct {
	TrackID string `json:"trackId"`
	Icon    string `json:"icon"`
}

// UpdateMetadataHandler sets a track's icon.
func (h *APIHandler) UpdateMetadataHandler(w http.ResponseWriter, r *http.Request) {
	var req updateMetadataRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TrackID == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Missing trackId")
		return
	}

	changed, err := h.library.UpdateIcon(r.Context(), req.TrackID, req.Icon)
	if err != nil {
		writeError(w, r, err, "File not found")
		return
	}
	if !changed {
		writeStatus(w, "no changes")
		return
	}
	writeStatus(w, "updated")
}
