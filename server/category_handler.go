package server

import (
	"net/http"

	"audiodeck/core/library"
	"audiodeck/core/taxonomy"
)

// StructureHandler returns the frame/type/category/subcategory tree.
func (h *APIHandler) StructureHandler(w http.ResponseWriter, r *http.Request) {
	structure, err := taxonomy.ReadStructure(h.library.Root())
	if err != nil {
		writeError(w, r, err, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, structure)
}

type categoryRequest struct {
	Frame   string `json:"frame"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
	Parent  string `json:"parent"`
}

// CreateCategoryHandler creates a category or subcategory directory.
func (h *APIHandler) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Missing name")
		return
	}

	err := h.library.CreateCategory(r.Context(), library.CategoryRef{
		Frame:  req.Frame,
		Type:   req.Type,
		Name:   req.Name,
		Parent: req.Parent,
	})
	if err != nil {
		writeError(w, r, err, "Not found")
		return
	}
	writeStatus(w, "created")
}

// RenameCategoryHandler renames a category and rewrites the metadata beneath it.
func (h *APIHandler) RenameCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OldName == "" || req.NewName == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Missing names")
		return
	}

	err := h.library.RenameCategory(r.Context(), library.CategoryRef{
		Frame:  req.Frame,
		Type:   req.Type,
		Name:   req.OldName,
		Parent: req.Parent,
	}, req.NewName)
	if err != nil {
		writeError(w, r, err, "Category not found")
		return
	}
	writeStatus(w, "renamed")
}

// DeleteCategoryHandler removes a category subtree:
// DELETE /categories?frame=&type=&name=&parent=
func (h *APIHandler) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("name") == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Missing name")
		return
	}

	err := h.library.DeleteCategory(r.Context(), library.CategoryRef{
		Frame:  q.Get("frame"),
		Type:   q.Get("type"),
		Name:   q.Get("name"),
		Parent: q.Get("parent"),
	})
	if err != nil {
		writeError(w, r, err, "Not found")
		return
	}
	writeStatus(w, "deleted")
}
