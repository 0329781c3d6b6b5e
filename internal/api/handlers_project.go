package api

import (
	"encoding/json"
	"net/http"

	"github.com/unifyhub/unifyhub/internal/api/respond"
	"github.com/unifyhub/unifyhub/internal/api/validate"
	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/services"
)

// ProjectHandler is a thin HTTP transport over ProjectService.
type ProjectHandler struct {
	svc *services.ProjectService
}

func NewProjectHandler(svc *services.ProjectService) *ProjectHandler { return &ProjectHandler{svc: svc} }

// CreateProject POST /api/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req model.Project
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.NonEmpty("name", req.Name); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.CreateProject(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListProjects GET /api/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	lst, err := h.svc.ListProjects(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"projects": lst, "count": len(lst)})
}

// GetProject GET /api/projects/{projectId}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectId")
	if !ok {
		return
	}
	out, err := h.svc.GetProject(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateProject PATCH /api/projects/{projectId}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectId")
	if !ok {
		return
	}
	var patch model.ProjectPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.UpdateProject(r.Context(), id, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteProject DELETE /api/projects/{projectId}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectId")
	if !ok {
		return
	}
	if err := h.svc.DeleteProject(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LinkItem PUT /api/projects/{projectId}/items/{itemId}
func (h *ProjectHandler) LinkItem(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "projectId")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	out, err := h.svc.LinkItem(r.Context(), projectID, itemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UnlinkItem DELETE /api/projects/{projectId}/items/{itemId}
func (h *ProjectHandler) UnlinkItem(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "projectId")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	out, err := h.svc.UnlinkItem(r.Context(), projectID, itemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
