package api

import (
	"encoding/json"
	"net/http"

	"github.com/unifyhub/unifyhub/internal/api/respond"
	"github.com/unifyhub/unifyhub/internal/api/validate"
	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/services"
)

// ItemHandler is a thin HTTP transport over ItemService.
type ItemHandler struct {
	svc *services.ItemService
}

func NewItemHandler(svc *services.ItemService) *ItemHandler { return &ItemHandler{svc: svc} }

// CreateItem POST /api/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req model.UnifiedItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.NonEmpty("title", req.Title); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.CreateItem(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListItems GET /api/items[?type=...|serviceId=...]
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	var (
		lst []*model.UnifiedItem
		err error
	)
	q := r.URL.Query()
	switch {
	case q.Get("type") != "":
		lst, err = h.svc.ListByType(r.Context(), q.Get("type"))
	case q.Get("serviceId") != "":
		var serviceID int64
		serviceID, err = validate.ID("serviceId", q.Get("serviceId"))
		if err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		lst, err = h.svc.ListByService(r.Context(), serviceID)
	default:
		lst, err = h.svc.ListItems(r.Context())
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": lst, "count": len(lst)})
}

// GetItem GET /api/items/{itemId}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	out, err := h.svc.GetItem(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateItem PATCH /api/items/{itemId}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	var patch model.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.UpdateItem(r.Context(), id, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteItem DELETE /api/items/{itemId}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	if err := h.svc.DeleteItem(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
