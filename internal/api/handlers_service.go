package api

import (
	"encoding/json"
	"net/http"

	"github.com/unifyhub/unifyhub/internal/api/respond"
	"github.com/unifyhub/unifyhub/internal/api/validate"
	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/services"
)

// ServiceHandler is a thin HTTP transport over ServiceService.
type ServiceHandler struct {
	svc *services.ServiceService
}

func NewServiceHandler(svc *services.ServiceService) *ServiceHandler { return &ServiceHandler{svc: svc} }

// CreateService POST /api/services
func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req model.Service
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.NonEmpty("name", req.Name); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.OneOf("type", req.Type, false,
		model.ServiceTypeEmail, model.ServiceTypeMessaging, model.ServiceTypeCalendar, model.ServiceTypeOther); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.OneOf("status", req.Status, true,
		model.StatusConnected, model.StatusDisconnected, model.StatusSyncing); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if req.Status == "" {
		req.Status = model.StatusDisconnected
	}
	out, err := h.svc.CreateService(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListServices GET /api/services
func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	lst, err := h.svc.ListServices(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"services": lst, "count": len(lst)})
}

// GetService GET /api/services/{serviceId}
func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "serviceId")
	if !ok {
		return
	}
	out, err := h.svc.GetService(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateService PATCH /api/services/{serviceId}
func (h *ServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "serviceId")
	if !ok {
		return
	}
	var patch model.ServicePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.UpdateService(r.Context(), id, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteService DELETE /api/services/{serviceId}
func (h *ServiceHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "serviceId")
	if !ok {
		return
	}
	if err := h.svc.DeleteService(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SyncService POST /api/services/{serviceId}/sync
func (h *ServiceHandler) SyncService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "serviceId")
	if !ok {
		return
	}
	out, err := h.svc.Sync(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// ConnectService POST /api/services/{serviceId}/connect
func (h *ServiceHandler) ConnectService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "serviceId")
	if !ok {
		return
	}
	out, err := h.svc.Connect(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DisconnectService POST /api/services/{serviceId}/disconnect
func (h *ServiceHandler) DisconnectService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "serviceId")
	if !ok {
		return
	}
	out, err := h.svc.Disconnect(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// GetServiceConfig GET /api/services/{serviceId}/config
func (h *ServiceHandler) GetServiceConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "serviceId")
	if !ok {
		return
	}
	cfg, err := h.svc.GetConfig(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, cfg)
}

// UpdateServiceConfig PATCH /api/services/{serviceId}/config
func (h *ServiceHandler) UpdateServiceConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "serviceId")
	if !ok {
		return
	}
	var cfg map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.UpdateConfig(r.Context(), id, cfg)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
