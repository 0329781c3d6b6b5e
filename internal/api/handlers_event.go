package api

import (
	"encoding/json"
	"net/http"

	"github.com/unifyhub/unifyhub/internal/api/respond"
	"github.com/unifyhub/unifyhub/internal/api/validate"
	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/services"
)

// EventHandler is a thin HTTP transport over EventService.
type EventHandler struct {
	svc *services.EventService
}

func NewEventHandler(svc *services.EventService) *EventHandler { return &EventHandler{svc: svc} }

// CreateEvent POST /api/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CalendarEvent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.NonEmpty("title", req.Title); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if req.Start.IsZero() || req.End.IsZero() {
		respond.WriteBadRequest(w, "start and end are required")
		return
	}
	out, err := h.svc.CreateEvent(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListEvents GET /api/events[?from=...&to=...]
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		lst []*model.CalendarEvent
		err error
	)
	if q.Get("from") != "" || q.Get("to") != "" {
		from, ferr := validate.Time("from", q.Get("from"))
		if ferr != nil {
			respond.WriteBadRequest(w, ferr.Error())
			return
		}
		to, terr := validate.Time("to", q.Get("to"))
		if terr != nil {
			respond.WriteBadRequest(w, terr.Error())
			return
		}
		lst, err = h.svc.ListByDateRange(r.Context(), from, to)
	} else {
		lst, err = h.svc.ListEvents(r.Context())
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"events": lst, "count": len(lst)})
}

// CheckConflicts GET /api/events/conflicts?start=...&end=...[&excludeId=...]
func (h *EventHandler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := validate.Time("start", q.Get("start"))
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	end, err := validate.Time("end", q.Get("end"))
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	var excludeID int64
	if raw := q.Get("excludeId"); raw != "" {
		excludeID, err = validate.ID("excludeId", raw)
		if err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}
	conflicts, err := h.svc.CheckConflicts(r.Context(), start, end, excludeID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"conflicts":    conflicts,
		"count":        len(conflicts),
		"hasConflicts": len(conflicts) > 0,
	})
}

// GetEvent GET /api/events/{eventId}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "eventId")
	if !ok {
		return
	}
	out, err := h.svc.GetEvent(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateEvent PATCH /api/events/{eventId}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "eventId")
	if !ok {
		return
	}
	var patch model.EventPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.UpdateEvent(r.Context(), id, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteEvent DELETE /api/events/{eventId}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "eventId")
	if !ok {
		return
	}
	if err := h.svc.DeleteEvent(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
