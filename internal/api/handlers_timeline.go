package api

import (
	"net/http"

	"github.com/unifyhub/unifyhub/internal/api/respond"
	"github.com/unifyhub/unifyhub/internal/api/validate"
	"github.com/unifyhub/unifyhub/internal/timeline"
)

// TimelineHandler serves the merged timeline views.
type TimelineHandler struct {
	agg *timeline.Aggregator
}

func NewTimelineHandler(agg *timeline.Aggregator) *TimelineHandler { return &TimelineHandler{agg: agg} }

// AllTimelines GET /api/timeline
func (h *TimelineHandler) AllTimelines(w http.ResponseWriter, r *http.Request) {
	entries, err := h.agg.AllTimelines(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"entries": entries, "count": len(entries)})
}

// ProjectTimeline GET /api/projects/{projectId}/timeline
func (h *TimelineHandler) ProjectTimeline(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "projectId")
	if !ok {
		return
	}
	entries, err := h.agg.ProjectTimeline(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"entries": entries, "count": len(entries)})
}

// EntryByID GET /api/timeline/{entryId}
// A well-formed id with no matching record is a 404, not a 500.
func (h *TimelineHandler) EntryByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "entryId")
	if !ok {
		return
	}
	entry, err := h.agg.EntryByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if entry == nil {
		respond.WriteNotFound(w, "timeline entry not found")
		return
	}
	respond.WriteJSON(w, http.StatusOK, entry)
}

// Stats GET /api/timeline/stats[?projectId=...]
func (h *TimelineHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var projectID *int64
	if raw := r.URL.Query().Get("projectId"); raw != "" {
		id, err := validate.ID("projectId", raw)
		if err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		projectID = &id
	}
	stats, err := h.agg.Stats(r.Context(), projectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, stats)
}
