package api

import (
	"encoding/json"
	"net/http"

	"github.com/unifyhub/unifyhub/internal/api/respond"
	"github.com/unifyhub/unifyhub/internal/api/validate"
	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/services"
)

// RuleHandler is a thin HTTP transport over RuleService.
type RuleHandler struct {
	svc *services.RuleService
}

func NewRuleHandler(svc *services.RuleService) *RuleHandler { return &RuleHandler{svc: svc} }

// CreateRule POST /api/rules
func (h *RuleHandler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req model.Rule
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.NonEmpty("name", req.Name); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	for _, a := range req.Actions {
		if err := validate.OneOf("actions[].type", a.Type, false,
			model.ActionCreateTask, model.ActionSendNotification, model.ActionBlockCalendar); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}
	out, err := h.svc.CreateRule(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListRules GET /api/rules
func (h *RuleHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	lst, err := h.svc.ListRules(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"rules": lst, "count": len(lst)})
}

// GetRule GET /api/rules/{ruleId}
func (h *RuleHandler) GetRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "ruleId")
	if !ok {
		return
	}
	out, err := h.svc.GetRule(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateRule PATCH /api/rules/{ruleId}
func (h *RuleHandler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "ruleId")
	if !ok {
		return
	}
	var patch model.RulePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.UpdateRule(r.Context(), id, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteRule DELETE /api/rules/{ruleId}
func (h *RuleHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "ruleId")
	if !ok {
		return
	}
	if err := h.svc.DeleteRule(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleRule POST /api/rules/{ruleId}/toggle
func (h *RuleHandler) ToggleRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "ruleId")
	if !ok {
		return
	}
	out, err := h.svc.Toggle(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// TestRule POST /api/rules/{ruleId}/test
func (h *RuleHandler) TestRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "ruleId")
	if !ok {
		return
	}
	out, err := h.svc.Test(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
