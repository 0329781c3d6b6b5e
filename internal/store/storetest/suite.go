package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	// Services
	svc, err := s.Services().Create(ctx, &model.Service{
		Name:   "Gmail",
		Type:   model.ServiceTypeEmail,
		Status: model.StatusConnected,
		Color:  "#EA4335",
		Config: map[string]interface{}{"syncInterval": "15m"},
	})
	if err != nil {
		t.Fatalf("CreateService: %v", err)
	}
	if svc.ID <= 0 {
		t.Fatalf("CreateService: non-positive id %d", svc.ID)
	}
	if got, err := s.Services().Get(ctx, svc.ID); err != nil || got.Name != "Gmail" {
		t.Fatalf("GetService: got=%v err=%v", got, err)
	}

	// Partial update touches only the provided fields.
	status := model.StatusSyncing
	upd, err := s.Services().Update(ctx, svc.ID, model.ServicePatch{Status: &status})
	if err != nil {
		t.Fatalf("UpdateService: %v", err)
	}
	if upd.Status != model.StatusSyncing || upd.Name != "Gmail" || upd.Color != "#EA4335" {
		t.Fatalf("UpdateService merged wrong: %+v", upd)
	}

	// NotFound on absent and malformed-free boundary ids.
	if _, err := s.Services().Get(ctx, 999999); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetService absent: want ErrNotFound, got %v", err)
	}
	if _, err := s.Services().Update(ctx, 999999, model.ServicePatch{Status: &status}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("UpdateService absent: want ErrNotFound, got %v", err)
	}
	if err := s.Services().Delete(ctx, 999999); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteService absent: want ErrNotFound, got %v", err)
	}

	// Items
	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	older := base.Add(-2 * time.Hour)
	it1, err := s.Items().Create(ctx, &model.UnifiedItem{
		Type:      "email",
		Title:     "Quarterly report",
		Content:   "Please review",
		Timestamp: &older,
		ServiceID: &svc.ID,
		Metadata:  map[string]interface{}{"priority": "high"},
	})
	if err != nil {
		t.Fatalf("CreateItem it1: %v", err)
	}
	it2, err := s.Items().Create(ctx, &model.UnifiedItem{
		Type:      "message",
		Title:     "Standup notes",
		Timestamp: &base,
	})
	if err != nil {
		t.Fatalf("CreateItem it2: %v", err)
	}
	if it2.ID <= it1.ID {
		t.Fatalf("item ids not increasing: %d then %d", it1.ID, it2.ID)
	}

	// List is newest first by the item's own timestamp.
	items, err := s.Items().List(ctx)
	if err != nil || len(items) < 2 {
		t.Fatalf("ListItems: n=%d err=%v", len(items), err)
	}
	if items[0].ID != it2.ID {
		t.Fatalf("ListItems order: want %d first, got %d", it2.ID, items[0].ID)
	}

	if byType, err := s.Items().ListByType(ctx, "email"); err != nil || len(byType) != 1 || byType[0].ID != it1.ID {
		t.Fatalf("ListByType email: n=%d err=%v", len(byType), err)
	}
	if bySvc, err := s.Items().ListByService(ctx, svc.ID); err != nil || len(bySvc) != 1 || bySvc[0].ID != it1.ID {
		t.Fatalf("ListByService: n=%d err=%v", len(bySvc), err)
	}

	newTitle := "Quarterly report v2"
	patched, err := s.Items().Update(ctx, it1.ID, model.ItemPatch{Title: &newTitle})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if patched.Title != newTitle || patched.Type != "email" || patched.Timestamp == nil || !patched.Timestamp.Equal(older) {
		t.Fatalf("UpdateItem merged wrong: %+v", patched)
	}
	if len(patched.Metadata) == 0 {
		t.Fatalf("UpdateItem dropped metadata: %+v", patched)
	}

	// Events
	start := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	ev1, err := s.Events().Create(ctx, &model.CalendarEvent{
		Title:     "Design review",
		Start:     start,
		End:       start.Add(time.Hour),
		Attendees: []string{"ana@example.test", "bo@example.test"},
		ServiceID: &svc.ID,
	})
	if err != nil {
		t.Fatalf("CreateEvent ev1: %v", err)
	}
	ev2, err := s.Events().Create(ctx, &model.CalendarEvent{
		Title: "Lunch",
		Start: start.Add(2 * time.Hour),
		End:   start.Add(3 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateEvent ev2: %v", err)
	}

	// Range query is inclusive on start and ordered by start ascending.
	inRange, err := s.Events().ListByRange(ctx, start, start.Add(time.Hour))
	if err != nil || len(inRange) != 1 || inRange[0].ID != ev1.ID {
		t.Fatalf("ListByRange: n=%d err=%v", len(inRange), err)
	}
	all, err := s.Events().ListByRange(ctx, start, start.Add(3*time.Hour))
	if err != nil || len(all) != 2 || all[0].ID != ev1.ID || all[1].ID != ev2.ID {
		t.Fatalf("ListByRange wide: n=%d err=%v", len(all), err)
	}

	// Overlap is half-open: an interval abutting ev1's end does not match it.
	overlapping, err := s.Events().ListOverlapping(ctx, start.Add(30*time.Minute), start.Add(90*time.Minute))
	if err != nil || len(overlapping) != 1 || overlapping[0].ID != ev1.ID {
		t.Fatalf("ListOverlapping: n=%d err=%v", len(overlapping), err)
	}
	if abut, err := s.Events().ListOverlapping(ctx, start.Add(time.Hour), start.Add(2*time.Hour)); err != nil || len(abut) != 0 {
		t.Fatalf("ListOverlapping abutting: n=%d err=%v", len(abut), err)
	}

	newEnd := start.Add(90 * time.Minute)
	if upd, err := s.Events().Update(ctx, ev1.ID, model.EventPatch{End: &newEnd}); err != nil || !upd.End.Equal(newEnd) || upd.Title != "Design review" {
		t.Fatalf("UpdateEvent: got=%+v err=%v", upd, err)
	}

	// Projects
	p, err := s.Projects().Create(ctx, &model.Project{
		Name:        "Launch",
		Description: "Q2 launch prep",
		Color:       "#8B5CF6",
		LinkedItems: model.LinkedItems{it1.ID},
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if got, err := s.Projects().Get(ctx, p.ID); err != nil || !got.LinkedItems.Contains(it1.ID) {
		t.Fatalf("GetProject: got=%v err=%v", got, err)
	}

	// Linked items persist as a typed list round-trip.
	linked := p.LinkedItems.Add(it2.ID)
	upd2, err := s.Projects().Update(ctx, p.ID, model.ProjectPatch{LinkedItems: &linked})
	if err != nil {
		t.Fatalf("UpdateProject linked: %v", err)
	}
	if len(upd2.LinkedItems) != 2 || !upd2.LinkedItems.Contains(it2.ID) {
		t.Fatalf("linked items round-trip: %v", upd2.LinkedItems)
	}
	if upd2.Name != "Launch" || upd2.Description != "Q2 launch prep" {
		t.Fatalf("UpdateProject merged wrong: %+v", upd2)
	}

	// Rules
	r, err := s.Rules().Create(ctx, &model.Rule{
		Name: "Urgent emails",
		Conditions: []model.RuleCondition{
			{Field: "type", Operator: "equals", Value: "email"},
			{Field: "metadata.priority", Operator: "equals", Value: "high"},
		},
		Actions: []model.RuleAction{
			{Type: model.ActionSendNotification, Params: map[string]interface{}{"channel": "push"}},
		},
		Enabled: true,
	})
	if err != nil {
		t.Fatalf("CreateRule: %v", err)
	}
	if got, err := s.Rules().Get(ctx, r.ID); err != nil || len(got.Conditions) != 2 || len(got.Actions) != 1 || !got.Enabled {
		t.Fatalf("GetRule: got=%+v err=%v", got, err)
	}
	off := false
	if upd, err := s.Rules().Update(ctx, r.ID, model.RulePatch{Enabled: &off}); err != nil || upd.Enabled || upd.Name != "Urgent emails" {
		t.Fatalf("UpdateRule: got=%+v err=%v", upd, err)
	}

	// Deletes
	if err := s.Rules().Delete(ctx, r.ID); err != nil {
		t.Fatalf("DeleteRule: %v", err)
	}
	if _, err := s.Rules().Get(ctx, r.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetRule after delete: want ErrNotFound, got %v", err)
	}
	if err := s.Events().Delete(ctx, ev2.ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if err := s.Items().Delete(ctx, it2.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if err := s.Projects().Delete(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if err := s.Services().Delete(ctx, svc.ID); err != nil {
		t.Fatalf("DeleteService: %v", err)
	}
}
