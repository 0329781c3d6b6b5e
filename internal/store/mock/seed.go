package mock

import (
	"time"

	"github.com/unifyhub/unifyhub/internal/model"
)

// NewSeeded returns a mock store preloaded with the fixture dataset used by
// the secondary (offline) mode: three connected services, a handful of inbox
// items and calendar events, two projects and two rules.
func NewSeeded(latency time.Duration) *Store {
	s := New(latency)
	now := time.Now().UTC()
	day := 24 * time.Hour

	id := func(v int64) *int64 { return &v }
	ts := func(t time.Time) *time.Time { return &t }

	lastSync := now.Add(-15 * time.Minute)
	s.services = map[int64]*model.Service{
		1: {
			ID: 1, Name: "Gmail", Type: model.ServiceTypeEmail, Status: model.StatusConnected,
			Icon: "Mail", Color: "#EA4335", LastSync: ts(lastSync),
			Config:    map[string]interface{}{"syncFrequency": "15min", "includeAttachments": true, "folders": []interface{}{"INBOX", "Sent"}},
			CreatedAt: now.Add(-30 * day), UpdatedAt: lastSync,
		},
		2: {
			ID: 2, Name: "Slack", Type: model.ServiceTypeMessaging, Status: model.StatusConnected,
			Icon: "MessageSquare", Color: "#4A154B", LastSync: ts(now.Add(-5 * time.Minute)),
			Config:    map[string]interface{}{"syncFrequency": "5min", "channels": []interface{}{"#general", "#eng"}, "keywords": []interface{}{"urgent", "review"}},
			CreatedAt: now.Add(-21 * day), UpdatedAt: now.Add(-5 * time.Minute),
		},
		3: {
			ID: 3, Name: "Google Calendar", Type: model.ServiceTypeCalendar, Status: model.StatusDisconnected,
			Icon: "Calendar", Color: "#4285F4",
			Config:    map[string]interface{}{"calendars": []interface{}{"primary"}},
			CreatedAt: now.Add(-14 * day), UpdatedAt: now.Add(-2 * day),
		},
	}

	s.projects = map[int64]*model.Project{
		1: {
			ID: 1, Name: "Website Redesign", Description: "Relaunch of the marketing site",
			Color: "#8B5CF6", LinkedItems: model.LinkedItems{1, 2, 1001},
			CreatedAt: now.Add(-10 * day), UpdatedAt: now.Add(-day),
		},
		2: {
			ID: 2, Name: "Q3 Planning", Description: "Quarterly goals and staffing",
			Color: "#10B981", LinkedItems: model.LinkedItems{3},
			CreatedAt: now.Add(-6 * day), UpdatedAt: now.Add(-2 * day),
		},
	}

	s.items = map[int64]*model.UnifiedItem{
		1: {
			ID: 1, Type: "email", Title: "Design review feedback",
			Content:   "The new landing hero looks great, two small nits inline.",
			Timestamp: ts(now.Add(-3 * time.Hour)),
			Metadata:  map[string]interface{}{"priority": "high", "hasAttachments": true},
			ServiceID: id(1), ProjectID: id(1),
			CreatedAt: now.Add(-3 * time.Hour), UpdatedAt: now.Add(-3 * time.Hour),
		},
		2: {
			ID: 2, Type: "message", Title: "#eng: staging deploy is green",
			Content:   "CI passed, staging has the redesign branch.",
			Timestamp: ts(now.Add(-90 * time.Minute)),
			Metadata:  map[string]interface{}{"priority": "normal"},
			ServiceID: id(2), ProjectID: id(1),
			CreatedAt: now.Add(-90 * time.Minute), UpdatedAt: now.Add(-90 * time.Minute),
		},
		3: {
			ID: 3, Type: "email", Title: "Headcount proposal",
			Content:   "Draft numbers for Q3 attached, comments by Friday please.",
			Timestamp: ts(now.Add(-26 * time.Hour)),
			Metadata:  map[string]interface{}{"priority": "normal", "hasAttachments": true},
			ServiceID: id(1), ProjectID: id(2),
			CreatedAt: now.Add(-26 * time.Hour), UpdatedAt: now.Add(-26 * time.Hour),
		},
		4: {
			ID: 4, Title: "Follow up with vendor",
			Content:   "Waiting on the updated quote.",
			Timestamp: ts(now.Add(-2 * day)),
			ServiceID: id(2),
			CreatedAt: now.Add(-2 * day), UpdatedAt: now.Add(-2 * day),
		},
	}

	s.events = map[int64]*model.CalendarEvent{
		1001: {
			ID: 1001, Title: "Redesign sync",
			Start: now.Add(-2 * time.Hour), End: now.Add(-90 * time.Minute),
			Attendees: []string{"ana@example.com", "kim@example.com"},
			ServiceID: id(3), ProjectID: id(1),
			CreatedAt: now.Add(-4 * day), UpdatedAt: now.Add(-4 * day),
		},
		1002: {
			ID: 1002, Title: "1:1 with manager",
			Start: now.Add(day), End: now.Add(day + 30*time.Minute),
			Attendees: []string{"sam@example.com"},
			ServiceID: id(3),
			CreatedAt: now.Add(-7 * day), UpdatedAt: now.Add(-7 * day),
		},
	}

	s.rules = map[int64]*model.Rule{
		1: {
			ID: 1, Name: "Flag urgent email",
			Conditions: []model.RuleCondition{{Field: "title", Operator: "contains", Value: "urgent"}},
			Actions:    []model.RuleAction{{Type: model.ActionSendNotification, Params: map[string]interface{}{"channel": "push"}}},
			Enabled:    true,
			CreatedAt:  now.Add(-12 * day), UpdatedAt: now.Add(-12 * day),
		},
		2: {
			ID: 2, Name: "Block focus time for reviews",
			Conditions: []model.RuleCondition{{Field: "type", Operator: "equals", Value: "email"}, {Field: "metadata.priority", Operator: "equals", Value: "high"}},
			Actions:    []model.RuleAction{{Type: model.ActionBlockCalendar, Params: map[string]interface{}{"duration": "30m"}}, {Type: model.ActionCreateTask}},
			Enabled:    false,
			CreatedAt:  now.Add(-9 * day), UpdatedAt: now.Add(-3 * day),
		},
	}

	return s
}
