package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Service is a connected external account (email, messaging or calendar
// provider) with its connection status and sync state.
type Service struct {
	ID        int64                  `json:"id"`
	Name      string                 `json:"name"`
	Type      string                 `json:"type"`
	Status    string                 `json:"status"`
	Icon      string                 `json:"icon,omitempty"`
	Color     string                 `json:"color,omitempty"`
	LastSync  *time.Time             `json:"lastSync,omitempty"`
	Config    map[string]interface{} `json:"config,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// Service types.
const (
	ServiceTypeEmail     = "email"
	ServiceTypeMessaging = "messaging"
	ServiceTypeCalendar  = "calendar"
	ServiceTypeOther     = "other"
)

// Service connection statuses.
const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusSyncing      = "syncing"
)

// UnifiedItem is a generic inbox entry sourced from a connected service.
// Timestamp is the item's own time (when the email arrived, the message was
// sent, ...); CreatedAt/UpdatedAt are record bookkeeping.
type UnifiedItem struct {
	ID        int64                  `json:"id"`
	Type      string                 `json:"type,omitempty"`
	Title     string                 `json:"title"`
	Content   string                 `json:"content,omitempty"`
	Timestamp *time.Time             `json:"timestamp,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	ServiceID *int64                 `json:"serviceId,omitempty"`
	ProjectID *int64                 `json:"projectId,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// CalendarEvent is a time-bounded record with attendees. Start <= End is
// assumed but not validated; overlap checks treat the interval as half-open.
type CalendarEvent struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Start     time.Time  `json:"start"`
	End       time.Time  `json:"end"`
	Attendees []string   `json:"attendees,omitempty"`
	ServiceID *int64     `json:"serviceId,omitempty"`
	ProjectID *int64     `json:"projectId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Overlaps reports whether the event overlaps [start, end) using the
// half-open predicate: e.Start < end AND e.End > start. Abutting events do
// not overlap.
func (e *CalendarEvent) Overlaps(start, end time.Time) bool {
	return e.Start.Before(end) && e.End.After(start)
}

// Project groups linked items and events under a user-defined name.
type Project struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Color       string      `json:"color,omitempty"`
	LinkedItems LinkedItems `json:"linkedItems"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// LinkedItems is an ordered, duplicate-free list of record ids. Backends have
// historically stored this field as a JSON number array, a string array or a
// comma-joined string; decoding normalizes all three once, at the boundary.
type LinkedItems []int64

// Contains reports membership of id.
func (l LinkedItems) Contains(id int64) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Add appends id if absent and returns the resulting list.
func (l LinkedItems) Add(id int64) LinkedItems {
	if l.Contains(id) {
		return l
	}
	return append(l, id)
}

// Remove drops id if present and returns the resulting list.
func (l LinkedItems) Remove(id int64) LinkedItems {
	out := l[:0:0]
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// UnmarshalJSON accepts [1,2], ["1","2"] or "1,2" and drops anything that
// does not parse as an integer id.
func (l *LinkedItems) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}
	if data[0] == '"' {
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return err
		}
		*l = parseIDList(strings.Split(joined, ","))
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(LinkedItems, 0, len(raw))
	for _, r := range raw {
		var n int64
		if err := json.Unmarshal(r, &n); err == nil {
			out = out.Add(n)
			continue
		}
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			return err
		}
		if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			out = out.Add(id)
		}
	}
	*l = out
	return nil
}

// MarshalJSON always emits a JSON array, never null.
func (l LinkedItems) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int64(l))
}

func parseIDList(parts []string) LinkedItems {
	out := make(LinkedItems, 0, len(parts))
	for _, p := range parts {
		if id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64); err == nil {
			out = out.Add(id)
		}
	}
	return out
}

// RuleCondition is a single field/operator/value predicate.
type RuleCondition struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// RuleAction is a typed automation action with type-specific parameters.
type RuleAction struct {
	Type   string                 `json:"type"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// Rule action types.
const (
	ActionCreateTask       = "create_task"
	ActionSendNotification = "send_notification"
	ActionBlockCalendar    = "block_calendar"
)

// Rule is a user-defined condition/action pair. Evaluation against real data
// is not implemented; RuleService.Test is an explicit stub.
type Rule struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Conditions []RuleCondition `json:"conditions"`
	Actions    []RuleAction    `json:"actions"`
	Enabled    bool            `json:"enabled"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ServiceRef is the resolved-service annotation carried by timeline entries.
type ServiceRef struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// TimelineEntry is an ephemeral, annotated view of a UnifiedItem or a
// CalendarEvent. It is never persisted; the aggregator rebuilds it per call.
type TimelineEntry struct {
	ID          int64                  `json:"id"`
	Type        string                 `json:"type"`
	Title       string                 `json:"title"`
	Content     string                 `json:"content,omitempty"`
	Date        *time.Time             `json:"date,omitempty"`
	Start       *time.Time             `json:"start,omitempty"`
	End         *time.Time             `json:"end,omitempty"`
	Attendees   []string               `json:"attendees,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	ServiceID   *int64                 `json:"serviceId,omitempty"`
	ProjectID   *int64                 `json:"projectId,omitempty"`
	Service     ServiceRef             `json:"service"`
	ProjectName string                 `json:"projectName"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// SortTime returns the timestamp the timeline orders by: the entry's own
// date when present, then CreatedAt, then UpdatedAt.
func (e *TimelineEntry) SortTime() time.Time {
	if e.Date != nil {
		return *e.Date
	}
	if !e.CreatedAt.IsZero() {
		return e.CreatedAt
	}
	return e.UpdatedAt
}

// TimelineStats summarizes a timeline.
type TimelineStats struct {
	Total          int             `json:"total"`
	ByType         map[string]int  `json:"byType"`
	ByService      map[string]int  `json:"byService"`
	RecentActivity []TimelineEntry `json:"recentActivity"`
}

// RuleTestResult is the stubbed outcome of RuleService.Test.
type RuleTestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Matches int    `json:"matches"`
}
