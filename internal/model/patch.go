package model

import "time"

// Patch types describe partial updates: nil fields are left untouched,
// non-nil fields replace the stored value wholesale. Identifiers are
// immutable and therefore absent. Shallow config merging is a service-layer
// concern; the store only ever sees whole-field replacement.

// ServicePatch is a partial Service update.
type ServicePatch struct {
	Name     *string                `json:"name,omitempty"`
	Type     *string                `json:"type,omitempty"`
	Status   *string                `json:"status,omitempty"`
	Icon     *string                `json:"icon,omitempty"`
	Color    *string                `json:"color,omitempty"`
	LastSync *time.Time             `json:"lastSync,omitempty"`
	Config   map[string]interface{} `json:"config,omitempty"`
}

// ItemPatch is a partial UnifiedItem update.
type ItemPatch struct {
	Type      *string                `json:"type,omitempty"`
	Title     *string                `json:"title,omitempty"`
	Content   *string                `json:"content,omitempty"`
	Timestamp *time.Time             `json:"timestamp,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	ServiceID *int64                 `json:"serviceId,omitempty"`
	ProjectID *int64                 `json:"projectId,omitempty"`
}

// EventPatch is a partial CalendarEvent update.
type EventPatch struct {
	Title     *string    `json:"title,omitempty"`
	Start     *time.Time `json:"start,omitempty"`
	End       *time.Time `json:"end,omitempty"`
	Attendees []string   `json:"attendees,omitempty"`
	ServiceID *int64     `json:"serviceId,omitempty"`
	ProjectID *int64     `json:"projectId,omitempty"`
}

// ProjectPatch is a partial Project update.
type ProjectPatch struct {
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Color       *string      `json:"color,omitempty"`
	LinkedItems *LinkedItems `json:"linkedItems,omitempty"`
}

// RulePatch is a partial Rule update.
type RulePatch struct {
	Name       *string          `json:"name,omitempty"`
	Conditions *[]RuleCondition `json:"conditions,omitempty"`
	Actions    *[]RuleAction    `json:"actions,omitempty"`
	Enabled    *bool            `json:"enabled,omitempty"`
}
