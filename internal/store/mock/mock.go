// Package mock provides an in-process store backed by fixture data. It keeps
// every record in memory, assigns ids one greater than the current maximum,
// and can simulate network latency so the application behaves like it would
// against the hosted backend.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/store"
)

// Store implements store.Store against process-local maps. A single mutex
// guards all collections; the application has one logical caller at a time
// but tests may run requests in parallel.
type Store struct {
	mu      sync.Mutex
	latency time.Duration

	services map[int64]*model.Service
	items    map[int64]*model.UnifiedItem
	events   map[int64]*model.CalendarEvent
	projects map[int64]*model.Project
	rules    map[int64]*model.Rule
}

// New returns an empty mock store with the given artificial latency per call
// (zero disables the delay).
func New(latency time.Duration) *Store {
	return &Store{
		latency:  latency,
		services: map[int64]*model.Service{},
		items:    map[int64]*model.UnifiedItem{},
		events:   map[int64]*model.CalendarEvent{},
		projects: map[int64]*model.Project{},
		rules:    map[int64]*model.Rule{},
	}
}

func (s *Store) Services() store.Services { return &services{s} }
func (s *Store) Items() store.Items       { return &items{s} }
func (s *Store) Events() store.Events     { return &events{s} }
func (s *Store) Projects() store.Projects { return &projects{s} }
func (s *Store) Rules() store.Rules       { return &rules{s} }

// HealthPing implements health.HealthPinger; the mock is always reachable.
func (s *Store) HealthPing(ctx context.Context) error { return ctx.Err() }

// delay simulates one network round trip, honoring context cancellation.
func (s *Store) delay(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func nextID[T any](m map[int64]*T) int64 {
	var max int64
	for id := range m {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// --- Services ---

type services struct{ p *Store }

func cloneService(s *model.Service) *model.Service {
	out := *s
	if s.LastSync != nil {
		t := *s.LastSync
		out.LastSync = &t
	}
	out.Config = cloneMap(s.Config)
	return &out
}

func (c *services) Create(ctx context.Context, in *model.Service) (*model.Service, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	rec := cloneService(in)
	rec.ID = nextID(c.p.services)
	if rec.Status == "" {
		rec.Status = model.StatusDisconnected
	}
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	c.p.services[rec.ID] = rec
	return cloneService(rec), nil
}

func (c *services) Get(ctx context.Context, id int64) (*model.Service, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	rec, ok := c.p.services[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneService(rec), nil
}

func (c *services) List(ctx context.Context) ([]*model.Service, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	out := make([]*model.Service, 0, len(c.p.services))
	for _, rec := range c.p.services {
		out = append(out, cloneService(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *services) Update(ctx context.Context, id int64, p model.ServicePatch) (*model.Service, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	rec, ok := c.p.services[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Type != nil {
		rec.Type = *p.Type
	}
	if p.Status != nil {
		rec.Status = *p.Status
	}
	if p.Icon != nil {
		rec.Icon = *p.Icon
	}
	if p.Color != nil {
		rec.Color = *p.Color
	}
	if p.LastSync != nil {
		t := *p.LastSync
		rec.LastSync = &t
	}
	if p.Config != nil {
		rec.Config = cloneMap(p.Config)
	}
	rec.UpdatedAt = time.Now().UTC()
	return cloneService(rec), nil
}

func (c *services) Delete(ctx context.Context, id int64) error {
	if err := c.p.delay(ctx); err != nil {
		return err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	if _, ok := c.p.services[id]; !ok {
		return model.ErrNotFound
	}
	delete(c.p.services, id)
	return nil
}

// --- Items ---

type items struct{ p *Store }

func cloneItem(it *model.UnifiedItem) *model.UnifiedItem {
	out := *it
	if it.Timestamp != nil {
		t := *it.Timestamp
		out.Timestamp = &t
	}
	out.Metadata = cloneMap(it.Metadata)
	out.ServiceID = cloneID(it.ServiceID)
	out.ProjectID = cloneID(it.ProjectID)
	return &out
}

func (c *items) Create(ctx context.Context, in *model.UnifiedItem) (*model.UnifiedItem, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	rec := cloneItem(in)
	rec.ID = nextID(c.p.items)
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	c.p.items[rec.ID] = rec
	return cloneItem(rec), nil
}

func (c *items) Get(ctx context.Context, id int64) (*model.UnifiedItem, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	rec, ok := c.p.items[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneItem(rec), nil
}

func (c *items) List(ctx context.Context) ([]*model.UnifiedItem, error) {
	return c.filtered(ctx, func(*model.UnifiedItem) bool { return true })
}

func (c *items) ListByType(ctx context.Context, typ string) ([]*model.UnifiedItem, error) {
	return c.filtered(ctx, func(it *model.UnifiedItem) bool { return it.Type == typ })
}

func (c *items) ListByService(ctx context.Context, serviceID int64) ([]*model.UnifiedItem, error) {
	return c.filtered(ctx, func(it *model.UnifiedItem) bool {
		return it.ServiceID != nil && *it.ServiceID == serviceID
	})
}

func (c *items) filtered(ctx context.Context, keep func(*model.UnifiedItem) bool) ([]*model.UnifiedItem, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	var out []*model.UnifiedItem
	for _, rec := range c.p.items {
		if keep(rec) {
			out = append(out, cloneItem(rec))
		}
	}
	// newest first, matching the sqlite backend's default order
	sort.Slice(out, func(i, j int) bool {
		ti, tj := itemTime(out[i]), itemTime(out[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func itemTime(it *model.UnifiedItem) time.Time {
	if it.Timestamp != nil {
		return *it.Timestamp
	}
	return time.Time{}
}

func (c *items) Update(ctx context.Context, id int64, p model.ItemPatch) (*model.UnifiedItem, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	rec, ok := c.p.items[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	if p.Type != nil {
		rec.Type = *p.Type
	}
	if p.Title != nil {
		rec.Title = *p.Title
	}
	if p.Content != nil {
		rec.Content = *p.Content
	}
	if p.Timestamp != nil {
		t := *p.Timestamp
		rec.Timestamp = &t
	}
	if p.Metadata != nil {
		rec.Metadata = cloneMap(p.Metadata)
	}
	if p.ServiceID != nil {
		rec.ServiceID = cloneID(p.ServiceID)
	}
	if p.ProjectID != nil {
		rec.ProjectID = cloneID(p.ProjectID)
	}
	rec.UpdatedAt = time.Now().UTC()
	return cloneItem(rec), nil
}

func (c *items) Delete(ctx context.Context, id int64) error {
	if err := c.p.delay(ctx); err != nil {
		return err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	if _, ok := c.p.items[id]; !ok {
		return model.ErrNotFound
	}
	delete(c.p.items, id)
	return nil
}

// --- Events ---

type events struct{ p *Store }

func cloneEvent(e *model.CalendarEvent) *model.CalendarEvent {
	out := *e
	out.Attendees = append([]string(nil), e.Attendees...)
	out.ServiceID = cloneID(e.ServiceID)
	out.ProjectID = cloneID(e.ProjectID)
	return &out
}

func (c *events) Create(ctx context.Context, in *model.CalendarEvent) (*model.CalendarEvent, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	rec := cloneEvent(in)
	rec.ID = nextID(c.p.events)
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	c.p.events[rec.ID] = rec
	return cloneEvent(rec), nil
}

func (c *events) Get(ctx context.Context, id int64) (*model.CalendarEvent, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	rec, ok := c.p.events[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneEvent(rec), nil
}

func (c *events) List(ctx context.Context) ([]*model.CalendarEvent, error) {
	return c.filtered(ctx, func(*model.CalendarEvent) bool { return true })
}

func (c *events) ListByRange(ctx context.Context, from, to time.Time) ([]*model.CalendarEvent, error) {
	return c.filtered(ctx, func(e *model.CalendarEvent) bool {
		return !e.Start.Before(from) && !e.Start.After(to)
	})
}

func (c *events) ListOverlapping(ctx context.Context, start, end time.Time) ([]*model.CalendarEvent, error) {
	return c.filtered(ctx, func(e *model.CalendarEvent) bool {
		return e.Overlaps(start, end)
	})
}

func (c *events) filtered(ctx context.Context, keep func(*model.CalendarEvent) bool) ([]*model.CalendarEvent, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	var out []*model.CalendarEvent
	for _, rec := range c.p.events {
		if keep(rec) {
			out = append(out, cloneEvent(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (c *events) Update(ctx context.Context, id int64, p model.EventPatch) (*model.CalendarEvent, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	rec, ok := c.p.events[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	if p.Title != nil {
		rec.Title = *p.Title
	}
	if p.Start != nil {
		rec.Start = *p.Start
	}
	if p.End != nil {
		rec.End = *p.End
	}
	if p.Attendees != nil {
		rec.Attendees = append([]string(nil), p.Attendees...)
	}
	if p.ServiceID != nil {
		rec.ServiceID = cloneID(p.ServiceID)
	}
	if p.ProjectID != nil {
		rec.ProjectID = cloneID(p.ProjectID)
	}
	rec.UpdatedAt = time.Now().UTC()
	return cloneEvent(rec), nil
}

func (c *events) Delete(ctx context.Context, id int64) error {
	if err := c.p.delay(ctx); err != nil {
		return err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	if _, ok := c.p.events[id]; !ok {
		return model.ErrNotFound
	}
	delete(c.p.events, id)
	return nil
}

// --- Projects ---

type projects struct{ p *Store }

func cloneProject(pj *model.Project) *model.Project {
	out := *pj
	out.LinkedItems = append(model.LinkedItems(nil), pj.LinkedItems...)
	return &out
}

func (c *projects) Create(ctx context.Context, in *model.Project) (*model.Project, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	rec := cloneProject(in)
	rec.ID = nextID(c.p.projects)
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	c.p.projects[rec.ID] = rec
	return cloneProject(rec), nil
}

func (c *projects) Get(ctx context.Context, id int64) (*model.Project, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	rec, ok := c.p.projects[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneProject(rec), nil
}

func (c *projects) List(ctx context.Context) ([]*model.Project, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	out := make([]*model.Project, 0, len(c.p.projects))
	for _, rec := range c.p.projects {
		out = append(out, cloneProject(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (c *projects) Update(ctx context.Context, id int64, p model.ProjectPatch) (*model.Project, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	rec, ok := c.p.projects[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Description != nil {
		rec.Description = *p.Description
	}
	if p.Color != nil {
		rec.Color = *p.Color
	}
	if p.LinkedItems != nil {
		rec.LinkedItems = append(model.LinkedItems(nil), *p.LinkedItems...)
	}
	rec.UpdatedAt = time.Now().UTC()
	return cloneProject(rec), nil
}

func (c *projects) Delete(ctx context.Context, id int64) error {
	if err := c.p.delay(ctx); err != nil {
		return err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	if _, ok := c.p.projects[id]; !ok {
		return model.ErrNotFound
	}
	delete(c.p.projects, id)
	return nil
}

// --- Rules ---

type rules struct{ p *Store }

func cloneRule(r *model.Rule) *model.Rule {
	out := *r
	out.Conditions = append([]model.RuleCondition(nil), r.Conditions...)
	out.Actions = make([]model.RuleAction, 0, len(r.Actions))
	for _, a := range r.Actions {
		out.Actions = append(out.Actions, model.RuleAction{Type: a.Type, Params: cloneMap(a.Params)})
	}
	return &out
}

func (c *rules) Create(ctx context.Context, in *model.Rule) (*model.Rule, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	rec := cloneRule(in)
	rec.ID = nextID(c.p.rules)
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	c.p.rules[rec.ID] = rec
	return cloneRule(rec), nil
}

func (c *rules) Get(ctx context.Context, id int64) (*model.Rule, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	rec, ok := c.p.rules[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneRule(rec), nil
}

func (c *rules) List(ctx context.Context) ([]*model.Rule, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	out := make([]*model.Rule, 0, len(c.p.rules))
	for _, rec := range c.p.rules {
		out = append(out, cloneRule(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *rules) Update(ctx context.Context, id int64, p model.RulePatch) (*model.Rule, error) {
	if err := c.p.delay(ctx); err != nil {
		return nil, err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	rec, ok := c.p.rules[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Conditions != nil {
		rec.Conditions = append([]model.RuleCondition(nil), (*p.Conditions)...)
	}
	if p.Actions != nil {
		rec.Actions = append([]model.RuleAction(nil), (*p.Actions)...)
	}
	if p.Enabled != nil {
		rec.Enabled = *p.Enabled
	}
	rec.UpdatedAt = time.Now().UTC()
	return cloneRule(rec), nil
}

func (c *rules) Delete(ctx context.Context, id int64) error {
	if err := c.p.delay(ctx); err != nil {
		return err
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()

	if _, ok := c.p.rules[id]; !ok {
		return model.ErrNotFound
	}
	delete(c.p.rules, id)
	return nil
}

// --- helpers ---

func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneID(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
