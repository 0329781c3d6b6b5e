// Package remote implements the store against the hosted table API. Records
// travel as JSON shaped exactly like the model types; the client maps HTTP
// 404 to model.ErrNotFound and every other failure to model.ErrBackend.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/store"
)

const defaultTimeout = 30 * time.Second

// Store is a resty-backed store.Store implementation.
type Store struct {
	client *resty.Client
}

// New creates a remote store against baseURL. apiKey may be empty for
// unauthenticated deployments.
func New(baseURL, apiKey string) *Store {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(defaultTimeout)
	if apiKey != "" {
		c.SetHeader("Authorization", "Bearer "+apiKey)
	}
	return &Store{client: c}
}

// NewWithClient wires the store onto a preconfigured resty client (tests).
func NewWithClient(c *resty.Client) *Store { return &Store{client: c} }

func (s *Store) Services() store.Services { return &services{s} }
func (s *Store) Items() store.Items       { return &items{s} }
func (s *Store) Events() store.Events     { return &events{s} }
func (s *Store) Projects() store.Projects { return &projects{s} }
func (s *Store) Rules() store.Rules       { return &rules{s} }

// HealthPing implements health.HealthPinger via the backend health endpoint.
func (s *Store) HealthPing(ctx context.Context) error {
	resp, err := s.client.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrBackend, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: health returned %s", model.ErrBackend, resp.Status())
	}
	return nil
}

// listEnvelope matches the hosted API's list response shape.
type listEnvelope[T any] struct {
	Records []T `json:"records"`
	Count   int `json:"count"`
}

func checkResp(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrBackend, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return model.ErrNotFound
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s returned %s", model.ErrBackend, resp.Request.URL, resp.Status())
	}
	return nil
}

func list[T any](ctx context.Context, s *Store, collection string, query map[string]string) ([]*T, error) {
	var env listEnvelope[*T]
	req := s.client.R().SetContext(ctx).SetResult(&env)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get("/records/" + collection)
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return env.Records, nil
}

func get[T any](ctx context.Context, s *Store, collection string, id int64) (*T, error) {
	var out T
	resp, err := s.client.R().SetContext(ctx).SetResult(&out).
		Get(fmt.Sprintf("/records/%s/%d", collection, id))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func create[T any](ctx context.Context, s *Store, collection string, in *T) (*T, error) {
	var out T
	resp, err := s.client.R().SetContext(ctx).SetBody(in).SetResult(&out).
		Post("/records/" + collection)
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func update[T any](ctx context.Context, s *Store, collection string, id int64, patch interface{}) (*T, error) {
	var out T
	resp, err := s.client.R().SetContext(ctx).SetBody(patch).SetResult(&out).
		Patch(fmt.Sprintf("/records/%s/%d", collection, id))
	if err := checkResp(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func remove(ctx context.Context, s *Store, collection string, id int64) error {
	resp, err := s.client.R().SetContext(ctx).
		Delete(fmt.Sprintf("/records/%s/%d", collection, id))
	return checkResp(resp, err)
}

// --- Services ---

type services struct{ p *Store }

func (c *services) Create(ctx context.Context, in *model.Service) (*model.Service, error) {
	return create[model.Service](ctx, c.p, "services", in)
}
func (c *services) Get(ctx context.Context, id int64) (*model.Service, error) {
	return get[model.Service](ctx, c.p, "services", id)
}
func (c *services) List(ctx context.Context) ([]*model.Service, error) {
	return list[model.Service](ctx, c.p, "services", nil)
}
func (c *services) Update(ctx context.Context, id int64, p model.ServicePatch) (*model.Service, error) {
	return update[model.Service](ctx, c.p, "services", id, p)
}
func (c *services) Delete(ctx context.Context, id int64) error {
	return remove(ctx, c.p, "services", id)
}

// --- Items ---

type items struct{ p *Store }

func (c *items) Create(ctx context.Context, in *model.UnifiedItem) (*model.UnifiedItem, error) {
	return create[model.UnifiedItem](ctx, c.p, "unified_items", in)
}
func (c *items) Get(ctx context.Context, id int64) (*model.UnifiedItem, error) {
	return get[model.UnifiedItem](ctx, c.p, "unified_items", id)
}
func (c *items) List(ctx context.Context) ([]*model.UnifiedItem, error) {
	return list[model.UnifiedItem](ctx, c.p, "unified_items", nil)
}
func (c *items) ListByType(ctx context.Context, typ string) ([]*model.UnifiedItem, error) {
	return list[model.UnifiedItem](ctx, c.p, "unified_items", map[string]string{"type": typ})
}
func (c *items) ListByService(ctx context.Context, serviceID int64) ([]*model.UnifiedItem, error) {
	return list[model.UnifiedItem](ctx, c.p, "unified_items", map[string]string{"serviceId": fmt.Sprint(serviceID)})
}
func (c *items) Update(ctx context.Context, id int64, p model.ItemPatch) (*model.UnifiedItem, error) {
	return update[model.UnifiedItem](ctx, c.p, "unified_items", id, p)
}
func (c *items) Delete(ctx context.Context, id int64) error {
	return remove(ctx, c.p, "unified_items", id)
}

// --- Events ---

type events struct{ p *Store }

func (c *events) Create(ctx context.Context, in *model.CalendarEvent) (*model.CalendarEvent, error) {
	return create[model.CalendarEvent](ctx, c.p, "calendar_events", in)
}
func (c *events) Get(ctx context.Context, id int64) (*model.CalendarEvent, error) {
	return get[model.CalendarEvent](ctx, c.p, "calendar_events", id)
}
func (c *events) List(ctx context.Context) ([]*model.CalendarEvent, error) {
	return list[model.CalendarEvent](ctx, c.p, "calendar_events", nil)
}
func (c *events) ListByRange(ctx context.Context, from, to time.Time) ([]*model.CalendarEvent, error) {
	return list[model.CalendarEvent](ctx, c.p, "calendar_events", map[string]string{
		"startFrom": from.UTC().Format(time.RFC3339),
		"startTo":   to.UTC().Format(time.RFC3339),
	})
}
func (c *events) ListOverlapping(ctx context.Context, start, end time.Time) ([]*model.CalendarEvent, error) {
	return list[model.CalendarEvent](ctx, c.p, "calendar_events", map[string]string{
		"overlapsFrom": start.UTC().Format(time.RFC3339),
		"overlapsTo":   end.UTC().Format(time.RFC3339),
	})
}
func (c *events) Update(ctx context.Context, id int64, p model.EventPatch) (*model.CalendarEvent, error) {
	return update[model.CalendarEvent](ctx, c.p, "calendar_events", id, p)
}
func (c *events) Delete(ctx context.Context, id int64) error {
	return remove(ctx, c.p, "calendar_events", id)
}

// --- Projects ---

type projects struct{ p *Store }

func (c *projects) Create(ctx context.Context, in *model.Project) (*model.Project, error) {
	return create[model.Project](ctx, c.p, "projects", in)
}
func (c *projects) Get(ctx context.Context, id int64) (*model.Project, error) {
	return get[model.Project](ctx, c.p, "projects", id)
}
func (c *projects) List(ctx context.Context) ([]*model.Project, error) {
	return list[model.Project](ctx, c.p, "projects", nil)
}
func (c *projects) Update(ctx context.Context, id int64, p model.ProjectPatch) (*model.Project, error) {
	return update[model.Project](ctx, c.p, "projects", id, p)
}
func (c *projects) Delete(ctx context.Context, id int64) error {
	return remove(ctx, c.p, "projects", id)
}

// --- Rules ---

type rules struct{ p *Store }

func (c *rules) Create(ctx context.Context, in *model.Rule) (*model.Rule, error) {
	return create[model.Rule](ctx, c.p, "rules", in)
}
func (c *rules) Get(ctx context.Context, id int64) (*model.Rule, error) {
	return get[model.Rule](ctx, c.p, "rules", id)
}
func (c *rules) List(ctx context.Context) ([]*model.Rule, error) {
	return list[model.Rule](ctx, c.p, "rules", nil)
}
func (c *rules) Update(ctx context.Context, id int64, p model.RulePatch) (*model.Rule, error) {
	return update[model.Rule](ctx, c.p, "rules", id, p)
}
func (c *rules) Delete(ctx context.Context, id int64) error {
	return remove(ctx, c.p, "rules", id)
}
