package store

import (
	"context"
	"time"

	"github.com/unifyhub/unifyhub/internal/model"
)

// Store exposes the five record collections required by services and the
// timeline aggregator. Implementations live under internal/store/<driver>/
// (sqlite, postgres, mock, remote) and are source of truth for all records.
type Store interface {
	Services() Services
	Items() Items
	Events() Events
	Projects() Projects
	Rules() Rules
}

// Services is the connected-service collection. List returns services in id
// order.
type Services interface {
	Create(ctx context.Context, s *model.Service) (*model.Service, error)
	Get(ctx context.Context, id int64) (*model.Service, error)
	List(ctx context.Context) ([]*model.Service, error)
	Update(ctx context.Context, id int64, p model.ServicePatch) (*model.Service, error)
	Delete(ctx context.Context, id int64) error
}

// Items is the unified-item collection. List orders by item timestamp
// descending, newest first.
type Items interface {
	Create(ctx context.Context, it *model.UnifiedItem) (*model.UnifiedItem, error)
	Get(ctx context.Context, id int64) (*model.UnifiedItem, error)
	List(ctx context.Context) ([]*model.UnifiedItem, error)
	ListByType(ctx context.Context, typ string) ([]*model.UnifiedItem, error)
	ListByService(ctx context.Context, serviceID int64) ([]*model.UnifiedItem, error)
	Update(ctx context.Context, id int64, p model.ItemPatch) (*model.UnifiedItem, error)
	Delete(ctx context.Context, id int64) error
}

// Events is the calendar-event collection. List and ListByRange order by
// start ascending. ListOverlapping returns events satisfying the half-open
// overlap predicate start < end AND end > start against the query interval.
type Events interface {
	Create(ctx context.Context, e *model.CalendarEvent) (*model.CalendarEvent, error)
	Get(ctx context.Context, id int64) (*model.CalendarEvent, error)
	List(ctx context.Context) ([]*model.CalendarEvent, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]*model.CalendarEvent, error)
	ListOverlapping(ctx context.Context, start, end time.Time) ([]*model.CalendarEvent, error)
	Update(ctx context.Context, id int64, p model.EventPatch) (*model.CalendarEvent, error)
	Delete(ctx context.Context, id int64) error
}

// Projects is the project collection. List orders by creation time
// descending.
type Projects interface {
	Create(ctx context.Context, p *model.Project) (*model.Project, error)
	Get(ctx context.Context, id int64) (*model.Project, error)
	List(ctx context.Context) ([]*model.Project, error)
	Update(ctx context.Context, id int64, p model.ProjectPatch) (*model.Project, error)
	Delete(ctx context.Context, id int64) error
}

// Rules is the automation-rule collection. List returns rules in id order.
type Rules interface {
	Create(ctx context.Context, r *model.Rule) (*model.Rule, error)
	Get(ctx context.Context, id int64) (*model.Rule, error)
	List(ctx context.Context) ([]*model.Rule, error)
	Update(ctx context.Context, id int64, p model.RulePatch) (*model.Rule, error)
	Delete(ctx context.Context, id int64) error
}
