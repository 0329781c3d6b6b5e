package services

import (
	"context"
	"time"

	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/store"
)

// EventService manages calendar events and conflict detection.
type EventService struct {
	store store.Store
}

func NewEventService(s store.Store) *EventService {
	return &EventService{store: s}
}

func (s *EventService) CreateEvent(ctx context.Context, in *model.CalendarEvent) (*model.CalendarEvent, error) {
	return s.store.Events().Create(ctx, in)
}

func (s *EventService) GetEvent(ctx context.Context, id int64) (*model.CalendarEvent, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.Events().Get(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context) ([]*model.CalendarEvent, error) {
	return s.store.Events().List(ctx)
}

// ListByDateRange returns events starting within [from, to].
func (s *EventService) ListByDateRange(ctx context.Context, from, to time.Time) ([]*model.CalendarEvent, error) {
	return s.store.Events().ListByRange(ctx, from, to)
}

// CheckConflicts returns events overlapping the given window. Overlap is
// half-open: an event ending exactly at start, or starting exactly at end,
// does not conflict. excludeID, when > 0, omits that event from the result
// so an event does not conflict with itself during reschedule checks.
func (s *EventService) CheckConflicts(ctx context.Context, start, end time.Time, excludeID int64) ([]*model.CalendarEvent, error) {
	overlapping, err := s.store.Events().ListOverlapping(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if excludeID <= 0 {
		return overlapping, nil
	}
	out := overlapping[:0]
	for _, ev := range overlapping {
		if ev.ID != excludeID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, id int64, p model.EventPatch) (*model.CalendarEvent, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.Events().Update(ctx, id, p)
}

func (s *EventService) DeleteEvent(ctx context.Context, id int64) error {
	if err := model.ValidateID(id); err != nil {
		return err
	}
	return s.store.Events().Delete(ctx, id)
}
