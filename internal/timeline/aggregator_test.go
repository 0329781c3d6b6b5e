package timeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/store"
	"github.com/unifyhub/unifyhub/internal/store/mock"
)

func seedProject(t *testing.T, s store.Store, name string) *model.Project {
	t.Helper()
	p, err := s.Projects().Create(context.Background(), &model.Project{Name: name})
	require.NoError(t, err)
	return p
}

func seedItem(t *testing.T, s store.Store, title, typ string, ts time.Time, serviceID, projectID *int64) *model.UnifiedItem {
	t.Helper()
	it, err := s.Items().Create(context.Background(), &model.UnifiedItem{
		Type: typ, Title: title, Timestamp: &ts, ServiceID: serviceID, ProjectID: projectID,
	})
	require.NoError(t, err)
	return it
}

func seedEvent(t *testing.T, s store.Store, title string, start time.Time, serviceID, projectID *int64) *model.CalendarEvent {
	t.Helper()
	ev, err := s.Events().Create(context.Background(), &model.CalendarEvent{
		Title: title, Start: start, End: start.Add(time.Hour), ServiceID: serviceID, ProjectID: projectID,
	})
	require.NoError(t, err)
	return ev
}

func TestProjectTimelineOrdering(t *testing.T) {
	s := mock.New(0)
	ctx := context.Background()

	p := seedProject(t, s, "Launch")
	t1 := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(4 * time.Hour)
	t3 := t1.Add(2 * time.Hour)

	seedItem(t, s, "older item", "email", t1, nil, &p.ID)
	seedItem(t, s, "newer item", "message", t2, nil, &p.ID)
	seedEvent(t, s, "midday event", t3, nil, &p.ID)
	// Unrelated records must not leak into the project view.
	seedItem(t, s, "stray item", "email", t2, nil, nil)

	entries, err := NewAggregator(s).ProjectTimeline(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "newer item", entries[0].Title)
	require.Equal(t, "midday event", entries[1].Title)
	require.Equal(t, "older item", entries[2].Title)
	for _, e := range entries {
		require.Equal(t, "Launch", e.ProjectName)
	}
}

func TestProjectTimelineBadIDs(t *testing.T) {
	agg := NewAggregator(mock.New(0))

	for _, id := range []int64{0, -3} {
		_, err := agg.ProjectTimeline(context.Background(), id)
		require.ErrorIs(t, err, model.ErrInvalidArgument, "id=%d", id)
	}
	_, err := agg.ProjectTimeline(context.Background(), 77)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestAnnotationFallbacks(t *testing.T) {
	s := mock.New(0)
	ctx := context.Background()

	p := seedProject(t, s, "Inbox Zero")
	when := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	seedItem(t, s, "untyped note", "", when, nil, &p.ID)
	seedEvent(t, s, "planning", when.Add(time.Hour), nil, &p.ID)

	entries, err := NewAggregator(s).ProjectTimeline(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Events sort newer here; index 1 is the item.
	item, event := entries[1], entries[0]
	require.Equal(t, "task", item.Type)
	require.Equal(t, "Unknown", item.Service.Name)
	require.Equal(t, "#6B7280", item.Service.Color)
	require.Equal(t, "event", event.Type)
	require.Equal(t, "Calendar", event.Service.Name)
	require.Equal(t, "#3B82F6", event.Service.Color)
}

func TestResolvedServiceAnnotation(t *testing.T) {
	s := mock.New(0)
	ctx := context.Background()

	svc, err := s.Services().Create(ctx, &model.Service{Name: "Gmail", Type: model.ServiceTypeEmail, Status: model.StatusConnected, Color: "#EA4335"})
	require.NoError(t, err)
	p := seedProject(t, s, "Mail triage")
	seedItem(t, s, "newsletter", "email", time.Now().UTC(), &svc.ID, &p.ID)

	entries, err := NewAggregator(s).ProjectTimeline(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, svc.ID, entries[0].Service.ID)
	require.Equal(t, "Gmail", entries[0].Service.Name)
	require.Equal(t, "#EA4335", entries[0].Service.Color)
}

func TestAllTimelinesProjectNames(t *testing.T) {
	s := mock.New(0)
	ctx := context.Background()

	p := seedProject(t, s, "Ops")
	when := time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)
	dangling := p.ID + 100
	seedItem(t, s, "owned", "email", when, nil, &p.ID)
	seedItem(t, s, "orphan", "email", when.Add(time.Minute), nil, nil)
	seedItem(t, s, "dangling", "email", when.Add(2*time.Minute), nil, &dangling)

	entries, err := NewAggregator(s).AllTimelines(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byTitle := map[string]string{}
	for _, e := range entries {
		byTitle[e.Title] = e.ProjectName
	}
	require.Equal(t, "Ops", byTitle["owned"])
	require.Equal(t, "Unknown Project", byTitle["orphan"])
	require.Equal(t, "Unknown Project", byTitle["dangling"])
}

func TestEntryByID(t *testing.T) {
	s := mock.New(0)
	ctx := context.Background()
	agg := NewAggregator(s)

	_, err := agg.EntryByID(ctx, 0)
	require.ErrorIs(t, err, model.ErrInvalidArgument)

	// A well-formed id absent from both collections is an absence, not an error.
	entry, err := agg.EntryByID(ctx, 123456)
	require.NoError(t, err)
	require.Nil(t, entry)

	it := seedItem(t, s, "hit me", "email", time.Now().UTC(), nil, nil)
	entry, err = agg.EntryByID(ctx, it.ID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, "hit me", entry.Title)
	require.Equal(t, "email", entry.Type)

	// Items are probed first; use an id only the event collection holds.
	seedEvent(t, s, "warmup", time.Now().UTC(), nil, nil)
	ev := seedEvent(t, s, "the standup", time.Now().UTC().Add(time.Hour), nil, nil)
	require.NotEqual(t, it.ID, ev.ID)
	entry, err = agg.EntryByID(ctx, ev.ID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	require.Equal(t, "event", entry.Type)
	require.Equal(t, "the standup", entry.Title)
}

func TestStats(t *testing.T) {
	s := mock.New(0)
	ctx := context.Background()

	svc, err := s.Services().Create(ctx, &model.Service{Name: "Slack", Type: model.ServiceTypeMessaging, Status: model.StatusConnected})
	require.NoError(t, err)
	p := seedProject(t, s, "Stats")
	base := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		seedItem(t, s, fmt.Sprintf("msg %d", i), "message", base.Add(time.Duration(i)*time.Minute), &svc.ID, &p.ID)
	}
	seedEvent(t, s, "review", base.Add(time.Hour), nil, &p.ID)

	stats, err := NewAggregator(s).Stats(ctx, &p.ID)
	require.NoError(t, err)
	require.Equal(t, 7, stats.Total)
	require.Equal(t, 6, stats.ByType["message"])
	require.Equal(t, 1, stats.ByType["event"])
	require.Equal(t, 6, stats.ByService["Slack"])
	require.Equal(t, 1, stats.ByService["Calendar"])
	require.Len(t, stats.RecentActivity, 5)
	require.Equal(t, "review", stats.RecentActivity[0].Title)

	// Without a project id the stats cover everything.
	all, err := NewAggregator(s).Stats(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 7, all.Total)
}

func TestNoPartialResults(t *testing.T) {
	s := &failingItems{Store: mock.New(0)}
	seedProject(t, s, "Doomed")

	_, err := NewAggregator(s).AllTimelines(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, errItemsDown))
}

var errItemsDown = errors.New("items collection down")

// failingItems wraps the mock store with an item collection that always fails.
type failingItems struct {
	*mock.Store
}

func (f *failingItems) Items() store.Items { return brokenItems{} }

type brokenItems struct{}

func (brokenItems) Create(context.Context, *model.UnifiedItem) (*model.UnifiedItem, error) {
	return nil, errItemsDown
}
func (brokenItems) Get(context.Context, int64) (*model.UnifiedItem, error) {
	return nil, errItemsDown
}
func (brokenItems) List(context.Context) ([]*model.UnifiedItem, error) { return nil, errItemsDown }
func (brokenItems) ListByType(context.Context, string) ([]*model.UnifiedItem, error) {
	return nil, errItemsDown
}
func (brokenItems) ListByService(context.Context, int64) ([]*model.UnifiedItem, error) {
	return nil, errItemsDown
}
func (brokenItems) Update(context.Context, int64, model.ItemPatch) (*model.UnifiedItem, error) {
	return nil, errItemsDown
}
func (brokenItems) Delete(context.Context, int64) error { return errItemsDown }
