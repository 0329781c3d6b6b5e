package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/store/mock"
)

func TestServiceSync(t *testing.T) {
	s := mock.New(0)
	ctx := context.Background()
	svc := NewServiceService(s)

	created, err := svc.CreateService(ctx, &model.Service{Name: "Gmail", Type: model.ServiceTypeEmail, Status: model.StatusDisconnected})
	require.NoError(t, err)
	require.Nil(t, created.LastSync)

	before := time.Now().UTC()
	synced, err := svc.Sync(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusConnected, synced.Status)
	require.NotNil(t, synced.LastSync)
	require.False(t, synced.LastSync.Before(before))
}

func TestServiceConnectDisconnect(t *testing.T) {
	s := mock.New(0)
	ctx := context.Background()
	svc := NewServiceService(s)

	created, err := svc.CreateService(ctx, &model.Service{Name: "Slack", Type: model.ServiceTypeMessaging, Status: model.StatusDisconnected})
	require.NoError(t, err)

	on, err := svc.Connect(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusConnected, on.Status)

	off, err := svc.Disconnect(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusDisconnected, off.Status)

	_, err = svc.Connect(ctx, -1)
	require.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestServiceConfigShallowMerge(t *testing.T) {
	s := mock.New(0)
	ctx := context.Background()
	svc := NewServiceService(s)

	created, err := svc.CreateService(ctx, &model.Service{
		Name: "Gmail", Type: model.ServiceTypeEmail, Status: model.StatusConnected,
		Config: map[string]interface{}{"syncFrequency": "15min", "folders": []interface{}{"INBOX"}},
	})
	require.NoError(t, err)

	upd, err := svc.UpdateConfig(ctx, created.ID, map[string]interface{}{"syncFrequency": "5min", "includeAttachments": true})
	require.NoError(t, err)
	require.Equal(t, "5min", upd.Config["syncFrequency"])
	require.Equal(t, true, upd.Config["includeAttachments"])
	// Untouched keys survive the merge.
	require.Equal(t, []interface{}{"INBOX"}, upd.Config["folders"])

	cfg, err := svc.GetConfig(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, cfg, 3)
}

func TestServiceGetConfigNeverNil(t *testing.T) {
	s := mock.New(0)
	ctx := context.Background()
	svc := NewServiceService(s)

	created, err := svc.CreateService(ctx, &model.Service{Name: "Cal", Type: model.ServiceTypeCalendar, Status: model.StatusConnected})
	require.NoError(t, err)

	cfg, err := svc.GetConfig(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Empty(t, cfg)
}

func TestProjectLinkUnlinkIdempotent(t *testing.T) {
	s := mock.New(0)
	ctx := context.Background()
	ps := NewProjectService(s)

	p, err := ps.CreateProject(ctx, &model.Project{Name: "Launch"})
	require.NoError(t, err)

	once, err := ps.LinkItem(ctx, p.ID, 7)
	require.NoError(t, err)
	twice, err := ps.LinkItem(ctx, p.ID, 7)
	require.NoError(t, err)
	require.Equal(t, once.LinkedItems, twice.LinkedItems)
	require.Equal(t, model.LinkedItems{7}, twice.LinkedItems)

	more, err := ps.LinkItem(ctx, p.ID, 9)
	require.NoError(t, err)
	require.Equal(t, model.LinkedItems{7, 9}, more.LinkedItems)

	gone, err := ps.UnlinkItem(ctx, p.ID, 7)
	require.NoError(t, err)
	require.Equal(t, model.LinkedItems{9}, gone.LinkedItems)

	// Unlinking an absent id is a no-op.
	same, err := ps.UnlinkItem(ctx, p.ID, 7)
	require.NoError(t, err)
	require.Equal(t, model.LinkedItems{9}, same.LinkedItems)

	_, err = ps.LinkItem(ctx, p.ID, 0)
	require.ErrorIs(t, err, model.ErrInvalidArgument)
	_, err = ps.LinkItem(ctx, 0, 7)
	require.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestEventCheckConflicts(t *testing.T) {
	s := mock.New(0)
	ctx := context.Background()
	es := NewEventService(s)

	start := time.Date(2024, 4, 2, 14, 0, 0, 0, time.UTC)
	ev, err := es.CreateEvent(ctx, &model.CalendarEvent{Title: "Sync", Start: start, End: start.Add(time.Hour)})
	require.NoError(t, err)

	hits, err := es.CheckConflicts(ctx, start.Add(30*time.Minute), start.Add(2*time.Hour), 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	// Abutting intervals do not conflict.
	none, err := es.CheckConflicts(ctx, start.Add(time.Hour), start.Add(2*time.Hour), 0)
	require.NoError(t, err)
	require.Empty(t, none)
	none, err = es.CheckConflicts(ctx, start.Add(-time.Hour), start, 0)
	require.NoError(t, err)
	require.Empty(t, none)

	// An event never conflicts with itself when excluded.
	excl, err := es.CheckConflicts(ctx, start, start.Add(time.Hour), ev.ID)
	require.NoError(t, err)
	require.Empty(t, excl)
}

func TestEventDateRange(t *testing.T) {
	s := mock.New(0)
	ctx := context.Background()
	es := NewEventService(s)

	start := time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)
	_, err := es.CreateEvent(ctx, &model.CalendarEvent{Title: "early", Start: start, End: start.Add(time.Hour)})
	require.NoError(t, err)
	_, err = es.CreateEvent(ctx, &model.CalendarEvent{Title: "late", Start: start.Add(26 * time.Hour), End: start.Add(27 * time.Hour)})
	require.NoError(t, err)

	day, err := es.ListByDateRange(ctx, start, start.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, day, 1)
	require.Equal(t, "early", day[0].Title)
}

func TestRuleToggle(t *testing.T) {
	s := mock.New(0)
	ctx := context.Background()
	rs := NewRuleService(s)

	r, err := rs.CreateRule(ctx, &model.Rule{Name: "Flag urgent", Enabled: true})
	require.NoError(t, err)

	off, err := rs.Toggle(ctx, r.ID)
	require.NoError(t, err)
	require.False(t, off.Enabled)

	on, err := rs.Toggle(ctx, r.ID)
	require.NoError(t, err)
	require.True(t, on.Enabled)
}

func TestRuleTestStub(t *testing.T) {
	s := mock.New(0)
	ctx := context.Background()
	rs := NewRuleService(s)

	r, err := rs.CreateRule(ctx, &model.Rule{Name: "Flag urgent", Enabled: true})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		res, err := rs.Test(ctx, r.ID)
		require.NoError(t, err)
		require.True(t, res.Success)
		require.GreaterOrEqual(t, res.Matches, 1)
		require.LessOrEqual(t, res.Matches, 5)
	}

	_, err = rs.Test(ctx, 999)
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = rs.Test(ctx, 0)
	require.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestItemListByServiceValidatesID(t *testing.T) {
	is := NewItemService(mock.New(0))
	_, err := is.ListByService(context.Background(), 0)
	require.ErrorIs(t, err, model.ErrInvalidArgument)
}
