// Package timeline merges unified items and calendar events into a single
// annotated, chronologically sorted view. The aggregator owns no state; every
// call recomputes the merge from fresh store reads.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/store"
)

// Placeholder annotations used when a referenced service cannot be resolved.
var (
	unknownServiceRef  = model.ServiceRef{Name: "Unknown", Color: "#6B7280"}
	calendarServiceRef = model.ServiceRef{Name: "Calendar", Color: "#3B82F6"}
)

const unknownProjectName = "Unknown Project"

// Aggregator builds timeline views over a record store.
type Aggregator struct {
	store store.Store
}

func NewAggregator(s store.Store) *Aggregator {
	return &Aggregator{store: s}
}

// ProjectTimeline returns all entries belonging to the given project, newest
// first. The project must exist; a dangling id yields ErrNotFound.
func (a *Aggregator) ProjectTimeline(ctx context.Context, projectID int64) ([]model.TimelineEntry, error) {
	if err := model.ValidateID(projectID); err != nil {
		return nil, err
	}
	project, err := a.store.Projects().Get(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("resolve project %d: %w", projectID, err)
	}

	src, err := a.fetchSources(ctx, false)
	if err != nil {
		return nil, err
	}

	entries := make([]model.TimelineEntry, 0, len(src.items)+len(src.events))
	for _, it := range src.items {
		if it.ProjectID == nil || *it.ProjectID != projectID {
			continue
		}
		entries = append(entries, annotateItem(it, src.services, project.Name))
	}
	for _, ev := range src.events {
		if ev.ProjectID == nil || *ev.ProjectID != projectID {
			continue
		}
		entries = append(entries, annotateEvent(ev, src.services, project.Name))
	}
	sortEntries(entries)
	return entries, nil
}

// AllTimelines returns every item and event, newest first, with project names
// resolved per entry through a project lookup.
func (a *Aggregator) AllTimelines(ctx context.Context) ([]model.TimelineEntry, error) {
	src, err := a.fetchSources(ctx, true)
	if err != nil {
		return nil, err
	}

	entries := make([]model.TimelineEntry, 0, len(src.items)+len(src.events))
	for _, it := range src.items {
		entries = append(entries, annotateItem(it, src.services, projectName(src.projects, it.ProjectID)))
	}
	for _, ev := range src.events {
		entries = append(entries, annotateEvent(ev, src.services, projectName(src.projects, ev.ProjectID)))
	}
	sortEntries(entries)
	return entries, nil
}

// EntryByID probes items first, then events, and returns the annotated hit.
// A well-formed id absent from both collections returns (nil, nil); only a
// malformed id is an error.
func (a *Aggregator) EntryByID(ctx context.Context, id int64) (*model.TimelineEntry, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}

	services, err := serviceLookup(ctx, a.store)
	if err != nil {
		return nil, err
	}
	projects, err := projectLookup(ctx, a.store)
	if err != nil {
		return nil, err
	}

	it, err := a.store.Items().Get(ctx, id)
	switch {
	case err == nil:
		e := annotateItem(it, services, projectName(projects, it.ProjectID))
		return &e, nil
	case !errors.Is(err, model.ErrNotFound):
		return nil, fmt.Errorf("probe item %d: %w", id, err)
	}

	ev, err := a.store.Events().Get(ctx, id)
	switch {
	case err == nil:
		e := annotateEvent(ev, services, projectName(projects, ev.ProjectID))
		return &e, nil
	case !errors.Is(err, model.ErrNotFound):
		return nil, fmt.Errorf("probe event %d: %w", id, err)
	}
	return nil, nil
}

// Stats summarizes a project timeline when projectID is non-nil, otherwise
// the full timeline.
func (a *Aggregator) Stats(ctx context.Context, projectID *int64) (*model.TimelineStats, error) {
	var (
		entries []model.TimelineEntry
		err     error
	)
	if projectID != nil {
		entries, err = a.ProjectTimeline(ctx, *projectID)
	} else {
		entries, err = a.AllTimelines(ctx)
	}
	if err != nil {
		return nil, err
	}

	stats := &model.TimelineStats{
		Total:     len(entries),
		ByType:    make(map[string]int),
		ByService: make(map[string]int),
	}
	for _, e := range entries {
		stats.ByType[e.Type]++
		stats.ByService[e.Service.Name]++
	}
	recent := entries
	if len(recent) > 5 {
		recent = recent[:5]
	}
	stats.RecentActivity = append([]model.TimelineEntry{}, recent...)
	return stats, nil
}

type sources struct {
	services map[int64]*model.Service
	projects map[int64]*model.Project
	items    []*model.UnifiedItem
	events   []*model.CalendarEvent
}

// fetchSources runs the independent collection reads concurrently. Any
// failed fetch fails the whole aggregation; no partial results.
func (a *Aggregator) fetchSources(ctx context.Context, withProjects bool) (*sources, error) {
	var src sources
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		src.services, err = serviceLookup(gctx, a.store)
		return err
	})
	g.Go(func() error {
		var err error
		src.items, err = a.store.Items().List(gctx)
		if err != nil {
			return fmt.Errorf("fetch items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		src.events, err = a.store.Events().List(gctx)
		if err != nil {
			return fmt.Errorf("fetch events: %w", err)
		}
		return nil
	})
	if withProjects {
		g.Go(func() error {
			var err error
			src.projects, err = projectLookup(gctx, a.store)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &src, nil
}

func serviceLookup(ctx context.Context, s store.Store) (map[int64]*model.Service, error) {
	list, err := s.Services().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch services: %w", err)
	}
	m := make(map[int64]*model.Service, len(list))
	for _, svc := range list {
		m[svc.ID] = svc
	}
	return m, nil
}

func projectLookup(ctx context.Context, s store.Store) (map[int64]*model.Project, error) {
	list, err := s.Projects().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	m := make(map[int64]*model.Project, len(list))
	for _, p := range list {
		m[p.ID] = p
	}
	return m, nil
}

func projectName(projects map[int64]*model.Project, id *int64) string {
	if id != nil {
		if p, ok := projects[*id]; ok {
			return p.Name
		}
	}
	return unknownProjectName
}

func annotateItem(it *model.UnifiedItem, services map[int64]*model.Service, project string) model.TimelineEntry {
	typ := it.Type
	if typ == "" {
		typ = "task"
	}
	ref := unknownServiceRef
	if it.ServiceID != nil {
		if svc, ok := services[*it.ServiceID]; ok {
			ref = model.ServiceRef{ID: svc.ID, Name: svc.Name, Color: svc.Color}
		}
	}
	return model.TimelineEntry{
		ID:          it.ID,
		Type:        typ,
		Title:       it.Title,
		Content:     it.Content,
		Date:        it.Timestamp,
		Metadata:    it.Metadata,
		ServiceID:   it.ServiceID,
		ProjectID:   it.ProjectID,
		Service:     ref,
		ProjectName: project,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

func annotateEvent(ev *model.CalendarEvent, services map[int64]*model.Service, project string) model.TimelineEntry {
	ref := calendarServiceRef
	if ev.ServiceID != nil {
		if svc, ok := services[*ev.ServiceID]; ok {
			ref = model.ServiceRef{ID: svc.ID, Name: svc.Name, Color: svc.Color}
		}
	}
	start := ev.Start
	end := ev.End
	return model.TimelineEntry{
		ID:          ev.ID,
		Type:        "event",
		Title:       ev.Title,
		Date:        &start,
		Start:       &start,
		End:         &end,
		Attendees:   ev.Attendees,
		ServiceID:   ev.ServiceID,
		ProjectID:   ev.ProjectID,
		Service:     ref,
		ProjectName: project,
		CreatedAt:   ev.CreatedAt,
		UpdatedAt:   ev.UpdatedAt,
	}
}

// sortEntries orders newest first. Ties break by ascending id, then type, so
// repeated calls over the same data return the same sequence.
func sortEntries(entries []model.TimelineEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ti, tj := entries[i].SortTime(), entries[j].SortTime()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		if entries[i].ID != entries[j].ID {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Type < entries[j].Type
	})
}
