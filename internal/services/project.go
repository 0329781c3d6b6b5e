package services

import (
	"context"

	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/store"
)

// ProjectService manages projects and their linked items.
type ProjectService struct {
	store store.Store
}

func NewProjectService(s store.Store) *ProjectService {
	return &ProjectService{store: s}
}

func (s *ProjectService) CreateProject(ctx context.Context, in *model.Project) (*model.Project, error) {
	return s.store.Projects().Create(ctx, in)
}

func (s *ProjectService) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.Projects().Get(ctx, id)
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]*model.Project, error) {
	return s.store.Projects().List(ctx)
}

func (s *ProjectService) UpdateProject(ctx context.Context, id int64, p model.ProjectPatch) (*model.Project, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.Projects().Update(ctx, id, p)
}

func (s *ProjectService) DeleteProject(ctx context.Context, id int64) error {
	if err := model.ValidateID(id); err != nil {
		return err
	}
	return s.store.Projects().Delete(ctx, id)
}

// LinkItem adds itemID to the project's linked items. Linking an already
// linked item is a no-op and returns the project unchanged.
func (s *ProjectService) LinkItem(ctx context.Context, projectID, itemID int64) (*model.Project, error) {
	if err := model.ValidateID(projectID); err != nil {
		return nil, err
	}
	if err := model.ValidateID(itemID); err != nil {
		return nil, err
	}
	cur, err := s.store.Projects().Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if cur.LinkedItems.Contains(itemID) {
		return cur, nil
	}
	linked := cur.LinkedItems.Add(itemID)
	return s.store.Projects().Update(ctx, projectID, model.ProjectPatch{LinkedItems: &linked})
}

// UnlinkItem removes itemID from the project's linked items. Unlinking an
// item that is not linked is a no-op and returns the project unchanged.
func (s *ProjectService) UnlinkItem(ctx context.Context, projectID, itemID int64) (*model.Project, error) {
	if err := model.ValidateID(projectID); err != nil {
		return nil, err
	}
	if err := model.ValidateID(itemID); err != nil {
		return nil, err
	}
	cur, err := s.store.Projects().Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !cur.LinkedItems.Contains(itemID) {
		return cur, nil
	}
	linked := cur.LinkedItems.Remove(itemID)
	return s.store.Projects().Update(ctx, projectID, model.ProjectPatch{LinkedItems: &linked})
}
