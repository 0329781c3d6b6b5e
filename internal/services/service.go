package services

import (
	"context"
	"time"

	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/store"
)

// ServiceService manages connected external services.
type ServiceService struct {
	store store.Store
}

func NewServiceService(s store.Store) *ServiceService {
	return &ServiceService{store: s}
}

func (s *ServiceService) CreateService(ctx context.Context, in *model.Service) (*model.Service, error) {
	return s.store.Services().Create(ctx, in)
}

func (s *ServiceService) GetService(ctx context.Context, id int64) (*model.Service, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.Services().Get(ctx, id)
}

func (s *ServiceService) ListServices(ctx context.Context) ([]*model.Service, error) {
	return s.store.Services().List(ctx)
}

func (s *ServiceService) UpdateService(ctx context.Context, id int64, p model.ServicePatch) (*model.Service, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.Services().Update(ctx, id, p)
}

func (s *ServiceService) DeleteService(ctx context.Context, id int64) error {
	if err := model.ValidateID(id); err != nil {
		return err
	}
	return s.store.Services().Delete(ctx, id)
}

// Sync marks the service connected and refreshes its last-sync timestamp.
func (s *ServiceService) Sync(ctx context.Context, id int64) (*model.Service, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	status := model.StatusConnected
	return s.store.Services().Update(ctx, id, model.ServicePatch{Status: &status, LastSync: &now})
}

// Connect transitions the service to connected.
func (s *ServiceService) Connect(ctx context.Context, id int64) (*model.Service, error) {
	return s.setStatus(ctx, id, model.StatusConnected)
}

// Disconnect transitions the service to disconnected.
func (s *ServiceService) Disconnect(ctx context.Context, id int64) (*model.Service, error) {
	return s.setStatus(ctx, id, model.StatusDisconnected)
}

func (s *ServiceService) setStatus(ctx context.Context, id int64, status string) (*model.Service, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.Services().Update(ctx, id, model.ServicePatch{Status: &status})
}

// UpdateConfig shallow-merges the given keys into the service's config map
// and returns the updated service.
func (s *ServiceService) UpdateConfig(ctx context.Context, id int64, cfg map[string]interface{}) (*model.Service, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	cur, err := s.store.Services().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := make(map[string]interface{}, len(cur.Config)+len(cfg))
	for k, v := range cur.Config {
		merged[k] = v
	}
	for k, v := range cfg {
		merged[k] = v
	}
	return s.store.Services().Update(ctx, id, model.ServicePatch{Config: merged})
}

// GetConfig returns the service's configuration map (never nil).
func (s *ServiceService) GetConfig(ctx context.Context, id int64) (map[string]interface{}, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	cur, err := s.store.Services().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.Config == nil {
		return map[string]interface{}{}, nil
	}
	return cur.Config, nil
}
