package services

import (
	"context"

	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/store"
)

// ItemService manages unified inbox items.
type ItemService struct {
	store store.Store
}

func NewItemService(s store.Store) *ItemService {
	return &ItemService{store: s}
}

func (s *ItemService) CreateItem(ctx context.Context, in *model.UnifiedItem) (*model.UnifiedItem, error) {
	return s.store.Items().Create(ctx, in)
}

func (s *ItemService) GetItem(ctx context.Context, id int64) (*model.UnifiedItem, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.Items().Get(ctx, id)
}

func (s *ItemService) ListItems(ctx context.Context) ([]*model.UnifiedItem, error) {
	return s.store.Items().List(ctx)
}

func (s *ItemService) ListByType(ctx context.Context, itemType string) ([]*model.UnifiedItem, error) {
	return s.store.Items().ListByType(ctx, itemType)
}

func (s *ItemService) ListByService(ctx context.Context, serviceID int64) ([]*model.UnifiedItem, error) {
	if err := model.ValidateID(serviceID); err != nil {
		return nil, err
	}
	return s.store.Items().ListByService(ctx, serviceID)
}

func (s *ItemService) UpdateItem(ctx context.Context, id int64, p model.ItemPatch) (*model.UnifiedItem, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.Items().Update(ctx, id, p)
}

func (s *ItemService) DeleteItem(ctx context.Context, id int64) error {
	if err := model.ValidateID(id); err != nil {
		return err
	}
	return s.store.Items().Delete(ctx, id)
}
