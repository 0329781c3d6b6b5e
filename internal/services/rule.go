package services

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/unifyhub/unifyhub/internal/model"
	"github.com/unifyhub/unifyhub/internal/store"
)

// RuleService manages automation rules.
type RuleService struct {
	store store.Store
}

func NewRuleService(s store.Store) *RuleService {
	return &RuleService{store: s}
}

func (s *RuleService) CreateRule(ctx context.Context, in *model.Rule) (*model.Rule, error) {
	return s.store.Rules().Create(ctx, in)
}

func (s *RuleService) GetRule(ctx context.Context, id int64) (*model.Rule, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.Rules().Get(ctx, id)
}

func (s *RuleService) ListRules(ctx context.Context) ([]*model.Rule, error) {
	return s.store.Rules().List(ctx)
}

func (s *RuleService) UpdateRule(ctx context.Context, id int64, p model.RulePatch) (*model.Rule, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.Rules().Update(ctx, id, p)
}

func (s *RuleService) DeleteRule(ctx context.Context, id int64) error {
	if err := model.ValidateID(id); err != nil {
		return err
	}
	return s.store.Rules().Delete(ctx, id)
}

// Toggle flips the rule's enabled flag and returns the updated rule.
func (s *RuleService) Toggle(ctx context.Context, id int64) (*model.Rule, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	cur, err := s.store.Rules().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	enabled := !cur.Enabled
	return s.store.Rules().Update(ctx, id, model.RulePatch{Enabled: &enabled})
}

// Test performs a dry run of the rule against existing items. Real matching
// is not implemented yet; the result reports a simulated match count between
// 1 and 5.
//
// TODO: evaluate rule conditions against stored items once the matching
// engine lands.
func (s *RuleService) Test(ctx context.Context, id int64) (*model.RuleTestResult, error) {
	if err := model.ValidateID(id); err != nil {
		return nil, err
	}
	rule, err := s.store.Rules().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	matches := rand.Intn(5) + 1
	return &model.RuleTestResult{
		Success: true,
		Message: fmt.Sprintf("Rule %q matched %d existing items", rule.Name, matches),
		Matches: matches,
	}, nil
}
