package evaluators

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jamcalli/pulsarr/internal/models"
	"github.com/jamcalli/pulsarr/internal/router"
)

// stubStore serves criteria rules keyed by kind.
type stubStore struct {
	byKind map[string][]*models.RouterRule
	err    error
}

var errStubDown = errors.New("store unavailable")

func (s *stubStore) GetAllEnabledRules(ctx context.Context, targetType models.TargetType) ([]*models.RouterRule, error) {
	return nil, nil
}

func (s *stubStore) GetRulesByType(ctx context.Context, kind string) ([]*models.RouterRule, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byKind[kind], nil
}

// criteriaRule builds an enabled flat rule carrying one criterion.
func criteriaRule(name string, target models.TargetType, order int, kind, criterion string) *models.RouterRule {
	rule := models.RouterRule{
		Name:             name,
		TargetType:       target,
		TargetInstanceID: models.NewULID(),
		Order:            order,
		Criteria:         json.RawMessage(`{"` + kind + `": ` + criterion + `}`),
	}
	rule.ID = models.NewULID()
	return &rule
}

func leafOn(field string, op router.Operator, value router.ConditionValue) *router.Condition {
	return router.NewCondition(field, op, value)
}
