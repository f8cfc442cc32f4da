package router

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jamcalli/pulsarr/internal/models"
)

// SnapshotStore caches the enabled rule set in memory so routing does
// not hit the database per request. Refresh rebuilds the cache; until
// the first successful refresh, reads fall through to the underlying
// store so a cold server still routes correctly.
type SnapshotStore struct {
	store RuleStore
	log   *slog.Logger

	mu          sync.RWMutex
	byTarget    map[models.TargetType][]*models.RouterRule
	byKind      map[string][]*models.RouterRule
	refreshedAt time.Time
}

// NewSnapshotStore wraps a RuleStore with a snapshot cache.
func NewSnapshotStore(store RuleStore, log *slog.Logger) *SnapshotStore {
	if log == nil {
		log = slog.Default()
	}
	return &SnapshotStore{store: store, log: log}
}

// Refresh reloads every enabled rule and rebuilds both views. On error
// the previous snapshot is kept.
func (s *SnapshotStore) Refresh(ctx context.Context) error {
	byTarget := make(map[models.TargetType][]*models.RouterRule)
	byKind := make(map[string][]*models.RouterRule)
	total := 0

	for _, target := range []models.TargetType{models.TargetTypeRadarr, models.TargetTypeSonarr} {
		rules, err := s.store.GetAllEnabledRules(ctx, target)
		if err != nil {
			return fmt.Errorf("refreshing rule snapshot for %s: %w", target, err)
		}
		byTarget[target] = rules
		total += len(rules)

		for _, rule := range rules {
			if !rule.HasCriteria() {
				continue
			}
			for kind := range rule.CriteriaMap() {
				byKind[kind] = append(byKind[kind], rule)
			}
		}
	}

	s.mu.Lock()
	s.byTarget = byTarget
	s.byKind = byKind
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	s.log.Debug("rule snapshot refreshed", "rules", total, "criteria_kinds", len(byKind))
	return nil
}

// RefreshedAt reports when the snapshot was last rebuilt; zero before
// the first refresh.
func (s *SnapshotStore) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// GetAllEnabledRules serves from the snapshot when one exists.
func (s *SnapshotStore) GetAllEnabledRules(ctx context.Context, targetType models.TargetType) ([]*models.RouterRule, error) {
	s.mu.RLock()
	snapshot := s.byTarget
	s.mu.RUnlock()

	if snapshot == nil {
		return s.store.GetAllEnabledRules(ctx, targetType)
	}
	rules := snapshot[targetType]
	out := make([]*models.RouterRule, len(rules))
	copy(out, rules)
	return out, nil
}

// GetRulesByType serves the criteria-kind view from the snapshot when
// one exists.
func (s *SnapshotStore) GetRulesByType(ctx context.Context, kind string) ([]*models.RouterRule, error) {
	s.mu.RLock()
	snapshot := s.byKind
	s.mu.RUnlock()

	if snapshot == nil {
		return s.store.GetRulesByType(ctx, kind)
	}
	rules := snapshot[kind]
	out := make([]*models.RouterRule, len(rules))
	copy(out, rules)
	return out, nil
}
