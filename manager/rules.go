// Package manager keeps the current rule set in memory and rebuilds it
// after every rule edit.
package manager

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"activitymonitor/entity"
	"activitymonitor/rules"
)

// RuleStore is the persistence the manager reads from and writes to.
type RuleStore interface {
	LoadRules(ctx context.Context) (rules.Rows, error)

	InsertMapping(ctx context.Context, m entity.DisplayMapping) (int64, error)
	UpdateMapping(ctx context.Context, m entity.DisplayMapping) error
	DeleteMapping(ctx context.Context, id int64) error

	InsertTag(ctx context.Context, tag entity.ProjectTag) (int64, error)
	UpdateTag(ctx context.Context, tag entity.ProjectTag) error
	DeleteTag(ctx context.Context, id int64) error

	InsertKeywordRule(ctx context.Context, kr entity.KeywordRule) (int64, error)
	UpdateKeywordRule(ctx context.Context, kr entity.KeywordRule) error
	DeleteKeywordRule(ctx context.Context, id int64) error
}

// RuleManager hands out an immutable *rules.RuleSet. Readers never see a
// half-built set: Reload builds a fresh one and swaps the pointer.
type RuleManager struct {
	store  RuleStore
	logger *slog.Logger

	mutex   sync.RWMutex
	current *rules.RuleSet
}

// NewRuleManager loads the initial rule set.
func NewRuleManager(ctx context.Context, store RuleStore, logger *slog.Logger) (*RuleManager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rm := &RuleManager{store: store, logger: logger, current: rules.Empty()}
	if err := rm.Reload(ctx); err != nil {
		return nil, err
	}
	return rm, nil
}

// Rules returns the current rule set. It is never nil.
func (rm *RuleManager) Rules() *rules.RuleSet {
	rm.mutex.RLock()
	defer rm.mutex.RUnlock()
	return rm.current
}

// Reload rebuilds the rule set from the store. On error the previous set
// stays in place.
func (rm *RuleManager) Reload(ctx context.Context) error {
	rows, err := rm.store.LoadRules(ctx)
	if err != nil {
		return fmt.Errorf("reload rules: %w", err)
	}
	rs := rules.Build(rows, rm.logger)

	rm.mutex.Lock()
	rm.current = rs
	rm.mutex.Unlock()

	rm.logger.Debug("rules reloaded",
		"keyword_rules", rs.KeywordRuleCount(),
		"tags", len(rs.Tags()),
		"mappings", len(rs.Mappings(entity.MatchProcess))+len(rs.Mappings(entity.MatchProject))+len(rs.Mappings(entity.MatchWindow)))
	return nil
}

// write runs one store mutation, then reloads. A failed reload after a
// successful write is returned; the write is not undone.
func (rm *RuleManager) write(ctx context.Context, op func() error) error {
	if err := op(); err != nil {
		return err
	}
	return rm.Reload(ctx)
}

func (rm *RuleManager) AddMapping(ctx context.Context, m entity.DisplayMapping) (id int64, err error) {
	err = rm.write(ctx, func() error {
		id, err = rm.store.InsertMapping(ctx, m)
		return err
	})
	return id, err
}

func (rm *RuleManager) UpdateMapping(ctx context.Context, m entity.DisplayMapping) error {
	return rm.write(ctx, func() error { return rm.store.UpdateMapping(ctx, m) })
}

func (rm *RuleManager) RemoveMapping(ctx context.Context, id int64) error {
	return rm.write(ctx, func() error { return rm.store.DeleteMapping(ctx, id) })
}

func (rm *RuleManager) AddTag(ctx context.Context, tag entity.ProjectTag) (id int64, err error) {
	err = rm.write(ctx, func() error {
		id, err = rm.store.InsertTag(ctx, tag)
		return err
	})
	return id, err
}

func (rm *RuleManager) UpdateTag(ctx context.Context, tag entity.ProjectTag) error {
	return rm.write(ctx, func() error { return rm.store.UpdateTag(ctx, tag) })
}

func (rm *RuleManager) RemoveTag(ctx context.Context, id int64) error {
	return rm.write(ctx, func() error { return rm.store.DeleteTag(ctx, id) })
}

func (rm *RuleManager) AddKeywordRule(ctx context.Context, kr entity.KeywordRule) (id int64, err error) {
	err = rm.write(ctx, func() error {
		id, err = rm.store.InsertKeywordRule(ctx, kr)
		return err
	})
	return id, err
}

func (rm *RuleManager) UpdateKeywordRule(ctx context.Context, kr entity.KeywordRule) error {
	return rm.write(ctx, func() error { return rm.store.UpdateKeywordRule(ctx, kr) })
}

func (rm *RuleManager) RemoveKeywordRule(ctx context.Context, id int64) error {
	return rm.write(ctx, func() error { return rm.store.DeleteKeywordRule(ctx, id) })
}
