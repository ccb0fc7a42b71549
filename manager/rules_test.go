package manager

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activitymonitor/entity"
	"activitymonitor/query"
	"activitymonitor/rules"
)

func newManager(t *testing.T) (*RuleManager, *query.Database) {
	t.Helper()
	ctx := context.Background()
	db, err := query.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	rm, err := NewRuleManager(ctx, db, nil)
	require.NoError(t, err)
	return rm, db
}

func TestEditsAreVisibleAfterWrite(t *testing.T) {
	ctx := context.Background()
	rm, _ := newManager(t)

	before := rm.Rules()
	require.NotNil(t, before)
	assert.Equal(t, "Visual Studio - App", rules.Remap("Visual Studio - App", "devenv.exe", "", before))

	id, err := rm.AddMapping(ctx, entity.DisplayMapping{MatchType: entity.MatchProject, MatchValue: "App", DisplayName: "Client", Priority: 1, Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, "Client", rules.Remap("Visual Studio - App", "devenv.exe", "", rm.Rules()))
	assert.Equal(t, "Visual Studio - App", rules.Remap("Visual Studio - App", "devenv.exe", "", before), "old sets are immutable")

	require.NoError(t, rm.RemoveMapping(ctx, id))
	assert.Equal(t, "Visual Studio - App", rules.Remap("Visual Studio - App", "devenv.exe", "", rm.Rules()))
}

func TestTagAndKeywordRuleEdits(t *testing.T) {
	ctx := context.Background()
	rm, _ := newManager(t)

	tagID, err := rm.AddTag(ctx, entity.ProjectTag{Name: "Umbraco", Keywords: []string{"umbraco"}, Enabled: true})
	require.NoError(t, err)
	_, ok := rules.MatchTag("", "Umbraco.Web", rm.Rules())
	assert.True(t, ok)

	require.NoError(t, rm.UpdateTag(ctx, entity.ProjectTag{ID: tagID, Name: "Umbraco", Keywords: []string{"umbraco"}, Enabled: false}))
	_, ok = rules.MatchTag("", "Umbraco.Web", rm.Rules())
	assert.False(t, ok)
	assert.Equal(t, entity.DefaultTagColor, rm.Rules().TagColor("Umbraco"))

	ruleID, err := rm.AddKeywordRule(ctx, entity.KeywordRule{Name: "Client Work", Patterns: []string{"acme"}, Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, 1, rm.Rules().KeywordRuleCount())

	require.NoError(t, rm.UpdateKeywordRule(ctx, entity.KeywordRule{ID: ruleID, Name: "Client Work", Patterns: []string{"acme"}, Enabled: false}))
	assert.Zero(t, rm.Rules().KeywordRuleCount())

	require.NoError(t, rm.RemoveKeywordRule(ctx, ruleID))
	require.NoError(t, rm.RemoveTag(ctx, tagID))
	assert.ErrorIs(t, rm.RemoveTag(ctx, tagID), query.ErrNotFound)
	assert.ErrorIs(t, rm.UpdateMapping(ctx, entity.DisplayMapping{ID: 99, MatchType: entity.MatchWindow, MatchValue: "x", DisplayName: "y"}), query.ErrNotFound)
}

type failingStore struct {
	RuleStore
	err error
}

func (f failingStore) LoadRules(context.Context) (rules.Rows, error) { return rules.Rows{}, f.err }

func TestReloadFailureKeepsPreviousSet(t *testing.T) {
	ctx := context.Background()
	rm, _ := newManager(t)
	_, err := rm.AddKeywordRule(ctx, entity.KeywordRule{Name: "Client Work", Patterns: []string{"acme"}, Enabled: true})
	require.NoError(t, err)

	boom := errors.New("disk gone")
	rm.store = failingStore{err: boom}
	assert.ErrorIs(t, rm.Reload(ctx), boom)
	assert.Equal(t, 1, rm.Rules().KeywordRuleCount())

	_, err = NewRuleManager(ctx, failingStore{err: boom}, nil)
	assert.ErrorIs(t, err, boom)
}

func TestConcurrentReadersDuringReload(t *testing.T) {
	ctx := context.Background()
	rm, _ := newManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				rs := rm.Rules()
				rules.Remap("Visual Studio - App", "devenv.exe", "", rs)
			}
		}()
	}
	for i := 0; i < 20; i++ {
		require.NoError(t, rm.Reload(ctx))
	}
	wg.Wait()
}
