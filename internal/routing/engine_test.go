package routing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parabrain/para-flow/internal/classify"
	"github.com/parabrain/para-flow/internal/common"
	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/service"
	"github.com/parabrain/para-flow/internal/taxonomy"
	"github.com/parabrain/para-flow/internal/weights"
)

func newTestClassifier() *classify.Service {
	clock := classify.FixedClock{Time: time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)}
	return classify.New(weights.NewMemoryStore(), taxonomy.NewPathResolver(nil), clock)
}

// fakeAI is a canned service.ContentClassifier.
type fakeAI struct {
	category     model.CategoryName
	reasoning    string
	confidence   int
	err          error
	delay        time.Duration
	calls        int
	lastProvider string
	mu           sync.Mutex
}

func (f *fakeAI) ClassifyContent(ctx context.Context, _, provider string) (model.CategoryName, int, string, error) {
	f.mu.Lock()
	f.calls++
	f.lastProvider = provider
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", 0, "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", 0, "", f.err
	}
	return f.category, f.confidence, f.reasoning, nil
}

func (f *fakeAI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memStorage is an in-memory service.Storage for engine tests.
type memStorage struct {
	service.Storage
	classifications map[string]*model.ClassificationResult
	ruleAttempts    map[string]int
	ruleSuccesses   map[string]int
	mu              sync.Mutex
}

func newMemStorage() *memStorage {
	return &memStorage{
		classifications: make(map[string]*model.ClassificationResult),
		ruleAttempts:    make(map[string]int),
		ruleSuccesses:   make(map[string]int),
	}
}

func (m *memStorage) SaveClassification(_ context.Context, contentHash string, result *model.ClassificationResult, _ string, _ int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classifications[contentHash] = result
	return nil
}

func (m *memStorage) GetClassificationByHash(_ context.Context, contentHash string) (*model.ClassificationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.classifications[contentHash]; ok {
		return r, nil
	}
	return nil, common.ErrNotFound
}

func (m *memStorage) RecordRuleOutcome(_ context.Context, ruleID string, success bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ruleAttempts[ruleID]++
	if success {
		m.ruleSuccesses[ruleID]++
	}
	return nil
}

func (m *memStorage) GetRuleStats(_ context.Context) ([]model.RuleStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := make([]model.RuleStats, 0, len(m.ruleAttempts))
	for ruleID, attempts := range m.ruleAttempts {
		stats = append(stats, model.RuleStats{
			RuleID:   ruleID,
			Attempts: int64(attempts),
		})
	}
	return stats, nil
}

func (m *memStorage) ruleOutcome(ruleID string) (attempts, successes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ruleAttempts[ruleID], m.ruleSuccesses[ruleID]
}

func TestEngine_Route_HeuristicCatchAll(t *testing.T) {
	classifier := newTestClassifier()
	engine := New(classifier, DefaultRules(classifier, nil), nil, nil)

	res := engine.Route(context.Background(), model.RouteEnvelope{
		Input: "React 19의 새로운 기능을 학습하고 있습니다",
	})

	require.True(t, res.Success)
	assert.Equal(t, RuleHeuristic, res.Route)
	require.NotNil(t, res.Result)
	assert.Equal(t, model.CategoryLearningTech, res.Result.Category)
	assert.NotEmpty(t, res.TimestampIso)
	assert.GreaterOrEqual(t, res.ExecutionTimeMs, int64(0))
}

func TestEngine_Route_HeadlineTakesPrecedence(t *testing.T) {
	classifier := newTestClassifier()
	ai := &fakeAI{category: model.CategoryLearningTech, confidence: 90}
	engine := New(classifier, DefaultRules(classifier, ai), nil, nil)

	res := engine.Route(context.Background(), model.RouteEnvelope{
		Input:        "React 19의 새로운 기능을 학습하고 있습니다",
		UserHeadline: "[archive]",
		EnableAI:     true,
	})

	require.True(t, res.Success)
	assert.Equal(t, RuleHeadline, res.Route)
	assert.Equal(t, model.CategoryArchiveDone, res.Result.Category)
	assert.Equal(t, 95, res.Result.Confidence)
	// The headline condition excludes the AI route entirely.
	assert.Zero(t, ai.callCount())
}

func TestEngine_Route_TempHeadlineParksInHolding(t *testing.T) {
	classifier := newTestClassifier()
	engine := New(classifier, DefaultRules(classifier, nil), nil, nil)

	res := engine.Route(context.Background(), model.RouteEnvelope{
		Input:        "나중에 다시 볼 내용",
		UserHeadline: "[temp]",
	})

	require.True(t, res.Success)
	assert.Equal(t, RouteHolding, res.Route)
	assert.Nil(t, res.Result)
}

func TestEngine_Route_ValidationFailure(t *testing.T) {
	classifier := newTestClassifier()
	engine := New(classifier, DefaultRules(classifier, nil), nil, nil)

	res := engine.Route(context.Background(), model.RouteEnvelope{Input: "가"})

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "invalid input")
}

func TestEngine_Route_UnknownHeadlineIsCallerError(t *testing.T) {
	classifier := newTestClassifier()
	engine := New(classifier, DefaultRules(classifier, nil), nil, nil)

	res := engine.Route(context.Background(), model.RouteEnvelope{
		Input:        "유효한 입력 내용",
		UserHeadline: "[nonsense]",
	})

	// Caller programming errors surface immediately instead of falling
	// through to the heuristic rule.
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "nonsense")
}

func TestEngine_Route_AIAssist(t *testing.T) {
	classifier := newTestClassifier()
	ai := &fakeAI{category: model.CategoryPersonalGrowth, confidence: 88, reasoning: "habit tracking"}
	engine := New(classifier, DefaultRules(classifier, ai), nil, nil)

	res := engine.Route(context.Background(), model.RouteEnvelope{
		Input:    "매일 아침 운동 기록",
		EnableAI: true,
	})

	require.True(t, res.Success)
	assert.Equal(t, RuleAIAssist, res.Route)
	assert.Equal(t, model.CategoryPersonalGrowth, res.Result.Category)
	assert.Equal(t, 88, res.Result.Confidence)
	assert.Equal(t, model.SourceAI, res.Result.Source)
}

func TestEngine_Route_ForwardsPinnedProvider(t *testing.T) {
	classifier := newTestClassifier()
	ai := &fakeAI{category: model.CategoryWorkCore, confidence: 85}
	engine := New(classifier, DefaultRules(classifier, ai), nil, nil)

	res := engine.Route(context.Background(), model.RouteEnvelope{
		Input:    "분기 보고서 초안 검토",
		EnableAI: true,
		Provider: "perplexity",
	})

	require.True(t, res.Success)
	assert.Equal(t, RuleAIAssist, res.Route)

	ai.mu.Lock()
	defer ai.mu.Unlock()
	assert.Equal(t, "perplexity", ai.lastProvider)
}

func TestEngine_Route_PersistsRuleOutcomes(t *testing.T) {
	classifier := newTestClassifier()
	store := newMemStorage()
	engine := New(classifier, DefaultRules(classifier, nil), nil, store)

	res := engine.Route(context.Background(), model.RouteEnvelope{
		Input: "React 19의 새로운 기능을 학습하고 있습니다",
	})
	require.True(t, res.Success)

	attempts, successes := store.ruleOutcome(RuleHeuristic)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, successes)

	// Cache hits reuse the stored decision without re-running any rule.
	require.True(t, engine.Route(context.Background(), model.RouteEnvelope{
		Input: "React 19의 새로운 기능을 학습하고 있습니다",
	}).Success)
	attempts, _ = store.ruleOutcome(RuleHeuristic)
	assert.Equal(t, 1, attempts)
}

func TestEngine_Route_PersistsFailedOutcome(t *testing.T) {
	classifier := newTestClassifier()
	store := newMemStorage()
	ai := &fakeAI{err: errors.New("provider down")}
	engine := New(classifier, DefaultRules(classifier, ai), nil, store)

	res := engine.Route(context.Background(), model.RouteEnvelope{
		Input:    "React 19의 새로운 기능을 학습하고 있습니다",
		EnableAI: true,
	})
	require.True(t, res.Success)
	assert.Equal(t, RuleHeuristic, res.Route)

	attempts, successes := store.ruleOutcome(RuleAIAssist)
	assert.Equal(t, 1, attempts)
	assert.Zero(t, successes)
}

func TestEngine_Route_AIInventedCategoryFallsThrough(t *testing.T) {
	classifier := newTestClassifier()
	ai := &fakeAI{category: "hallucinated", confidence: 99}
	engine := New(classifier, DefaultRules(classifier, ai), nil, nil)

	res := engine.Route(context.Background(), model.RouteEnvelope{
		Input:    "React 19의 새로운 기능을 학습하고 있습니다",
		EnableAI: true,
	})

	// The AI answer is rejected and the heuristic rule takes over.
	require.True(t, res.Success)
	assert.Equal(t, RuleHeuristic, res.Route)
	assert.Equal(t, model.CategoryLearningTech, res.Result.Category)
	assert.Equal(t, 1, ai.callCount())
}

func TestEngine_Route_AIErrorFallsThrough(t *testing.T) {
	classifier := newTestClassifier()
	ai := &fakeAI{err: errors.New("provider down")}
	engine := New(classifier, DefaultRules(classifier, ai), nil, nil)

	res := engine.Route(context.Background(), model.RouteEnvelope{
		Input:    "React 19의 새로운 기능을 학습하고 있습니다",
		EnableAI: true,
	})

	require.True(t, res.Success)
	assert.Equal(t, RuleHeuristic, res.Route)
}

func TestEngine_Route_TimeoutRetriesNextRule(t *testing.T) {
	classifier := newTestClassifier()
	ai := &fakeAI{category: model.CategoryLearningTech, confidence: 90, delay: 500 * time.Millisecond}

	rules := DefaultRules(classifier, ai)
	for i := range rules {
		if rules[i].ID == RuleAIAssist {
			rules[i].Timeout = 20 * time.Millisecond
		}
	}
	engine := New(classifier, rules, nil, nil)

	res := engine.Route(context.Background(), model.RouteEnvelope{
		Input:    "React 19의 새로운 기능을 학습하고 있습니다",
		EnableAI: true,
	})

	require.True(t, res.Success)
	assert.Equal(t, RuleHeuristic, res.Route)

	stats, _ := engine.Stats()
	assert.Equal(t, int64(1), stats.TimeoutRetries)
}

func TestEngine_Route_AllRulesTimedOut(t *testing.T) {
	classifier := newTestClassifier()

	slow := model.RoutingRule{
		ID:        "slow-only",
		Priority:  100,
		Timeout:   20 * time.Millisecond,
		Condition: func(model.RouteEnvelope) bool { return true },
		Action: func(ctx context.Context, _ model.RouteEnvelope) (*model.ClassificationResult, error) {
			select {
			case <-time.After(time.Second):
				return nil, errors.New("unreachable")
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}
	engine := New(classifier, []model.RoutingRule{slow}, nil, nil)

	res := engine.Route(context.Background(), model.RouteEnvelope{Input: "유효한 입력 내용"})

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "timed out")
	assert.Contains(t, res.Error, "slow-only")
}

func TestEngine_Route_CacheHitSkipsRules(t *testing.T) {
	classifier := newTestClassifier()
	store := newMemStorage()
	engine := New(classifier, DefaultRules(classifier, nil), nil, store)

	env := model.RouteEnvelope{Input: "React 19의 새로운 기능을 학습하고 있습니다"}

	first := engine.Route(context.Background(), env)
	require.True(t, first.Success)
	assert.Equal(t, RuleHeuristic, first.Route)

	second := engine.Route(context.Background(), env)
	require.True(t, second.Success)
	assert.Equal(t, RouteCache, second.Route)
	assert.Equal(t, first.Result.ID, second.Result.ID)
}

func TestEngine_Route_HeadlineBypassesCache(t *testing.T) {
	classifier := newTestClassifier()
	store := newMemStorage()
	engine := New(classifier, DefaultRules(classifier, nil), nil, store)

	env := model.RouteEnvelope{Input: "React 19의 새로운 기능을 학습하고 있습니다"}
	require.True(t, engine.Route(context.Background(), env).Success)

	env.UserHeadline = "[archive]"
	res := engine.Route(context.Background(), env)

	require.True(t, res.Success)
	assert.Equal(t, RuleHeadline, res.Route)
	assert.Equal(t, model.CategoryArchiveDone, res.Result.Category)
}

func TestEngine_Route_PreferredRouteWinsOrdering(t *testing.T) {
	classifier := newTestClassifier()
	ai := &fakeAI{category: model.CategoryLearningTech, confidence: 90}

	prefs := service.StaticPreferences{
		"user-1": {PreferredRoute: RuleHeuristic, EnableAI: true},
	}
	engine := New(classifier, DefaultRules(classifier, ai), prefs, nil)

	res := engine.Route(context.Background(), model.RouteEnvelope{
		Input:    "React 19의 새로운 기능을 학습하고 있습니다",
		UserID:   "user-1",
		EnableAI: true,
	})

	// The preferred heuristic rule outranks the higher-priority AI rule.
	require.True(t, res.Success)
	assert.Equal(t, RuleHeuristic, res.Route)
	assert.Zero(t, ai.callCount())
}

func TestEngine_Stats(t *testing.T) {
	classifier := newTestClassifier()
	engine := New(classifier, DefaultRules(classifier, nil), nil, nil)

	for i := 0; i < 3; i++ {
		engine.Route(context.Background(), model.RouteEnvelope{
			Input: "React 19의 새로운 기능을 학습하고 있습니다",
		})
	}
	engine.Route(context.Background(), model.RouteEnvelope{Input: "가"})

	stats, rules := engine.Stats()
	assert.Equal(t, int64(4), stats.TotalCalls)
	assert.Equal(t, int64(3), stats.SuccessCount)
	assert.Equal(t, int64(1), stats.FailureCount)

	require.Len(t, rules, 1)
	assert.Equal(t, RuleHeuristic, rules[0].RuleID)
	assert.Equal(t, int64(3), rules[0].Attempts)
	assert.InDelta(t, 1.0, rules[0].SuccessRate, 1e-9)
}

func TestEngine_Route_CanceledContext(t *testing.T) {
	classifier := newTestClassifier()
	engine := New(classifier, DefaultRules(classifier, nil), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := engine.Route(ctx, model.RouteEnvelope{Input: "유효한 입력 내용"})
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}
