package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parabrain/para-flow/internal/common"
	"github.com/parabrain/para-flow/internal/model"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "para-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testResult(id string, category model.CategoryName, at time.Time) *model.ClassificationResult {
	return &model.ClassificationResult{
		ID:           id,
		Category:     category,
		Source:       model.SourceIntegrated,
		Reasoning:    "keyword and pattern agreement",
		Priority:     model.PriorityImportant,
		ParaCategory: model.ParaResources,
		Destinations: []model.Platform{model.PlatformObsidian, model.PlatformNotion},
		FolderPaths: map[model.Platform]string{
			model.PlatformObsidian: "03-Resources/learning-tech",
		},
		Confidence:   75,
		ClassifiedAt: at,
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSaveAndGetClassification(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	at := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	saved := testResult("result-1", model.CategoryLearningTech, at)
	hash := common.ContentHash("React Hook useState 사용법")

	require.NoError(t, store.SaveClassification(ctx, hash, saved, "anthropic", 42))

	got, err := store.GetClassificationByHash(ctx, hash)
	require.NoError(t, err)

	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, saved.Category, got.Category)
	assert.Equal(t, saved.Source, got.Source)
	assert.Equal(t, saved.Confidence, got.Confidence)
	assert.Equal(t, saved.Priority, got.Priority)
	assert.Equal(t, saved.ParaCategory, got.ParaCategory)
	assert.Equal(t, saved.Destinations, got.Destinations)
	assert.Equal(t, saved.FolderPaths, got.FolderPaths)
	assert.True(t, got.ClassifiedAt.Equal(at))
}

func TestGetClassificationByHash_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetClassificationByHash(context.Background(), common.ContentHash("never seen"))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveClassification_UpsertReplacesRow(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	hash := common.ContentHash("same content twice")

	first := testResult("result-1", model.CategoryWorkCore, time.Now().UTC())
	require.NoError(t, store.SaveClassification(ctx, hash, first, "anthropic", 10))

	second := testResult("result-2", model.CategoryArchiveDone, time.Now().UTC())
	require.NoError(t, store.SaveClassification(ctx, hash, second, "ollama", 20))

	got, err := store.GetClassificationByHash(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, "result-2", got.ID)
	assert.Equal(t, model.CategoryArchiveDone, got.Category)

	recent, err := store.GetRecentClassifications(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestSaveClassification_Validation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	assert.Error(t, store.SaveClassification(ctx, "", testResult("r", model.CategoryWorkCore, time.Time{}), "p", 0))
	assert.Error(t, store.SaveClassification(ctx, "hash", nil, "p", 0))
}

func TestGetRecentClassifications_OrderAndLimit(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		result := testResult(
			string(rune('a'+i)),
			model.CategoryWorkSupport,
			base.Add(time.Duration(i)*time.Minute),
		)
		hash := common.ContentHash(result.ID)
		require.NoError(t, store.SaveClassification(ctx, hash, result, "anthropic", 5))
	}

	recent, err := store.GetRecentClassifications(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)

	assert.Equal(t, "e", recent[0].ID)
	assert.Equal(t, "d", recent[1].ID)
	assert.Equal(t, "c", recent[2].ID)
}

func TestCorrections_SaveAndList(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	first := &model.Correction{
		ResultID:     "result-1",
		InputExcerpt: "주간 회의록 정리",
		Original:     model.CategoryWorkCore,
		Corrected:    model.CategoryWorkSupport,
		CorrectedAt:  time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
	}
	second := &model.Correction{
		ResultID:     "result-2",
		InputExcerpt: "React 공부",
		Original:     model.CategoryPersonalGrowth,
		Corrected:    model.CategoryLearningTech,
		CorrectedAt:  time.Date(2026, 8, 25, 11, 0, 0, 0, time.UTC),
	}

	require.NoError(t, store.SaveCorrection(ctx, first))
	require.NoError(t, store.SaveCorrection(ctx, second))

	corrections, err := store.GetCorrections(ctx, 10)
	require.NoError(t, err)
	require.Len(t, corrections, 2)

	assert.Equal(t, "result-2", corrections[0].ResultID)
	assert.Equal(t, "result-1", corrections[1].ResultID)
	assert.Equal(t, model.CategoryLearningTech, corrections[0].Corrected)
}

func TestSaveCorrection_Validation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	assert.Error(t, store.SaveCorrection(ctx, nil))
	assert.Error(t, store.SaveCorrection(ctx, &model.Correction{}))
}

func TestProviderStatus_FoldsLatencyAverage(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.UpdateProviderStatus(ctx, "anthropic", true, 100))
	require.NoError(t, store.UpdateProviderStatus(ctx, "anthropic", true, 200))
	require.NoError(t, store.UpdateProviderStatus(ctx, "ollama", false, 50))

	statuses, err := store.GetProviderStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	anthropic := statuses[0]
	assert.Equal(t, "anthropic", anthropic.Provider)
	assert.True(t, anthropic.Healthy)
	assert.Equal(t, int64(2), anthropic.SuccessCount)
	assert.Equal(t, int64(0), anthropic.FailureCount)
	assert.InDelta(t, 150.0, anthropic.AvgLatencyMs, 0.001)

	ollama := statuses[1]
	assert.Equal(t, "ollama", ollama.Provider)
	assert.False(t, ollama.Healthy)
	assert.Equal(t, int64(1), ollama.FailureCount)
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.Error(t, err)
}
