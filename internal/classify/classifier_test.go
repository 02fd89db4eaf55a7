package classify

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parabrain/para-flow/internal/common"
	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/taxonomy"
	"github.com/parabrain/para-flow/internal/weights"
)

func newTestService() *Service {
	clock := FixedClock{Time: time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)}
	return New(weights.NewMemoryStore(), taxonomy.NewPathResolver(nil), clock)
}

func TestService_ValidateInput(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "empty", input: "", wantErr: true},
		{name: "one rune", input: "가", wantErr: true},
		{name: "two runes", input: "가나", wantErr: true},
		{name: "three runes is the minimum", input: "가나다", wantErr: false},
		{name: "exactly max length", input: strings.Repeat("가", 10000), wantErr: false},
		{name: "one over max length", input: strings.Repeat("가", 10001), wantErr: true},
		{name: "short korean counts runes not bytes", input: "회의록", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateInput(tt.input)
			if tt.wantErr {
				var valErr *common.ValidationError
				require.ErrorAs(t, err, &valErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_Classify_HeadlineOverride(t *testing.T) {
	svc := newTestService()

	// The input screams learning-tech; the headline must win anyway.
	result, err := svc.Classify("React 19의 새로운 기능을 학습하고 있습니다", "[archive]", nil)
	require.NoError(t, err)

	assert.Equal(t, model.CategoryArchiveDone, result.Category)
	assert.Equal(t, 95, result.Confidence)
	assert.Equal(t, model.SourceHeadline, result.Source)
	assert.Equal(t, model.ParaArchives, result.ParaCategory)
}

func TestService_Classify_TempHeadlineSkips(t *testing.T) {
	svc := newTestService()

	result, err := svc.Classify("나중에 다시 볼 내용", "[temp]", nil)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, common.ErrSkipClassification)
}

func TestService_Classify_UnknownHeadlineFailsLoudly(t *testing.T) {
	svc := newTestService()

	_, err := svc.Classify("내용입니다", "[nonsense]", nil)

	var classErr *common.ClassificationError
	require.ErrorAs(t, err, &classErr)
	assert.Equal(t, "[nonsense]", classErr.Headline)
}

func TestService_Classify_TechnicalLearningContent(t *testing.T) {
	svc := newTestService()

	result, err := svc.Classify("React 19의 새로운 기능을 학습하고 있습니다", "", nil)
	require.NoError(t, err)

	assert.Equal(t, model.CategoryLearningTech, result.Category)
	assert.Equal(t, model.SourceIntegrated, result.Source)
	assert.GreaterOrEqual(t, result.Confidence, 70)
	assert.Equal(t, model.ParaResources, result.ParaCategory)
	assert.Equal(t, model.PriorityImportant, result.Priority)

	// learning-tech syncs everywhere; every destination gets a folder path.
	require.Len(t, result.Destinations, 3)
	for _, platform := range result.Destinations {
		assert.NotEmpty(t, result.FolderPaths[platform])
	}
}

func TestService_Classify_LowConfidenceFallsBack(t *testing.T) {
	svc := newTestService()

	result, err := svc.Classify("hello world", "", nil)
	require.NoError(t, err)

	assert.Equal(t, taxonomy.FallbackCategory, result.Category)
	assert.Equal(t, 50, result.Confidence)
	assert.Equal(t, model.SourceFallback, result.Source)
	assert.Contains(t, result.Reasoning, "low confidence")
}

func TestService_Classify_NeverReturnsOutOfTaxonomyCategory(t *testing.T) {
	svc := newTestService()

	inputs := []string{
		"회의 자료 정리",
		"주말에 가족 여행 예약",
		"운동 루틴 기록",
		"hello world",
		"완료된 프로젝트 보관",
		strings.Repeat("가나다 ", 100),
	}

	for _, input := range inputs {
		result, err := svc.Classify(input, "", nil)
		require.NoError(t, err, "input %q", input)
		assert.True(t, taxonomy.Contains(result.Category), "input %q produced %s", input, result.Category)
	}
}

func TestService_Classify_Deterministic(t *testing.T) {
	svc := newTestService()

	first, err := svc.Classify("프로젝트 배포 준비, release 전에 설계 리뷰", "", nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := svc.Classify("프로젝트 배포 준비, release 전에 설계 리뷰", "", nil)
		require.NoError(t, err)
		assert.Equal(t, first.Category, again.Category)
		assert.Equal(t, first.Confidence, again.Confidence)
		assert.Equal(t, first.Source, again.Source)
		// Each decision is its own immutable record.
		assert.NotEqual(t, first.ID, again.ID)
	}
}

func TestService_Classify_HistoryInfluencesContext(t *testing.T) {
	svc := newTestService()

	history := make([]model.CategoryName, 10)
	for i := range history {
		history[i] = model.CategoryPersonalGrowth
	}

	// Low-signal text plus a strong personal-growth habit: context pushes the
	// integrated score over the threshold.
	result, err := svc.Classify("오늘도 기록", "", history)
	require.NoError(t, err)
	assert.True(t, taxonomy.Contains(result.Category))
}

func TestService_BuildResult_UnknownCategory(t *testing.T) {
	svc := newTestService()

	_, err := svc.BuildResult("invented", 50, model.SourceIntegrated, "")

	var taxErr *common.TaxonomyError
	require.ErrorAs(t, err, &taxErr)
}

func TestService_BuildResult_CopiesCategoryMetadata(t *testing.T) {
	svc := newTestService()

	result, err := svc.BuildResult(model.CategoryWorkCore, 80, model.SourceIntegrated, "test")
	require.NoError(t, err)

	// Mutating the result must not reach the shared taxonomy table.
	result.Destinations[0] = "tampered"

	cat, err := taxonomy.Lookup(model.CategoryWorkCore)
	require.NoError(t, err)
	assert.Equal(t, model.PlatformObsidian, cat.Destinations[0])
}

func TestNewWithConfig_AppliesBounds(t *testing.T) {
	clock := FixedClock{Time: time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)}
	svc := NewWithConfig(weights.NewMemoryStore(), taxonomy.NewPathResolver(nil), clock, Config{
		MinInputLength: 1,
		MaxInputLength: 5,
	})

	assert.NoError(t, svc.ValidateInput("가"))
	assert.Error(t, svc.ValidateInput("가나다라마바"))
}
