package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parabrain/para-flow/internal/common"
	"github.com/parabrain/para-flow/internal/model"
)

func TestResolveHeadline(t *testing.T) {
	tests := []struct {
		name     string
		headline string
		want     model.CategoryName
		wantSkip bool
		wantErr  bool
	}{
		{
			name:     "bracketed tag",
			headline: "[project-work]",
			want:     model.CategoryWorkCore,
		},
		{
			name:     "bare tag",
			headline: "resource-learning",
			want:     model.CategoryLearningTech,
		},
		{
			name:     "uppercase tag",
			headline: "[ARCHIVE]",
			want:     model.CategoryArchiveDone,
		},
		{
			name:     "surrounding whitespace",
			headline: "  [area-growth]  ",
			want:     model.CategoryPersonalGrowth,
		},
		{
			name:     "area-work",
			headline: "[area-work]",
			want:     model.CategoryWorkSupport,
		},
		{
			name:     "area-personal",
			headline: "[area-personal]",
			want:     model.CategoryPersonalLife,
		},
		{
			name:     "temp skips classification",
			headline: "[temp]",
			wantSkip: true,
		},
		{
			name:     "unknown tag fails loudly",
			headline: "[whatever]",
			wantErr:  true,
		},
		{
			name:     "empty headline fails loudly",
			headline: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, skip, err := ResolveHeadline(tt.headline)

			if tt.wantErr {
				require.Error(t, err)
				var classErr *common.ClassificationError
				require.ErrorAs(t, err, &classErr)
				assert.Equal(t, tt.headline, classErr.Headline)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSkip, skip)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveHeadline_CoversEveryCategory(t *testing.T) {
	seen := make(map[model.CategoryName]bool)
	for tag, name := range headlineOverrides {
		if name == HeadlineSkip {
			continue
		}
		got, skip, err := ResolveHeadline("[" + tag + "]")
		require.NoError(t, err)
		assert.False(t, skip)
		seen[got] = true
	}

	for _, cat := range All() {
		assert.True(t, seen[cat.Name], "no headline tag maps to %s", cat.Name)
	}
}

func TestHeadlineTags_SortedAndBracketed(t *testing.T) {
	tags := HeadlineTags()
	require.Len(t, tags, len(headlineOverrides))

	assert.IsIncreasing(t, tags)
	for _, tag := range tags {
		assert.True(t, len(tag) > 2 && tag[0] == '[' && tag[len(tag)-1] == ']', "tag %q not bracketed", tag)
	}
	assert.Contains(t, tags, "[temp]")
}
