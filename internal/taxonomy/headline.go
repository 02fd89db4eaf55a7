package taxonomy

import (
	"sort"
	"strings"

	"github.com/parabrain/para-flow/internal/common"
	"github.com/parabrain/para-flow/internal/model"
)

// HeadlineSkip is returned by ResolveHeadline for the [temp] tag: the caller
// must skip classification entirely and route the input to a holding area.
const HeadlineSkip = model.CategoryName("")

// headlineOverrides is the closed set of caller-supplied override tags.
var headlineOverrides = map[string]model.CategoryName{
	"project-work":      model.CategoryWorkCore,
	"area-work":         model.CategoryWorkSupport,
	"area-growth":       model.CategoryPersonalGrowth,
	"area-personal":     model.CategoryPersonalLife,
	"resource-learning": model.CategoryLearningTech,
	"archive":           model.CategoryArchiveDone,
	"temp":              HeadlineSkip,
}

// ResolveHeadline maps an override tag to its category. Tags are matched
// case-insensitively, with surrounding whitespace and brackets ignored.
// The skip return is true for the special [temp] tag. Unrecognized tags are
// a caller programming error and fail loudly.
func ResolveHeadline(headline string) (name model.CategoryName, skip bool, err error) {
	tag := strings.ToLower(strings.TrimSpace(headline))
	tag = strings.TrimPrefix(tag, "[")
	tag = strings.TrimSuffix(tag, "]")

	mapped, ok := headlineOverrides[tag]
	if !ok {
		return "", false, &common.ClassificationError{Headline: headline}
	}
	if mapped == HeadlineSkip {
		return HeadlineSkip, true, nil
	}
	return mapped, false, nil
}

// HeadlineTags returns the recognized override tags in sorted order, for
// help text and CLI completion.
func HeadlineTags() []string {
	tags := make([]string, 0, len(headlineOverrides))
	for tag := range headlineOverrides {
		tags = append(tags, "["+tag+"]")
	}
	sort.Strings(tags)
	return tags
}
