// Package taxonomy holds the static MECE category table and everything
// derived from it: lookups, enumeration order, headline overrides, and
// per-platform folder path resolution.
package taxonomy

import (
	"regexp"

	"github.com/parabrain/para-flow/internal/common"
	"github.com/parabrain/para-flow/internal/model"
)

// paraFolders maps each P.A.R.A category to its numbered top-level folder,
// matching the vault layout the sync collaborators expect.
var paraFolders = map[model.ParaCategory]string{
	model.ParaProjects:  "01-Projects",
	model.ParaAreas:     "02-Areas",
	model.ParaResources: "03-Resources",
	model.ParaArchives:  "04-Archives",
}

func mustCompile(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

// categories is the fixed MECE taxonomy in canonical enumeration order.
// Keyword signatures are bilingual because most captured input is Korean
// with embedded English technical terms.
var categories = []model.Category{
	{
		Name:        model.CategoryWorkCore,
		DisplayName: "업무-핵심",
		Keywords: []string{
			"프로젝트", "project", "개발", "기획", "출시", "런칭", "launch",
			"마감", "deadline", "배포", "release", "구현", "설계", "웹사이트",
			"스프린트", "sprint", "milestone", "deliverable",
		},
		Patterns: mustCompile(
			`프로젝트|기획|설계|구현`,
			`(?i)(launch|release|deploy|sprint|milestone)`,
			`마감|출시|배포|런칭`,
			`개발(하|중|할)`,
		),
		Destinations:    []model.Platform{model.PlatformObsidian, model.PlatformNotion},
		PriorityDefault: model.PriorityUrgent,
		ParaMapping:     model.ParaProjects,
		SubPath:         "work-core",
	},
	{
		Name:        model.CategoryWorkSupport,
		DisplayName: "업무-지원",
		Keywords: []string{
			"회의", "meeting", "보고서", "report", "이메일", "email", "일정",
			"schedule", "정리", "관리", "업무", "문서", "결재", "요청", "협조",
			"공유", "전달",
		},
		Patterns: mustCompile(
			`회의|미팅|보고`,
			`(?i)(meeting|email|schedule|report)`,
			`(정리|관리|공유)(하|해|할)`,
			`요청|결재|협조`,
		),
		Destinations:    []model.Platform{model.PlatformObsidian, model.PlatformNotion},
		PriorityDefault: model.PriorityNormal,
		ParaMapping:     model.ParaAreas,
		SubPath:         "work-support",
	},
	{
		Name:        model.CategoryPersonalGrowth,
		DisplayName: "개인-성장",
		Keywords: []string{
			"운동", "exercise", "건강", "health", "습관", "habit", "명상",
			"meditation", "독서", "reading", "목표", "goal", "성장", "루틴",
			"routine", "다이어트", "식단",
		},
		Patterns: mustCompile(
			`운동|건강|습관|루틴`,
			`(?i)(exercise|habit|routine|goal)`,
			`명상|독서|식단|다이어트`,
			`매일|꾸준히|규칙적`,
		),
		Destinations:    []model.Platform{model.PlatformObsidian},
		PriorityDefault: model.PriorityImportant,
		ParaMapping:     model.ParaAreas,
		SubPath:         "personal-growth",
	},
	{
		Name:        model.CategoryPersonalLife,
		DisplayName: "개인-생활",
		Keywords: []string{
			"가족", "family", "친구", "friend", "쇼핑", "shopping", "여행",
			"travel", "취미", "hobby", "약속", "생활", "주말", "모임", "선물",
			"예약",
		},
		Patterns: mustCompile(
			`가족|친구|모임|약속`,
			`(?i)(travel|shopping|hobby)`,
			`여행|쇼핑|취미|선물`,
			`주말|휴가|저녁에`,
		),
		Destinations:    []model.Platform{model.PlatformObsidian, model.PlatformLocalPC},
		PriorityDefault: model.PriorityLow,
		ParaMapping:     model.ParaAreas,
		SubPath:         "personal-life",
	},
	{
		Name:        model.CategoryLearningTech,
		DisplayName: "학습-기술",
		Keywords: []string{
			"학습", "공부", "study", "배우", "기술", "technology", "강의",
			"course", "튜토리얼", "tutorial", "기능", "새로운", "새", "버전",
			"문법", "프레임워크", "framework", "라이브러리", "library", "react",
			"프로그래밍", "개념", "예제",
		},
		Patterns: mustCompile(
			`(?i)\b(react|vue|angular|svelte|typescript|javascript|python|golang|rust|kotlin|swift)\b`,
			`학습|공부|배우`,
			`새로운|최신|신규`,
			`기능|버전|릴리스|업데이트`,
			`\d+(\.\d+)*`,
			`(하|되)고 있`,
			`(?i)[a-z]+\s*\d+`,
		),
		Destinations:    []model.Platform{model.PlatformObsidian, model.PlatformNotion, model.PlatformLocalPC},
		PriorityDefault: model.PriorityImportant,
		ParaMapping:     model.ParaResources,
		SubPath:         "learning-tech",
	},
	{
		Name:        model.CategoryArchiveDone,
		DisplayName: "완료-보관",
		Keywords: []string{
			"완료", "done", "끝", "finished", "보관", "archive", "종료",
			"마무리", "과거", "historical", "지난", "옛날",
		},
		Patterns: mustCompile(
			`완료|종료|마무리`,
			`(?i)(done|finished|archived|completed)`,
			`보관|과거|지난`,
		),
		Destinations:    []model.Platform{model.PlatformLocalPC},
		PriorityDefault: model.PriorityLow,
		ParaMapping:     model.ParaArchives,
		SubPath:         "archive-done",
	},
}

// byName is built once at init for O(1) lookups.
var byName = func() map[model.CategoryName]*model.Category {
	m := make(map[model.CategoryName]*model.Category, len(categories))
	for i := range categories {
		m[categories[i].Name] = &categories[i]
	}
	return m
}()

// All returns every category in canonical enumeration order. The returned
// slice must not be modified.
func All() []model.Category {
	return categories
}

// Lookup returns the category with the given name, or a TaxonomyError if the
// name is not part of the fixed set.
func Lookup(name model.CategoryName) (*model.Category, error) {
	cat, ok := byName[name]
	if !ok {
		return nil, &common.TaxonomyError{Name: string(name)}
	}
	return cat, nil
}

// Contains reports whether name is a member of the taxonomy.
func Contains(name model.CategoryName) bool {
	_, ok := byName[name]
	return ok
}

// FallbackCategory is substituted when MECE validation fails.
const FallbackCategory = model.CategoryWorkSupport

// SubPath returns the P.A.R.A-relative folder for a category, e.g.
// "03-Resources/learning-tech".
func SubPath(cat *model.Category) string {
	return paraFolders[cat.ParaMapping] + "/" + cat.SubPath
}
