// Package model defines the core domain models used throughout the application.
package model

import "regexp"

// Platform identifies a sync destination for classified content.
type Platform string

// Supported destination platforms.
const (
	PlatformObsidian Platform = "obsidian"
	PlatformNotion   Platform = "notion"
	PlatformLocalPC  Platform = "localPC"
)

// Priority indicates how urgently a piece of content should be handled.
type Priority string

// Priority levels, from most to least pressing.
const (
	PriorityUrgent    Priority = "urgent"
	PriorityImportant Priority = "important"
	PriorityNormal    Priority = "normal"
	PriorityLow       Priority = "low"
)

// ParaCategory is the P.A.R.A folder a category maps onto.
type ParaCategory string

// P.A.R.A top-level folders.
const (
	ParaProjects  ParaCategory = "Projects"
	ParaAreas     ParaCategory = "Areas"
	ParaResources ParaCategory = "Resources"
	ParaArchives  ParaCategory = "Archives"
)

// CategoryName identifies one of the fixed MECE categories.
type CategoryName string

// The closed MECE category set. Declaration order here is the canonical
// enumeration order used for deterministic tie-breaking.
const (
	CategoryWorkCore       CategoryName = "work-core"
	CategoryWorkSupport    CategoryName = "work-support"
	CategoryPersonalGrowth CategoryName = "personal-growth"
	CategoryPersonalLife   CategoryName = "personal-life"
	CategoryLearningTech   CategoryName = "learning-tech"
	CategoryArchiveDone    CategoryName = "archive-done"
)

// Category describes one MECE category: its heuristic signatures, where
// matching content should be synced, and how it maps onto P.A.R.A.
type Category struct {
	Name            CategoryName
	DisplayName     string
	Keywords        []string
	Patterns        []*regexp.Regexp
	Destinations    []Platform
	PriorityDefault Priority
	ParaMapping     ParaCategory
	SubPath         string
}
