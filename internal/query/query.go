// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query composes scoped query strings from the navigation
// index. Builders never fail: a missing section or keyword degrades to
// a less-scoped but valid query, preserving liveness of the retrieval
// workflow over precision.
package query

import (
	"fmt"
	"strings"

	"github.com/pdiddy/notebook-engine/internal/navigation"
	"github.com/pdiddy/notebook-engine/pkg/types"
)

// Builder composes query phrasings over one navigation index.
type Builder struct {
	nav *navigation.Index
}

// NewBuilder returns a builder over idx.
func NewBuilder(idx *navigation.Index) *Builder {
	return &Builder{nav: idx}
}

// SectionQuery scopes question to the section named by sectionHint. An
// empty or unresolvable hint falls back to the index's automatic
// keyword scoping.
func (b *Builder) SectionQuery(question, sectionHint string) string {
	if sectionHint != "" {
		if section := b.nav.Section(sectionHint); section != nil {
			return fmt.Sprintf("In section '%s' find: %s", section.Title, question)
		}
	}
	return b.nav.NavigationQuery(question)
}

// MultiSectionQuery scopes question to several sections at once, for
// answers that may span locations. Unresolvable IDs are dropped; when
// none resolve the bare question is returned unchanged.
func (b *Builder) MultiSectionQuery(question string, sectionIDs []string) string {
	var titles []string
	for _, id := range sectionIDs {
		if section := b.nav.Section(id); section != nil {
			titles = append(titles, fmt.Sprintf("'%s'", section.Title))
		}
	}
	if len(titles) == 0 {
		return question
	}
	return fmt.Sprintf("In sections %s find: %s", strings.Join(titles, ", "), question)
}

// ComparisonQuery builds a fixed compare phrasing for two topics,
// optionally scoped to a section.
func (b *Builder) ComparisonQuery(topicA, topicB, sectionID string) string {
	base := fmt.Sprintf("Compare %s and %s", topicA, topicB)

	if sectionID != "" {
		if section := b.nav.Section(sectionID); section != nil {
			return fmt.Sprintf("In section '%s' %s", section.Title, base)
		}
	}
	return base
}

// FollowupQuery asserts continuity with prior context. It is a phrasing
// aid only; no conversation state is carried.
func (b *Builder) FollowupQuery(previousContext, newQuestion string) string {
	return fmt.Sprintf("Considering previous context about %s, %s", previousContext, newQuestion)
}

// DefaultTemplates returns the standard phrasing catalog. Templates are
// descriptive: they document effective patterns for callers and are not
// consulted by the builders.
func DefaultTemplates() []types.QueryTemplate {
	return []types.QueryTemplate{
		{
			Name:    "section_lookup",
			Pattern: "In section '{section}' find information about {topic}",
			Example: "In section 'API Reference' find information about authenticate method",
		},
		{
			Name:    "comparison",
			Pattern: "Compare {topic1} and {topic2} in section '{section}'",
			Example: "Compare GET and POST methods in section 'HTTP Methods'",
		},
		{
			Name:    "example_search",
			Pattern: "Find examples of {topic} usage",
			Example: "Find examples of OAuth authentication usage",
		},
		{
			Name:    "definition",
			Pattern: "What is {term} in context of {section}?",
			Example: "What is middleware in context of Express.js?",
		},
	}
}
