// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SourceType categorizes an ingested source for navigation and retrieval.
type SourceType string

const (
	SourceDocumentation SourceType = "documentation"
	SourceCode          SourceType = "code"
	SourceTutorial      SourceType = "tutorial"
	SourceReference     SourceType = "reference"
	SourceAPIDocs       SourceType = "api_docs"
	SourceExamples      SourceType = "examples"
)

// SourceMetadata describes one unit of ingested content. The metadata is
// rendered into a text prefix before ingestion so the notebook service's
// lexical index sees it as part of the document body. Immutable once
// attached to a navigation node.
type SourceMetadata struct {
	// Title is the source display title. Required, non-empty.
	Title string `json:"title" yaml:"title"`

	// Category groups related sources and doubles as a navigation keyword.
	Category string `json:"category" yaml:"category"`

	// Tags are search keywords in caller-supplied order.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Description is a short summary of the content.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Type categorizes the source: documentation, code, tutorial,
	// reference, api_docs, or examples.
	Type SourceType `json:"type" yaml:"type"`

	// Priority ranks the source from 1 to 10, where 10 is most important.
	Priority int `json:"priority" yaml:"priority"`

	// RelatedSections lists section IDs of related sources.
	RelatedSections []string `json:"related_sections,omitempty" yaml:"related_sections,omitempty"`
}

// QueryTemplate is a reusable query phrasing pattern. Templates are a
// descriptive catalog only; nothing consults them programmatically.
type QueryTemplate struct {
	// Name identifies the template (e.g. "section_lookup").
	Name string `json:"name" yaml:"name"`

	// Pattern is the phrasing with {placeholder} markers.
	Pattern string `json:"pattern" yaml:"pattern"`

	// TargetSections optionally lists section IDs the pattern applies to.
	TargetSections []string `json:"target_sections,omitempty" yaml:"target_sections,omitempty"`

	// Example is a filled-in instance of the pattern.
	Example string `json:"example" yaml:"example"`
}

// Notebook identifies a notebook in the external service.
type Notebook struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
}

// SourceResult is the normalized outcome of adding a source. The client
// boundary is responsible for mapping whatever identifier shape the
// service returns into SourceID; SourceID may be empty when the service
// accepted the source but reported no identifier.
type SourceResult struct {
	SourceID string `json:"source_id" yaml:"source_id"`
}
