// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notebook structures content inside an external notebook
// service so later queries can be answered with minimal context. It
// sequences notebook creation and source ingestion, prefixes ingested
// text with rendered metadata, and maintains a navigation index that
// the query builder consults to scope questions.
package notebook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/notebook-engine/internal/navigation"
	"github.com/pdiddy/notebook-engine/pkg/types"
)

var (
	// ErrNoNotebook is returned when an operation requires a notebook
	// that has not been created yet.
	ErrNoNotebook = errors.New("no notebook: create one first")

	// ErrNoSourceInput is returned when AddSource receives neither text
	// nor a URL.
	ErrNoSourceInput = errors.New("source requires text or a url")

	// ErrBothSourceInputs is returned when AddSource receives both text
	// and a URL; the ingestion paths are mutually exclusive.
	ErrBothSourceInputs = errors.New("source text and url are mutually exclusive")
)

// Client is the narrow capability set the orchestrator needs from the
// external notebook service. Implementations normalize the service's
// result shapes; the orchestrator never branches on wire formats.
type Client interface {
	CreateNotebook(ctx context.Context, title string) (*types.Notebook, error)
	AddTextSource(ctx context.Context, notebookID, text, title string) (types.SourceResult, error)
	AddURLSource(ctx context.Context, notebookID, url, title string) (types.SourceResult, error)
	Query(ctx context.Context, notebookID, question string) (string, error)
	ListNotebooks(ctx context.Context) ([]types.Notebook, error)
}

// Template builds a structured notebook: sources carry metadata
// prefixes, every ingested source is registered in the navigation
// index, and the index scopes later queries.
type Template struct {
	client Client
	cfg    types.NotebookConfig

	// warnings receives non-fatal problems (e.g. a failed courtesy
	// ingestion of the notebook description).
	warnings io.Writer

	navigation *navigation.Index
	templates  []types.QueryTemplate
	notebookID string

	// sources maps logical section IDs to external source IDs.
	sources map[string]string
}

// NewTemplate returns a template backed by client. Warnings are written
// to w; pass io.Discard to suppress them.
func NewTemplate(client Client, cfg types.NotebookConfig, w io.Writer) *Template {
	if w == nil {
		w = io.Discard
	}
	return &Template{
		client:     client,
		cfg:        cfg,
		warnings:   w,
		navigation: navigation.NewIndex(),
		sources:    make(map[string]string),
	}
}

// Navigation returns the template's navigation index.
func (t *Template) Navigation() *navigation.Index {
	return t.navigation
}

// SetNavigation replaces the template's navigation index, typically with
// one loaded from the structure store.
func (t *Template) SetNavigation(idx *navigation.Index) {
	t.navigation = idx
}

// NotebookID returns the ID of the created notebook, or "" before
// CreateNotebook succeeds.
func (t *Template) NotebookID() string {
	return t.notebookID
}

// SetNotebookID attaches the template to an existing notebook.
func (t *Template) SetNotebookID(id string) {
	t.notebookID = id
}

// Sources returns the mapping from logical section IDs to external
// source IDs for everything ingested through this template.
func (t *Template) Sources() map[string]string {
	return t.sources
}

// CreateNotebook creates a notebook and remembers its ID. A non-empty
// description is ingested as an index source for context; failure there
// is a warning, not an error, since the description is a courtesy
// summary.
func (t *Template) CreateNotebook(ctx context.Context, title, description string) (string, error) {
	nb, err := t.client.CreateNotebook(ctx, title)
	if err != nil {
		return "", fmt.Errorf("creating notebook: %w", err)
	}
	if nb == nil || nb.ID == "" {
		return "", fmt.Errorf("creating notebook %q: service returned no result", title)
	}

	t.notebookID = nb.ID

	if description != "" {
		_, err := t.client.AddTextSource(ctx, t.notebookID, description, "Notebook structure description")
		if err != nil {
			fmt.Fprintf(t.warnings, "warning: failed to add index source: %v\n", err)
		}
	}

	return nb.ID, nil
}

// AddSourceInput selects the content for one source. Exactly one of URL
// and Text must be set.
type AddSourceInput struct {
	// URL ingests a remote source. Metadata is not prefixed into URL
	// sources; it lives only in the navigation index.
	URL string

	// Text ingests inline content. The rendered metadata prefix is
	// prepended before ingestion.
	Text string

	// SectionID overrides the section ID derived from the title.
	SectionID string

	// ParentID places the section under an existing section.
	ParentID string
}

// AddSource ingests one source with metadata and registers it in the
// navigation index. The returned source ID is the service's when it
// reports one, else a deterministic "source_<slug>" fallback that is not
// globally unique across repeated titles.
func (t *Template) AddSource(ctx context.Context, meta types.SourceMetadata, input AddSourceInput) (string, error) {
	if t.notebookID == "" {
		return "", ErrNoNotebook
	}
	if input.Text == "" && input.URL == "" {
		return "", ErrNoSourceInput
	}
	if input.Text != "" && input.URL != "" {
		return "", ErrBothSourceInputs
	}

	var (
		result types.SourceResult
		err    error
	)
	if input.Text != "" {
		fullText := FormatMetadataPrefix(meta) + "\n" + input.Text
		result, err = t.client.AddTextSource(ctx, t.notebookID, fullText, meta.Title)
		if err != nil {
			return "", fmt.Errorf("adding text source %q: %w", meta.Title, err)
		}
	} else {
		result, err = t.client.AddURLSource(ctx, t.notebookID, input.URL, meta.Title)
		if err != nil {
			return "", fmt.Errorf("adding url source %q: %w", meta.Title, err)
		}
	}

	sectionID := input.SectionID
	if sectionID == "" {
		sectionID = Slug(meta.Title)
	}

	keywords := make([]string, 0, len(meta.Tags)+1)
	keywords = append(keywords, meta.Tags...)
	keywords = append(keywords, meta.Category)

	metaCopy := meta
	if _, err := t.navigation.AddSection(sectionID, meta.Title, meta.Description, keywords, input.ParentID, &metaCopy); err != nil {
		return "", fmt.Errorf("registering section %q: %w", sectionID, err)
	}

	sourceID := result.SourceID
	if sourceID == "" {
		sourceID = "source_" + Slug(meta.Title)
	}
	t.sources[sectionID] = sourceID

	return sourceID, nil
}

// OptimizedQuery scopes question through the navigation index when
// hinting is requested; otherwise it returns the question unchanged.
func (t *Template) OptimizedQuery(question string, useSectionHint bool) string {
	if useSectionHint {
		return t.navigation.NavigationQuery(question)
	}
	return question
}

// AddQueryTemplate appends a phrasing template to the catalog.
func (t *Template) AddQueryTemplate(tpl types.QueryTemplate) {
	t.templates = append(t.templates, tpl)
}

// QueryTemplates returns the template catalog in insertion order.
func (t *Template) QueryTemplates() []types.QueryTemplate {
	return t.templates
}

// NavigationSummary renders the notebook structure as ingestible text:
// a heading followed by the index's hierarchy rendering.
func (t *Template) NavigationSummary() string {
	return "# Notebook navigation map\n\n" + t.navigation.Summary()
}

// Slug derives a section identifier from a title: lowercased, spaces
// replaced with underscores.
func Slug(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "_")
}
