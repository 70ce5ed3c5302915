// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/notebook-engine/pkg/types"
)

// fakeClient records calls and returns scripted results.
type fakeClient struct {
	createErr    error
	createResult *types.Notebook

	textErr    error
	textResult types.SourceResult
	textCalls  []textCall

	urlErr    error
	urlResult types.SourceResult
	urlCalls  []urlCall
}

type textCall struct {
	notebookID, text, title string
}

type urlCall struct {
	notebookID, url, title string
}

func (f *fakeClient) CreateNotebook(ctx context.Context, title string) (*types.Notebook, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createResult != nil {
		return f.createResult, nil
	}
	return &types.Notebook{ID: "nb-1", Title: title}, nil
}

func (f *fakeClient) AddTextSource(ctx context.Context, notebookID, text, title string) (types.SourceResult, error) {
	f.textCalls = append(f.textCalls, textCall{notebookID, text, title})
	return f.textResult, f.textErr
}

func (f *fakeClient) AddURLSource(ctx context.Context, notebookID, url, title string) (types.SourceResult, error) {
	f.urlCalls = append(f.urlCalls, urlCall{notebookID, url, title})
	return f.urlResult, f.urlErr
}

func (f *fakeClient) Query(ctx context.Context, notebookID, question string) (string, error) {
	return "", fmt.Errorf("not scripted")
}

func (f *fakeClient) ListNotebooks(ctx context.Context) ([]types.Notebook, error) {
	return nil, nil
}

func sampleMeta() types.SourceMetadata {
	return types.SourceMetadata{
		Title:       "Python Basics",
		Category:    "python",
		Tags:        []string{"functions", "loops"},
		Description: "intro",
		Type:        types.SourceTutorial,
		Priority:    7,
	}
}

// --- CreateNotebook ---

func TestCreateNotebook(t *testing.T) {
	client := &fakeClient{}
	tmpl := NewTemplate(client, types.DefaultNotebookConfig(), nil)

	id, err := tmpl.CreateNotebook(context.Background(), "My Notebook", "")
	if err != nil {
		t.Fatalf("CreateNotebook error: %v", err)
	}
	if id != "nb-1" || tmpl.NotebookID() != "nb-1" {
		t.Errorf("notebook id = %q / %q, want nb-1", id, tmpl.NotebookID())
	}
	if len(client.textCalls) != 0 {
		t.Errorf("empty description should not be ingested")
	}
}

func TestCreateNotebook_DescriptionIngested(t *testing.T) {
	client := &fakeClient{}
	tmpl := NewTemplate(client, types.DefaultNotebookConfig(), nil)

	if _, err := tmpl.CreateNotebook(context.Background(), "My Notebook", "Structure overview"); err != nil {
		t.Fatalf("CreateNotebook error: %v", err)
	}

	if len(client.textCalls) != 1 {
		t.Fatalf("description ingestion calls = %d, want 1", len(client.textCalls))
	}
	call := client.textCalls[0]
	if call.notebookID != "nb-1" || call.text != "Structure overview" {
		t.Errorf("unexpected index source call: %+v", call)
	}
	if call.title != "Notebook structure description" {
		t.Errorf("index source title = %q", call.title)
	}
}

func TestCreateNotebook_DescriptionFailureIsWarning(t *testing.T) {
	client := &fakeClient{textErr: errors.New("quota exceeded")}
	var warnings bytes.Buffer
	tmpl := NewTemplate(client, types.DefaultNotebookConfig(), &warnings)

	id, err := tmpl.CreateNotebook(context.Background(), "My Notebook", "Structure overview")
	if err != nil {
		t.Fatalf("CreateNotebook should not fail on description ingestion: %v", err)
	}
	if id != "nb-1" {
		t.Errorf("notebook id = %q, want nb-1", id)
	}
	if !strings.Contains(warnings.String(), "warning:") {
		t.Errorf("expected a warning, got %q", warnings.String())
	}
}

func TestCreateNotebook_NoResult(t *testing.T) {
	client := &fakeClient{createResult: &types.Notebook{}}
	tmpl := NewTemplate(client, types.DefaultNotebookConfig(), nil)

	if _, err := tmpl.CreateNotebook(context.Background(), "My Notebook", ""); err == nil {
		t.Fatalf("CreateNotebook should fail when the service returns no id")
	}
	if tmpl.NotebookID() != "" {
		t.Errorf("failed creation must not set the notebook id")
	}
}

// --- AddSource ---

func TestAddSource_Validation(t *testing.T) {
	tests := []struct {
		name     string
		notebook string
		input    AddSourceInput
		wantErr  error
	}{
		{"no notebook", "", AddSourceInput{Text: "body"}, ErrNoNotebook},
		{"neither text nor url", "nb-1", AddSourceInput{}, ErrNoSourceInput},
		{"both text and url", "nb-1", AddSourceInput{Text: "body", URL: "https://example.com"}, ErrBothSourceInputs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{}
			tmpl := NewTemplate(client, types.DefaultNotebookConfig(), nil)
			tmpl.SetNotebookID(tt.notebook)

			_, err := tmpl.AddSource(context.Background(), sampleMeta(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddSource error = %v, want %v", err, tt.wantErr)
			}
			if tmpl.Navigation().Len() != 0 {
				t.Errorf("rejected AddSource mutated the navigation index")
			}
			if len(client.textCalls)+len(client.urlCalls) != 0 {
				t.Errorf("rejected AddSource reached the service")
			}
		})
	}
}

func TestAddSource_TextGetsMetadataPrefix(t *testing.T) {
	client := &fakeClient{textResult: types.SourceResult{SourceID: "src-9"}}
	tmpl := NewTemplate(client, types.DefaultNotebookConfig(), nil)
	tmpl.SetNotebookID("nb-1")

	meta := sampleMeta()
	id, err := tmpl.AddSource(context.Background(), meta, AddSourceInput{Text: "def f(): pass"})
	if err != nil {
		t.Fatalf("AddSource error: %v", err)
	}
	if id != "src-9" {
		t.Errorf("source id = %q, want src-9", id)
	}

	if len(client.textCalls) != 1 {
		t.Fatalf("text calls = %d, want 1", len(client.textCalls))
	}
	call := client.textCalls[0]
	if call.title != "Python Basics" {
		t.Errorf("source title = %q, want metadata title", call.title)
	}
	wantText := FormatMetadataPrefix(meta) + "\ndef f(): pass"
	if call.text != wantText {
		t.Errorf("ingested text = %q, want %q", call.text, wantText)
	}
	// Prefix and body separated by a blank line.
	if !strings.Contains(call.text, "---\n\ndef f(): pass") {
		t.Errorf("prefix not separated from body by blank line: %q", call.text)
	}
}

func TestAddSource_URLNotPrefixed(t *testing.T) {
	client := &fakeClient{urlResult: types.SourceResult{SourceID: "src-url"}}
	tmpl := NewTemplate(client, types.DefaultNotebookConfig(), nil)
	tmpl.SetNotebookID("nb-1")

	id, err := tmpl.AddSource(context.Background(), sampleMeta(), AddSourceInput{URL: "https://docs.python.org"})
	if err != nil {
		t.Fatalf("AddSource error: %v", err)
	}
	if id != "src-url" {
		t.Errorf("source id = %q, want src-url", id)
	}

	if len(client.urlCalls) != 1 {
		t.Fatalf("url calls = %d, want 1", len(client.urlCalls))
	}
	call := client.urlCalls[0]
	if call.url != "https://docs.python.org" || call.title != "Python Basics" {
		t.Errorf("unexpected url call: %+v", call)
	}
}

func TestAddSource_RegistersSection(t *testing.T) {
	client := &fakeClient{textResult: types.SourceResult{SourceID: "src-1"}}
	tmpl := NewTemplate(client, types.DefaultNotebookConfig(), nil)
	tmpl.SetNotebookID("nb-1")

	if _, err := tmpl.AddSource(context.Background(), sampleMeta(), AddSourceInput{Text: "body"}); err != nil {
		t.Fatalf("AddSource error: %v", err)
	}

	node := tmpl.Navigation().Section("python_basics")
	if node == nil {
		t.Fatalf("section not registered under slug of title")
	}
	// Keywords are tags then category, in that order.
	want := []string{"functions", "loops", "python"}
	if len(node.Keywords) != len(want) {
		t.Fatalf("keywords = %v, want %v", node.Keywords, want)
	}
	for i := range want {
		if node.Keywords[i] != want[i] {
			t.Errorf("keywords[%d] = %s, want %s", i, node.Keywords[i], want[i])
		}
	}
	if node.Metadata == nil || node.Metadata.Priority != 7 {
		t.Errorf("metadata not attached to section")
	}
	if tmpl.Sources()["python_basics"] != "src-1" {
		t.Errorf("source mapping = %v", tmpl.Sources())
	}
}

func TestAddSource_ExplicitSectionAndParent(t *testing.T) {
	client := &fakeClient{}
	tmpl := NewTemplate(client, types.DefaultNotebookConfig(), nil)
	tmpl.SetNotebookID("nb-1")

	meta := sampleMeta()
	meta.Title = "Python"
	if _, err := tmpl.AddSource(context.Background(), meta, AddSourceInput{Text: "overview", SectionID: "python"}); err != nil {
		t.Fatal(err)
	}

	child := sampleMeta()
	if _, err := tmpl.AddSource(context.Background(), child, AddSourceInput{Text: "body", SectionID: "py_basics", ParentID: "python"}); err != nil {
		t.Fatal(err)
	}

	parent := tmpl.Navigation().Section("python")
	if len(parent.Children) != 1 || parent.Children[0].SectionID != "py_basics" {
		t.Errorf("child section not attached under parent")
	}
}

func TestAddSource_FallbackSourceID(t *testing.T) {
	client := &fakeClient{} // service reports no id
	tmpl := NewTemplate(client, types.DefaultNotebookConfig(), nil)
	tmpl.SetNotebookID("nb-1")

	id, err := tmpl.AddSource(context.Background(), sampleMeta(), AddSourceInput{Text: "body"})
	if err != nil {
		t.Fatalf("AddSource error: %v", err)
	}
	if id != "source_python_basics" {
		t.Errorf("fallback source id = %q, want source_python_basics", id)
	}
}

func TestAddSource_IngestionFailure(t *testing.T) {
	client := &fakeClient{textErr: errors.New("upstream down")}
	tmpl := NewTemplate(client, types.DefaultNotebookConfig(), nil)
	tmpl.SetNotebookID("nb-1")

	if _, err := tmpl.AddSource(context.Background(), sampleMeta(), AddSourceInput{Text: "body"}); err == nil {
		t.Fatalf("AddSource should propagate ingestion failure")
	}
	if tmpl.Navigation().Len() != 0 {
		t.Errorf("failed ingestion must not register a section")
	}
}

// --- queries and summary ---

func TestOptimizedQuery(t *testing.T) {
	tmpl := NewTemplate(&fakeClient{}, types.DefaultNotebookConfig(), nil)
	tmpl.SetNotebookID("nb-1")
	if _, err := tmpl.AddSource(context.Background(), sampleMeta(), AddSourceInput{Text: "body"}); err != nil {
		t.Fatal(err)
	}

	if got := tmpl.OptimizedQuery("functions", true); got != "In section 'Python Basics' find information about functions" {
		t.Errorf("OptimizedQuery(hint) = %q", got)
	}
	if got := tmpl.OptimizedQuery("functions", false); got != "functions" {
		t.Errorf("OptimizedQuery(no hint) = %q, want question unchanged", got)
	}
}

func TestNavigationSummary(t *testing.T) {
	tmpl := NewTemplate(&fakeClient{}, types.DefaultNotebookConfig(), nil)
	tmpl.SetNotebookID("nb-1")
	if _, err := tmpl.AddSource(context.Background(), sampleMeta(), AddSourceInput{Text: "body"}); err != nil {
		t.Fatal(err)
	}

	got := tmpl.NavigationSummary()
	if !strings.HasPrefix(got, "# Notebook navigation map\n\n") {
		t.Errorf("summary missing heading: %q", got)
	}
	if !strings.Contains(got, "- **Python Basics** (python_basics)") {
		t.Errorf("summary missing section line: %q", got)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Python Basics", "python_basics"},
		{"API Reference", "api_reference"},
		{"single", "single"},
		{"Already_Slugged", "already_slugged"},
	}
	for _, tt := range tests {
		if got := Slug(tt.title); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestAddQueryTemplate(t *testing.T) {
	tmpl := NewTemplate(&fakeClient{}, types.DefaultNotebookConfig(), nil)

	tmpl.AddQueryTemplate(types.QueryTemplate{Name: "first"})
	tmpl.AddQueryTemplate(types.QueryTemplate{Name: "second"})

	got := tmpl.QueryTemplates()
	if len(got) != 2 || got[0].Name != "first" || got[1].Name != "second" {
		t.Errorf("QueryTemplates() = %+v, want insertion order", got)
	}
}
