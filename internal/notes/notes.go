// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notes saves notebook answers back into the notebook as text
// sources, so later queries can retrieve earlier answers without
// re-deriving them.
package notes

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/notebook-engine/internal/notebook"
	"github.com/pdiddy/notebook-engine/pkg/types"
)

// SaveAnswer stores an answer as a note in the notebook. The note title
// comes from cfg.NoteTitle; a non-empty notePrefix overrides the
// configured prefix. The note body includes the question for context.
func SaveAnswer(ctx context.Context, client notebook.Client, cfg types.NotebookConfig, notebookID, question, answer, notePrefix string) (string, error) {
	if notePrefix != "" {
		cfg.NotePrefix = notePrefix
	}
	title := cfg.NoteTitle(question)

	text := fmt.Sprintf("Question: %s\n\n%s", question, answer)

	result, err := client.AddTextSource(ctx, notebookID, text, title)
	if err != nil {
		return "", fmt.Errorf("saving note %q: %w", title, err)
	}
	return result.SourceID, nil
}

// QueryAndSave queries the notebook with scoped, the section-scoped
// form of question, and, when autoSave is set, stores the answer as a
// note titled and bodied from the original question so saved notes stay
// recognizable. An empty scoped sends the question as-is. A failed save
// is a warning on w, not an error: the answer is still returned. The
// returned source ID is empty when no note was saved.
func QueryAndSave(ctx context.Context, client notebook.Client, cfg types.NotebookConfig, w io.Writer, notebookID, question, scoped string, autoSave bool) (string, string, error) {
	if scoped == "" {
		scoped = question
	}
	answer, err := client.Query(ctx, notebookID, scoped)
	if err != nil {
		return "", "", fmt.Errorf("querying notebook: %w", err)
	}
	if answer == "" {
		return "", "", fmt.Errorf("querying notebook: service returned no answer")
	}

	var sourceID string
	if autoSave {
		sourceID, err = SaveAnswer(ctx, client, cfg, notebookID, question, answer, "")
		if err != nil {
			fmt.Fprintf(w, "warning: %v\n", err)
			sourceID = ""
		}
	}

	return answer, sourceID, nil
}
