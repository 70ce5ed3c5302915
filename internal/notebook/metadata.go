// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"fmt"
	"strings"

	"github.com/pdiddy/notebook-engine/pkg/types"
)

// FormatMetadataPrefix renders metadata as a text block prepended to a
// source body before ingestion, so the service's lexical index sees the
// metadata as part of the document. The rendering is deterministic:
// title heading, category, and type lines in fixed order, then tags,
// description, and related-sections lines only when non-empty, closed by
// a separator line. Empty optional fields are omitted entirely rather
// than rendered as dangling labels.
func FormatMetadataPrefix(meta types.SourceMetadata) string {
	lines := []string{
		fmt.Sprintf("# %s", meta.Title),
		fmt.Sprintf("**Category:** %s", meta.Category),
		fmt.Sprintf("**Type:** %s", meta.Type),
	}

	if len(meta.Tags) > 0 {
		lines = append(lines, fmt.Sprintf("**Tags:** %s", strings.Join(meta.Tags, ", ")))
	}
	if meta.Description != "" {
		lines = append(lines, fmt.Sprintf("**Description:** %s", meta.Description))
	}
	if len(meta.RelatedSections) > 0 {
		lines = append(lines, fmt.Sprintf("**Related sections:** %s", strings.Join(meta.RelatedSections, ", ")))
	}

	lines = append(lines, "---\n")
	return strings.Join(lines, "\n")
}
