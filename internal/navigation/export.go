// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package navigation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/notebook-engine/pkg/types"
)

// ExportEntry is one section flattened for export, with its tree
// position expressed through ParentID and Depth.
type ExportEntry struct {
	SectionID   string                `json:"section_id" yaml:"section_id"`
	ParentID    string                `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Depth       int                   `json:"depth" yaml:"depth"`
	Title       string                `json:"title" yaml:"title"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Keywords    []string              `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	SourceID    string                `json:"source_id,omitempty" yaml:"source_id,omitempty"`
	Metadata    *types.SourceMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// exportEntries flattens the stored structure depth-first in insertion
// order, matching Summary's traversal.
func (s *Store) exportEntries(ctx context.Context, notebookID string) ([]ExportEntry, error) {
	idx, err := s.Load(ctx, notebookID)
	if err != nil {
		return nil, err
	}
	sources, err := s.Sources(ctx, notebookID)
	if err != nil {
		return nil, err
	}

	var entries []ExportEntry
	var walk func(node *Node, parentID string, depth int)
	walk = func(node *Node, parentID string, depth int) {
		entries = append(entries, ExportEntry{
			SectionID:   node.SectionID,
			ParentID:    parentID,
			Depth:       depth,
			Title:       node.Title,
			Description: node.Description,
			Keywords:    node.Keywords,
			SourceID:    sources[node.SectionID],
			Metadata:    node.Metadata,
		})
		for _, child := range node.Children {
			walk(child, node.SectionID, depth+1)
		}
	}
	for _, root := range idx.Roots() {
		walk(root, "", 0)
	}
	return entries, nil
}

// ExportYAML writes the stored structure for notebookID to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, notebookID, path string) error {
	entries, err := s.exportEntries(ctx, notebookID)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ExportJSON writes the stored structure for notebookID to path as
// indented JSON.
func (s *Store) ExportJSON(ctx context.Context, notebookID, path string) error {
	entries, err := s.exportEntries(ctx, notebookID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
