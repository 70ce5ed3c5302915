// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package navigation owns the section hierarchy and keyword index that
// scope notebook queries. Sections form a tree; a keyword table maps
// lowercased keywords to section IDs in insertion order. Queries built
// from the index name a section title verbatim so the notebook service
// is steered toward one location instead of scanning the whole notebook.
package navigation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/notebook-engine/pkg/types"
)

var (
	// ErrDuplicateSection is returned when a section ID is already
	// registered in the index.
	ErrDuplicateSection = errors.New("duplicate section id")

	// ErrParentNotFound is returned when a parent ID does not resolve
	// and the index is configured to reject orphans.
	ErrParentNotFound = errors.New("parent section not found")
)

// Node is one section in the navigation hierarchy. Children are owned
// exclusively by their parent and kept in insertion order.
type Node struct {
	SectionID   string
	Title       string
	Description string

	// Keywords keeps the caller's original casing and order. Keyword
	// identity is case-insensitive: the index stores lowercased forms.
	Keywords []string

	Children []*Node

	// Metadata is the source metadata attached at ingestion, nil for
	// sections added directly.
	Metadata *types.SourceMetadata
}

// Index is the navigation structure for one notebook: an ordered forest
// of sections, a section-ID lookup, and a keyword table. The index is
// not safe for concurrent writers; callers confine it to one session.
type Index struct {
	// RootOnMissingParent controls what happens when AddSection names a
	// parent that is not in the index: true inserts the node as a root,
	// false rejects it with ErrParentNotFound.
	RootOnMissingParent bool

	rootNodes []*Node
	sections  map[string]*Node

	// keywords maps a lowercased keyword to section IDs in insertion
	// order. IDs are appended once per keyword occurrence and are not
	// deduplicated.
	keywords map[string][]string
}

// NewIndex returns an empty index that inserts nodes with unresolved
// parents as roots.
func NewIndex() *Index {
	return &Index{
		RootOnMissingParent: true,
		sections:            make(map[string]*Node),
		keywords:            make(map[string][]string),
	}
}

// AddSection registers a section. An empty parentID makes the node a
// root. A parentID that does not resolve follows RootOnMissingParent.
// A section ID already present is rejected with ErrDuplicateSection;
// sections are never removed, so IDs stay unique for the index lifetime.
func (x *Index) AddSection(sectionID, title, description string, keywords []string, parentID string, metadata *types.SourceMetadata) (*Node, error) {
	if sectionID == "" {
		return nil, fmt.Errorf("section id is empty")
	}
	if _, exists := x.sections[sectionID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSection, sectionID)
	}

	node := &Node{
		SectionID:   sectionID,
		Title:       title,
		Description: description,
		Keywords:    keywords,
		Metadata:    metadata,
	}

	if parentID != "" {
		parent, ok := x.sections[parentID]
		if ok {
			parent.Children = append(parent.Children, node)
		} else if x.RootOnMissingParent {
			x.rootNodes = append(x.rootNodes, node)
		} else {
			return nil, fmt.Errorf("%w: %s", ErrParentNotFound, parentID)
		}
	} else {
		x.rootNodes = append(x.rootNodes, node)
	}

	for _, kw := range keywords {
		lower := strings.ToLower(kw)
		x.keywords[lower] = append(x.keywords[lower], sectionID)
	}

	x.sections[sectionID] = node
	return node, nil
}

// Section returns the node registered under sectionID, or nil.
func (x *Index) Section(sectionID string) *Node {
	return x.sections[sectionID]
}

// Roots returns the top-level nodes in insertion order.
func (x *Index) Roots() []*Node {
	return x.rootNodes
}

// Len returns the number of registered sections.
func (x *Index) Len() int {
	return len(x.sections)
}

// FindSectionsByKeyword returns the sections associated with keyword, in
// the order the associations were made. Matching is case-insensitive and
// exact: no substring, prefix, or fuzzy matching. An unknown keyword
// yields an empty result.
func (x *Index) FindSectionsByKeyword(keyword string) []*Node {
	ids := x.keywords[strings.ToLower(keyword)]

	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if node, ok := x.sections[id]; ok {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// NavigationQuery builds a query scoped to the first section associated
// with topic. The first insertion-order match wins; there is no ranking
// by priority or depth, trading recall for precision. An unindexed topic
// degrades to a generic phrasing.
func (x *Index) NavigationQuery(topic string) string {
	sections := x.FindSectionsByKeyword(topic)
	if len(sections) == 0 {
		return fmt.Sprintf("Find information about %s", topic)
	}
	return fmt.Sprintf("In section '%s' find information about %s", sections[0].Title, topic)
}

// Summary renders the hierarchy depth-first in insertion order, with
// two-space indentation per level. The rendering is deterministic for
// identical index state: traversal follows the root list and child
// slices, never map iteration.
func (x *Index) Summary() string {
	var b strings.Builder
	for _, root := range x.rootNodes {
		writeNode(&b, root, 0)
	}
	return b.String()
}

func writeNode(b *strings.Builder, node *Node, level int) {
	indent := strings.Repeat("  ", level)

	fmt.Fprintf(b, "%s- **%s** (%s)\n", indent, node.Title, node.SectionID)
	if node.Description != "" {
		fmt.Fprintf(b, "%s  %s\n", indent, node.Description)
	}
	if len(node.Keywords) > 0 {
		fmt.Fprintf(b, "%s  Keywords: %s\n", indent, strings.Join(node.Keywords, ", "))
	}
	b.WriteString("\n")

	for _, child := range node.Children {
		writeNode(b, child, level+1)
	}
}
