// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package navigation

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/notebook-engine/pkg/types"
)

const dbFile = "navigation.db"

// Store persists navigation structures in SQLite so later processes can
// optimize queries against a notebook's saved structure.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the navigation database at dir/navigation.db,
// creating the schema if it does not exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating structure directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS notebooks (
			id TEXT PRIMARY KEY,
			root_on_missing_parent INTEGER NOT NULL DEFAULT 1,
			saved_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			notebook_id TEXT NOT NULL REFERENCES notebooks(id),
			section_id TEXT NOT NULL,
			parent_id TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			description TEXT,
			keywords TEXT,
			metadata TEXT,
			source_id TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL,
			PRIMARY KEY (notebook_id, section_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sections_position ON sections(notebook_id, position)`,
		`CREATE TABLE IF NOT EXISTS keywords (
			notebook_id TEXT NOT NULL REFERENCES notebooks(id),
			keyword TEXT NOT NULL,
			section_id TEXT NOT NULL,
			position INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_keywords_lookup ON keywords(notebook_id, keyword, position)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save replaces the stored structure for notebookID with idx. sources
// maps section IDs to external source IDs and may be nil. The replace is
// transactional: readers never observe a partial structure.
func (s *Store) Save(ctx context.Context, notebookID string, idx *Index, sources map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"sections", "keywords"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE notebook_id = ?`, table), notebookID,
		); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	rootFallback := 0
	if idx.RootOnMissingParent {
		rootFallback = 1
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO notebooks (id, root_on_missing_parent, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			root_on_missing_parent=excluded.root_on_missing_parent,
			saved_at=excluded.saved_at`,
		notebookID, rootFallback, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("upserting notebook: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sections (notebook_id, section_id, parent_id, title, description,
			keywords, metadata, source_id, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing section insert: %w", err)
	}
	defer stmt.Close()

	// Pre-order walk: a parent row always precedes its children, so Load
	// can rebuild the tree in one ordered pass.
	position := 0
	var walk func(node *Node, parentID string) error
	walk = func(node *Node, parentID string) error {
		keywordsJSON, _ := json.Marshal(node.Keywords)
		var metadataJSON any
		if node.Metadata != nil {
			data, err := json.Marshal(node.Metadata)
			if err != nil {
				return fmt.Errorf("encoding metadata for %s: %w", node.SectionID, err)
			}
			metadataJSON = string(data)
		}

		if _, err := stmt.ExecContext(ctx,
			notebookID, node.SectionID, parentID, node.Title, node.Description,
			string(keywordsJSON), metadataJSON, sources[node.SectionID], position,
		); err != nil {
			return fmt.Errorf("inserting section %s: %w", node.SectionID, err)
		}
		position++

		for _, child := range node.Children {
			if err := walk(child, node.SectionID); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range idx.rootNodes {
		if err := walk(root, ""); err != nil {
			return err
		}
	}

	kwStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO keywords (notebook_id, keyword, section_id, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing keyword insert: %w", err)
	}
	defer kwStmt.Close()

	for keyword, ids := range idx.keywords {
		for i, id := range ids {
			if _, err := kwStmt.ExecContext(ctx, notebookID, keyword, id, i); err != nil {
				return fmt.Errorf("inserting keyword %q: %w", keyword, err)
			}
		}
	}

	return tx.Commit()
}

// Load rebuilds the navigation index stored for notebookID. Section,
// child, and keyword-association orders match the orders at save time.
// A notebook with no stored structure yields an empty index.
func (s *Store) Load(ctx context.Context, notebookID string) (*Index, error) {
	idx := NewIndex()

	var rootFallback int
	err := s.db.QueryRowContext(ctx,
		`SELECT root_on_missing_parent FROM notebooks WHERE id = ?`, notebookID,
	).Scan(&rootFallback)
	switch {
	case err == sql.ErrNoRows:
		return idx, nil
	case err != nil:
		return nil, fmt.Errorf("looking up notebook: %w", err)
	}
	idx.RootOnMissingParent = rootFallback != 0

	rows, err := s.db.QueryContext(ctx,
		`SELECT section_id, parent_id, title, description, keywords, metadata
		 FROM sections WHERE notebook_id = ? ORDER BY position`, notebookID)
	if err != nil {
		return nil, fmt.Errorf("querying sections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sectionID, parentID, title string
			description                sql.NullString
			keywordsJSON               sql.NullString
			metadataJSON               sql.NullString
		)
		if err := rows.Scan(&sectionID, &parentID, &title, &description, &keywordsJSON, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning section row: %w", err)
		}

		node := &Node{
			SectionID:   sectionID,
			Title:       title,
			Description: description.String,
		}
		if keywordsJSON.Valid && keywordsJSON.String != "" {
			if err := json.Unmarshal([]byte(keywordsJSON.String), &node.Keywords); err != nil {
				return nil, fmt.Errorf("decoding keywords for section %s: %w", sectionID, err)
			}
		}
		if metadataJSON.Valid && metadataJSON.String != "" {
			var meta types.SourceMetadata
			if err := json.Unmarshal([]byte(metadataJSON.String), &meta); err != nil {
				return nil, fmt.Errorf("decoding metadata for section %s: %w", sectionID, err)
			}
			node.Metadata = &meta
		}

		if parentID == "" {
			idx.rootNodes = append(idx.rootNodes, node)
		} else if parent, ok := idx.sections[parentID]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			return nil, fmt.Errorf("section %s references unknown parent %s", sectionID, parentID)
		}
		idx.sections[sectionID] = node
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading sections: %w", err)
	}

	// Keyword associations are rebuilt separately from the per-node
	// keyword lists so their insertion order survives the round trip.
	kwRows, err := s.db.QueryContext(ctx,
		`SELECT keyword, section_id FROM keywords
		 WHERE notebook_id = ? ORDER BY keyword, position`, notebookID)
	if err != nil {
		return nil, fmt.Errorf("querying keywords: %w", err)
	}
	defer kwRows.Close()

	for kwRows.Next() {
		var keyword, sectionID string
		if err := kwRows.Scan(&keyword, &sectionID); err != nil {
			return nil, fmt.Errorf("scanning keyword row: %w", err)
		}
		idx.keywords[keyword] = append(idx.keywords[keyword], sectionID)
	}
	return idx, kwRows.Err()
}

// Sources returns the section-ID to external source-ID mapping stored
// for notebookID. Sections without a recorded source ID are omitted.
func (s *Store) Sources(ctx context.Context, notebookID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT section_id, source_id FROM sections
		 WHERE notebook_id = ? AND source_id != ''`, notebookID)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	sources := make(map[string]string)
	for rows.Next() {
		var sectionID, sourceID string
		if err := rows.Scan(&sectionID, &sourceID); err != nil {
			return nil, fmt.Errorf("scanning source row: %w", err)
		}
		sources[sectionID] = sourceID
	}
	return sources, rows.Err()
}
