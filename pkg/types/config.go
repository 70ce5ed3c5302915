// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"time"
)

// HTTPConfig holds shared HTTP settings for components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "notebook-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ClientConfig holds settings for the notebook service client.
type ClientConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the notebook service API root. Empty uses the default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts on rate-limited
	// requests (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// NotebookConfig holds settings for notebook structuring and the
// query/auto-save workflow.
type NotebookConfig struct {
	// NotePrefix is prepended to titles of notes saved from answers
	// (default "Note:").
	NotePrefix string `json:"note_prefix" yaml:"note_prefix"`

	// NoteMaxTitleLength caps the question portion of a note title
	// before truncation with an ellipsis (default 50).
	NoteMaxTitleLength int `json:"note_max_title_length" yaml:"note_max_title_length"`

	// AutoSave controls whether answers are saved back to the notebook
	// as notes by default.
	AutoSave bool `json:"auto_save" yaml:"auto_save"`

	// UseOptimization controls whether questions are scoped through the
	// navigation index by default.
	UseOptimization bool `json:"use_optimization" yaml:"use_optimization"`

	// Verbose enables informational output.
	Verbose bool `json:"verbose" yaml:"verbose"`

	// StructureDir is the directory holding the navigation structure
	// database (default "structure").
	StructureDir string `json:"structure_dir" yaml:"structure_dir"`
}

// DefaultNotebookConfig returns the built-in notebook settings.
func DefaultNotebookConfig() NotebookConfig {
	return NotebookConfig{
		NotePrefix:         "Note:",
		NoteMaxTitleLength: 50,
		AutoSave:           true,
		UseOptimization:    true,
		Verbose:            true,
		StructureDir:       "structure",
	}
}

// NoteTitle derives a note title from a question: the configured prefix
// followed by the question truncated at NoteMaxTitleLength characters
// with an ellipsis marker. The limit counts characters, not bytes, so
// non-ASCII questions are never cut mid-rune.
func (c NotebookConfig) NoteTitle(question string) string {
	q := strings.TrimSpace(question)

	max := c.NoteMaxTitleLength
	if max <= 0 {
		max = 50
	}
	if r := []rune(q); len(r) > max {
		q = string(r[:max]) + "..."
	}

	prefix := c.NotePrefix
	if prefix == "" {
		prefix = "Note:"
	}
	return prefix + " " + q
}
