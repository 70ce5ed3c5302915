// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/notebook-engine/internal/notebook"
	"github.com/pdiddy/notebook-engine/pkg/types"
)

var notebookCmd = &cobra.Command{
	Use:   "notebook",
	Short: "Create and populate structured notebooks",
	Long: `Notebook creates notebooks in the notebook service and ingests
sources with metadata. Every ingested source is registered in the
navigation index, which is persisted locally so later query runs can
scope questions to the right section.`,
}

// --- create subcommand ---

var notebookCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a notebook",
	Long: `Create makes a new notebook with the given title. An optional
description is ingested as a first source so the service has structural
context; a failure there does not fail the creation.`,
	Args: cobra.ExactArgs(1),
	RunE: runNotebookCreate,
}

func runNotebookCreate(cmd *cobra.Command, args []string) error {
	description, _ := cmd.Flags().GetString("description")

	client, err := serviceClient()
	if err != nil {
		return err
	}

	cfg := notebookConfig()
	tmpl := notebook.NewTemplate(client, cfg, os.Stderr)

	ctx := context.Background()
	id, err := tmpl.CreateNotebook(ctx, args[0], description)
	if err != nil {
		return err
	}

	store, err := structureStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(ctx, id, tmpl.Navigation(), nil); err != nil {
		return fmt.Errorf("saving structure: %w", err)
	}

	fmt.Printf("Created notebook %s\n", id)
	return nil
}

// --- add-source subcommand ---

var notebookAddSourceCmd = &cobra.Command{
	Use:   "add-source",
	Short: "Ingest a source with metadata into a notebook",
	Long: `Add-source ingests inline text (from a file) or a URL as a notebook
source. Text sources get a rendered metadata prefix so the service's
index sees title, category, type, and tags as part of the document.
The source is registered in the navigation index under an explicit
--section id or a slug of its title, with its tags and category as
keywords.`,
	RunE: runNotebookAddSource,
}

func runNotebookAddSource(cmd *cobra.Command, args []string) error {
	notebookID, _ := cmd.Flags().GetString("notebook")
	if notebookID == "" {
		return fmt.Errorf("--notebook is required")
	}

	meta, err := metadataFromFlags(cmd)
	if err != nil {
		return err
	}

	input, err := sourceInputFromFlags(cmd)
	if err != nil {
		return err
	}

	client, err := serviceClient()
	if err != nil {
		return err
	}

	cfg := notebookConfig()
	tmpl := notebook.NewTemplate(client, cfg, os.Stderr)
	tmpl.SetNotebookID(notebookID)

	ctx := context.Background()

	store, err := structureStore()
	if err != nil {
		return err
	}
	defer store.Close()

	idx, err := store.Load(ctx, notebookID)
	if err != nil {
		return fmt.Errorf("loading structure: %w", err)
	}
	sources, err := store.Sources(ctx, notebookID)
	if err != nil {
		return fmt.Errorf("loading sources: %w", err)
	}
	tmpl.SetNavigation(idx)

	sourceID, err := tmpl.AddSource(ctx, meta, input)
	if err != nil {
		return err
	}

	for sectionID, id := range tmpl.Sources() {
		sources[sectionID] = id
	}
	if err := store.Save(ctx, notebookID, tmpl.Navigation(), sources); err != nil {
		return fmt.Errorf("saving structure: %w", err)
	}

	fmt.Printf("Added source %s\n", sourceID)
	return nil
}

// sourceTypes maps the --type flag values to source types.
var sourceTypes = map[string]types.SourceType{
	"documentation": types.SourceDocumentation,
	"code":          types.SourceCode,
	"tutorial":      types.SourceTutorial,
	"reference":     types.SourceReference,
	"api_docs":      types.SourceAPIDocs,
	"examples":      types.SourceExamples,
}

func metadataFromFlags(cmd *cobra.Command) (types.SourceMetadata, error) {
	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		return types.SourceMetadata{}, fmt.Errorf("--title is required")
	}

	typeName, _ := cmd.Flags().GetString("type")
	sourceType, ok := sourceTypes[typeName]
	if !ok {
		return types.SourceMetadata{}, fmt.Errorf("unknown source type %q: use one of documentation, code, tutorial, reference, api_docs, examples", typeName)
	}

	priority, _ := cmd.Flags().GetInt("priority")
	if priority < 1 || priority > 10 {
		return types.SourceMetadata{}, fmt.Errorf("priority %d out of range: must be 1-10", priority)
	}

	category, _ := cmd.Flags().GetString("category")
	tags, _ := cmd.Flags().GetStringSlice("tag")
	description, _ := cmd.Flags().GetString("description")
	related, _ := cmd.Flags().GetStringSlice("related")

	return types.SourceMetadata{
		Title:           title,
		Category:        category,
		Tags:            tags,
		Description:     description,
		Type:            sourceType,
		Priority:        priority,
		RelatedSections: related,
	}, nil
}

func sourceInputFromFlags(cmd *cobra.Command) (notebook.AddSourceInput, error) {
	textFile, _ := cmd.Flags().GetString("text-file")
	url, _ := cmd.Flags().GetString("url")
	sectionID, _ := cmd.Flags().GetString("section")
	parentID, _ := cmd.Flags().GetString("parent")

	input := notebook.AddSourceInput{
		URL:       url,
		SectionID: sectionID,
		ParentID:  parentID,
	}
	if textFile != "" {
		data, err := os.ReadFile(textFile)
		if err != nil {
			return notebook.AddSourceInput{}, fmt.Errorf("reading %s: %w", textFile, err)
		}
		input.Text = string(data)
	}
	return input, nil
}

// --- list subcommand ---

var notebookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notebooks in the service",
	RunE:  runNotebookList,
}

func runNotebookList(cmd *cobra.Command, args []string) error {
	client, err := serviceClient()
	if err != nil {
		return err
	}

	notebooks, err := client.ListNotebooks(context.Background())
	if err != nil {
		return err
	}

	if len(notebooks) == 0 {
		fmt.Println("No notebooks found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-40s  %s\n", "ID", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))
	for _, nb := range notebooks {
		fmt.Fprintf(os.Stdout, "%-40s  %s\n", nb.ID, nb.Title)
	}
	return nil
}

func init() {
	notebookCreateCmd.Flags().String("description", "", "notebook description, ingested as a context source")

	notebookAddSourceCmd.Flags().String("notebook", "", "notebook ID (required)")
	notebookAddSourceCmd.Flags().String("title", "", "source title (required)")
	notebookAddSourceCmd.Flags().String("category", "", "source category, indexed as a keyword")
	notebookAddSourceCmd.Flags().StringSlice("tag", nil, "search keyword (repeatable)")
	notebookAddSourceCmd.Flags().String("description", "", "short content description")
	notebookAddSourceCmd.Flags().String("type", "documentation", "source type: documentation, code, tutorial, reference, api_docs, examples")
	notebookAddSourceCmd.Flags().Int("priority", 5, "importance from 1 to 10")
	notebookAddSourceCmd.Flags().StringSlice("related", nil, "related section ID (repeatable)")
	notebookAddSourceCmd.Flags().String("text-file", "", "file with inline text content")
	notebookAddSourceCmd.Flags().String("url", "", "remote source URL")
	notebookAddSourceCmd.Flags().String("section", "", "section ID override (default: slug of title)")
	notebookAddSourceCmd.Flags().String("parent", "", "parent section ID for hierarchy")

	notebookCmd.AddCommand(notebookCreateCmd)
	notebookCmd.AddCommand(notebookAddSourceCmd)
	notebookCmd.AddCommand(notebookListCmd)

	rootCmd.AddCommand(notebookCmd)
}
