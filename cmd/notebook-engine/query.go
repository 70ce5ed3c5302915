// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/notebook-engine/internal/navigation"
	"github.com/pdiddy/notebook-engine/internal/notes"
	"github.com/pdiddy/notebook-engine/internal/query"
)

var queryCmd = &cobra.Command{
	Use:   "query [notebook-id] [question]",
	Short: "Ask a notebook a question, scoped through the navigation index",
	Long: `Query rewrites a question to name the section it should be answered
from, using the saved navigation structure, then sends it to the
notebook service. By default the answer is saved back into the notebook
as a note titled with a truncated form of the question.

With no arguments, query runs interactively: pick a notebook from a
numbered list, type the question, and choose whether to save the
answer.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runInteractiveQuery(cmd)
	}
	if len(args) != 2 {
		return fmt.Errorf("provide both a notebook ID and a question, or neither for interactive mode")
	}
	return executeQuery(cmd, args[0], args[1])
}

func executeQuery(cmd *cobra.Command, notebookID, question string) error {
	noSave, _ := cmd.Flags().GetBool("no-save")
	noOptimize, _ := cmd.Flags().GetBool("no-optimize")
	section, _ := cmd.Flags().GetString("section")
	sections, _ := cmd.Flags().GetStringSlice("sections")

	cfg := notebookConfig()
	autoSave := cfg.AutoSave && !noSave
	optimize := cfg.UseOptimization && !noOptimize

	client, err := serviceClient()
	if err != nil {
		return err
	}

	store, err := structureStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	idx, err := store.Load(ctx, notebookID)
	if err != nil {
		return fmt.Errorf("loading structure: %w", err)
	}

	scoped := scopeQuestion(idx, question, section, sections, optimize)
	if cfg.Verbose && scoped != question {
		fmt.Fprintf(os.Stderr, "Scoped query: %s\n", scoped)
	}

	answer, sourceID, err := notes.QueryAndSave(ctx, client, cfg, os.Stderr, notebookID, question, scoped, autoSave)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		out, err := json.MarshalIndent(queryResult{
			Question: question,
			Scoped:   scoped,
			Answer:   answer,
			NoteID:   sourceID,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(answer)
	if sourceID != "" && cfg.Verbose {
		fmt.Fprintf(os.Stderr, "Saved as note %s\n", sourceID)
	}
	return nil
}

// queryResult is the machine-readable output of the query command.
type queryResult struct {
	Question string `json:"question"`
	Scoped   string `json:"scoped_question"`
	Answer   string `json:"answer"`
	NoteID   string `json:"note_id,omitempty"`
}

// scopeQuestion applies the most specific scoping the caller asked for:
// explicit multi-section, explicit single section, automatic keyword
// scoping, or none.
func scopeQuestion(idx *navigation.Index, question, section string, sections []string, optimize bool) string {
	builder := query.NewBuilder(idx)

	switch {
	case len(sections) > 0:
		return builder.MultiSectionQuery(question, sections)
	case section != "":
		return builder.SectionQuery(question, section)
	case optimize:
		return idx.NavigationQuery(question)
	default:
		return question
	}
}

// runInteractiveQuery drives the notebook picker and question prompt.
func runInteractiveQuery(cmd *cobra.Command) error {
	client, err := serviceClient()
	if err != nil {
		return err
	}

	notebooks, err := client.ListNotebooks(context.Background())
	if err != nil {
		return fmt.Errorf("listing notebooks: %w", err)
	}
	if len(notebooks) == 0 {
		return fmt.Errorf("no notebooks found")
	}

	fmt.Println("Available notebooks:")
	for i, nb := range notebooks {
		fmt.Printf("  %d. %s (ID: %s)\n", i+1, nb.Title, nb.ID)
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	choice, err := prompt(reader, "\nSelect notebook number (or enter ID): ")
	if err != nil {
		return err
	}

	notebookID := ""
	if n, convErr := strconv.Atoi(choice); convErr == nil {
		if n < 1 || n > len(notebooks) {
			return fmt.Errorf("invalid notebook number %d", n)
		}
		notebookID = notebooks[n-1].ID
	} else {
		for _, nb := range notebooks {
			if nb.ID == choice {
				notebookID = nb.ID
				break
			}
		}
		if notebookID == "" {
			return fmt.Errorf("notebook %q not found", choice)
		}
	}

	question, err := prompt(reader, "\nEnter your question: ")
	if err != nil {
		return err
	}
	if question == "" {
		return fmt.Errorf("question cannot be empty")
	}

	save, err := prompt(reader, "Save answer as note? (Y/n): ")
	if err != nil {
		return err
	}
	if strings.EqualFold(save, "n") {
		cmd.Flags().Set("no-save", "true")
	}

	return executeQuery(cmd, notebookID, question)
}

func prompt(reader *bufio.Reader, text string) (string, error) {
	fmt.Print(text)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	queryCmd.Flags().Bool("no-save", false, "do not save the answer as a note")
	queryCmd.Flags().Bool("no-optimize", false, "send the question without section scoping")
	queryCmd.Flags().String("section", "", "scope to one section ID")
	queryCmd.Flags().StringSlice("sections", nil, "scope to several section IDs")
	queryCmd.Flags().Bool("json", false, "print the result as JSON")

	rootCmd.AddCommand(queryCmd)
}
