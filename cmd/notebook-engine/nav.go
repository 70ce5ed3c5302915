// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var navCmd = &cobra.Command{
	Use:   "nav",
	Short: "Inspect and export a notebook's navigation structure",
	Long: `Nav works with the locally persisted navigation structure: the
section hierarchy and keyword index built up by notebook add-source.`,
}

// --- summary subcommand ---

var navSummaryCmd = &cobra.Command{
	Use:   "summary <notebook-id>",
	Short: "Render the navigation map as text",
	Long: `Summary renders the saved section hierarchy depth-first, in the
order sections were added. The output is suitable for ingestion as an
index source.`,
	Args: cobra.ExactArgs(1),
	RunE: runNavSummary,
}

func runNavSummary(cmd *cobra.Command, args []string) error {
	store, err := structureStore()
	if err != nil {
		return err
	}
	defer store.Close()

	idx, err := store.Load(context.Background(), args[0])
	if err != nil {
		return err
	}
	if idx.Len() == 0 {
		fmt.Println("No structure saved for this notebook.")
		return nil
	}

	fmt.Print("# Notebook navigation map\n\n" + idx.Summary())
	return nil
}

// --- export subcommand ---

var navExportCmd = &cobra.Command{
	Use:   "export <notebook-id>",
	Short: "Export the navigation structure to YAML or JSON",
	RunE:  runNavExport,
	Args:  cobra.ExactArgs(1),
}

func runNavExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	store, err := structureStore()
	if err != nil {
		return err
	}
	defer store.Close()

	notebookID := args[0]
	ctx := context.Background()

	switch format {
	case "yaml", "":
		if out == "" {
			out = filepath.Join(notebookConfig().StructureDir, notebookID+".yaml")
		}
		if err := store.ExportYAML(ctx, notebookID, out); err != nil {
			return err
		}
	case "json":
		if out == "" {
			out = filepath.Join(notebookConfig().StructureDir, notebookID+".json")
		}
		if err := store.ExportJSON(ctx, notebookID, out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	fmt.Printf("Exported to %s\n", out)
	return nil
}

func init() {
	navExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	navExportCmd.Flags().String("out", "", "output path (default: structure/<notebook-id>.<format>)")

	navCmd.AddCommand(navSummaryCmd)
	navCmd.AddCommand(navExportCmd)

	rootCmd.AddCommand(navCmd)
}
