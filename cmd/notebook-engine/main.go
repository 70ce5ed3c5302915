// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the notebook-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/notebook-engine/internal/navigation"
	"github.com/pdiddy/notebook-engine/internal/notebooklm"
	"github.com/pdiddy/notebook-engine/internal/secrets"
	"github.com/pdiddy/notebook-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// sessionTokens holds session material loaded from .secrets/ at startup.
var sessionTokens secrets.Tokens

// rootCmd is the base command for the notebook-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "notebook-engine",
	Short: "Structure notebooks for precise, low-token retrieval",
	Long: `notebook-engine organizes content in a notebook service so later
questions can be answered with minimal context: sources carry metadata
prefixes, a navigation index maps keywords to sections, and questions
are rewritten to name the section they should be answered from.

Use notebook subcommands to create and populate notebooks, nav to
inspect or export the saved structure, and query to ask questions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir := viper.GetString("secrets_dir")
		if dir == "" {
			dir = ".secrets/"
		}
		tokens, err := secrets.TokensFromDir(dir)
		if err != nil {
			return err
		}
		sessionTokens = tokens
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./notebook-engine.yaml or ~/.config/notebook-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("notebook-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "notebook-engine"))
		}
	}

	viper.SetEnvPrefix("NOTEBOOK_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("note_prefix", "Note:")
	viper.SetDefault("note_max_title_length", 50)
	viper.SetDefault("auto_save", true)
	viper.SetDefault("use_optimization", true)
	viper.SetDefault("verbose", true)
	viper.SetDefault("structure_dir", "structure")
	viper.SetDefault("secrets_dir", ".secrets/")
	viper.SetDefault("client.timeout", 60*time.Second)
	viper.SetDefault("client.user_agent", "notebook-engine/"+version)
	viper.SetDefault("client.max_retries", 3)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// notebookConfig assembles notebook settings from configuration.
func notebookConfig() types.NotebookConfig {
	return types.NotebookConfig{
		NotePrefix:         viper.GetString("note_prefix"),
		NoteMaxTitleLength: viper.GetInt("note_max_title_length"),
		AutoSave:           viper.GetBool("auto_save"),
		UseOptimization:    viper.GetBool("use_optimization"),
		Verbose:            viper.GetBool("verbose"),
		StructureDir:       viper.GetString("structure_dir"),
	}
}

// serviceClient builds the notebook service client from configuration
// and the session tokens loaded at startup.
func serviceClient() (*notebooklm.Client, error) {
	if !sessionTokens.Complete() {
		return nil, fmt.Errorf("session tokens not found: put cookies and csrf-token files in %s", viper.GetString("secrets_dir"))
	}
	cfg := types.ClientConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("client.timeout"),
			UserAgent: viper.GetString("client.user_agent"),
		},
		BaseURL:    viper.GetString("client.base_url"),
		MaxRetries: viper.GetInt("client.max_retries"),
	}
	return notebooklm.NewClient(cfg, sessionTokens), nil
}

// structureStore opens the navigation structure database.
func structureStore() (*navigation.Store, error) {
	return navigation.NewStore(notebookConfig().StructureDir)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
