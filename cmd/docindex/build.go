package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Cnoccir/docindex/internal/builder"
	"github.com/Cnoccir/docindex/internal/config"
	"github.com/Cnoccir/docindex/internal/parser"
	"github.com/Cnoccir/docindex/internal/summarize"
)

var (
	buildDocID  string
	buildOutput string
)

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Build the index for one document and print it as JSON",
	Long: `Build parses a single document, runs the full hierarchy and chunk
build locally, and writes the result to stdout or a file. Page summaries
use placeholder text; no API keys or storage are required.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd, args[0])
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildDocID, "doc-id", "", "document id (defaults to the file name without extension)")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "write the result to a file instead of stdout")
}

func runBuild(cmd *cobra.Command, path string) error {
	log := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	p, err := parser.ForFile(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := p.Parse(f, path)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	docID := buildDocID
	if docID == "" {
		base := filepath.Base(path)
		docID = strings.TrimSuffix(base, filepath.Ext(base))
	}

	b := builder.New(builderConfig(cfg), summarize.Disabled{}, log)
	res, err := b.Build(cmd.Context(), docID, doc)
	if err != nil {
		return fmt.Errorf("build %s: %w", docID, err)
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if buildOutput != "" {
		if err := os.WriteFile(buildOutput, out, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", buildOutput, err)
		}
		log.Info("wrote index", "path", buildOutput, "doc_id", docID)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
