package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Cnoccir/docindex/internal/api"
	"github.com/Cnoccir/docindex/internal/builder"
	"github.com/Cnoccir/docindex/internal/config"
	"github.com/Cnoccir/docindex/internal/pipeline"
	"github.com/Cnoccir/docindex/internal/store"
	"github.com/Cnoccir/docindex/internal/summarize"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ingestion API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	log := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	st := store.NewClient(cfg.StoreURL, cfg.StoreAPIKey)

	var claude *summarize.ClaudeClient
	var summarizer summarize.Summarizer = summarize.Disabled{}
	if cfg.AnthropicAPIKey != "" {
		claude = summarize.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		summarizer = claude
	} else {
		log.Info("no anthropic key, page summaries use placeholder text")
	}

	b := builder.New(builderConfig(cfg), summarizer, log)

	orch := pipeline.NewOrchestrator(cfg, b, st, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, claude, log, cfg)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)

		if claude != nil {
			claude.Close()
		}
		st.Close()
	}()

	log.Info("starting docindex", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func builderConfig(cfg config.Config) builder.Config {
	bc := builder.DefaultConfig()
	bc.Chunker.TargetSize = cfg.ChunkTargetSize
	bc.Chunker.MaxSize = cfg.ChunkMaxSize
	bc.Chunker.MinViable = cfg.ChunkMinViable
	bc.Sections.AcceptThreshold = cfg.MatchAcceptScore
	return bc
}
