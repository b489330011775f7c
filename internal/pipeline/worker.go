package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Cnoccir/docindex/internal/builder"
	"github.com/Cnoccir/docindex/internal/parser"
	"github.com/Cnoccir/docindex/internal/store"
)

// Worker processes a single document job.
type Worker struct {
	builder    *builder.Builder
	store      *store.Client
	parserOpts parser.Options
	log        *slog.Logger
}

func NewWorker(b *builder.Builder, st *store.Client, popts parser.Options, log *slog.Logger) *Worker {
	return &Worker{
		builder:    b,
		store:      st,
		parserOpts: popts,
		log:        log,
	}
}

// StoredDocument is the payload written to storage for one document.
type StoredDocument struct {
	DocID       string    `json:"doc_id"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash"`
	CreatedAt   time.Time `json:"created_at"`

	*builder.Result
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFileWith(job.Filename, w.parserOpts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	data := job.FileData()
	doc, err := p.Parse(bytes.NewReader(data), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	job.SetContentHash(ContentHashHex(data))

	// Phase 1.5: Dedup check
	existing, err := w.store.FindByHash(ctx, job.ContentHash)
	if err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if existing != "" {
		if !job.ForceReprocess {
			log.Info("duplicate document, skipping", "existing_doc_id", existing)
			job.SetStatus(StatusDupSkipped, "dedup")
			return
		}
		log.Info("reprocessing duplicate, removing previous", "existing_doc_id", existing)
		if err := w.store.DeleteDocument(ctx, existing); err != nil {
			log.Warn("delete previous document failed", "error", err)
		}
	}

	// Phase 2: Build hierarchy, chunks, and indexes.
	job.SetStatus(StatusBuilding, "building")
	res, err := w.builder.Build(ctx, job.DocID, doc)
	if err != nil {
		log.Error("build failed", "error", err)
		job.AddError(fmt.Sprintf("build: %s", err))
		job.SetStatus(StatusFailed, "building")
		return
	}
	job.AddWarnings(res.Warnings)
	job.SetCounts(
		res.Hierarchy.PageCount,
		res.Hierarchy.SectionCount,
		res.Hierarchy.ChunkCount,
		len(res.Assets.Images),
		len(res.Assets.Tables),
	)
	log.Info("build complete",
		"pages", res.Hierarchy.PageCount,
		"sections", res.Hierarchy.SectionCount,
		"chunks", res.Hierarchy.ChunkCount)

	// Phase 3: Store as one atomic document write.
	job.SetStatus(StatusStoring, "storing")
	payload := StoredDocument{
		DocID:       job.DocID,
		Filename:    job.Filename,
		ContentHash: job.ContentHash,
		CreatedAt:   job.CreatedAt,
		Result:      res,
	}
	if err := w.store.PutDocument(ctx, job.DocID, payload); err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	job.SetStatus(StatusCompleted, "done")
}
