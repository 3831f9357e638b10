package service

import (
	"context"
	"runtime"

	"github.com/Aashish23092/access-key-extractor/dto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DocumentExtractor is the single-document operation a batch is made of.
type DocumentExtractor interface {
	ExtractFromPDF(ctx context.Context, doc dto.Document) (*dto.AccessKeyResult, error)
}

type BatchProcessor struct {
	extractor DocumentExtractor
	workers   int
	logger    *zap.Logger
}

// NewBatchProcessor runs at most workers documents at a time; zero or less
// means one per CPU.
func NewBatchProcessor(extractor DocumentExtractor, workers int, logger *zap.Logger) *BatchProcessor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		extractor: extractor,
		workers:   workers,
		logger:    logger,
	}
}

// ProcessBatch extracts every document and returns results in input order.
// A failing document is reported in its own result and never stops the
// others. Once ctx is done no further documents are started.
func (b *BatchProcessor) ProcessBatch(ctx context.Context, docs []dto.Document) *dto.BatchResponse {
	results := make([]dto.AccessKeyResult, len(docs))

	var g errgroup.Group
	g.SetLimit(b.workers)

	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			results[i] = failedResult(doc.Filename, err)
			continue
		}
		i, doc := i, doc
		g.Go(func() error {
			results[i] = b.processOne(ctx, doc)
			return nil
		})
	}
	_ = g.Wait()

	resp := &dto.BatchResponse{
		Results:     results,
		Summary:     summarize(results),
		ProcessedAt: now(),
	}
	b.logger.Info("batch processed",
		zap.Int("total", resp.Summary.Total),
		zap.Int("found", resp.Summary.Found),
		zap.Int("not_found", resp.Summary.NotFound),
		zap.Int("failed", resp.Summary.Failed))
	return resp
}

func (b *BatchProcessor) processOne(ctx context.Context, doc dto.Document) dto.AccessKeyResult {
	res, err := b.extractor.ExtractFromPDF(ctx, doc)
	if err != nil {
		return failedResult(doc.Filename, err)
	}
	return *res
}

func failedResult(filename string, err error) dto.AccessKeyResult {
	return dto.AccessKeyResult{
		Filename:    filename,
		Error:       err.Error(),
		ProcessedAt: now(),
	}
}

func summarize(results []dto.AccessKeyResult) dto.BatchSummary {
	summary := dto.BatchSummary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Error != "":
			summary.Failed++
		case r.Found:
			summary.Found++
		default:
			summary.NotFound++
		}
	}
	return summary
}
