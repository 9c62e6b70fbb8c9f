package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cargoflow/internal/config"
	"cargoflow/internal/domain"
	"cargoflow/internal/extractor"
	"cargoflow/internal/port"
)

// ProcessResult is returned to the caller of ProcessQueueItem.
type ProcessResult struct {
	Extraction       extractor.Result `json:"-"`
	DocumentType     string           `json:"document_type"`
	Confidence       float64          `json:"confidence"`
	Matches          MatchedEntities  `json:"matches"`
	AutoActions      []AutoAction     `json:"auto_actions"`
	NeedsReview      bool             `json:"needs_review"`
	ProcessingTimeMs int64            `json:"processing_time_ms"`
}

// ExtractionService processes uploaded documents end-to-end.
type ExtractionService interface {
	ProcessQueueItem(ctx context.Context, queueID uuid.UUID, filePath string) (*ProcessResult, error)
}

type extractionService struct {
	queue     port.QueueRepository
	storage   port.ObjectStorage
	extractor port.Extractor
	matcher   *EntityMatcher
	applier   *ActionApplier
	notifier  port.Notifier
	bucket    string
	cfg       config.PipelineConfig
	logger    zerolog.Logger
}

// NewExtractionService creates the extraction queue processor.
func NewExtractionService(
	queue port.QueueRepository,
	storage port.ObjectStorage,
	ext port.Extractor,
	matcher *EntityMatcher,
	applier *ActionApplier,
	notifier port.Notifier,
	bucket string,
	cfg config.PipelineConfig,
	logger zerolog.Logger,
) ExtractionService {
	return &extractionService{
		queue:     queue,
		storage:   storage,
		extractor: ext,
		matcher:   matcher,
		applier:   applier,
		notifier:  notifier,
		bucket:    bucket,
		cfg:       cfg,
		logger:    logger,
	}
}

// ProcessQueueItem runs one queue item through the pipeline:
// queued -> processing -> completed | needs_review | failed.
// Every error path marks the item failed before returning, so an item can
// never be left stuck in processing. Retry policy belongs to the caller.
func (s *extractionService) ProcessQueueItem(ctx context.Context, queueID uuid.UUID, filePath string) (*ProcessResult, error) {
	item, err := s.queue.GetByID(ctx, queueID)
	if err != nil {
		return nil, err
	}
	if item.Status == domain.QueueStatusProcessing {
		return nil, fmt.Errorf("queue item %s: %w", item.ID, domain.ErrItemNotQueued)
	}
	if filePath == "" {
		filePath = item.FilePath
	}

	start := time.Now().UTC()
	item.Status = domain.QueueStatusProcessing
	item.ProcessingStartedAt = &start
	if err := s.queue.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("marking item processing: %w", err)
	}

	fileBytes, err := s.storage.Download(ctx, s.bucket, filePath)
	if err != nil {
		return nil, s.failItem(ctx, item, start, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err))
	}

	output, err := s.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:   fileBytes,
		ContentType: contentTypeForPath(filePath),
	})
	if err != nil {
		return nil, s.failItem(ctx, item, start, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err))
	}

	// A malformed completion degrades to unknown/zero-confidence instead of
	// failing the item.
	result := extractor.ParseCompletion(output.Text)

	matches := s.matcher.Match(ctx, result.Fields)

	// ReviewThreshold is a hard floor: even a lowered auto-apply threshold
	// never lets a sub-floor extraction write records.
	needsReview := result.Confidence < s.cfg.AutoApplyThreshold ||
		result.Confidence < s.cfg.ReviewThreshold

	var actions []AutoAction
	if !needsReview {
		actions, err = s.applier.Apply(ctx, result.DocumentType, result.Fields, matches, result.Confidence)
		if err != nil {
			return nil, s.failItem(ctx, item, start, fmt.Errorf("applying auto-actions: %w", err))
		}
	}

	completed := time.Now().UTC()
	elapsed := completed.Sub(start).Milliseconds()

	item.Status = domain.QueueStatusCompleted
	if needsReview {
		item.Status = domain.QueueStatusNeedsReview
	}
	item.RawText = truncateText(result.RawText, s.cfg.RawTextCap)
	item.ExtractedFields = marshalOrDefault(result.Data, "{}")
	item.Confidence = result.Confidence
	item.DocumentType = result.DocumentType
	item.MatchedSupplierID = matches.SupplierID
	item.MatchedShipmentID = matches.ShipmentID
	item.MatchedClientID = matches.ClientID
	item.AutoActions = marshalOrDefault(actions, "[]")
	item.NeedsHumanReview = needsReview
	item.ErrorMessage = nil
	item.ProcessingCompletedAt = &completed
	item.ProcessingMs = &elapsed

	if err := s.queue.Update(ctx, item); err != nil {
		return nil, s.failItem(ctx, item, start, fmt.Errorf("persisting result: %w", err))
	}

	s.notifyOutcome(ctx, item, matches, actions, needsReview)

	return &ProcessResult{
		Extraction:       result,
		DocumentType:     result.DocumentType,
		Confidence:       result.Confidence,
		Matches:          matches,
		AutoActions:      actions,
		NeedsReview:      needsReview,
		ProcessingTimeMs: elapsed,
	}, nil
}

// failItem transitions the item to failed with the captured failure and
// returns an error that wraps it, so callers can match sentinel causes.
func (s *extractionService) failItem(ctx context.Context, item *domain.ExtractionQueueItem, start time.Time, failure error) error {
	msg := failure.Error()
	s.logger.Error().Str("queue_id", item.ID.String()).Str("error", msg).Msg("queue item failed")

	completed := time.Now().UTC()
	elapsed := completed.Sub(start).Milliseconds()

	item.Status = domain.QueueStatusFailed
	item.ErrorMessage = &msg
	item.ProcessingCompletedAt = &completed
	item.ProcessingMs = &elapsed
	if err := s.queue.Update(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("queue_id", item.ID.String()).Msg("failed to persist failed status")
	}
	return fmt.Errorf("processing queue item %s: %w", item.ID, failure)
}

// notifyOutcome sends the best-effort review / auto-processed notifications.
// Failures are logged and never change the item's persisted status.
func (s *extractionService) notifyOutcome(ctx context.Context, item *domain.ExtractionQueueItem, matches MatchedEntities, actions []AutoAction, needsReview bool) {
	if needsReview {
		n := port.Notification{
			Type:     "document_review",
			Title:    "Document needs review",
			Message:  fmt.Sprintf("Document %s classified as %s with confidence %.2f and needs human review.", item.FilePath, item.DocumentType, item.Confidence),
			Priority: "warning",
		}
		if err := s.notifier.Send(ctx, n); err != nil {
			s.logger.Warn().Err(err).Str("queue_id", item.ID.String()).Msg("review notification failed")
		}
	}

	if len(actions) > 0 {
		names := make([]string, len(actions))
		for i, a := range actions {
			names[i] = a.Action
		}
		n := port.Notification{
			Type:     "document_processed",
			Title:    "Document auto-processed",
			Message:  fmt.Sprintf("Document %s (%s, shipment %s) applied: %s.", item.FilePath, item.DocumentType, matches.ShipmentReference, strings.Join(names, ", ")),
			Priority: "info",
		}
		if err := s.notifier.Send(ctx, n); err != nil {
			s.logger.Warn().Err(err).Str("queue_id", item.ID.String()).Msg("auto-processed notification failed")
		}
	}
}

// contentTypeForPath selects the MIME type sent to the extraction API from
// the file extension.
func contentTypeForPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ct, ok := domain.ContentTypeByExtension[ext]; ok {
		return ct
	}
	return domain.ContentTypeBinary
}

// truncateText cuts s to at most maxLen bytes without splitting a rune, so
// the stored text stays valid UTF-8.
func truncateText(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func marshalOrDefault(v any, fallback string) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return json.RawMessage(fallback)
	}
	return b
}
