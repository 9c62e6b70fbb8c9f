package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"cargoflow/internal/domain"
	"cargoflow/internal/port"
)

type queueRepo struct {
	db *sqlx.DB
}

// NewQueueRepo creates a new PostgreSQL-backed QueueRepository.
func NewQueueRepo(db *sqlx.DB) port.QueueRepository {
	return &queueRepo{db: db}
}

func (r *queueRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionQueueItem, error) {
	var item domain.ExtractionQueueItem
	err := r.db.GetContext(ctx, &item,
		"SELECT * FROM extraction_queue WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQueueItemNotFound
		}
		return nil, fmt.Errorf("queueRepo.GetByID: %w", err)
	}
	return &item, nil
}

func (r *queueRepo) Update(ctx context.Context, item *domain.ExtractionQueueItem) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE extraction_queue SET
			status = $1, raw_text = $2, extracted_fields = $3, confidence = $4,
			document_type = $5, matched_supplier_id = $6, matched_shipment_id = $7,
			matched_client_id = $8, auto_actions = $9, needs_human_review = $10,
			error_message = $11, processing_started_at = $12,
			processing_completed_at = $13, processing_ms = $14
		 WHERE id = $15`,
		item.Status, item.RawText, item.ExtractedFields, item.Confidence,
		item.DocumentType, item.MatchedSupplierID, item.MatchedShipmentID,
		item.MatchedClientID, item.AutoActions, item.NeedsHumanReview,
		item.ErrorMessage, item.ProcessingStartedAt,
		item.ProcessingCompletedAt, item.ProcessingMs,
		item.ID)
	if err != nil {
		return fmt.Errorf("queueRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrQueueItemNotFound
	}
	return nil
}
